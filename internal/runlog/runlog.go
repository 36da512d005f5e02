package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const banner = "TTS Generation Log"

// entry 单条运行记录
type entry struct {
	at       time.Time
	message  string
	duration float64 // 段落音频时长（秒），0 表示无时长信息
	path     string  // 段落音频文件路径（可选）
}

// Report 一次朗读任务的运行报告
// 记录带时间戳的事件并在结束时写出可读的日志文件。
// 时间戳相对会话开始时刻渲染为 [HH:MM:SS]。
// Report 由流水线独占持有，非并发安全。
type Report struct {
	path    string
	start   time.Time
	last    time.Time
	entries []entry

	now func() time.Time // 便于测试注入时钟
}

// New 创建运行报告，会话开始时刻即创建时刻
func New(path string) *Report {
	r := &Report{
		path: path,
		now:  time.Now,
	}
	r.start = r.now()
	r.last = r.start
	return r
}

func (r *Report) append(e entry) {
	e.at = r.now()
	r.last = e.at
	r.entries = append(r.entries, e)
}

// Header 记录一个标题事件
func (r *Report) Header(header string) {
	r.append(entry{message: fmt.Sprintf("# %s", header)})
}

// SegmentStart 记录段落合成开始
func (r *Report) SegmentStart(text, header string) {
	message := "Segment started"
	if header != "" {
		message += fmt.Sprintf(" (under header: %s)", header)
	}
	r.append(entry{message: message})
}

// SegmentEnd 记录段落合成结束及其音频时长
func (r *Report) SegmentEnd(duration float64, path string) {
	r.append(entry{
		message:  fmt.Sprintf("Segment finished (duration: %.2fs)", duration),
		duration: duration,
		path:     path,
	})
}

// Info 记录一条普通信息
func (r *Report) Info(message string) {
	r.append(entry{message: message})
}

// TotalDuration 所有段落音频时长之和（秒）
func (r *Report) TotalDuration() float64 {
	var total float64
	for _, e := range r.entries {
		total += e.duration
	}
	return total
}

// formatOffset 将时刻渲染为相对会话开始的 [HH:MM:SS]
func (r *Report) formatOffset(t time.Time) string {
	total := int(t.Sub(r.start).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("[%02d:%02d:%02d]", hours, minutes, seconds)
}

// Write 将全部记录写出到日志文件
// 没有任何记录时不产生文件
func (r *Report) Write() error {
	if len(r.entries) == 0 {
		return nil
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	var b strings.Builder
	b.WriteString(banner + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, e := range r.entries {
		fmt.Fprintf(&b, "%s %s\n", r.formatOffset(e.at), e.message)
		if e.path != "" {
			fmt.Fprintf(&b, "  File: %s\n", e.path)
		}
	}

	total := r.TotalDuration()
	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total duration: %.2f seconds (%.2f minutes)\n", total, total/60)
	fmt.Fprintf(&b, "Total processing time: %.2f seconds\n", r.last.Sub(r.start).Seconds())

	if err := os.WriteFile(r.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	return nil
}
