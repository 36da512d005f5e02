package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock 每次读取前进固定步长
type fakeClock struct {
	current time.Time
	step    time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.current
	c.current = c.current.Add(c.step)
	return t
}

func newTestReport(path string, step time.Duration) *Report {
	clock := &fakeClock{
		current: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC),
		step:    step,
	}
	r := &Report{path: path, now: clock.now}
	r.start = r.now()
	r.last = r.start
	return r
}

func TestReport_Write(t *testing.T) {
	Convey("Report.Write 输出固定格式的运行日志", t, func() {
		Convey("完整流程的日志布局", func() {
			path := filepath.Join(t.TempDir(), "logs", "tts_log.txt")
			r := newTestReport(path, 2*time.Second)

			r.Info("Starting text parsing...")
			r.Header("Intro")
			r.SegmentStart("Hello world.", "Intro")
			r.SegmentEnd(1.5, "outputs/segments/segment_0001.mp3")
			r.SegmentStart("Another sentence.", "Intro")
			r.SegmentEnd(2.25, "outputs/segments/segment_0002.mp3")

			So(r.Write(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			content := string(data)

			lines := strings.Split(content, "\n")
			So(lines[0], ShouldEqual, "TTS Generation Log")
			So(lines[1], ShouldEqual, strings.Repeat("=", 50))
			So(lines[2], ShouldBeEmpty)

			// 时间戳相对会话开始，每次记录前进 2 秒
			So(lines[3], ShouldEqual, "[00:00:02] Starting text parsing...")
			So(lines[4], ShouldEqual, "[00:00:04] # Intro")
			So(lines[5], ShouldEqual, "[00:00:06] Segment started (under header: Intro)")
			So(lines[6], ShouldEqual, "[00:00:08] Segment finished (duration: 1.50s)")
			So(lines[7], ShouldEqual, "  File: outputs/segments/segment_0001.mp3")

			So(content, ShouldContainSubstring, "Total duration: 3.75 seconds (0.06 minutes)")
			So(content, ShouldContainSubstring, "Total processing time: 12.00 seconds")
		})

		Convey("没有记录时不产生文件", func() {
			path := filepath.Join(t.TempDir(), "empty.txt")
			r := newTestReport(path, time.Second)

			So(r.Write(), ShouldBeNil)

			_, err := os.Stat(path)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("无标题的段落开始事件不带 header 后缀", func() {
			path := filepath.Join(t.TempDir(), "log.txt")
			r := newTestReport(path, time.Second)

			r.SegmentStart("text", "")
			So(r.Write(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "[00:00:01] Segment started\n")
			So(string(data), ShouldNotContainSubstring, "under header")
		})
	})
}

func TestReport_TotalDuration(t *testing.T) {
	Convey("TotalDuration 累加所有段落时长", t, func() {
		r := New(filepath.Join(t.TempDir(), "log.txt"))
		So(r.TotalDuration(), ShouldEqual, 0)

		r.SegmentEnd(1.5, "a.mp3")
		r.SegmentEnd(2.5, "b.mp3")
		r.Info("not a segment")
		So(r.TotalDuration(), ShouldAlmostEqual, 4.0, 0.0001)
	})
}

func TestReport_FormatOffset(t *testing.T) {
	Convey("formatOffset 渲染相对时间戳", t, func() {
		r := New(filepath.Join(t.TempDir(), "log.txt"))

		So(r.formatOffset(r.start), ShouldEqual, "[00:00:00]")
		So(r.formatOffset(r.start.Add(59*time.Second)), ShouldEqual, "[00:00:59]")
		So(r.formatOffset(r.start.Add(61*time.Second)), ShouldEqual, "[00:01:01]")
		So(r.formatOffset(r.start.Add(3723*time.Second)), ShouldEqual, "[01:02:03]")
	})
}
