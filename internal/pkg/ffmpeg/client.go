package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"narrato/internal/pkg/id"
)

// loudnorm 滤镜参数（广播响度标准）
const loudnormFilter = "loudnorm=I=-16:TP=-1.5:LRA=11"

// 合成输出的音频参数：16bit PCM / 22050Hz / 单声道
const (
	outputCodec      = "pcm_s16le"
	outputSampleRate = "22050"
	outputChannels   = "1"
)

// Client FFmpeg 客户端
// 用于封装 FFmpeg 命令调用
type Client struct {
	ffmpegPath  string // FFmpeg 可执行文件路径（默认: ffmpeg）
	ffprobePath string // FFprobe 可执行文件路径（默认: ffprobe）
}

// NewClient 创建 FFmpeg 客户端
func NewClient() *Client {
	ffmpegPath := os.Getenv("FFMPEG_PATH")
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	ffprobePath := os.Getenv("FFPROBE_PATH")
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	return &Client{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// AudioInfo 音频信息
type AudioInfo struct {
	Duration float64 // 时长（秒）
}

// GetAudioInfo 获取音频信息
func (c *Client) GetAudioInfo(ctx context.Context, audioPath string) (*AudioInfo, error) {
	// 使用 ffprobe 获取音频时长
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		audioPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return &AudioInfo{Duration: parseProbeDuration(string(output))}, nil
}

// parseProbeDuration 从 ffprobe 的 JSON 输出中解析时长
// ffprobe 将时长输出为字符串，如 "duration": "12.345000"
func parseProbeDuration(output string) float64 {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(output), &probe); err != nil {
		return 0
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0
	}
	return duration
}

// ConcatAudio 按顺序合并多个音频文件为一个文件
// 使用 concat demuxer（需要创建 concat list 文件）
// normalize 为 true 时对合并结果做响度归一化
func (c *Client) ConcatAudio(ctx context.Context, audioPaths []string, outputPath string, normalize bool) error {
	if len(audioPaths) == 0 {
		return fmt.Errorf("no audio files to concat")
	}

	// 确保输出目录存在
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	// 创建 concat list 文件
	concatListFile := filepath.Join(filepath.Dir(outputPath),
		fmt.Sprintf("concat_list_%s.txt", id.Short()))

	file, err := os.Create(concatListFile)
	if err != nil {
		return fmt.Errorf("create concat list file: %w", err)
	}
	defer os.Remove(concatListFile) // 清理临时文件

	for _, audioPath := range audioPaths {
		absPath, err := filepath.Abs(audioPath)
		if err != nil {
			file.Close()
			return fmt.Errorf("get absolute path: %w", err)
		}
		// 单引号转义，避免路径中的引号破坏 concat list 语法
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		fmt.Fprintf(file, "file '%s'\n", escaped)
	}
	file.Close()

	// 构建 FFmpeg 命令
	// ffmpeg -y -f concat -safe 0 -i concat_list.txt -acodec pcm_s16le -ar 22050 -ac 1 [-filter:a loudnorm] output.wav
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", concatListFile,
		"-acodec", outputCodec,
		"-ar", outputSampleRate,
		"-ac", outputChannels,
	}
	if normalize {
		args = append(args, "-filter:a", loudnormFilter)
	}
	args = append(args, outputPath)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	log.Info().
		Int("count", len(audioPaths)).
		Str("output", outputPath).
		Bool("normalize", normalize).
		Msg("音频合并成功")

	return nil
}
