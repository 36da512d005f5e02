package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"narrato/internal/config"
	"narrato/internal/pkg/ffmpeg"
	"narrato/internal/pkg/storage"
	"narrato/internal/pkg/texttools"
	"narrato/internal/pkg/tts"
	"narrato/internal/runlog"
)

// Combiner 音频合并接口（由 ffmpeg.Client 实现，便于单测替换）
type Combiner interface {
	ConcatAudio(ctx context.Context, audioPaths []string, outputPath string, normalize bool) error
}

// AudioProber 音频时长探测接口（由 ffmpeg.Client 实现）
type AudioProber interface {
	GetAudioInfo(ctx context.Context, audioPath string) (*ffmpeg.AudioInfo, error)
}

// Result 一次朗读任务的结果
type Result struct {
	SegmentFiles  []string // 按顺序生成的段落音频文件
	FinalOutput   string   // 合成音频文件路径
	TotalDuration float64  // 总音频时长（秒）
}

// NarrationService 朗读流水线
// 顺序执行：切分 → 逐段合成 → 合并 → 写运行日志，无并发
type NarrationService struct {
	cfg       *config.Config
	segmenter *texttools.Segmenter
	engine    tts.Engine
	combiner  Combiner
	prober    AudioProber
	store     storage.Storage // 可为 nil（不上传结果）
}

// NewNarrationService 创建朗读流水线
func NewNarrationService(cfg *config.Config, engine tts.Engine, combiner Combiner, prober AudioProber, store storage.Storage) *NarrationService {
	segmenter := texttools.NewSegmenter()
	segmenter.SetSplitByHeaders(cfg.Text.SplitByHeaders)
	segmenter.SetSplitByPunctuation(cfg.Text.SplitByPunctuation)
	segmenter.SetMinSegmentLength(cfg.Text.MinSegmentLength)

	return &NarrationService{
		cfg:       cfg,
		segmenter: segmenter,
		engine:    engine,
		combiner:  combiner,
		prober:    prober,
		store:     store,
	}
}

// Run 执行完整的朗读流水线
//
// 单个段落的合成失败只记录并跳过，流水线继续处理后续段落；
// 一个段落都没有生成时整个任务失败。
func (s *NarrationService) Run(ctx context.Context, text string) (*Result, error) {
	report := runlog.New(s.cfg.Paths.LogFile)

	report.Info("Starting text parsing...")
	segments := s.segmenter.Parse(text)
	report.Info(fmt.Sprintf("Parsed text into %d segments", len(segments)))

	log.Info().
		Int("segments", len(segments)).
		Str("engine", s.engine.Name()).
		Msg("text parsed")

	if err := os.MkdirAll(s.cfg.Paths.SegmentsDir, 0755); err != nil {
		return nil, fmt.Errorf("create segments directory: %w", err)
	}

	var clipPaths []string
	for i, seg := range segments {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("narration interrupted: %w", ctx.Err())
		}

		if seg.IsHeader {
			report.Header(seg.Text)
			continue
		}

		report.SegmentStart(seg.Text, seg.Header)

		clipPath := filepath.Join(s.cfg.Paths.SegmentsDir,
			fmt.Sprintf("segment_%04d%s", i, s.engine.FileExt()))

		duration, err := s.engine.Synthesize(ctx, seg.Text, clipPath, s.cfg.Voice.Speaker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("narration interrupted: %w", ctx.Err())
			}
			// 单段失败不致命：记录并继续
			report.Info(fmt.Sprintf("Error processing segment %d: %v", i, err))
			log.Warn().Err(err).Int("segment", i).Msg("segment synthesis failed, skipping")
			continue
		}

		// 引擎未返回时长时用 ffprobe 探测
		if duration == 0 {
			if info, perr := s.prober.GetAudioInfo(ctx, clipPath); perr == nil {
				duration = info.Duration
			} else {
				log.Warn().Err(perr).Str("clip", clipPath).Msg("failed to probe clip duration")
			}
		}

		clipPaths = append(clipPaths, clipPath)
		report.SegmentEnd(duration, clipPath)

		log.Info().
			Int("segment", i+1).
			Int("total", len(segments)).
			Float64("duration", duration).
			Msg("segment generated")
	}

	if len(clipPaths) == 0 {
		return nil, fmt.Errorf("no audio segments were generated")
	}

	if err := s.combiner.ConcatAudio(ctx, clipPaths, s.cfg.Paths.FinalOutput, s.cfg.Output.NormalizeAudio); err != nil {
		return nil, fmt.Errorf("combine audio segments: %w", err)
	}

	report.Info(fmt.Sprintf("Final audio file: %s", s.cfg.Paths.FinalOutput))
	if err := report.Write(); err != nil {
		return nil, fmt.Errorf("write run log: %w", err)
	}

	if s.cfg.Upload.Enabled && s.store != nil {
		// 上传失败不致命：朗读结果已经在本地生成
		s.uploadResults(ctx)
	}

	return &Result{
		SegmentFiles:  clipPaths,
		FinalOutput:   s.cfg.Paths.FinalOutput,
		TotalDuration: report.TotalDuration(),
	}, nil
}

// uploadResults 将最终音频和运行日志归档到存储
func (s *NarrationService) uploadResults(ctx context.Context) {
	uploads := []struct {
		localPath   string
		contentType string
	}{
		{s.cfg.Paths.FinalOutput, "audio/wav"},
		{s.cfg.Paths.LogFile, "text/plain"},
	}

	for _, u := range uploads {
		file, err := os.Open(u.localPath)
		if err != nil {
			log.Warn().Err(err).Str("path", u.localPath).Msg("skip upload, cannot open file")
			continue
		}

		key := path.Join(s.cfg.Upload.Prefix, filepath.Base(u.localPath))
		url, err := s.store.Upload(ctx, key, file, u.contentType)
		file.Close()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to upload result")
			continue
		}

		log.Info().Str("key", key).Str("url", url).Msg("result uploaded")
	}
}
