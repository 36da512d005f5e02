package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrato/internal/pkg/ffmpeg"
	"narrato/internal/pkg/storage"
	"narrato/internal/pkg/storagefactory"
	"narrato/internal/pkg/ttsfactory"
	"narrato/internal/service"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate narrated audio from a text document",
	Long: `Read a text document, split it into segments, synthesize each segment
with the configured TTS engine and combine the clips into one audio file.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()

	flags.StringP("text", "t", "", "path to input text file")
	flags.StringP("output", "o", "", "path to final audio file")
	flags.String("engine", "", "TTS engine (volcano/elevenlabs)")
	flags.String("voice", "", "override voice/speaker from config")
	flags.Float64("rate", 0, "override speech speed from config")
	flags.Bool("normalize", true, "normalize loudness of the combined audio")
	flags.Int("min-length", 0, "minimum segment length in characters")

	// Bind flags to viper
	_ = viper.BindPFlag("paths.input_file", flags.Lookup("text"))
	_ = viper.BindPFlag("paths.final_output", flags.Lookup("output"))
	_ = viper.BindPFlag("tts.engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("voice.speaker", flags.Lookup("voice"))
	_ = viper.BindPFlag("voice.speed", flags.Lookup("rate"))
	_ = viper.BindPFlag("output.normalize_audio", flags.Lookup("normalize"))
	_ = viper.BindPFlag("text.min_segment_length", flags.Lookup("min-length"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Read input text
	text, err := os.ReadFile(cfg.Paths.InputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", cfg.Paths.InputFile, err)
	}

	// Create TTS engine
	engine, err := ttsfactory.NewEngine(&cfg.TTS, &cfg.Voice)
	if err != nil {
		return fmt.Errorf("failed to create TTS engine: %w", err)
	}

	// Create result storage when upload is enabled
	var store storage.Storage
	if cfg.Upload.Enabled {
		store, err = storagefactory.NewStorage(&cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
	}

	ffmpegClient := ffmpeg.NewClient()
	svc := service.NewNarrationService(cfg, engine, ffmpegClient, ffmpegClient, store)

	// Graceful interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received interrupt signal")
		cancel()
	}()

	log.Info().
		Str("input", cfg.Paths.InputFile).
		Int("text_len", len(text)).
		Str("engine", engine.Name()).
		Msg("starting narration")

	result, err := svc.Run(ctx, string(text))
	if err != nil {
		if ctx.Err() != nil {
			log.Warn().Msg("narration interrupted by user")
		}
		return err
	}

	log.Info().
		Int("segments", len(result.SegmentFiles)).
		Str("output", result.FinalOutput).
		Float64("total_duration_s", result.TotalDuration).
		Float64("total_duration_min", result.TotalDuration/60).
		Msg("narration complete")

	return nil
}
