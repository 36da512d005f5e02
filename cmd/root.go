package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"narrato/internal/config"
	"narrato/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "narrato",
	Short: "Narrato - text to narrated audio",
	Long: `Narrato converts a text document into a single narrated audio file.
It splits the input by markdown headers and sentence punctuation, synthesizes
each segment with a pluggable TTS engine, and stitches the clips into one
normalized track with a timestamped run log.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.narrato")
	}

	// 环境变量设置
	viper.SetEnvPrefix("NARRATO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Text
	viper.SetDefault("text.split_by_headers", true)
	viper.SetDefault("text.split_by_punctuation", true)
	viper.SetDefault("text.min_segment_length", 50)

	// TTS
	viper.SetDefault("tts.engine", "volcano")
	viper.SetDefault("tts.volcano.api_url", "https://openspeech.bytedance.com/api/v1/tts")
	viper.SetDefault("tts.volcano.cluster", "volcano_tts")
	viper.SetDefault("tts.volcano.voice_type", "BV115_streaming")
	viper.SetDefault("tts.volcano.sample_rate", 44100)
	viper.SetDefault("tts.elevenlabs.api_url", "https://api.elevenlabs.io/v1")
	viper.SetDefault("tts.elevenlabs.voice_id", "21m00Tcm4TlvDq8ikWAM")
	viper.SetDefault("tts.elevenlabs.model_id", "eleven_monolingual_v1")

	// Voice
	viper.SetDefault("voice.speed", 1.0)

	// Output
	viper.SetDefault("output.normalize_audio", true)

	// Paths
	viper.SetDefault("paths.input_file", "input.txt")
	viper.SetDefault("paths.segments_dir", "outputs/segments")
	viper.SetDefault("paths.final_output", "outputs/output.wav")
	viper.SetDefault("paths.log_file", "outputs/tts_log.txt")

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// Storage / Upload
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("upload.enabled", false)
	viper.SetDefault("upload.prefix", "narrato")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
