package config

import (
	"errors"
	"fmt"
)

// Config 应用配置根结构
type Config struct {
	Text    TextConfig    `mapstructure:"text"`
	TTS     TTSConfig     `mapstructure:"tts"`
	Voice   VoiceConfig   `mapstructure:"voice"`
	Output  OutputConfig  `mapstructure:"output"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  UploadConfig  `mapstructure:"upload"`
}

// TextConfig 文本切分配置
type TextConfig struct {
	SplitByHeaders     bool `mapstructure:"split_by_headers"`     // 是否按 Markdown 标题切分
	SplitByPunctuation bool `mapstructure:"split_by_punctuation"` // 是否按句末标点切分
	MinSegmentLength   int  `mapstructure:"min_segment_length"`   // 最小段落长度（字符数）
}

// TTSConfig TTS 引擎配置
type TTSConfig struct {
	Engine     string           `mapstructure:"engine"` // volcano / elevenlabs
	Volcano    VolcanoConfig    `mapstructure:"volcano"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
}

// VolcanoConfig 火山引擎 TTS 配置
type VolcanoConfig struct {
	APIURL      string `mapstructure:"api_url"`      // API 地址
	AccessToken string `mapstructure:"access_token"` // 访问令牌（必需）
	AppID       string `mapstructure:"app_id"`       // 应用ID（可选）
	Cluster     string `mapstructure:"cluster"`      // 集群名称
	VoiceType   string `mapstructure:"voice_type"`   // 语音类型
	SampleRate  int    `mapstructure:"sample_rate"`  // 采样率
}

// ElevenLabsConfig ElevenLabs TTS 配置
type ElevenLabsConfig struct {
	APIURL  string `mapstructure:"api_url"`  // API 地址
	APIKey  string `mapstructure:"api_key"`  // API Key（必需）
	VoiceID string `mapstructure:"voice_id"` // 语音ID
	ModelID string `mapstructure:"model_id"` // 模型ID
}

// VoiceConfig 语音参数
type VoiceConfig struct {
	Speaker string  `mapstructure:"speaker"` // 说话人（覆盖引擎默认语音）
	Speed   float64 `mapstructure:"speed"`   // 语速比例（1.0 为原速）
}

// OutputConfig 输出配置
type OutputConfig struct {
	NormalizeAudio bool `mapstructure:"normalize_audio"` // 是否做响度归一化
}

// PathsConfig 路径配置
type PathsConfig struct {
	InputFile   string `mapstructure:"input_file"`   // 输入文本文件
	SegmentsDir string `mapstructure:"segments_dir"` // 分段音频输出目录
	FinalOutput string `mapstructure:"final_output"` // 合成音频输出路径
	LogFile     string `mapstructure:"log_file"`     // 运行日志输出路径
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StorageConfig 存储配置（用于结果上传）
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// UploadConfig 结果上传配置
type UploadConfig struct {
	Enabled bool   `mapstructure:"enabled"` // 是否上传最终音频和日志
	Prefix  string `mapstructure:"prefix"`  // 上传路径前缀
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	validEngines := map[string]bool{"volcano": true, "elevenlabs": true}
	if !validEngines[c.TTS.Engine] {
		return fmt.Errorf("invalid tts engine %q, must be volcano/elevenlabs", c.TTS.Engine)
	}

	if c.Text.MinSegmentLength < 0 {
		return errors.New("text.min_segment_length must be >= 0")
	}

	if c.Voice.Speed <= 0 {
		return errors.New("voice.speed must be > 0")
	}

	if c.Paths.FinalOutput == "" {
		return errors.New("paths.final_output is required")
	}
	if c.Paths.SegmentsDir == "" {
		return errors.New("paths.segments_dir is required")
	}

	if c.Upload.Enabled {
		validTypes := map[string]bool{"local": true, "oss": true}
		if !validTypes[c.Storage.Type] {
			return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
		}
	}

	return nil
}
