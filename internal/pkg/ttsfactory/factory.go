package ttsfactory

import (
	"fmt"

	"narrato/internal/config"
	"narrato/internal/pkg/tts"
)

// NewEngine 根据配置创建 TTS 引擎实例
func NewEngine(cfg *config.TTSConfig, voice *config.VoiceConfig) (tts.Engine, error) {
	switch cfg.Engine {
	case "volcano":
		return tts.NewVolcanoEngine(tts.VolcanoConfig{
			APIURL:      cfg.Volcano.APIURL,
			AccessToken: cfg.Volcano.AccessToken,
			AppID:       cfg.Volcano.AppID,
			Cluster:     cfg.Volcano.Cluster,
			VoiceType:   cfg.Volcano.VoiceType,
			SampleRate:  cfg.Volcano.SampleRate,
			SpeedRatio:  voice.Speed,
		})
	case "elevenlabs":
		return tts.NewElevenLabsEngine(tts.ElevenLabsConfig{
			APIURL:  cfg.ElevenLabs.APIURL,
			APIKey:  cfg.ElevenLabs.APIKey,
			VoiceID: cfg.ElevenLabs.VoiceID,
			ModelID: cfg.ElevenLabs.ModelID,
		})
	default:
		return nil, fmt.Errorf("unsupported tts engine: %s", cfg.Engine)
	}
}
