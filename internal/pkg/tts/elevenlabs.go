package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultElevenLabsAPIURL  = "https://api.elevenlabs.io/v1"
	defaultElevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultElevenLabsModelID = "eleven_monolingual_v1"
)

// ElevenLabsConfig ElevenLabs TTS 配置
type ElevenLabsConfig struct {
	APIURL  string // API 地址，默认: https://api.elevenlabs.io/v1
	APIKey  string // API Key（必需）
	VoiceID string // 语音ID，默认: 21m00Tcm4TlvDq8ikWAM
	ModelID string // 模型ID，默认: eleven_monolingual_v1
}

// ElevenLabsEngine ElevenLabs 云端 TTS
// 调用 /v1/text-to-speech/{voice_id} 接口，响应体为 mp3 音频流
type ElevenLabsEngine struct {
	apiURL     string
	apiKey     string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

// NewElevenLabsEngine 创建 ElevenLabs TTS
func NewElevenLabsEngine(cfg ElevenLabsConfig) (*ElevenLabsEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs API key is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultElevenLabsAPIURL
	}

	voiceID := cfg.VoiceID
	if voiceID == "" {
		voiceID = defaultElevenLabsVoiceID
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = defaultElevenLabsModelID
	}

	return &ElevenLabsEngine{
		apiURL:  apiURL,
		apiKey:  cfg.APIKey,
		voiceID: voiceID,
		modelID: modelID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Name 引擎名称
func (e *ElevenLabsEngine) Name() string { return "elevenlabs" }

// FileExt ElevenLabs 返回 mp3 音频
func (e *ElevenLabsEngine) FileExt() string { return ".mp3" }

// Synthesize 合成语音并写入文件
// API 不返回音频时长，固定返回 0，由调用方用 ffprobe 探测
func (e *ElevenLabsEngine) Synthesize(ctx context.Context, text, outputPath, speaker string) (float64, error) {
	voiceID := e.voiceID
	if speaker != "" {
		voiceID = speaker
	}

	reqBody, err := json.Marshal(map[string]interface{}{
		"text":     text,
		"model_id": e.modelID,
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.apiURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	log.Debug().
		Str("voice_id", voiceID).
		Int("text_len", len(text)).
		Msg("sending ElevenLabs TTS request")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("API request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read audio stream: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, audioData, 0644); err != nil {
		return 0, fmt.Errorf("failed to write audio file: %w", err)
	}

	return 0, nil
}
