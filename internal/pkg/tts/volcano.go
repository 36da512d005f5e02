package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"narrato/internal/pkg/id"
)

const (
	defaultVolcanoAPIURL     = "https://openspeech.bytedance.com/api/v1/tts"
	defaultVolcanoCluster    = "volcano_tts"
	defaultVolcanoVoiceType  = "BV115_streaming"
	defaultVolcanoSampleRate = 44100

	// 火山引擎 TTS 成功响应码
	volcanoCodeOK = 3000
)

// VolcanoConfig 火山引擎 TTS 配置
type VolcanoConfig struct {
	APIURL      string  // API 地址，默认: https://openspeech.bytedance.com/api/v1/tts
	AccessToken string  // 访问令牌（必需）
	AppID       string  // 应用ID（可选）
	Cluster     string  // 集群名称，默认: volcano_tts
	VoiceType   string  // 语音类型，默认: BV115_streaming
	SampleRate  int     // 采样率，默认: 44100
	SpeedRatio  float64 // 语速比例，默认: 1.0
}

// VolcanoEngine 火山引擎 TTS
// 调用火山引擎 openspeech 的 TTS API（文本转语音）
// 参考: https://openspeech.bytedance.com/api/v1/tts
type VolcanoEngine struct {
	apiURL      string
	accessToken string
	appID       string
	cluster     string
	voiceType   string
	sampleRate  int
	speedRatio  float64
	httpClient  *http.Client
}

// NewVolcanoEngine 创建火山引擎 TTS
func NewVolcanoEngine(cfg VolcanoConfig) (*VolcanoEngine, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("volcano TTS access token is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultVolcanoAPIURL
	}

	cluster := cfg.Cluster
	if cluster == "" {
		cluster = defaultVolcanoCluster
	}

	voiceType := cfg.VoiceType
	if voiceType == "" {
		voiceType = defaultVolcanoVoiceType
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultVolcanoSampleRate
	}

	speedRatio := cfg.SpeedRatio
	if speedRatio == 0 {
		speedRatio = 1.0
	}

	return &VolcanoEngine{
		apiURL:      apiURL,
		accessToken: cfg.AccessToken,
		appID:       cfg.AppID,
		cluster:     cluster,
		voiceType:   voiceType,
		sampleRate:  sampleRate,
		speedRatio:  speedRatio,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Name 引擎名称
func (e *VolcanoEngine) Name() string { return "volcano" }

// FileExt 火山引擎返回 mp3 编码的音频
func (e *VolcanoEngine) FileExt() string { return ".mp3" }

// Synthesize 合成语音并写入文件
// 时长从响应的 addition.duration 中解析（毫秒转秒）
func (e *VolcanoEngine) Synthesize(ctx context.Context, text, outputPath, speaker string) (float64, error) {
	requestID := id.New()

	reqBody, err := json.Marshal(e.buildRequestConfig(text, requestID, speaker))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer; %s", e.accessToken))
	req.Header.Set("Content-Type", "application/json")

	log.Debug().
		Str("request_id", requestID).
		Int("text_len", len(text)).
		Msg("sending TTS request")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API request failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var apiResp map[string]interface{}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	code, _ := apiResp["code"].(float64)
	if code != volcanoCodeOK {
		message, _ := apiResp["message"].(string)
		if message == "" {
			message = "unknown error"
		}
		return 0, fmt.Errorf("API response error: %s (code: %.0f)", message, code)
	}

	audioDataBase64, ok := apiResp["data"].(string)
	if !ok {
		return 0, fmt.Errorf("audio data not found in response")
	}

	audioData, err := base64.StdEncoding.DecodeString(audioDataBase64)
	if err != nil {
		return 0, fmt.Errorf("failed to decode audio data: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, audioData, 0644); err != nil {
		return 0, fmt.Errorf("failed to write audio file: %w", err)
	}

	return parseVolcanoDuration(apiResp), nil
}

// buildRequestConfig 构建请求配置
// 参考官方文档: https://openspeech.bytedance.com/api/v1/tts
func (e *VolcanoEngine) buildRequestConfig(text, requestID, speaker string) map[string]interface{} {
	appConfig := map[string]interface{}{
		"token":   e.accessToken,
		"cluster": e.cluster,
	}
	if e.appID != "" {
		appConfig["appid"] = e.appID
	}

	voiceType := e.voiceType
	if speaker != "" {
		voiceType = speaker
	}

	audioConfig := map[string]interface{}{
		"voice_type":       voiceType,
		"encoding":         "mp3",
		"compression_rate": 1,
		"rate":             e.sampleRate,
		"speed_ratio":      e.speedRatio,
		"volume_ratio":     1.0,
		"pitch_ratio":      1.0,
	}

	requestConfig := map[string]interface{}{
		"reqid":     requestID,
		"text":      text,
		"text_type": "plain",
		"operation": "query",
	}

	return map[string]interface{}{
		"app":     appConfig,
		"user":    map[string]interface{}{"uid": requestID},
		"audio":   audioConfig,
		"request": requestConfig,
	}
}

// parseVolcanoDuration 从响应的 addition 字段解析音频时长
// duration 单位为毫秒，可能是字符串或数字
func parseVolcanoDuration(apiResp map[string]interface{}) float64 {
	addition, ok := apiResp["addition"].(map[string]interface{})
	if !ok {
		return 0
	}

	if durationStr, ok := addition["duration"].(string); ok {
		if parsed, err := strconv.ParseFloat(durationStr, 64); err == nil {
			return parsed / 1000.0
		}
	} else if durationNum, ok := addition["duration"].(float64); ok {
		return durationNum / 1000.0
	}

	return 0
}
