package tts

import "context"

// Engine 语音合成引擎接口（用于单测/替换实现）
type Engine interface {
	// Synthesize 将一段文本合成为音频文件并写入 outputPath
	//
	// Args:
	//   - ctx: 上下文
	//   - text: 要合成的文本
	//   - outputPath: 音频文件保存路径
	//   - speaker: 说话人/语音ID（为空时使用引擎配置的默认语音）
	//
	// Returns:
	//   - duration: 音频时长（秒）；引擎无法获知时长时返回 0，由调用方探测
	//   - err: 错误信息
	Synthesize(ctx context.Context, text, outputPath, speaker string) (float64, error)

	// Name 引擎名称
	Name() string

	// FileExt 引擎产出的音频文件扩展名（含点号，如 ".mp3"）
	FileExt() string
}
