package id

import (
	"strings"

	"github.com/google/uuid"
)

// New 生成新的UUID（string格式），用于 TTS 请求ID
func New() string {
	return uuid.New().String()
}

// Short 生成不带连字符的短ID，用于临时文件名
func Short() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
