package storage

import (
	"context"
	"io"
)

// Storage 结果存储接口
// 用于将最终音频和运行日志归档到本地目录或对象存储
type Storage interface {
	// Upload 上传文件，返回可访问的URL或路径
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download 下载文件
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Delete 删除文件
	Delete(ctx context.Context, key string) error

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)
