package storagefactory

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"narrato/internal/config"
)

func TestNewStorage(t *testing.T) {
	Convey("NewStorage 根据配置创建存储实例", t, func() {
		Convey("local 存储", func() {
			base := t.TempDir()
			s, err := NewStorage(&config.StorageConfig{
				Type:  "local",
				Local: &config.LocalConfig{BasePath: base},
			})
			So(err, ShouldBeNil)
			So(s.GetStorageType(), ShouldEqual, "local")

			Convey("能上传并读回文件", func() {
				ctx := context.Background()

				path, err := s.Upload(ctx, "narration/output.wav", bytes.NewReader([]byte("audio")), "audio/wav")
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join(base, "narration/output.wav"))

				exists, err := s.Exists(ctx, "narration/output.wav")
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)

				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "audio")
			})
		})

		Convey("local 存储缺少配置应报错", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "local"})
			So(err, ShouldNotBeNil)
		})

		Convey("oss 存储缺少配置应报错", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "oss"})
			So(err, ShouldNotBeNil)
		})

		Convey("未知类型应报错", func() {
			_, err := NewStorage(&config.StorageConfig{Type: "s3"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported storage type")
		})
	})
}
