package ttsfactory

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"narrato/internal/config"
)

func TestNewEngine(t *testing.T) {
	Convey("NewEngine 根据配置创建引擎", t, func() {
		voice := &config.VoiceConfig{Speed: 1.0}

		Convey("volcano 引擎", func() {
			engine, err := NewEngine(&config.TTSConfig{
				Engine:  "volcano",
				Volcano: config.VolcanoConfig{AccessToken: "token"},
			}, voice)
			So(err, ShouldBeNil)
			So(engine.Name(), ShouldEqual, "volcano")
		})

		Convey("volcano 引擎缺少令牌应报错", func() {
			_, err := NewEngine(&config.TTSConfig{Engine: "volcano"}, voice)
			So(err, ShouldNotBeNil)
		})

		Convey("elevenlabs 引擎", func() {
			engine, err := NewEngine(&config.TTSConfig{
				Engine:     "elevenlabs",
				ElevenLabs: config.ElevenLabsConfig{APIKey: "key"},
			}, voice)
			So(err, ShouldBeNil)
			So(engine.Name(), ShouldEqual, "elevenlabs")
		})

		Convey("未知引擎应报错", func() {
			_, err := NewEngine(&config.TTSConfig{Engine: "coqui"}, voice)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unsupported tts engine")
		})
	})
}
