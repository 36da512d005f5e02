package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewElevenLabsEngine(t *testing.T) {
	Convey("NewElevenLabsEngine 校验配置并填充默认值", t, func() {
		Convey("缺少 API key 应报错", func() {
			_, err := NewElevenLabsEngine(ElevenLabsConfig{})
			So(err, ShouldNotBeNil)
		})

		Convey("默认值填充", func() {
			e, err := NewElevenLabsEngine(ElevenLabsConfig{APIKey: "key"})
			So(err, ShouldBeNil)
			So(e.apiURL, ShouldEqual, defaultElevenLabsAPIURL)
			So(e.voiceID, ShouldEqual, defaultElevenLabsVoiceID)
			So(e.modelID, ShouldEqual, defaultElevenLabsModelID)
			So(e.Name(), ShouldEqual, "elevenlabs")
			So(e.FileExt(), ShouldEqual, ".mp3")
		})
	})
}

func TestElevenLabsEngine_Synthesize(t *testing.T) {
	Convey("ElevenLabsEngine.Synthesize 调用 API 并写文件", t, func() {
		audioBytes := []byte("fake-mpeg-stream")

		Convey("成功响应：写入音频，时长未知返回 0", func() {
			var gotPath, gotKey string
			var gotBody map[string]interface{}

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotKey = r.Header.Get("xi-api-key")

				body, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(body, &gotBody)

				w.Header().Set("Content-Type", "audio/mpeg")
				_, _ = w.Write(audioBytes)
			}))
			defer srv.Close()

			e, err := NewElevenLabsEngine(ElevenLabsConfig{APIKey: "key", APIURL: srv.URL})
			So(err, ShouldBeNil)

			outPath := filepath.Join(t.TempDir(), "segment_0001.mp3")
			duration, err := e.Synthesize(context.Background(), "hello world", outPath, "")
			So(err, ShouldBeNil)
			So(duration, ShouldEqual, 0)

			So(gotKey, ShouldEqual, "key")
			So(strings.HasSuffix(gotPath, "/text-to-speech/"+defaultElevenLabsVoiceID), ShouldBeTrue)
			So(gotBody["text"], ShouldEqual, "hello world")
			So(gotBody["model_id"], ShouldEqual, defaultElevenLabsModelID)

			written, err := os.ReadFile(outPath)
			So(err, ShouldBeNil)
			So(written, ShouldResemble, audioBytes)
		})

		Convey("speaker 覆盖默认语音ID", func() {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write(audioBytes)
			}))
			defer srv.Close()

			e, err := NewElevenLabsEngine(ElevenLabsConfig{APIKey: "key", APIURL: srv.URL})
			So(err, ShouldBeNil)

			_, err = e.Synthesize(context.Background(), "hi", filepath.Join(t.TempDir(), "out.mp3"), "custom-voice")
			So(err, ShouldBeNil)
			So(strings.HasSuffix(gotPath, "/text-to-speech/custom-voice"), ShouldBeTrue)
		})

		Convey("HTTP 错误状态应返回错误", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}))
			defer srv.Close()

			e, err := NewElevenLabsEngine(ElevenLabsConfig{APIKey: "bad", APIURL: srv.URL})
			So(err, ShouldBeNil)

			_, err = e.Synthesize(context.Background(), "hi", filepath.Join(t.TempDir(), "out.mp3"), "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status 401")
		})
	})
}
