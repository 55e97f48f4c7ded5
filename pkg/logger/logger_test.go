package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get returns it", func() {
			So(Get(), ShouldNotBeNil)
		})

		Convey("When logging at info", func() {
			Get().Info(context.Background(), "evaluated", String("mode", "quality"), Float64("quality", 0.64))

			Convey("Then the record carries message, fields and source", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=evaluated")
				So(out, ShouldContainSubstring, "mode=quality")
				So(out, ShouldContainSubstring, "quality=0.64")
				So(out, ShouldContainSubstring, "source=")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger without caller info", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true), WithCaller(false)), ShouldBeNil)

		Convey("When logging with every field kind", func() {
			Get().Warn(context.Background(), "slow",
				Int("groups", 3),
				Bool("parallel", true),
				Duration("elapsed", time.Millisecond),
				Any("pair", []int{0, 1}),
				Error(errors.New("boom")),
			)

			Convey("Then a single JSON object is emitted", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "slow")
				So(rec["level"], ShouldEqual, "WARN")
				So(rec["groups"], ShouldEqual, 3.0)
				So(rec["parallel"], ShouldEqual, true)
				So(rec["error"], ShouldEqual, "boom")
				So(rec, ShouldNotContainKey, "source")
			})
		})
	})
}

func TestLoggerNamedAndWith(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithCaller(false)), ShouldBeNil)

		Convey("When using a named logger with bound fields", func() {
			Named("batch").With(String("match", "m1")).Info(context.Background(), "done", Int("worker", 2))

			Convey("Then fields are grouped under the name", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "batch.match=m1")
				So(out, ShouldContainSubstring, "batch.worker=2")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given a logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithCaller(false)), ShouldBeNil)
		defer func() { _ = SetLevelString("info") }()

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("And unknown levels are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log level")
		})

		Convey("And debug enables debug records", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(context.Background(), "visible")
			So(strings.Contains(buf.String(), "visible"), ShouldBeTrue)
		})
	})
}
