package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	Get().Info(context.Background(), "test message", String("k", "v"))

	if Named("test") == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		ctx := context.Background()
		So(SetLevelString("info"), ShouldBeNil)
		var buf bytes.Buffer
		l := New(&buf)

		Convey("When logging with fields", func() {
			l.Named("scanner").Error(ctx, "manifest parse failed",
				String("path", "/evals/x/eval.yaml"),
				Error(errors.New("yaml: line 2: did not find expected key")),
			)

			Convey("Then the message, fields and caller should be written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "manifest parse failed")
				So(out, ShouldContainSubstring, "logger=scanner")
				So(out, ShouldContainSubstring, "/evals/x/eval.yaml")
				So(out, ShouldContainSubstring, "did not find expected key")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			l.Debug(ctx, "hidden")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When attaching fields with With", func() {
			l.With(String("request_id", "abc")).Info(ctx, "handled")

			Convey("Then every line should carry them", func() {
				So(buf.String(), ShouldContainSubstring, "request_id=abc")
			})
		})
	})
}

func TestLoggerFormatAndLevel(t *testing.T) {
	Convey("Given the format and level setters", t, func() {
		defer func() { _ = SetFormat("text") }()

		Convey("When switching to json", func() {
			So(SetFormat("json"), ShouldBeNil)
			var buf bytes.Buffer
			New(&buf).Info(context.Background(), "hello", Int("n", 3))

			Convey("Then output should be JSON", func() {
				So(buf.String(), ShouldStartWith, "{")
				So(buf.String(), ShouldContainSubstring, `"n":3`)
			})
		})

		Convey("When an unknown format is given", func() {
			So(SetFormat("xml"), ShouldNotBeNil)
		})

		Convey("When an unknown level is given", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
			So(SetLevelString("WARNING"), ShouldBeNil)
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then logging should not panic", func() {
			So(func() {
				l.Info(context.Background(), "x")
				l.Named("y").With(Bool("b", true)).Error(context.Background(), "z")
			}, ShouldNotPanic)
		})
	})
}

func TestSetOutput(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		defer SetOutput(os.Stdout)

		Convey("When redirecting its output", func() {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetOutput(nil)
			Get().Info(context.Background(), "redirected")

			Convey("Then lines should go to the new writer", func() {
				So(buf.String(), ShouldContainSubstring, "redirected")
			})
		})
	})
}
