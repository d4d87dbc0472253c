package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "Error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter(FormatJSON, slog.LevelInfo, &buf)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithLogger(context.Background(), l.With("runId", "r1"))
	FromContext(ctx).Info(ctx, "CMD:workspace.create/S", "resourceId", "my_repl")
	FromContext(ctx).Debug(ctx, "hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"CMD:workspace.create/S"`) || !strings.Contains(out, `"runId":"r1"`) {
		t.Errorf("unexpected output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line emitted at info level: %s", out)
	}
}

func TestNewWithWriter_HumanOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("", slog.LevelDebug, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Errorf(context.Background(), "Failed: %s", "boom")
	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Errorf("human output has a timestamp: %s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, `msg="Failed: boom"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNewWithWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWithWriter("xml", slog.LevelInfo, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("nil default logger")
	}
}

func TestOpen(t *testing.T) {
	if _, _, err := Open(&LogConfig{Level: "noisy", Output: OutputNone}); err == nil {
		t.Error("invalid level accepted")
	}
	if _, _, err := Open(&LogConfig{Format: "xml", Output: OutputNone}); err == nil {
		t.Error("invalid format accepted")
	}
	l, sink, err := Open(&LogConfig{Format: FormatText, Output: OutputNone})
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()
	l.Info(context.Background(), "dropped")
	Discard().Info(context.Background(), "dropped")
}
