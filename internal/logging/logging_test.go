package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		opts Options
		want zapcore.Level
	}{
		{Options{}, zapcore.WarnLevel},
		{Options{Verbose: true}, zapcore.DebugLevel},
		{Options{Quiet: true}, zapcore.ErrorLevel},
		{Options{Verbose: true, Quiet: true}, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := tt.opts.Level(); got != tt.want {
			t.Errorf("%+v.Level() = %v, want %v", tt.opts, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	log.Debug("probe chosen", zap.String("probe", "last-middleware"))
	log.Warn("entry file missing")
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "probe chosen") {
		t.Fatalf("debug line must be filtered:\n%s", out)
	}
	if !strings.Contains(out, "WARN\tentry file missing") {
		t.Fatalf("expected warn line:\n%s", out)
	}

	buf.Reset()
	log = New(Options{Verbose: true, Output: &buf})
	log.Debug("probe chosen", zap.String("probe", "last-middleware"))
	if !strings.Contains(buf.String(), `{"probe": "last-middleware"}`) {
		t.Fatalf("expected debug line with fields:\n%s", buf.String())
	}
}
