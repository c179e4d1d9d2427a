package xlog_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  xlog.Level
		err   bool
	}{
		{"debug", xlog.LevelDebug, false},
		{"INFO", xlog.LevelInfo, false},
		{"Warn", xlog.LevelWarn, false},
		{"warning", xlog.LevelWarn, false},
		{" error ", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
		{"", xlog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if tt.err && !errors.Is(err, xlog.ErrUnknownLevel) {
				t.Errorf("ParseLevel(%q) error = %v, want ErrUnknownLevel", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	var l xlog.Level
	if err := l.UnmarshalText([]byte("warn")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	text, err := l.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}
	if string(text) != "WARN" {
		t.Errorf("MarshalText() = %q, want WARN", text)
	}
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText(loud) should fail")
	}
}

func TestLevel_StringNonStandard(t *testing.T) {
	if got := xlog.Level(slog.LevelInfo + 2).String(); got != "INFO+2" {
		t.Errorf("String() = %q, want INFO+2", got)
	}
}
