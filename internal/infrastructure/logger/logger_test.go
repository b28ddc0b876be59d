package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerFormatsOutput(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
		emit   func(l zerolog.Logger)
		check  func(t *testing.T, output string)
	}{
		{
			name:   "json includes service and message",
			format: "json",
			level:  "info",
			emit:   func(l zerolog.Logger) { l.Info().Msg("escrow opened") },
			check: func(t *testing.T, output string) {
				if !strings.Contains(output, `"message":"escrow opened"`) || !strings.Contains(output, `"service":"chitledger"`) {
					t.Fatalf("unexpected json output: %s", output)
				}
			},
		},
		{
			name:   "console is human readable",
			format: "console",
			level:  "debug",
			emit:   func(l zerolog.Logger) { l.Debug().Msg("sweep finished") },
			check: func(t *testing.T, output string) {
				if !strings.Contains(output, "sweep finished") || strings.HasPrefix(output, "{") {
					t.Fatalf("unexpected console output: %s", output)
				}
			},
		},
		{
			name:   "level filters",
			format: "json",
			level:  "warn",
			emit:   func(l zerolog.Logger) { l.Info().Msg("hidden") },
			check: func(t *testing.T, output string) {
				if output != "" {
					t.Fatalf("expected info to be filtered, got %s", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(New(Config{Level: tt.level, Format: tt.format, Output: &buf}))
			tt.check(t, buf.String())
		})
	}
}

func TestFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
	l := FromContext(ctx, base)
	l.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request id, got %s", buf.String())
	}
}

func TestFromContextPrefersRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	reqLogger := New(Config{Output: &scoped}).With().Str("request_id", "req-7").Logger()
	ctx := reqLogger.WithContext(context.Background())

	l := FromContext(ctx, New(Config{Output: &base}))
	l.Info().Msg("hello")

	if base.Len() != 0 {
		t.Fatalf("expected base logger unused, got %s", base.String())
	}
	if !strings.Contains(scoped.String(), `"request_id":"req-7"`) {
		t.Fatalf("expected scoped logger output, got %s", scoped.String())
	}
}
