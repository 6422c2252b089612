package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			if got := logging.ParseLevel(tc.input); got != tc.want {
				t.Errorf("logging.ParseLevel(%q) = %v, want: %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	t.Run("production writes json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("production", "info", &buf)
		logger.Info("relay ready", "port", 8080)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line %q is not json: %v", buf.String(), err)
		}

		if got, want := entry["msg"], "relay ready"; got != want {
			t.Errorf("entry[%q] = %v, want: %v", "msg", got, want)
		}

		if got, want := entry["service"], "chatrelay"; got != want {
			t.Errorf("entry[%q] = %v, want: %v", "service", got, want)
		}
	})

	t.Run("development writes text and honors level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("development", "warn", &buf)
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("output %q contains info message below warn level", out)
		}
		if !strings.Contains(out, "msg=shown") {
			t.Errorf("output %q, want text entry with msg=shown", out)
		}
	})
}
