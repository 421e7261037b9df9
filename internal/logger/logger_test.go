package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogger_IncludesStackAndServiceOnError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("pgportal-test", &buf)
	log.Error().Stack().Err(errors.New("boom")).Msg("something failed")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("no output captured")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, line)
	}
	if svc, ok := payload["service"].(string); !ok || svc != "pgportal-test" {
		t.Fatalf("expected service=\"pgportal-test\", got %v", payload["service"])
	}
	if lvl, ok := payload["level"].(string); !ok || lvl != "error" {
		t.Fatalf("expected level=\"error\", got %v", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field in error log: %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel, "WARN": zerolog.WarnLevel, " error ": zerolog.ErrorLevel,
		"": zerolog.InfoLevel, "loud": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewConsole_Writes(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).Info().Str("date", "2024-03-15").Msg("fetched")
	if !strings.Contains(buf.String(), "fetched") || !strings.Contains(buf.String(), "2024-03-15") {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}
