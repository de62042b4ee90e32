package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, expected := range cases {
		if got := ParseLevel(in); got != expected {
			t.Fatalf("ParseLevel(%q) = %s, expected %s", in, got, expected)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	log.Info().Msg("hidden")
	log.Warn().Str("service", "geoserver").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %s", out)
	}
	if !strings.Contains(out, `"service":"geoserver"`) || !strings.Contains(out, `"app":"gis-cli"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestOpenFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "gis-cli.log")
	log, closer, err := Open("debug", file)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	log.Debug().Msg("written")
	if err := closer.Close(); err != nil {
		t.Fatalf("closing log: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "written") {
		t.Fatalf("unexpected log content %q", data)
	}
}
