package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_OnlyFirstCallTakesEffect(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})
	Init(Options{Level: "error", Output: &bytes.Buffer{}})

	log := Get()
	log.Debug().Msg("first writer wins")

	if !strings.Contains(buf.String(), "first writer wins") {
		t.Fatalf("expected message in first writer, got %q", buf.String())
	}
}

func TestFor_TagsComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})

	log := For("session")
	log.Info().Msg("rotated")

	out := buf.String()
	if !strings.Contains(out, `"component":"session"`) {
		t.Fatalf("expected component field in output, got %q", out)
	}
	if !strings.Contains(out, "rotated") {
		t.Fatalf("expected message in output, got %q", out)
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when Get runs before Init")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
