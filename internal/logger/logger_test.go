package logger

import (
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"Error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var sb strings.Builder
	SetOutput(&sb)
	SetColor(false)
	Init("warn")
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetColor(true)
		Init("info")
	})

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := sb.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below WARN leaked through: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") {
		t.Errorf("missing warn message: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("missing error message: %q", out)
	}
}
