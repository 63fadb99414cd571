package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{in: "", want: LevelInfo},
		{in: "silent", want: LevelSilent},
		{in: " Debug ", want: LevelDebug},
		{in: "verbose", want: LevelVerbose},
		{in: "loud", want: LevelInfo, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)
	l.Error("error msg")
	l.Info("info msg %d", 2)
	l.Verbose("verbose msg")
	l.Debug("debug msg")

	out := buf.String()
	for _, want := range []string{"ERROR: error msg", "INFO: info msg 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log output: %s", want, out)
		}
	}
	for _, unwanted := range []string{"verbose msg", "debug msg"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q in log output: %s", unwanted, out)
		}
	}

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG: now visible") {
		t.Fatalf("expected debug line after SetLevel")
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.log")
	l, err := Open(LevelInfo, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Info("first")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	l, err = Open(LevelInfo, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l.Info("second")
	_ = l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both lines in log file: %s", data)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	Discard().Error("ignored")
}
