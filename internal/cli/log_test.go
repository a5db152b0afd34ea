package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("Rendering page.json") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("Loaded schema", "types", 3) },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("Loaded schema", "types", 3) },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rebuilt graph", "nodes", 4)

	out := buf.String()
	for _, want := range []string{"Rebuilt graph", "nodes=4", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestCheckLogs(t *testing.T) {
	dir, schemaPath := testEnv(t)
	base := filepath.Join(dir, "base.json")

	var info lockedBuffer
	if err := executeWith(&info, LogInfo, "check", "--schema", schemaPath, base); err != nil {
		t.Fatalf("check error: %v", err)
	}
	out := info.String()
	if !strings.Contains(out, "Rebuilt graph") || !strings.Contains(out, "nodes=2") {
		t.Errorf("info output %q missing the rebuild line", out)
	}
	if strings.Contains(out, "Loaded schema") {
		t.Errorf("info output %q should not carry debug lines", out)
	}

	var debug lockedBuffer
	if err := executeWith(&debug, LogDebug, "check", "--schema", schemaPath, base); err != nil {
		t.Fatalf("check error: %v", err)
	}
	for _, want := range []string{"Loaded schema", "unflattened"} {
		if !strings.Contains(debug.String(), want) {
			t.Errorf("debug output missing %q", want)
		}
	}
}
