package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_RoutesByLevel(t *testing.T) {
	var cmd, errOut, info bytes.Buffer
	l := NewWriterLogger(&cmd, &errOut, &info, LevelInfo)
	ctx := context.Background()

	l.Command(ctx, "login", Fields{"args": 1})
	l.Debug(ctx, "hidden", nil)
	l.Info(ctx, "shown", nil)
	l.Error(ctx, "boom", Fields{"error": "x"})

	if !strings.Contains(cmd.String(), `"msg":"login"`) {
		t.Errorf("command log missing entry: %s", cmd.String())
	}
	if strings.Contains(info.String(), "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(info.String(), "shown") {
		t.Error("info entry missing")
	}
	if !strings.Contains(errOut.String(), "boom") {
		t.Error("error entry missing from error log")
	}
}

func TestLogger_RequestID(t *testing.T) {
	var info bytes.Buffer
	l := NewWriterLogger(&bytes.Buffer{}, &bytes.Buffer{}, &info, LevelDebug)

	ctx := WithRequestID(context.Background(), "abc-123")
	l.Debug(ctx, "request sent", Fields{"path": "/Usuario"})

	var line map[string]interface{}
	if err := json.Unmarshal(info.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["request_id"] != "abc-123" {
		t.Errorf("expected request_id, got %v", line["request_id"])
	}
	if line["path"] != "/Usuario" {
		t.Errorf("expected path field, got %v", line["path"])
	}
}

func TestNewLogger_Files(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(Options{
		Folder:     dir,
		CommandLog: "commands.log",
		ErrorLog:   "errors.log",
		InfoLog:    "info.log",
		Level:      LevelInfo,
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Error(context.Background(), "disk", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "errors.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "disk") {
		t.Errorf("error log missing entry: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
