package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	old := configPath
	SetPath(path)
	t.Cleanup(func() { SetPath(old) })

	// godotenv reads .env from the working directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return path
}

func TestConfigLoad_CreatesDefault(t *testing.T) {
	path := useTempConfig(t)

	if err := ConfigLoad(); err != nil {
		t.Fatalf("ConfigLoad: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	cfg := ConfigGet()
	if cfg.APIBaseURL != "https://localhost:7166/api" {
		t.Errorf("unexpected base URL %q", cfg.APIBaseURL)
	}
	if cfg.RedirectDelay.Std() != 2*time.Second {
		t.Errorf("expected 2s redirect delay, got %v", cfg.RedirectDelay.Std())
	}

	cfg.APIBaseURL = "http://changed/api"
	if got := ConfigGet().APIBaseURL; got != "https://localhost:7166/api" {
		t.Errorf("ConfigGet shares state with callers, got %q", got)
	}
}

func TestConfigLoad_ReadsFileAndEnv(t *testing.T) {
	path := useTempConfig(t)

	raw := map[string]interface{}{
		"api_base_url":   "http://file.example/api",
		"redirect_delay": "250ms",
		"max_in_flight":  2,
		"log_level":      "debug",
	}
	data, _ := json.Marshal(raw)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIBaseURL, "http://env.example/api")

	if err := ConfigLoad(); err != nil {
		t.Fatalf("ConfigLoad: %v", err)
	}
	cfg := ConfigGet()

	if cfg.APIBaseURL != "http://env.example/api" {
		t.Errorf("environment should override file, got %q", cfg.APIBaseURL)
	}
	if cfg.RedirectDelay.Std() != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.RedirectDelay.Std())
	}
	if cfg.MaxInFlight != 2 {
		t.Errorf("expected max_in_flight 2, got %d", cfg.MaxInFlight)
	}
	// Fields missing from the file keep their defaults
	if cfg.DatabaseFile != "maji.db" {
		t.Errorf("expected default database file, got %q", cfg.DatabaseFile)
	}
}

func TestConfigLoad_DotEnv(t *testing.T) {
	useTempConfig(t)
	os.Unsetenv(EnvLogLevel)
	t.Cleanup(func() { os.Unsetenv(EnvLogLevel) })

	if err := os.WriteFile(".env", []byte(EnvLogLevel+"=warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ConfigLoad(); err != nil {
		t.Fatalf("ConfigLoad: %v", err)
	}
	if got := ConfigGet().LogLevel; got != "warn" {
		t.Errorf("expected log level from .env, got %q", got)
	}
}

func TestConfigLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"bad duration", `{"redirect_delay": "soon"}`},
		{"no base url", `{"api_base_url": ""}`},
		{"zero in flight", `{"max_in_flight": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := useTempConfig(t)
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if err := ConfigLoad(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDuration_Milliseconds(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte("1500"), &d); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", d.Std())
	}
}
