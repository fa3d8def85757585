package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"ANALYSIS_API_URL", "API_URL", "OPENAI_API_KEY", "STRIPE_SECRET_KEY", "PROXY_SECRET", "CONFIG_PATH"} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `
server:
  port: 9090
  corsOrigins: ["https://app.example.com"]
database:
  driver: postgres
  host: db
  port: 5432
  user: lynx
  password: "p@ss"
  name: legalynx
analysis:
  baseURL: http://analysis:8000/
  analyzeTimeout: 45s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.CORSOrigins[0] != "https://app.example.com" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Analysis.BaseURL != "http://analysis:8000" {
		t.Fatalf("base url = %q", cfg.Analysis.BaseURL)
	}
	if cfg.Analysis.AnalyzeTimeout != 45*time.Second || cfg.Analysis.ProbeTimeout != 5*time.Second {
		t.Fatalf("timeouts = %v %v", cfg.Analysis.AnalyzeTimeout, cfg.Analysis.ProbeTimeout)
	}
	if got := cfg.DSN(); got != "postgres://lynx:p%40ss@db:5432/legalynx?sslmode=disable" {
		t.Fatalf("dsn = %s", got)
	}
}

func TestAnalysisURLFromEnv(t *testing.T) {
	cases := []struct {
		name, analysisURL, apiURL, want string
	}{
		{"default", "", "", "http://localhost:8000"},
		{"api url", "", "http://api:9000/", "http://api:9000"},
		{"analysis url wins", "https://analysis.internal", "http://api:9000", "https://analysis.internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ANALYSIS_API_URL", tc.analysisURL)
			t.Setenv("API_URL", tc.apiURL)
			cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatalf("LoadOrDefault: %v", err)
			}
			if cfg.Analysis.BaseURL != tc.want {
				t.Fatalf("base url = %q, want %q", cfg.Analysis.BaseURL, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "database:\n  driver: sqlite\n"))
	if err == nil || !strings.Contains(err.Error(), "database.driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
	_, err = Load(writeConfig(t, "analysis:\n  probeTimeout: 30s\n"))
	if err == nil || !strings.Contains(err.Error(), "probeTimeout") {
		t.Fatalf("expected probe timeout error, got %v", err)
	}
	if _, err := Load(writeConfig(t, "analysis:\n  probeTimeout: 2s\n")); err != nil {
		t.Fatalf("2s probe timeout rejected: %v", err)
	}
	t.Setenv("API_URL", "not a url")
	if _, err := LoadOrDefault("missing.yaml"); err == nil {
		t.Fatal("expected url error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Name = "root", "secret", "localhost", "legalynx"
	want := "root:secret@tcp(localhost:3306)/legalynx?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.DSN(); got != want {
		t.Fatalf("dsn = %s", got)
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("log output = %s", buf.String())
	}
}
