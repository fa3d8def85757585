package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "config.yaml"
	DefaultAnalysisURL = "http://localhost:8000"

	// MaxProbeTimeout batas atas health probe ke analysis service
	MaxProbeTimeout = 5 * time.Second
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
		// ProxySecret harus sama dengan header X-Proxy-Secret dari auth proxy
		ProxySecret string `yaml:"proxySecret"`
		RateLimit   struct {
			RequestsPerMinute int `yaml:"requestsPerMinute"`
			Burst             int `yaml:"burst"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Analysis struct {
		BaseURL        string        `yaml:"baseURL"`
		ProbeTimeout   time.Duration `yaml:"probeTimeout"`
		AnalyzeTimeout time.Duration `yaml:"analyzeTimeout"`
	} `yaml:"analysis"`

	Analyzer struct {
		Port int `yaml:"port"`
	} `yaml:"analyzer"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`

	Stripe struct {
		SecretKey string `yaml:"secretKey"`
	} `yaml:"stripe"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default config tanpa file
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.RateLimit.RequestsPerMinute = 10
	c.Server.RateLimit.Burst = 3
	c.Database.Driver = "mysql"
	c.Database.Port = 3306
	c.Analysis.BaseURL = DefaultAnalysisURL
	c.Analysis.ProbeTimeout = MaxProbeTimeout
	c.Analysis.AnalyzeTimeout = 30 * time.Second
	c.Analyzer.Port = 8000
	c.OpenAI.Model = "gpt-4o"
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Path returns CONFIG_PATH or config.yaml
func Path() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultPath
}

// Load baca file config.yaml, lalu override dari env
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, but a missing file yields defaults + env.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// ApplyEnv overrides secrets and the analysis URL from the environment.
func (c *Config) ApplyEnv() {
	for _, key := range []string{"ANALYSIS_API_URL", "API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			c.Analysis.BaseURL = v
			break
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.Stripe.SecretKey = v
	}
	if v := os.Getenv("PROXY_SECRET"); v != "" {
		c.Server.ProxySecret = v
	}
	c.Analysis.BaseURL = strings.TrimRight(strings.TrimSpace(c.Analysis.BaseURL), "/")
	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = DefaultAnalysisURL
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver must be mysql or postgres, got %q", c.Database.Driver)
	}
	u, err := url.Parse(c.Analysis.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("analysis.baseURL is not an absolute URL: %q", c.Analysis.BaseURL)
	}
	if c.Analysis.ProbeTimeout <= 0 || c.Analysis.AnalyzeTimeout <= 0 {
		return errors.New("analysis timeouts must be positive")
	}
	if c.Analysis.ProbeTimeout > MaxProbeTimeout {
		return fmt.Errorf("analysis.probeTimeout must be at most %s, got %s", MaxProbeTimeout, c.Analysis.ProbeTimeout)
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres (lib/pq URL form)
func (c *Config) PostgresDSN() string {
	ssl := c.Database.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: url.Values{"sslmode": {ssl}}.Encode(),
	}
	return u.String()
}

// DSN for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}

// Logger builds the process logger from the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
