package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Extract ExtractConfig `yaml:"extract"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxRequestBytes int64  `yaml:"max_request_bytes"` // whole multipart body (default: 256MB)
	MaxFileBytes    int64  `yaml:"max_file_bytes"`    // one uploaded file (default: 256MB)
}

// ExtractConfig holds extraction limits.
type ExtractConfig struct {
	Workers       int   `yaml:"workers"`         // files extracted concurrently per request (default: 1)
	MaxEntryBytes int64 `yaml:"max_entry_bytes"` // decompressed size of one archive entry (default: 64MB)
	MaxXMLDepth   int   `yaml:"max_xml_depth"`   // element nesting in XML parts (default: 256)
	PDFFallback   bool  `yaml:"pdf_fallback"`    // retry failed PDFs with pdfcpu (default: true)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			MaxRequestBytes: 256 << 20,
			MaxFileBytes:    256 << 20,
		},
		Extract: ExtractConfig{
			Workers:       1,
			MaxEntryBytes: 64 << 20,
			MaxXMLDepth:   256,
			PDFFallback:   true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML configuration file at path and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries to load "config.yaml" from the current directory.
// If the file does not exist, it returns sensible defaults.
// Any other error (e.g. permission denied, malformed YAML) is returned.
func LoadDefault() (*Config, error) {
	cfg, err := Load("config.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Variables already set win, and
// missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvHost            = "TEXTRACTOR_HOST"
	EnvPort            = "TEXTRACTOR_PORT"
	EnvLogLevel        = "TEXTRACTOR_LOG_LEVEL"
	EnvLogFormat       = "TEXTRACTOR_LOG_FORMAT"
	EnvWorkers         = "TEXTRACTOR_WORKERS"
	EnvMaxFileBytes    = "TEXTRACTOR_MAX_FILE_BYTES"
	EnvMaxRequestBytes = "TEXTRACTOR_MAX_REQUEST_BYTES"
)

// ApplyEnv overrides cfg with any TEXTRACTOR_* variables that are set.
func (cfg *Config) ApplyEnv() error {
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}

	ints := []struct {
		key string
		set func(int64)
	}{
		{EnvPort, func(n int64) { cfg.Server.Port = int(n) }},
		{EnvWorkers, func(n int64) { cfg.Extract.Workers = int(n) }},
		{EnvMaxFileBytes, func(n int64) { cfg.Server.MaxFileBytes = n }},
		{EnvMaxRequestBytes, func(n int64) { cfg.Server.MaxRequestBytes = n }},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		e.set(n)
	}
	return cfg.validate()
}

func (cfg *Config) validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Server.MaxRequestBytes <= 0 || cfg.Server.MaxFileBytes <= 0 {
		return fmt.Errorf("server size limits must be positive")
	}
	if cfg.Extract.Workers < 1 {
		return fmt.Errorf("extract.workers must be at least 1")
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q: want json or text", cfg.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger described by l.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
