// Package config loads chatflow runtime configuration.
//
// Precedence: built-in defaults, then the YAML file, then environment
// variables with the CHATFLOW_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/botweave/chatflow/history"
)

// EngineConfig tunes turn execution.
type EngineConfig struct {
	// MaxIterations is the per-turn iteration cap.
	MaxIterations int `yaml:"max_iterations"`
	// HistoryLimit bounds prior turns loaded per execution.
	HistoryLimit int `yaml:"history_limit"`
	// NodeTimeout bounds each node dispatch. Zero disables the backstop.
	NodeTimeout time.Duration `yaml:"node_timeout"`
}

// HTTPConfig tunes the outbound HTTP transport used by http_request
// nodes.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps outbound requests per second. Zero disables it.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// LLMConfig points the default registry at an inference service.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "json" or "console".
	Format string `yaml:"format"`
}

// Config is the full runtime configuration.
type Config struct {
	Engine EngineConfig        `yaml:"engine"`
	HTTP   HTTPConfig          `yaml:"http"`
	Redis  history.RedisConfig `yaml:"redis"`
	LLM    LLMConfig           `yaml:"llm"`
	Log    LogConfig           `yaml:"log"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxIterations: 50,
			HistoryLimit:  20,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			RateBurst: 1,
		},
		Redis: history.DefaultRedisConfig(),
		LLM: LLMConfig{
			Provider: "openai-compat",
			Timeout:  30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from the given YAML file and applies
// environment overrides. An empty or missing file means defaults plus
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv overrides the commonly deployed fields from CHATFLOW_*
// environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CHATFLOW_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CHATFLOW_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("CHATFLOW_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("CHATFLOW_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("CHATFLOW_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CHATFLOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CHATFLOW_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.MaxIterations = n
		}
	}
}

// Build constructs a zap logger per the log configuration.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	var zapCfg zap.Config
	if c.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
