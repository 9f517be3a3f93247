// Package config loads application settings from defaults, an optional
// YAML file, LINGOQUIZ_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. LINGOQUIZ_LOG_LEVEL.
const EnvPrefix = "LINGOQUIZ"

// Config holds all configuration for the application.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Source SourceConfig `mapstructure:"source"`
	Server ServerConfig `mapstructure:"server"`
	Quiz   QuizConfig   `mapstructure:"quiz"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects the SQLite database. An empty DSN means the default
// per-user data path.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SourceConfig points the engine at JSON files instead of the database.
// Both must be set to take effect.
type SourceConfig struct {
	CorpusFile   string `mapstructure:"corpus_file"`
	TaxonomyFile string `mapstructure:"taxonomy_file"`
}

// UseFiles reports whether file sources are configured.
func (s SourceConfig) UseFiles() bool {
	return s.CorpusFile != "" && s.TaxonomyFile != ""
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// QuizConfig tunes quiz generation.
type QuizConfig struct {
	MaxSweeps int `mapstructure:"max_sweeps"`
}

// Load reads configuration into v and decodes it. path names an optional
// config file; when empty, lingoquiz.yaml is looked up in the working
// directory and $HOME/.config/lingoquiz, and its absence is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lingoquiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lingoquiz")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []string
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	if c.Quiz.MaxSweeps < 0 {
		errs = append(errs, fmt.Sprintf("quiz.max_sweeps must not be negative, got %d", c.Quiz.MaxSweeps))
	}
	if (c.Source.CorpusFile == "") != (c.Source.TaxonomyFile == "") {
		errs = append(errs, "source.corpus_file and source.taxonomy_file must be set together")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.dsn", "")

	v.SetDefault("source.corpus_file", "")
	v.SetDefault("source.taxonomy_file", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("quiz.max_sweeps", 10000)
}
