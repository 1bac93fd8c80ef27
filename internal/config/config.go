// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	LLM      LLMConfig      `mapstructure:"llm"`
	DB       DBConfig       `mapstructure:"db"`
	Airtable AirtableConfig `mapstructure:"airtable"`
	Email    EmailConfig    `mapstructure:"email"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Events   EventsConfig   `mapstructure:"events"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// HTTPConfig configures the static page fetcher.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// HeadlessConfig configures the headless rendering path.
type HeadlessConfig struct {
	NavTimeoutSec int `mapstructure:"nav_timeout_seconds"`
	WaitMs        int `mapstructure:"wait_ms"`
	ThresholdB    int `mapstructure:"promotion_threshold_bytes"`
}

// ScrapeConfig bounds the normalized content model.
type ScrapeConfig struct {
	MaxContentChars int `mapstructure:"max_content_chars"`
	MaxHeadings     int `mapstructure:"max_headings"`
	MaxParagraphs   int `mapstructure:"max_paragraphs"`
	MaxLinks        int `mapstructure:"max_links"`
}

// LLMConfig holds credentials and sampling knobs for the analysis model.
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// AirtableConfig describes the spreadsheet mirror destination.
type AirtableConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseID          string `mapstructure:"base_id"`
	SyncIntervalMin int    `mapstructure:"sync_interval_minutes"`
	BatchSize       int    `mapstructure:"batch_size"`
}

// EmailConfig configures transactional email delivery.
type EmailConfig struct {
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
}

// ArchiveConfig selects where raw page snapshots are archived.
type ArchiveConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// EventsConfig selects where submission events are published.
type EventsConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DIRSVC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("headless.wait_ms", 500)
	v.SetDefault("headless.promotion_threshold_bytes", 2048)
	v.SetDefault("scrape.max_content_chars", 5000)
	v.SetDefault("scrape.max_headings", 10)
	v.SetDefault("scrape.max_paragraphs", 10)
	v.SetDefault("scrape.max_links", 20)
	v.SetDefault("llm.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("db.max_conns", 8)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("airtable.sync_interval_minutes", 10)
	v.SetDefault("airtable.batch_size", 10)
	v.SetDefault("archive.provider", "noop")
	v.SetDefault("archive.prefix", "snapshots")
	v.SetDefault("events.provider", "noop")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Headless.NavTimeoutSec <= 0 {
		return fmt.Errorf("headless.nav_timeout_seconds must be > 0")
	}
	if c.Scrape.MaxContentChars <= 0 {
		return fmt.Errorf("scrape.max_content_chars must be > 0")
	}
	if c.Airtable.BatchSize <= 0 || c.Airtable.BatchSize > 10 {
		return fmt.Errorf("airtable.batch_size must be between 1 and 10")
	}
	if c.Airtable.SyncIntervalMin <= 0 {
		return fmt.Errorf("airtable.sync_interval_minutes must be > 0")
	}
	if c.Archive.Provider == "gcs" && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket must be set when archive.provider is gcs")
	}
	if c.Events.Provider == "pubsub" && (c.Events.ProjectID == "" || c.Events.TopicID == "") {
		return fmt.Errorf("events.project_id and events.topic_id must be set when events.provider is pubsub")
	}
	return nil
}

// FetchTimeout is the hard deadline for one fetch-and-render sequence.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// NavTimeout bounds a single headless navigation.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Headless.NavTimeoutSec) * time.Second
}

// SyncInterval is the cadence of the background reconciliation timer.
func (c Config) SyncInterval() time.Duration {
	return time.Duration(c.Airtable.SyncIntervalMin) * time.Minute
}
