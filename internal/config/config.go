// Package config provides YAML-based configuration loading for Sitework.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Sitework configuration, loaded from sitework.yaml.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	PDFService PDFServiceConfig `yaml:"pdf_service"`
	Log        LogConfig        `yaml:"log"`
	Notify     NotifyConfig     `yaml:"notify"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig holds connection settings for the relational store.
// Driver is "mysql" (host/port/database/user/password) or "sqlite" (path).
type DBConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"`
}

// PDFServiceConfig holds settings for the external PDF import/export service.
type PDFServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`   // empty = stderr only
}

// NotifyConfig holds outbound notification settings. A channel is active when
// its token and channel ID are both set.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack bot credentials.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord bot credentials.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// WatchConfig holds cron schedules for the background watcher.
// Expressions use standard 5-field cron syntax.
type WatchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	HealthCron string `yaml:"health_cron"`
	DigestCron string `yaml:"digest_cron"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "sitework.db"
	}
	if c.DB.Driver == "mysql" {
		if c.DB.Host == "" {
			c.DB.Host = "127.0.0.1"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 3306
		}
		if c.DB.User == "" {
			c.DB.User = "root"
		}
		if c.DB.Database == "" {
			c.DB.Database = "sitework"
		}
	}
	if c.PDFService.BaseURL == "" {
		c.PDFService.BaseURL = "http://localhost:8000"
	}
	if c.PDFService.Timeout == 0 {
		c.PDFService.Timeout = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Watch.HealthCron == "" {
		c.Watch.HealthCron = "*/5 * * * *"
	}
	if c.Watch.DigestCron == "" {
		c.Watch.DigestCron = "0 8 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, "db.path is required for the sqlite driver")
		}
	case "mysql":
		if c.DB.Database == "" {
			errs = append(errs, "db.database is required for the mysql driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (mysql or sqlite)", c.DB.Driver))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format %q is not supported (text or json)", c.Log.Format))
	}
	if c.Notify.Slack.BotToken != "" && c.Notify.Slack.ChannelID == "" {
		errs = append(errs, "notify.slack.channel_id is required when a bot token is set")
	}
	if c.Notify.Discord.BotToken != "" && c.Notify.Discord.ChannelID == "" {
		errs = append(errs, "notify.discord.channel_id is required when a bot token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
