// Package config handles configuration loading from CLI flags, environment
// variables, and TOML files.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration settings for the server.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Dialog  DialogConfig  `toml:"dialog"`
	Web     WebConfig     `toml:"web"`
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	Transport string `toml:"transport"` // "stdio", "sse", "http"
	Host      string `toml:"host"`      // Listen address for sse/http transports
	Port      int    `toml:"port"`      // Listen port for sse/http transports
}

// DialogConfig holds dialog channel settings.
type DialogConfig struct {
	Channel string   `toml:"channel"` // "auto", "elicit", "native", "web"
	Timeout Duration `toml:"timeout"` // Ceiling on waiting for a human response
}

// WebConfig holds the browser dialog channel settings.
type WebConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// HistoryConfig holds interaction history storage settings.
type HistoryConfig struct {
	Type string `toml:"type"` // "memory", "sqlite", "postgresql"
	Path string `toml:"path"` // SQLite file path
	URL  string `toml:"url"`  // PostgreSQL connection URL
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `toml:"level"`  // "debug", "info", "warn", "error"
	Format     string `toml:"format"` // "json", "console"
	Output     string `toml:"output"` // "stderr", "file"
	File       string `toml:"file"`   // Log file path when output is "file"
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "stdio",
			Host:      "127.0.0.1",
			Port:      8089,
		},
		Dialog: DialogConfig{
			Channel: "auto",
			Timeout: Duration(5 * time.Minute),
		},
		Web: WebConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8090,
		},
		History: HistoryConfig{
			Type: "memory",
			Path: "hitl.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stderr",
			File:       "hitl-mcp.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load loads configuration from CLI flags, environment variables, and a TOML
// file. Priority: CLI flags > env vars > TOML file > defaults.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("hitl-mcp", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file path")

	// Server flags
	transport := fs.String("transport", "", "MCP transport: stdio, sse, http")
	host := fs.String("host", "", "Listen address for sse/http transports")
	port := fs.Int("port", 0, "Listen port for sse/http transports")

	// Dialog flags
	channel := fs.String("channel", "", "Dialog channel: auto, elicit, native, web")
	timeout := fs.Duration("timeout", 0, "Ceiling on waiting for a human response")

	// Web channel flags
	web := fs.Bool("web", false, "Enable the browser dialog channel")
	webHost := fs.String("web-host", "", "Browser dialog listen address")
	webPort := fs.Int("web-port", 0, "Browser dialog listen port")

	// History flags
	history := fs.String("history", "", "History storage: memory, sqlite, postgresql")
	historyPath := fs.String("history-path", "", "SQLite database path")
	historyURL := fs.String("history-url", "", "PostgreSQL connection URL")

	// Logging flags
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := fs.String("log-file", "", "Log to a rotated file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load TOML config if present
	path := *configPath
	if path == "" {
		path = "hitl-mcp.toml"
	}
	if err := cfg.loadTOML(path); err != nil {
		if *configPath != "" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// Apply environment variables
	cfg.applyEnv()

	// Apply CLI flags (highest priority)
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *channel != "" {
		cfg.Dialog.Channel = *channel
	}
	if *timeout != 0 {
		cfg.Dialog.Timeout = Duration(*timeout)
	}
	if *web {
		cfg.Web.Enabled = true
	}
	if *webHost != "" {
		cfg.Web.Host = *webHost
	}
	if *webPort != 0 {
		cfg.Web.Port = *webPort
	}
	if *history != "" {
		cfg.History.Type = *history
	}
	if *historyPath != "" {
		cfg.History.Path = *historyPath
	}
	if *historyURL != "" {
		cfg.History.URL = *historyURL
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.Output = "file"
		cfg.Logging.File = *logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTOML loads configuration from a TOML file.
func (c *Config) loadTOML(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("HITL_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("HITL_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("HITL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("HITL_CHANNEL"); v != "" {
		c.Dialog.Channel = v
	}
	if v := os.Getenv("HITL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Dialog.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("HITL_WEB"); v != "" {
		c.Web.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("HITL_WEB_HOST"); v != "" {
		c.Web.Host = v
	}
	if v := os.Getenv("HITL_WEB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Web.Port = port
		}
	}
	if v := os.Getenv("HITL_HISTORY"); v != "" {
		c.History.Type = v
	}
	if v := os.Getenv("HITL_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("HITL_HISTORY_URL"); v != "" {
		c.History.URL = v
	}
	if v := os.Getenv("HITL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HITL_LOG_FILE"); v != "" {
		c.Logging.Output = "file"
		c.Logging.File = v
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "sse", "http":
	default:
		return fmt.Errorf("unknown transport %q", c.Server.Transport)
	}
	switch c.Dialog.Channel {
	case "auto", "elicit", "native", "web":
	default:
		return fmt.Errorf("unknown dialog channel %q", c.Dialog.Channel)
	}
	if c.Dialog.Channel == "web" && !c.Web.Enabled {
		return fmt.Errorf("dialog channel %q requires web.enabled", c.Dialog.Channel)
	}
	switch c.History.Type {
	case "memory", "sqlite", "postgresql":
	default:
		return fmt.Errorf("unknown history storage %q", c.History.Type)
	}
	if c.Dialog.Timeout.Duration() <= 0 {
		return fmt.Errorf("dialog timeout must be positive")
	}
	return nil
}
