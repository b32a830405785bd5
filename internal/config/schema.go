package config

import (
	"time"

	"github.com/bookdeck/bookdeck/internal/engine"
)

// Config is the top-level bookdeck configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Statuses []StatusConfig `mapstructure:"statuses" yaml:"statuses,omitempty"`
}

// ServerConfig holds Book Store connection settings.
type ServerConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// StatusConfig is one entry of the reading-status reference list. The
// labels must match what the server stores in each book's status field;
// the IDs are what filter selections are expressed in.
type StatusConfig struct {
	ID    string `mapstructure:"id" yaml:"id"`
	Label string `mapstructure:"label" yaml:"label"`
}

// Timeout returns the configured request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// StatusList converts the configured statuses into the engine's reference
// list, falling back to the defaults when none are configured.
func (c *Config) StatusList() engine.StatusList {
	statuses := c.Statuses
	if len(statuses) == 0 {
		statuses = DefaultStatuses()
	}
	out := make(engine.StatusList, len(statuses))
	for i, s := range statuses {
		out[i] = engine.StatusEntry{ID: s.ID, Label: s.Label}
	}
	return out
}

// DefaultStatuses returns the stock reading-status list. Servers with a
// richer vocabulary override it in the config file.
func DefaultStatuses() []StatusConfig {
	return []StatusConfig{
		{ID: "1", Label: "Not started"},
		{ID: "2", Label: "Reading"},
		{ID: "3", Label: "Finished"},
	}
}
