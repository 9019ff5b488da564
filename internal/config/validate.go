package config

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Validate checks the configuration for inconsistencies. Defaults should
// be applied first.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("provider.max_retries must not be negative")
	}

	if len(c.Universe.Symbols) == 0 && c.Universe.ConstituentsURL == "" {
		return fmt.Errorf("universe needs symbols or a constituents_url")
	}
	if c.Universe.ConstituentsURL != "" && c.Universe.Index == "" {
		return fmt.Errorf("universe.index is required with constituents_url")
	}

	from, err := c.FromDate()
	if err != nil {
		return err
	}
	to, err := c.ToDate()
	if err != nil {
		return err
	}
	if !from.Before(to) {
		return fmt.Errorf("research.from must be before research.to")
	}

	switch c.Research.Method {
	case "simple", "log":
	default:
		return fmt.Errorf("research.method must be simple or log, got %q", c.Research.Method)
	}
	switch c.Research.Frequency {
	case "daily", "monthly":
	default:
		return fmt.Errorf("research.frequency must be daily or monthly, got %q", c.Research.Frequency)
	}
	if c.Research.FrontierPoints < 2 {
		return fmt.Errorf("research.frontier_points must be at least 2")
	}
	if c.Research.TargetMultiple <= 1 {
		return fmt.Errorf("research.target_multiple must be above 1")
	}

	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port out of range: %d", c.Metrics.Port)
	}

	return nil
}

// FromDate parses the research start date.
func (c *Config) FromDate() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.Research.From)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse research.from: %w", err)
	}
	return t, nil
}

// ToDate parses the research end date.
func (c *Config) ToDate() (time.Time, error) {
	t, err := time.Parse(dateLayout, c.Research.To)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse research.to: %w", err)
	}
	return t, nil
}
