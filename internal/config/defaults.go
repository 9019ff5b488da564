package config

import "time"

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://eodhd.com/api"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 30 * time.Second
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = 3
	}

	if c.Research.Method == "" {
		c.Research.Method = "simple"
	}
	if c.Research.Frequency == "" {
		c.Research.Frequency = "daily"
	}
	if c.Research.FrontierPoints == 0 {
		c.Research.FrontierPoints = 100
	}
	if c.Research.TargetMultiple == 0 {
		c.Research.TargetMultiple = 3
	}

	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "."
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9301
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}
