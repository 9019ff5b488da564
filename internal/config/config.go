// Package config loads the research configuration from YAML.
package config

import "time"

// Config is the root configuration for the research tools.
type Config struct {
	Provider Provider `yaml:"provider"`
	Universe Universe `yaml:"universe"`
	Research Research `yaml:"research"`
	Database Database `yaml:"database"`
	Report   Report   `yaml:"report"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Provider holds the end-of-day data API settings.
type Provider struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	CacheDir   string        `yaml:"cache_dir"` // empty disables the disk cache
}

// Universe selects the assets under study. Symbols wins over the
// constituents URL when both are set.
type Universe struct {
	Index           string   `yaml:"index"`
	ConstituentsURL string   `yaml:"constituents_url"`
	Symbols         []string `yaml:"symbols"`
}

// Research holds the computation parameters.
type Research struct {
	From           string  `yaml:"from"` // YYYY-MM-DD
	To             string  `yaml:"to"`
	Method         string  `yaml:"method"`    // simple or log
	Frequency      string  `yaml:"frequency"` // daily or monthly
	FrontierPoints int     `yaml:"frontier_points"`
	TargetMultiple float64 `yaml:"target_multiple"`
}

// Database holds the storage backends. Candles and securities live in
// Postgres, computed series in ClickHouse.
type Database struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Report holds output settings.
type Report struct {
	OutputDir string `yaml:"output_dir"`
}

// Metrics holds Prometheus settings.
type Metrics struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
