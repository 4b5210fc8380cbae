package hashlife

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config drives the cmd/ binaries: initial universe size, cache behavior,
// and the HTTP server's listen address and timeouts.
type Config struct {
	InitialSizeLevel         int `yaml:"initial_size_level"`
	CacheCompactionThreshold int `yaml:"cache_compaction_threshold"`

	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	EnableMetrics   bool          `yaml:"enable_metrics"`
	LogRequests     bool          `yaml:"log_requests"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		InitialSizeLevel:         3,
		CacheCompactionThreshold: DefaultCacheCompactionThreshold,

		Host:            "localhost",
		Port:            8080,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableMetrics:   true,
		LogRequests:     true,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// LoadConfig reads a YAML file at path and overlays it onto DefaultConfig.
// An empty path is not an error; it returns the default config. A path
// naming a file that cannot be read is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hashlife: reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("hashlife: parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port pair Start listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
