// Package config loads service settings from an optional YAML file,
// TRIP_-prefixed environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TRIP"

// Config holds all configuration values.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	SerpAPI   SerpAPIConfig   `mapstructure:"serpapi"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	LogLevel  string          `mapstructure:"log_level"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SearchConfig lists plain HTTP search backends in priority order and the
// per-query timeout.
type SearchConfig struct {
	Backends []string      `mapstructure:"backends"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SerpAPIConfig configures the SerpAPI backend. It is used only when an API
// key is set.
type SerpAPIConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Engine            string  `mapstructure:"engine"`
	BaseURL           string  `mapstructure:"base_url"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// CacheConfig configures the search response cache. An empty RedisAddr keeps
// the cache in memory.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// RateLimitConfig limits plan requests per client IP.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// PlannerConfig sets the trip calendar.
type PlannerConfig struct {
	Days            int     `mapstructure:"days"`
	DailyTravelCost float64 `mapstructure:"daily_travel_cost"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("search.backends", []string{})
	v.SetDefault("search.timeout", 5*time.Second)

	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.engine", "google")
	v.SetDefault("serpapi.base_url", "https://serpapi.com/search.json")
	v.SetDefault("serpapi.requests_per_second", 1.0)

	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("ratelimit.requests", 10)
	v.SetDefault("ratelimit.window", time.Minute)

	v.SetDefault("planner.days", 7)
	v.SetDefault("planner.daily_travel_cost", 7.50)

	v.SetDefault("log_level", "info")
}

// Load reads configuration. path may be empty, in which case config.yaml is
// looked up in the working directory and ./config; a missing file is fine.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Comma-separated lists arrive as a single string from the environment.
	if len(cfg.Search.Backends) == 1 && strings.Contains(cfg.Search.Backends[0], ",") {
		cfg.Search.Backends = splitList(cfg.Search.Backends[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Search.Timeout <= 0 {
		return errors.New("config: search.timeout must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("config: cache.ttl must not be negative")
	}
	if c.Planner.Days <= 0 {
		return errors.New("config: planner.days must be positive")
	}
	if c.Planner.DailyTravelCost < 0 {
		return errors.New("config: planner.daily_travel_cost must not be negative")
	}
	if c.SerpAPI.APIKey == "" && len(c.Search.Backends) == 0 {
		return errors.New("config: set serpapi.api_key or at least one search backend")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
