package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Data      DataConfig      `yaml:"data"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Generator GeneratorConfig `yaml:"generator"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds Postgres connection settings. An empty URL
// disables persistence; the server then keeps datasets in Redis only.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RedisConfig holds Redis connection settings for the working-set
// dataset store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DataConfig holds flat-file dataset locations
type DataConfig struct {
	Dir string `yaml:"dir"` // directory holding the four CSVs
}

// AnalyticsConfig holds the metric policy constants. These are fixed
// business assumptions, not learned quantities; they live here so tests
// can vary them without touching the algorithms.
type AnalyticsConfig struct {
	// BaselineRatio is the fraction of attributed revenue assumed to be
	// organic (would have converted without the campaign).
	BaselineRatio float64 `yaml:"baseline_ratio"`

	// Composite score weights. Must sum to 1.0.
	ROASWeight       float64 `yaml:"roas_weight"`
	EngagementWeight float64 `yaml:"engagement_weight"`
	VolumeWeight     float64 `yaml:"volume_weight"`
	EfficiencyWeight float64 `yaml:"efficiency_weight"`

	// Rule thresholds for the insight engine.
	LowROASThreshold   float64 `yaml:"low_roas_threshold"`
	ScaleROASThreshold float64 `yaml:"scale_roas_threshold"`

	// UnderperformerPercentile is the performance-score quantile below
	// which an influencer is flagged (0-100).
	UnderperformerPercentile float64 `yaml:"underperformer_percentile"`

	// RollingWindowDays is the trailing window for time-series averages.
	RollingWindowDays int `yaml:"rolling_window_days"`

	// TopN is the default row count for top-performer listings.
	TopN int `yaml:"top_n"`
}

// GeneratorConfig holds mock dataset generation parameters
type GeneratorConfig struct {
	Seed            int64 `yaml:"seed"`
	NumInfluencers  int   `yaml:"num_influencers"`
	MinPostsPerInfl int   `yaml:"min_posts_per_influencer"`
	MaxPostsPerInfl int   `yaml:"max_posts_per_influencer"`
	HistoryDays     int   `yaml:"history_days"`
}

// DefaultAnalytics returns the documented policy defaults.
func DefaultAnalytics() AnalyticsConfig {
	return AnalyticsConfig{
		BaselineRatio:            0.20,
		ROASWeight:               0.30,
		EngagementWeight:         0.25,
		VolumeWeight:             0.25,
		EfficiencyWeight:         0.20,
		LowROASThreshold:         1.0,
		ScaleROASThreshold:       3.0,
		UnderperformerPercentile: 25,
		RollingWindowDays:        7,
		TopN:                     10,
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads the config file and applies environment overrides.
// A missing config file is not fatal; defaults are used so the server
// can start with nothing but env vars (or nothing at all).
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if present (ignore errors - file is optional)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
		cfg.applyDefaults()
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}

	def := DefaultAnalytics()
	if c.Analytics.BaselineRatio == 0 {
		c.Analytics.BaselineRatio = def.BaselineRatio
	}
	if c.Analytics.ROASWeight == 0 && c.Analytics.EngagementWeight == 0 &&
		c.Analytics.VolumeWeight == 0 && c.Analytics.EfficiencyWeight == 0 {
		c.Analytics.ROASWeight = def.ROASWeight
		c.Analytics.EngagementWeight = def.EngagementWeight
		c.Analytics.VolumeWeight = def.VolumeWeight
		c.Analytics.EfficiencyWeight = def.EfficiencyWeight
	}
	if c.Analytics.LowROASThreshold == 0 {
		c.Analytics.LowROASThreshold = def.LowROASThreshold
	}
	if c.Analytics.ScaleROASThreshold == 0 {
		c.Analytics.ScaleROASThreshold = def.ScaleROASThreshold
	}
	if c.Analytics.UnderperformerPercentile == 0 {
		c.Analytics.UnderperformerPercentile = def.UnderperformerPercentile
	}
	if c.Analytics.RollingWindowDays == 0 {
		c.Analytics.RollingWindowDays = def.RollingWindowDays
	}
	if c.Analytics.TopN == 0 {
		c.Analytics.TopN = def.TopN
	}

	if c.Generator.Seed == 0 {
		c.Generator.Seed = 42
	}
	if c.Generator.NumInfluencers == 0 {
		c.Generator.NumInfluencers = 50
	}
	if c.Generator.MinPostsPerInfl == 0 {
		c.Generator.MinPostsPerInfl = 5
	}
	if c.Generator.MaxPostsPerInfl == 0 {
		c.Generator.MaxPostsPerInfl = 15
	}
	if c.Generator.HistoryDays == 0 {
		c.Generator.HistoryDays = 90
	}
}

// Validate checks invariants that would otherwise surface as subtle
// metric corruption at runtime.
func (c *Config) Validate() error {
	a := c.Analytics
	if a.BaselineRatio < 0 || a.BaselineRatio >= 1 {
		return fmt.Errorf("analytics: baseline_ratio must be in [0, 1), got %v", a.BaselineRatio)
	}
	sum := a.ROASWeight + a.EngagementWeight + a.VolumeWeight + a.EfficiencyWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("analytics: score weights must sum to 1.0, got %v", sum)
	}
	if a.UnderperformerPercentile < 0 || a.UnderperformerPercentile > 100 {
		return fmt.Errorf("analytics: underperformer_percentile must be in [0, 100], got %v", a.UnderperformerPercentile)
	}
	if a.RollingWindowDays < 1 {
		return fmt.Errorf("analytics: rolling_window_days must be >= 1, got %d", a.RollingWindowDays)
	}
	if c.Generator.MaxPostsPerInfl < c.Generator.MinPostsPerInfl {
		return fmt.Errorf("generator: max_posts_per_influencer < min_posts_per_influencer")
	}
	return nil
}
