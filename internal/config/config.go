package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cypherlabdev/sporttery-odds-service/pkg/alignment"
)

// Config holds all configuration for sporttery-odds-service
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Export    ExportConfig    `mapstructure:"export"`
	Alignment AlignmentConfig `mapstructure:"alignment"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// ProviderConfig selects and configures the odds data source
type ProviderConfig struct {
	Name        string            `mapstructure:"name"` // sporttery, external, mock
	Sporttery   SportteryConfig   `mapstructure:"sporttery"`
	ExternalAPI ExternalAPIConfig `mapstructure:"external_api"`
}

// SportteryConfig holds the official lottery gateway configuration
type SportteryConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RecentDays         int           `mapstructure:"recent_days"` // result window when nothing is on sale
}

// ExternalAPIConfig holds the third-party football API configuration
type ExternalAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	AppKey  string        `mapstructure:"app_key"`
	Leagues []string      `mapstructure:"leagues"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	TTL        time.Duration `mapstructure:"ttl"`
	HistoryTTL time.Duration `mapstructure:"history_ttl"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"` // odds history batches published by the crawler
	GroupID string   `mapstructure:"group_id"`
}

// PostgresConfig holds the odds history archive configuration. An empty DSN
// disables the archive.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ExportConfig holds workbook export configuration
type ExportConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	Concurrency    int    `mapstructure:"concurrency"`
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

// AlignmentConfig holds odds alignment parameters
type AlignmentConfig struct {
	ToleranceSeconds     int  `mapstructure:"tolerance_seconds"`
	HandicapOnlyFallback bool `mapstructure:"handicap_only_fallback"`
}

// CrawlerConfig holds history crawler configuration
type CrawlerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	OutputDir   string `mapstructure:"output_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("provider.name", ProviderSporttery)
	v.SetDefault("provider.sporttery.base_url", "https://webapi.sporttery.cn/gateway")
	v.SetDefault("provider.sporttery.timeout", 15*time.Second)
	v.SetDefault("provider.sporttery.rate_limit_per_second", 5.0)
	v.SetDefault("provider.sporttery.recent_days", 14)
	v.SetDefault("provider.external_api.base_url", "https://api.jisuapi.com")
	v.SetDefault("provider.external_api.app_key", "")
	v.SetDefault("provider.external_api.leagues", []string{"英超", "西甲", "德甲", "意甲", "法甲"})
	v.SetDefault("provider.external_api.timeout", 10*time.Second)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("redis.history_ttl", 2*time.Minute)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "odds_history")
	v.SetDefault("kafka.group_id", "sporttery-odds")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 4)

	v.SetDefault("export.output_dir", "output")
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("export.filename_prefix", "竞彩足球")

	v.SetDefault("alignment.tolerance_seconds", 300)
	v.SetDefault("alignment.handicap_only_fallback", false)

	v.SetDefault("crawler.concurrency", 4)
	v.SetDefault("crawler.output_dir", "output")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("SPORTTERY_ODDS")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ToParams converts config to alignment parameters
func (c *AlignmentConfig) ToParams() alignment.Params {
	return alignment.Params{
		Tolerance:            time.Duration(c.ToleranceSeconds) * time.Second,
		HandicapOnlyFallback: c.HandicapOnlyFallback,
	}
}
