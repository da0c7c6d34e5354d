package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port        string
	Mode        string
	WatchConfig bool `mapstructure:"watch_config"`
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	Charset      string
	ParseTime    bool `mapstructure:"parse_time"`
	MaxOpenConns int  `mapstructure:"max_open_conns"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// LimitsConfig 业务上限，全部按用户计算
type LimitsConfig struct {
	StagingCapacity int `mapstructure:"staging_capacity"`
	MaxTasks        int `mapstructure:"max_tasks"`
	MaxGoals        int `mapstructure:"max_goals"`
	MaxSubtasks     int `mapstructure:"max_subtasks"`
	TxRetries       int `mapstructure:"tx_retries"`
}

type AnalyticsConfig struct {
	CacheTTLSeconds  int `mapstructure:"cache_ttl_seconds"`
	TrendDefaultDays int `mapstructure:"trend_default_days"`
	TrendMaxDays     int `mapstructure:"trend_max_days"`
}

func (a AnalyticsConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// DefaultLimits 返回默认的业务上限
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		StagingCapacity: 5,
		MaxTasks:        1000,
		MaxGoals:        100,
		MaxSubtasks:     20,
		TxRetries:       3,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.max_open_conns", 50)

	limits := DefaultLimits()
	v.SetDefault("limits.staging_capacity", limits.StagingCapacity)
	v.SetDefault("limits.max_tasks", limits.MaxTasks)
	v.SetDefault("limits.max_goals", limits.MaxGoals)
	v.SetDefault("limits.max_subtasks", limits.MaxSubtasks)
	v.SetDefault("limits.tx_retries", limits.TxRetries)

	v.SetDefault("analytics.cache_ttl_seconds", 60)
	v.SetDefault("analytics.trend_default_days", 30)
	v.SetDefault("analytics.trend_max_days", 366)

	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUADRANT")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验配置的合法性
func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}
	if c.Limits.StagingCapacity <= 0 || c.Limits.MaxTasks <= 0 || c.Limits.MaxGoals <= 0 || c.Limits.MaxSubtasks <= 0 {
		return fmt.Errorf("limits must be positive: %+v", c.Limits)
	}
	if c.Limits.TxRetries < 1 {
		c.Limits.TxRetries = 1
	}
	if c.Analytics.TrendDefaultDays <= 0 || c.Analytics.TrendMaxDays < c.Analytics.TrendDefaultDays {
		return fmt.Errorf("invalid trend window: default=%d max=%d", c.Analytics.TrendDefaultDays, c.Analytics.TrendMaxDays)
	}
	return nil
}
