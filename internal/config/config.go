package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Tracing      TracingConfig `mapstructure:"tracing"`
	Redis        RedisConfig
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Gamification GamificationConfig `mapstructure:"gamification"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool   `mapstructure:"-"`
	MigrateOnly  bool   `mapstructure:"-"`
	Path         string `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool   `mapstructure:"parse_time"`
	SSLMode   string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
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

// GamificationConfig 训练积分与成就相关参数
type GamificationConfig struct {
	BaseCompletionPoints   int           `mapstructure:"base_completion_points"`
	BonusPerExercise       int           `mapstructure:"bonus_per_exercise"`
	PointsPerLevel         int           `mapstructure:"points_per_level"`
	WriteTimeout           time.Duration `mapstructure:"write_timeout"`
	SessionTTL             time.Duration `mapstructure:"session_ttl"`
	CatalogCacheTTL        time.Duration `mapstructure:"catalog_cache_ttl"`
	AwardAchievementPoints bool          `mapstructure:"award_achievement_points"`
}

const (
	DefaultBaseCompletionPoints = 20
	DefaultBonusPerExercise     = 5
	DefaultPointsPerLevel       = 100
	DefaultWriteTimeout         = 5 * time.Second
	DefaultSessionTTL           = 6 * time.Hour
	DefaultCatalogCacheTTL      = 10 * time.Minute
)

// DefaultGamification 返回默认积分规则
func DefaultGamification() GamificationConfig {
	return GamificationConfig{
		BaseCompletionPoints: DefaultBaseCompletionPoints,
		BonusPerExercise:     DefaultBonusPerExercise,
		PointsPerLevel:       DefaultPointsPerLevel,
		WriteTimeout:         DefaultWriteTimeout,
		SessionTTL:           DefaultSessionTTL,
		CatalogCacheTTL:      DefaultCatalogCacheTTL,
	}
}

// Normalize 为未配置（<=0）的字段填充默认值
func (g GamificationConfig) Normalize() GamificationConfig {
	d := DefaultGamification()
	if g.BaseCompletionPoints <= 0 {
		g.BaseCompletionPoints = d.BaseCompletionPoints
	}
	if g.BonusPerExercise <= 0 {
		g.BonusPerExercise = d.BonusPerExercise
	}
	if g.PointsPerLevel <= 0 {
		g.PointsPerLevel = d.PointsPerLevel
	}
	if g.WriteTimeout <= 0 {
		g.WriteTimeout = d.WriteTimeout
	}
	if g.SessionTTL <= 0 {
		g.SessionTTL = d.SessionTTL
	}
	if g.CatalogCacheTTL <= 0 {
		g.CatalogCacheTTL = d.CatalogCacheTTL
	}
	return g
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MONSTERHOUSE")
	v.AutomaticEnv()

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("gamification.base_completion_points", DefaultBaseCompletionPoints)
	v.SetDefault("gamification.bonus_per_exercise", DefaultBonusPerExercise)
	v.SetDefault("gamification.points_per_level", DefaultPointsPerLevel)
	v.SetDefault("gamification.write_timeout", DefaultWriteTimeout)
	v.SetDefault("gamification.session_ttl", DefaultSessionTTL)
	v.SetDefault("gamification.catalog_cache_ttl", DefaultCatalogCacheTTL)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT（与身份提供方共享的签名密钥）
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

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
	cfg.Path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Gamification = cfg.Gamification.Normalize()

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 校验配置的合法性
func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	g := c.Gamification
	if g.BaseCompletionPoints < 0 || g.BonusPerExercise < 0 || g.PointsPerLevel < 0 {
		return fmt.Errorf("gamification values must not be negative")
	}
	return nil
}
