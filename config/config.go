package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Password PasswordConfig `mapstructure:"password"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	SecretKey string `mapstructure:"secret_key"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite; empty = infer from dsn
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type SessionConfig struct {
	Store      string        `mapstructure:"store"` // database, redis
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PasswordConfig scrypt 参数
type PasswordConfig struct {
	N          int `mapstructure:"n"`
	R          int `mapstructure:"r"`
	P          int `mapstructure:"p"`
	SaltLength int `mapstructure:"salt_length"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var (
	ErrMissingSecretKey = errors.New("secret key is not set (SECRET_KEY)")
	ErrMissingDSN       = errors.New("database dsn is not set (DB_URI)")
)

// Load 读取 config.yaml（可选）与环境变量
func Load() (*Config, error) {
	return load(viper.New())
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 兼容旧部署的环境变量名
	_ = v.BindEnv("app.secret_key", "BLOG_APP_SECRET_KEY", "SECRET_KEY", "FLASK_KEY")
	_ = v.BindEnv("database.dsn", "BLOG_DATABASE_DSN", "DB_URI", "DATABASE_URL")

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5002)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("app.name", "gin-blog")

	v.SetDefault("database.driver", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)

	v.SetDefault("session.store", "database")
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("password.n", 32768)
	v.SetDefault("password.r", 8)
	v.SetDefault("password.p", 1)
	v.SetDefault("password.salt_length", 16)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "gin-blog")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("metrics.enabled", true)
}

func (c *Config) normalize() error {
	if c.App.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Database.DSN == "" {
		return ErrMissingDSN
	}
	driver, dsn := inferDriver(c.Database.Driver, c.Database.DSN)
	c.Database.Driver, c.Database.DSN = driver, dsn

	switch c.Session.Store {
	case "database", "redis":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Password.SaltLength < 8 {
		return fmt.Errorf("password.salt_length must be at least 8, got %d", c.Password.SaltLength)
	}
	return nil
}

// inferDriver 根据连接串推断驱动；sqlite:///path 形式转换为文件路径
func inferDriver(driver, dsn string) (string, string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:///"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite:///")
	case driver != "":
		return driver, dsn
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return "postgres", dsn
	default:
		return "sqlite", dsn
	}
}

// Addr 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
