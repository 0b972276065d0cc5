package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	Forum    ForumConfig    `mapstructure:"forum"`
	OSS      OSSConfig      `mapstructure:"oss"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	CorsOrigins    []string      `mapstructure:"cors_origins"`
	RateLimit      float64       `mapstructure:"rate_limit"` // 每个 IP 每秒请求数
	RateBurst      int           `mapstructure:"rate_burst"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 单个请求的截止时间，覆盖数据库与 Redis 调用
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"` // mysql, postgres
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdle        int           `mapstructure:"max_idle"`
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout"`
}

type RedisConfig struct {
	URL         string        `mapstructure:"url"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire_hours"` // 小时
}

// TTL token 有效期
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.Expire) * time.Hour
}

type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	NodeID  int64  `mapstructure:"node_id"`  // snowflake 节点
	KeySalt string `mapstructure:"key_salt"` // app_key 生成盐
}

type ForumConfig struct {
	// 主变更与计数调整是否放在同一事务中，默认关闭（两条独立语句）
	TransactionalCounters bool `mapstructure:"transactional_counters"`
	MaxPageCount          int  `mapstructure:"max_page_count"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

// Enabled 是否配置了对象存储
func (c OSSConfig) Enabled() bool {
	return c.Endpoint != "" && c.BucketName != ""
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return errors.New("database driver must be mysql or postgres")
	}
	if c.Database.URL == "" {
		return errors.New("database url is required")
	}
	if c.Database.MaxConnections <= 0 {
		return errors.New("database max_connections must be positive")
	}

	if c.Redis.URL == "" {
		return errors.New("redis url is required")
	}
	if c.Redis.PoolSize <= 0 {
		return errors.New("redis pool_size must be positive")
	}

	if c.Forum.MaxPageCount <= 0 {
		return errors.New("forum max_page_count must be positive")
	}

	return nil
}

// LoadConfig 加载配置
// path 为空时按 APP_ENV 从 ./configs 或当前目录查找 config[.env].yaml
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		env := os.Getenv("APP_ENV")
		configName := "config"
		if env != "" && env != "dev" {
			configName = "config." + env
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 200.0)
	v.SetDefault("server.rate_burst", 400)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_idle", 2)
	v.SetDefault("database.acquire_timeout", 3*time.Second)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 5)
	v.SetDefault("redis.pool_timeout", 3*time.Second)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 30*24)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.node_id", 1)
	v.SetDefault("app.key_salt", "doggtalk")
	v.SetDefault("forum.transactional_counters", false)
	v.SetDefault("forum.max_page_count", 500)
	v.SetDefault("log.level", "info")
}
