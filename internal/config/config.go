package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Store    StoreConfig    `mapstructure:"store"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	SyncRateLimit SyncRateLimitConfig `mapstructure:"sync_rate_limit"`
}

// SyncRateLimitConfig 同步接口限流配置
type SyncRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// StoreConfig 外部商城（WooCommerce）配置
type StoreConfig struct {
	BaseURL                  string  `mapstructure:"base_url"`
	ConsumerKey              string  `mapstructure:"consumer_key"`
	ConsumerSecret           string  `mapstructure:"consumer_secret"`
	PerPage                  int     `mapstructure:"per_page"`
	TimeoutSeconds           int     `mapstructure:"timeout_seconds"`
	SyncLockSeconds          int     `mapstructure:"sync_lock_seconds"`
	SyncIntervalMinutes      int     `mapstructure:"sync_interval_minutes"`
	AssetExcludedCategoryIDs []int64 `mapstructure:"asset_excluded_category_ids"`
}

// Timeout 请求超时
func (c StoreConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SyncLockTTL 全量同步锁有效期
func (c StoreConfig) SyncLockTTL() time.Duration {
	if c.SyncLockSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.SyncLockSeconds) * time.Second
}

// SyncInterval worker 定时同步间隔，0 表示不定时同步
func (c StoreConfig) SyncInterval() time.Duration {
	if c.SyncIntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SyncIntervalMinutes) * time.Minute
}

// BatchConfig 采购批次配置
type BatchConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location 批次日期使用的时区，无效时回退到 UTC
func (c BatchConfig) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		name = constants.DefaultBatchZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warnw("batch_timezone_invalid", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults()

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 store.base_url -> STORE_BASE_URL)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "./db/store.db")
	viper.SetDefault("database.pool.max_open_conns", 1)
	viper.SetDefault("database.pool.max_idle_conns", 1)
	viper.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	viper.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "127.0.0.1")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "store")
	viper.SetDefault("queue.enabled", true)
	viper.SetDefault("queue.host", "127.0.0.1")
	viper.SetDefault("queue.port", 6379)
	viper.SetDefault("queue.password", "")
	viper.SetDefault("queue.db", 1)
	viper.SetDefault("queue.concurrency", 2)
	viper.SetDefault("queue.queues", map[string]int{
		constants.QueueDefault: 10,
	})
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 600)
	viper.SetDefault("security.sync_rate_limit.window_seconds", 60)
	viper.SetDefault("security.sync_rate_limit.max_attempts", 3)
	viper.SetDefault("security.sync_rate_limit.block_seconds", 120)
	viper.SetDefault("store.base_url", "")
	viper.SetDefault("store.consumer_key", "")
	viper.SetDefault("store.consumer_secret", "")
	viper.SetDefault("store.per_page", 100)
	viper.SetDefault("store.timeout_seconds", 20)
	viper.SetDefault("store.sync_lock_seconds", 600)
	viper.SetDefault("store.sync_interval_minutes", 0)
	viper.SetDefault("store.asset_excluded_category_ids", []int64{})
	viper.SetDefault("batch.timezone", constants.DefaultBatchZone)
}
