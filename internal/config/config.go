package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Media    MediaConfig    `mapstructure:"media"`
	News     NewsConfig     `mapstructure:"news"`
	Query    QueryConfig    `mapstructure:"query"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Mode        string `mapstructure:"mode"`
	Port        int    `mapstructure:"port"`
	MachineID   int64  `mapstructure:"machine_id"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql postgres sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"ssl_mode"`
	Path         string `mapstructure:"path"` // sqlite 文件路径
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
	ConnectRetry uint   `mapstructure:"connect_retry"`
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host, c.Port, c.Username, c.Password, c.Database, sslMode)
	case "sqlite":
		if c.Path == "" {
			return "news.db"
		}
		return c.Path
	default:
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database, charset)
	}
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// MediaConfig 媒体文件配置
type MediaConfig struct {
	Storage           string           `mapstructure:"storage"` // local cos
	MaxFileSize       int64            `mapstructure:"max_file_size"`
	AllowedExtensions []string         `mapstructure:"allowed_extensions"`
	Local             MediaLocalConfig `mapstructure:"local"`
	COS               MediaCOSConfig   `mapstructure:"cos"`
}

// MediaLocalConfig 本地存储配置
type MediaLocalConfig struct {
	UploadPath string `mapstructure:"upload_path"`
	URLPrefix  string `mapstructure:"url_prefix"`
}

// MediaCOSConfig 腾讯云COS配置
type MediaCOSConfig struct {
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	BucketURL string `mapstructure:"bucket_url"`
	Prefix    string `mapstructure:"prefix"`
}

// NewsConfig 第三方新闻API配置
type NewsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Country string        `mapstructure:"country"`
	TTL     NewsTTLConfig `mapstructure:"ttl"`
}

// NewsTTLConfig 各接口缓存时间
type NewsTTLConfig struct {
	Headlines time.Duration `mapstructure:"headlines"`
	Search    time.Duration `mapstructure:"search"`
	Sources   time.Duration `mapstructure:"sources"`
}

// QueryConfig 列表查询配置
type QueryConfig struct {
	DefaultPerPage int `mapstructure:"default_per_page"`
	MaxPerPage     int `mapstructure:"max_per_page"`
}

var (
	// 配置Viper实例，供 Watch 使用
	viperInstance *viper.Viper
	watchOnce     sync.Once
)

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "news-portal")
	v.SetDefault("app.mode", "release")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.machine_id", 1)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "news.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.connect_retry", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.max_backups", 7)

	v.SetDefault("media.storage", "local")
	v.SetDefault("media.max_file_size", 10<<20)
	v.SetDefault("media.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "webp", "bmp"})
	v.SetDefault("media.local.upload_path", "static/uploads")
	v.SetDefault("media.local.url_prefix", "/uploads")

	v.SetDefault("news.base_url", "https://newsdata.io/api/1")
	v.SetDefault("news.timeout", 10*time.Second)
	v.SetDefault("news.country", "us")
	v.SetDefault("news.ttl.headlines", 300*time.Second)
	v.SetDefault("news.ttl.search", 600*time.Second)
	v.SetDefault("news.ttl.sources", 3600*time.Second)

	v.SetDefault("query.default_per_page", 12)
	v.SetDefault("query.max_per_page", 100)
}

// Load 读取配置目录下的 config.yaml，环境变量优先
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	viperInstance = v
	return &config, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	switch c.Media.Storage {
	case "local", "cos":
	default:
		return fmt.Errorf("不支持的存储类型: %s", c.Media.Storage)
	}
	if c.Query.DefaultPerPage <= 0 || c.Query.MaxPerPage < c.Query.DefaultPerPage {
		return fmt.Errorf("分页配置错误: default=%d max=%d", c.Query.DefaultPerPage, c.Query.MaxPerPage)
	}
	if c.News.Timeout <= 0 {
		return fmt.Errorf("新闻接口超时必须大于0")
	}
	return nil
}

// Watch 监听配置文件变化，仅热更新日志级别
func Watch(onLogLevel func(level string)) {
	if viperInstance == nil {
		return
	}
	watchOnce.Do(func() {
		viperInstance.OnConfigChange(func(e fsnotify.Event) {
			if e.Op&fsnotify.Write == 0 {
				return
			}
			onLogLevel(viperInstance.GetString("log.level"))
		})
		viperInstance.WatchConfig()
	})
}
