package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Document   DocumentConfig   `mapstructure:"document"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`                                     // 服务器主机
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`          // 服务器端口
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"` // gin运行模式
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`        // 日志文件路径，为空时只输出到标准输出
	MaxSize    int    `mapstructure:"max_size"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups"` // 保留的旧日志文件数量
	MaxAge     int    `mapstructure:"max_age"`     // 旧日志保留天数
	Compress   bool   `mapstructure:"compress"`    // 是否压缩旧日志
}

// SummarizerConfig 摘要算法配置
type SummarizerConfig struct {
	DefaultPercentage int    `mapstructure:"default_percentage" validate:"min=0,max=100"` // 默认摘要比例
	KeywordLimit      int    `mapstructure:"keyword_limit" validate:"min=1"`              // 默认关键词数量
	StopwordsPath     string `mapstructure:"stopwords_path"`                              // 停用词文件，为空时使用内置词表
	Stem              bool   `mapstructure:"stem"`                                        // 是否启用词干提取
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type      string `mapstructure:"type" validate:"oneof=local minio"` // 存储类型：local 或 minio
	Path      string `mapstructure:"path"`                              // 本地存储路径
	Bucket    string `mapstructure:"bucket"`                            // MinIO桶名称
	Endpoint  string `mapstructure:"endpoint"`                          // MinIO端点
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"` // 是否使用SSL
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Enable   bool   `mapstructure:"enable"`                             // 是否启用缓存
	Type     string `mapstructure:"type" validate:"oneof=memory redis"` // 缓存类型：memory 或 redis
	Address  string `mapstructure:"address"`                            // Redis地址
	Password string `mapstructure:"password"`                           // Redis密码
	DB       int    `mapstructure:"db"`                                 // Redis数据库
	TTL      int    `mapstructure:"ttl" validate:"min=0"`               // 缓存TTL（秒）
}

// QueueConfig 任务队列配置
type QueueConfig struct {
	Enable        bool   `mapstructure:"enable"`                       // 是否启用任务队列
	Type          string `mapstructure:"type" validate:"oneof=redis"`  // 队列类型
	RedisAddr     string `mapstructure:"redis_addr"`                   // Redis地址
	RedisPassword string `mapstructure:"redis_password"`               // Redis密码
	RedisDB       int    `mapstructure:"redis_db"`                     // Redis数据库编号
	Concurrency   int    `mapstructure:"concurrency" validate:"min=1"` // 任务处理并发数
	RetryLimit    int    `mapstructure:"retry_limit" validate:"min=0"` // 任务最大重试次数
	RetryDelay    int    `mapstructure:"retry_delay" validate:"min=0"` // 重试延迟(秒)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"oneof=sqlite"` // 数据库类型
	DSN  string `mapstructure:"dsn" validate:"required"`      // 数据源名称
}

// DocumentConfig 文档处理配置
type DocumentConfig struct {
	Timeout     int   `mapstructure:"timeout" validate:"min=1"`       // 单个文档处理超时（秒）
	MaxFileSize int64 `mapstructure:"max_file_size" validate:"min=1"` // 上传文件大小上限（字节）
}

// CacheTTL 返回缓存过期时间
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// RetryDelayDuration 返回任务重试延迟
func (c QueueConfig) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// TimeoutDuration 返回文档处理超时时间
func (c DocumentConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load 从文件和环境变量加载配置
// 配置文件不存在时写入默认配置
func Load(configPath string) (*Config, error) {
	// .env文件不存在时忽略
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)

	// 支持环境变量覆盖，例如 SUMMARIZER_DEFAULT_PERCENTAGE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		if err := writeDefaults(v, configPath); err != nil {
			log.Printf("Warning: Could not write default config to %s: %v", configPath, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置项取值
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// writeDefaults 将默认配置写入文件
func writeDefaults(v *viper.Viper, configPath string) error {
	if dir := filepath.Dir(configPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return v.WriteConfigAs(configPath)
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	// 摘要默认配置
	v.SetDefault("summarizer.default_percentage", 50)
	v.SetDefault("summarizer.keyword_limit", 20)
	v.SetDefault("summarizer.stopwords_path", "")
	v.SetDefault("summarizer.stem", false)

	// 存储默认配置
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./uploads")
	v.SetDefault("storage.bucket", "docsum")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)

	// 缓存默认配置
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 3600) // 1小时

	// 队列默认配置
	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_password", "")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.retry_limit", 3)
	v.SetDefault("queue.retry_delay", 10)

	// 数据库默认配置
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/docsum.db")

	// 文档处理默认配置
	v.SetDefault("document.timeout", 300)
	v.SetDefault("document.max_file_size", 32<<20)
}
