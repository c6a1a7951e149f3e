package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/doc-summarizer/api"
	"github.com/fyerfyer/doc-summarizer/api/handler"
	"github.com/fyerfyer/doc-summarizer/api/middleware"
	appconfig "github.com/fyerfyer/doc-summarizer/config"
	"github.com/fyerfyer/doc-summarizer/internal/cache"
	"github.com/fyerfyer/doc-summarizer/internal/database"
	"github.com/fyerfyer/doc-summarizer/internal/repository"
	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/fyerfyer/doc-summarizer/pkg/storage"
	"github.com/fyerfyer/doc-summarizer/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 命令行参数，非零值覆盖配置文件
type flags struct {
	ConfigFile   string        // 配置文件路径
	Port         int           // 服务端口
	Mode         string        // 运行模式 (debug/release)
	LogLevel     string        // 日志级别
	QueueEnabled bool          // 是否启用任务队列
	ReadTimeout  time.Duration // 读取超时
	WriteTimeout time.Duration // 写入超时
}

func main() {
	f := parseFlags()

	cfg, err := appconfig.Load(f.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, f)

	gin.SetMode(cfg.Server.Mode)

	// 初始化日志
	logger, err := middleware.SetupLogger(middleware.LogConfig{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting document summarizer...")

	// 初始化数据库
	if err := database.Setup(&database.Config{
		Type:         cfg.Database.Type,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxLifetime:  time.Hour,
	}, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 创建文件存储服务
	fileStorage, err := setupStorage(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 创建摘要服务
	summaryService, err := services.NewSummaryService(
		services.WithSummaryLogger(logger),
		services.WithStopwordsFile(cfg.Summarizer.StopwordsPath),
		services.WithStemming(cfg.Summarizer.Stem),
		services.WithDefaultPercentage(cfg.Summarizer.DefaultPercentage),
		services.WithKeywordLimit(cfg.Summarizer.KeywordLimit),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize summary service: %v", err)
	}

	// 初始化任务队列（如果启用）
	var queue *taskqueue.RedisQueue
	if cfg.Queue.Enable {
		queue, err = setupTaskQueue(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer queue.Close()
		logger.Info("Task queue initialized successfully")
	}

	db := database.MustDB()
	var repo repository.DocumentRepository
	if queue != nil {
		// 删除文档时一并清理队列中的任务
		repo = repository.NewDocumentRepositoryWithQueue(db, queue)
	} else {
		repo = repository.NewDocumentRepositoryWithDB(db)
	}

	documentOptions := []services.DocumentOption{
		services.WithDocumentRepository(repo),
		services.WithLogger(logger),
		services.WithTimeout(cfg.Document.TimeoutDuration()),
	}

	if cfg.Cache.Enable {
		cacheService, err := setupCache(cfg)
		if err != nil {
			logger.Fatalf("Failed to initialize cache: %v", err)
		}
		documentOptions = append(documentOptions, services.WithCache(cacheService, cfg.Cache.CacheTTL()))
	}

	if queue != nil {
		documentOptions = append(documentOptions,
			services.WithTaskQueue(queue),
			services.WithAsyncProcessing(true),
		)
		logger.Info("Document processing will use async task queue")
	}

	documentService := services.NewDocumentService(fileStorage, summaryService, documentOptions...)

	// 启动任务处理worker
	var taskHandler *handler.TaskHandler
	if queue != nil {
		worker := taskqueue.NewRedisWorker(queue, queueConfig(cfg))
		worker.RegisterHandler(taskqueue.TaskDocumentSummarize, services.NewSummarizeTaskHandler(documentService, logger))
		if err := worker.Start(); err != nil {
			logger.Fatalf("Failed to start task worker: %v", err)
		}
		defer worker.Stop()
		taskHandler = handler.NewTaskHandler(documentService)
	}

	r := api.SetupRouter(
		handler.NewDocumentHandler(documentService, cfg.Document.MaxFileSize),
		handler.NewSummaryHandler(summaryService),
		taskHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  f.ReadTimeout,
		WriteTimeout: f.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.ConfigFile, "config", "config.yaml", "Path to config file")
	flag.IntVar(&f.Port, "port", 0, "Server port, overrides config")
	flag.StringVar(&f.Mode, "mode", "", "Run mode (debug/release), overrides config")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug/info/warn/error), overrides config")
	flag.BoolVar(&f.QueueEnabled, "queue", false, "Enable task queue")
	flag.DurationVar(&f.ReadTimeout, "read-timeout", 30*time.Second, "Read timeout")
	flag.DurationVar(&f.WriteTimeout, "write-timeout", 60*time.Second, "Write timeout")

	flag.Parse()
	return f
}

// applyFlags 用命令行参数覆盖配置
func applyFlags(cfg *appconfig.Config, f flags) {
	if f.Port > 0 {
		cfg.Server.Port = f.Port
	}
	if f.Mode != "" {
		cfg.Server.Mode = f.Mode
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.QueueEnabled {
		cfg.Queue.Enable = true
	}
}

// setupStorage 设置文件存储服务
func setupStorage(cfg *appconfig.Config) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type: cfg.Storage.Type,
		Local: storage.LocalConfig{
			Path: cfg.Storage.Path,
		},
		Minio: storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
		},
	})
}

// setupCache 设置摘要缓存
func setupCache(cfg *appconfig.Config) (cache.Cache, error) {
	return cache.NewCache(cache.Config{
		Type:            cfg.Cache.Type,
		RedisAddr:       cfg.Cache.Address,
		RedisPassword:   cfg.Cache.Password,
		RedisDB:         cfg.Cache.DB,
		KeyPrefix:       "docsum",
		DefaultTTL:      cfg.Cache.CacheTTL(),
		CleanupInterval: 10 * time.Minute,
	})
}

// queueConfig 从应用配置构建队列配置
func queueConfig(cfg *appconfig.Config) *taskqueue.Config {
	qc := taskqueue.DefaultConfig()
	qc.RedisAddr = cfg.Queue.RedisAddr
	qc.RedisPassword = cfg.Queue.RedisPassword
	qc.RedisDB = cfg.Queue.RedisDB
	qc.Concurrency = cfg.Queue.Concurrency
	qc.RetryLimit = cfg.Queue.RetryLimit
	qc.RetryDelay = cfg.Queue.RetryDelayDuration()
	return qc
}

// setupTaskQueue 设置任务队列
func setupTaskQueue(cfg *appconfig.Config, logger *logrus.Logger) (*taskqueue.RedisQueue, error) {
	logger.WithFields(logrus.Fields{
		"type":        cfg.Queue.Type,
		"redis_addr":  cfg.Queue.RedisAddr,
		"concurrency": cfg.Queue.Concurrency,
		"retry_limit": cfg.Queue.RetryLimit,
	}).Info("Setting up task queue")

	return taskqueue.NewRedisQueue(queueConfig(cfg), taskqueue.WithQueueLogger(logger))
}
