package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dorphin/internal/api/handler"
	"dorphin/internal/api/middleware"
	"dorphin/internal/api/router"
	"dorphin/internal/config"
	"dorphin/internal/infra/database"
	infraES "dorphin/internal/infra/elasticsearch"
	infraKafka "dorphin/internal/infra/kafka"
	infraMinio "dorphin/internal/infra/minio"
	infraRedis "dorphin/internal/infra/redis"
	"dorphin/internal/model"
	"dorphin/internal/ratelimit"
	"dorphin/internal/repository"
	"dorphin/internal/service"
	"dorphin/pkg/logger"

	_ "dorphin/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Dorphin API
// @version 1.0
// @description 视频分享平台 API 服务

// @contact.name API Support
// @contact.email support@dorphin.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	// 自动迁移数据库表
	if err := database.AutoMigrate(
		&model.User{},
		&model.Video{},
		&model.Comment{},
		&model.Favorite{},
		&model.Relation{},
		&model.Notification{},
	); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO
	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	if err := infraKafka.InitProducer(&cfg.Kafka); err != nil {
		logger.Fatal("Failed to init kafka producer", zap.Error(err))
	}
	defer infraKafka.CloseProducer()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	esReady := false
	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		esReady = true
		defer infraES.Close()
		if err := infraES.InitIndexes(); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()

	// 使用自定义中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	objectStore := infraMinio.NewObjectStore()
	eventSink := infraKafka.NewVideoEventSink(&cfg.Kafka)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, relationRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	relationService := service.NewRelationService(relationRepo, userRepo, notificationService)
	videoService := service.NewVideoService(videoRepo, objectStore, eventSink, &cfg.MinIO)
	commentService := service.NewCommentService(commentRepo, videoRepo, notificationService)
	favoriteService := service.NewFavoriteService(favoriteRepo, videoRepo, userRepo, notificationService)
	searchService := service.NewSearchService(videoRepo)

	// 启动视频事件消费者，把发布/删除同步到搜索索引
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if esReady {
		eventHandler := func(event *infraKafka.VideoEvent) error {
			switch event.Event {
			case infraKafka.EventVideoPublished:
				return searchService.SyncVideoToES(event.VideoID)
			case infraKafka.EventVideoDeleted:
				return searchService.RemoveVideoFromES(event.VideoID)
			default:
				logger.Warn("Unknown video event", zap.String("event", event.Event))
				return nil
			}
		}
		go infraKafka.StartVideoEventConsumer(
			consumerCtx,
			cfg.Kafka.Brokers,
			eventSink.Topic(),
			"dorphin-search-sync",
			eventHandler,
		)
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, authService)
	relationHandler := handler.NewRelationHandler(relationService)
	videoHandler := handler.NewVideoHandler(videoService)
	commentHandler := handler.NewCommentHandler(commentService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService, videoService)
	searchHandler := handler.NewSearchHandler(searchService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// 管理员中间件（需要查数据库获取角色）
	adminMiddleware := middleware.AdminRequired(func(userID int64) (string, error) {
		user, err := userRepo.GetByID(userID)
		if err != nil {
			return "", err
		}
		return user.UserRole, nil
	})

	// 上传限流（令牌桶，按用户）
	uploadBucket := ratelimit.NewTokenBucket(
		infraRedis.Get(),
		cfg.RateLimit.UploadCapacity,
		cfg.RateLimit.UploadRefill,
	)
	uploadLimiter := middleware.RateLimit(uploadBucket, "upload")

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册业务路由
	router.Setup(r, &router.Handlers{
		Auth:         authHandler,
		User:         userHandler,
		Relation:     relationHandler,
		Video:        videoHandler,
		Comment:      commentHandler,
		Favorite:     favoriteHandler,
		Search:       searchHandler,
		Notification: notificationHandler,
	}, middleware.JWTVerifier{}, adminMiddleware, uploadLimiter)

	// 启动服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
	)

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	logger.Debug("Health check requested", zap.String("ip", c.ClientIP()))

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
	})
}
