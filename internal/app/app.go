package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"quadrant_planner_backend/internal/config"
	"quadrant_planner_backend/internal/controller"
	"quadrant_planner_backend/internal/repository"
	"quadrant_planner_backend/internal/service"
	"quadrant_planner_backend/pkg/configwatcher"
	"quadrant_planner_backend/pkg/database"
	"quadrant_planner_backend/pkg/logger"
	"quadrant_planner_backend/pkg/monitoring"
	"quadrant_planner_backend/pkg/security"
	"quadrant_planner_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)

	// 后台协程的生命周期，Close 时取消
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	goal      *repository.GoalRepository
	task      *repository.TaskRepository
	subtask   *repository.SubtaskRepository
	analytics *repository.AnalyticsRepository
	locker    *repository.UserLocker
}

type services struct {
	goal      *service.GoalService
	task      *service.TaskService
	subtask   *service.SubtaskService
	analytics *service.AnalyticsService
}

type controllers struct {
	goal      *controller.GoalController
	task      *controller.TaskController
	subtask   *controller.SubtaskController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		goal:      repository.NewGoalRepository(db),
		task:      repository.NewTaskRepository(db),
		subtask:   repository.NewSubtaskRepository(db),
		analytics: repository.NewAnalyticsRepository(db, rdb, cfg.Analytics.CacheTTL()),
		locker:    repository.NewUserLocker(db, cfg.Limits.TxRetries),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	return &services{
		goal:      service.NewGoalService(repos.goal, repos.analytics, repos.locker, cfg.Limits),
		task:      service.NewTaskService(repos.task, repos.goal, repos.analytics, repos.locker, cfg.Limits, time.Now),
		subtask:   service.NewSubtaskService(repos.subtask, repos.task, repos.locker, cfg.Limits),
		analytics: service.NewAnalyticsService(repos.analytics, cfg.Limits, cfg.Analytics, time.Now),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		goal:      controller.NewGoalController(s.goal),
		task:      controller.NewTaskController(s.task),
		subtask:   controller.NewSubtaskController(s.subtask),
		analytics: controller.NewAnalyticsController(s.analytics),
		health:    controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化数据库、缓存和路由。Redis 不可用时分析缓存降级为直读数据库
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migrated")
	}

	app := &App{
		Config:    cfg,
		ConfigDir: "configs",
		DB:        db,
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quadrant-planner", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db, app.Redis, cfg)
	controllers := app.initControllers(app.initServices(repos, cfg))

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Server.WatchConfig {
		go func() {
			err := configwatcher.WatchConfig(ctx, a.ConfigDir, func(cfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(cfg)
				}
			})
			if err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close 释放数据库、缓存和追踪资源
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}
