package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"student_insight/internal/config"
	"student_insight/internal/controller"
	"student_insight/internal/datatable"
	"student_insight/internal/repository"
	"student_insight/internal/service"
	"student_insight/pkg/cache"
	"student_insight/pkg/configwatcher"
	"student_insight/pkg/database"
	"student_insight/pkg/logger"
	"student_insight/pkg/monitoring"
	"student_insight/pkg/security"
	"student_insight/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const memoryCacheSize = 4096

type App struct {
	Config *config.Config
	// ConfigFile 非空时 Run 会监听它并热更新 AI 与验证码配置
	ConfigFile string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client

	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	students      service.StudentStore
	edges         service.EdgeStore
	conversations service.ConversationStore
}

type services struct {
	analytics *service.AnalyticsService
	table     *service.DataTableService
	ai        *service.AIService
	assistant *service.AssistantService
	dashboard *service.DashboardService
	storage   *service.StorageService
	chart     *service.ChartService
	captcha   *service.CaptchaService
}

type controllers struct {
	dashboard *controller.DashboardController
	table     *controller.DataTableController
	chart     *controller.ChartController
	captcha   *controller.CaptchaController
	health    *controller.HealthController
	page      *controller.PageController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件变更后调用；端口、数据库等需要重启才能生效
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// initRepositories 没有数据库时所有读取走内置的演示数据
func (a *App) initRepositories(db *gorm.DB) *repositories {
	if db == nil {
		return &repositories{students: repository.NewDemoStudentRepository()}
	}
	return &repositories{
		students:      repository.NewStudentRepository(db),
		edges:         repository.NewEdgeRepository(db),
		conversations: repository.NewConversationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	analytics := service.NewAnalyticsService(repos.students, cfg.Dashboard.LogsLimit)
	builder := datatable.NewBuilder(cfg.Dashboard.DateLayout, time.Local)
	table := service.NewDataTableService(analytics, builder)

	ai := service.NewAIService(cfg.AI)
	assistant := service.NewAssistantService(repos.students, repos.edges, repos.conversations, ai)
	assistant.HistoryLimit = cfg.Dashboard.HistoryLimit

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		logger.Log.Warn("Storage provider unavailable, using local storage",
			zap.String("type", cfg.Storage.Type), zap.Error(err))
	}

	var store cache.Store
	if rdb != nil {
		store = cache.NewRedisStore(rdb)
	} else {
		store = cache.NewMemoryStore(memoryCacheSize, 24*time.Hour)
	}

	return &services{
		analytics: analytics,
		table:     table,
		ai:        ai,
		assistant: assistant,
		dashboard: service.NewDashboardService(analytics, table),
		storage:   storage,
		chart:     service.NewChartService(analytics, storage, builder.DateLayout, builder.Location),
		captcha:   service.NewCaptchaService(store, cfg.Captcha),
	}
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		dashboard: controller.NewDashboardController(s.analytics, s.assistant, s.dashboard),
		table:     controller.NewDataTableController(s.table),
		chart:     controller.NewChartController(s.chart),
		captcha:   controller.NewCaptchaController(s.captcha),
		health:    controller.NewHealthController(a.DB, a.Redis),
		page: controller.NewPageController(controller.PageData{
			CaptchaWidth:  cfg.Captcha.Width,
			CaptchaHeight: cfg.Captcha.Height,
		}),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetLevel(cfg.Log.Level, cfg.Server.Mode)
		logger.Log.Info("Log level reloaded", zap.Stringer("level", logger.Level()))
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.ai.UpdateConfig(cfg.AI)
		logger.Log.Info("AI config reloaded", zap.String("model", cfg.AI.Model))
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.captcha.UpdateConfig(cfg.Captcha)
		logger.Log.Info("Captcha config reloaded", zap.Bool("enforce", cfg.Captcha.Enforce))
	})
}

// NewApp 数据库或 Redis 不可用时降级为演示模式 / 内存验证码，不会退出
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	var db *gorm.DB
	if cfg.Database.Enabled {
		conn, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			logger.Log.Warn("Database unavailable, running in demo mode", zap.Error(err))
		} else {
			db = conn
		}
	} else {
		logger.Log.Info("Database disabled, running in demo mode")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		client, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory captcha store", zap.Error(err))
		} else {
			rdb = client
		}
	}

	app := newApp(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("student-insight", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	return app
}

func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, cfg)
	app.registerConfigCallbacks(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) watchConfig() {
	if a.ConfigFile == "" {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, a.ConfigFile, a.ApplyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.watchConfig()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-quit.Done()
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close 停止后台任务并释放连接
func (a *App) Close(ctx context.Context) {
	a.cancel()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
