package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classquiz_backend/internal/config"
	"classquiz_backend/internal/controller"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/service"
	"classquiz_backend/pkg/database"
	"classquiz_backend/pkg/logger"
	"classquiz_backend/pkg/monitoring"
	"classquiz_backend/pkg/security"
	"classquiz_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	module   *repository.ModuleRepository
	question *repository.QuestionRepository
	attempt  *repository.AttemptRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	module      *service.ModuleService
	question    *service.QuestionService
	leaderboard *service.LeaderboardService
	session     *service.SessionService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	module      *controller.ModuleController
	question    *controller.QuestionController
	session     *controller.SessionController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies a hot-reloaded configuration. Only fields that are
// read per-request take effect; server port, database and redis settings
// still require a restart.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.JWT = cfg.JWT
	a.Config.Leaderboard = cfg.Leaderboard
	a.Config.Session = cfg.Session

	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		module:   repository.NewModuleRepository(db),
		question: repository.NewQuestionRepository(db),
		attempt:  repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	questionCache := service.NewQuestionCache(repos.question, time.Duration(cfg.Session.QuestionCacheTTL)*time.Second)
	leaderboard := service.NewLeaderboardService(repos.attempt, rdb, time.Duration(cfg.Leaderboard.CacheTTLSeconds)*time.Second)

	session := service.NewSessionService(
		repos.module,
		questionCache,
		repos.attempt,
		leaderboard,
		time.Duration(cfg.Session.ReadyTTLMinutes)*time.Minute,
		time.Duration(cfg.Session.CompletedTTLMinutes)*time.Minute,
	)

	return &services{
		auth:        service.NewAuthService(repos.user, cfg),
		user:        service.NewUserService(repos.user, repos.attempt),
		storage:     service.NewStorageService(cfg),
		module:      service.NewModuleService(repos.module, repos.question, repos.attempt, questionCache, leaderboard),
		question:    service.NewQuestionService(repos.question, repos.module, questionCache),
		leaderboard: leaderboard,
		session:     session,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.storage),
		module:      controller.NewModuleController(s.module),
		question:    controller.NewQuestionController(s.question),
		session:     controller.NewSessionController(s.session),
		leaderboard: controller.NewLeaderboardController(s.leaderboard, s.module, a.Config.Leaderboard.DefaultLimit),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 定期回收未开始或已看完回顾的会话
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			if n := s.session.ReapIdle(); n > 0 {
				logger.Log.Info("reaped idle quiz sessions", zap.Int("count", n))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("classquiz-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
