package app

import (
	"context"
	"log"
	"monsterhouse_backend/internal/config"
	"monsterhouse_backend/internal/controller"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/pkg/configwatcher"
	"monsterhouse_backend/pkg/database"
	"monsterhouse_backend/pkg/logger"
	"monsterhouse_backend/pkg/monitoring"
	"monsterhouse_backend/pkg/security"
	"monsterhouse_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
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
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Rules           *service.GamificationRules
	tracerProvider  *sdktrace.TracerProvider
	repos           *repositories
	configCallbacks []func(*config.Config)
}

type repositories struct {
	profile         *repository.ProfileRepository
	stats           *repository.StatsRepository
	achievement     *repository.AchievementRepository
	userAchievement *repository.UserAchievementRepository
	workout         *repository.WorkoutRepository
	completion      *repository.CompletionRepository
	trainer         *repository.PersonalTrainerRepository
}

type services struct {
	storage     *service.StorageService
	profile     *service.ProfileService
	stats       *service.StatsService
	achievement *service.AchievementService
	workout     *service.WorkoutService
	session     *service.WorkoutSessionService
	personal    *service.PersonalService
}

type controllers struct {
	health      *controller.HealthController
	profile     *controller.ProfileController
	stats       *controller.StatsController
	achievement *controller.AchievementController
	workout     *controller.WorkoutController
	session     *controller.SessionController
	personal    *controller.PersonalController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		profile:         repository.NewProfileRepository(db),
		stats:           repository.NewStatsRepository(db),
		achievement:     repository.NewAchievementRepository(db, rdb, cfg.Gamification.CatalogCacheTTL),
		userAchievement: repository.NewUserAchievementRepository(db),
		workout:         repository.NewWorkoutRepository(db),
		completion:      repository.NewCompletionRepository(db),
		trainer:         repository.NewPersonalTrainerRepository(db),
	}
}

// newSessionStore 启用 Redis 时会话在多实例间共享
func newSessionStore(rdb *redis.Client, ttl time.Duration) service.SessionStore {
	if rdb != nil {
		return service.NewRedisSessionStore(rdb, ttl)
	}
	return service.NewMemorySessionStore(ttl)
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.profile = service.NewProfileService(repos.profile)
	s.stats = service.NewStatsService(repos.stats, repos.userAchievement, a.Rules)
	s.achievement = service.NewAchievementService(
		repos.achievement,
		repos.userAchievement,
		repos.stats,
		repos.profile,
		s.storage,
		a.Rules,
	)
	s.workout = service.NewWorkoutService(repos.workout, repos.trainer)
	s.session = service.NewWorkoutSessionService(
		db,
		repos.workout,
		repos.stats,
		repos.completion,
		s.achievement,
		newSessionStore(rdb, cfg.Gamification.SessionTTL),
		a.Rules,
	)
	s.personal = service.NewPersonalService(repos.trainer, repos.profile, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:      controller.NewHealthController(db, rdb),
		profile:     controller.NewProfileController(s.profile),
		stats:       controller.NewStatsController(s.stats),
		achievement: controller.NewAchievementController(s.achievement),
		workout:     controller.NewWorkoutController(s.workout),
		session:     controller.NewSessionController(s.session),
		personal:    controller.NewPersonalController(s.personal),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 使用已建立的数据库与 Redis 连接组装应用；rdb 可为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Rules:  service.NewGamificationRules(cfg.Gamification),
	}

	app.repos = app.initRepositories(db, rdb, cfg)
	services := app.initServices(app.repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 积分规则与日志级别支持热加载
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Rules.Set(newCfg.Gamification)
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Gamification rules reloaded",
			zap.Int("base_completion_points", newCfg.Gamification.BaseCompletionPoints),
			zap.Int("bonus_per_exercise", newCfg.Gamification.BonusPerExercise),
			zap.Int("points_per_level", newCfg.Gamification.PointsPerLevel))
	})

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("monsterhouse-backend", cfg.Server.Mode, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	return app
}

func (a *App) reload(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.Path != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.Path, a.reload); err != nil {
				logger.Log.Warn("Config hot reload disabled", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
