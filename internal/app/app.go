package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"juegos_edu_backend/internal/config"
	"juegos_edu_backend/internal/controller"
	"juegos_edu_backend/internal/repository"
	"juegos_edu_backend/internal/service"
	"juegos_edu_backend/pkg/database"
	"juegos_edu_backend/pkg/logger"
	"juegos_edu_backend/pkg/monitoring"
	"juegos_edu_backend/pkg/security"
	"juegos_edu_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the explicit composition root: every component is constructed once
// here and passed down by constructor injection.
type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	attempt *repository.AttemptRepository
	level   *repository.LevelRepository
	user    *repository.UserRepository
	course  *repository.CourseRepository
}

type services struct {
	auth       *service.AuthService
	ai         *service.AIService
	storage    *service.StorageService
	catalog    *service.CatalogService
	progress   *service.ProgressService
	submission *service.SubmissionService
	reporting  *service.ReportingService
}

type controllers struct {
	auth       *controller.AuthController
	attempt    *controller.AttemptController
	progress   *controller.ProgressController
	statistics *controller.StatisticsController
	report     *controller.ReportController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		attempt: repository.NewAttemptRepository(db),
		level:   repository.NewLevelRepository(db),
		user:    repository.NewUserRepository(db),
		course:  repository.NewCourseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize report storage", zap.Error(err))
	}
	s.storage = storage

	s.catalog = service.NewCatalogService(repos.level, cfg.Progress.DefaultActivitiesCount)
	s.progress = service.NewProgressService(repos.attempt, s.catalog, cfg.Progress.OptimisticUnlock)
	s.submission = service.NewSubmissionService(repos.attempt, s.progress)

	s.reporting = service.NewReportingService(
		repos.attempt,
		repos.user,
		repos.course,
		s.progress,
		s.catalog,
		s.ai,
	)
	s.reporting.DefaultReportDays = cfg.Progress.ReportRecentDays
	if rdb != nil && cfg.Progress.DashboardCacheSeconds > 0 {
		s.reporting.Cache = rdb
		s.reporting.CacheTTL = time.Duration(cfg.Progress.DashboardCacheSeconds) * time.Second
	}
	if s.storage != nil {
		s.reporting.Archiver = s.storage
	}

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		attempt:    controller.NewAttemptController(s.submission),
		progress:   controller.NewProgressController(s.reporting, s.progress, s.catalog),
		statistics: controller.NewStatisticsController(s.reporting),
		report:     controller.NewReportController(s.reporting),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// OnConfigReload swaps reloadable settings onto running components.
func (a *App) OnConfigReload(cfg *config.Config) {
	a.services.ai.UpdateConfig(cfg.AI)
	a.services.reporting.DefaultReportDays = cfg.Progress.ReportRecentDays
	logger.Log.Info("Applied reloaded configuration")
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(ginMode(cfg.Server.Mode))
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("juegos-edu", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
