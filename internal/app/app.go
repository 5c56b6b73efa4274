package app

import (
	"context"
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/controller"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/configwatcher"
	"dream_site_backend/pkg/database"
	"dream_site_backend/pkg/logger"
	"dream_site_backend/pkg/monitoring"
	"dream_site_backend/pkg/security"
	"dream_site_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	origins         *security.OriginAllowList
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	cancelWatch     context.CancelFunc
}

type repositories struct {
	admin       *repository.AdminUserRepository
	assessment  *repository.AssessmentRepository
	affiliate   *repository.AffiliateRepository
	referral    *repository.ReferralRepository
	resultCache *repository.ResultCacheRepository
	project     *repository.ProjectRepository
	blog        *repository.BlogPostRepository
	service     *repository.ServiceRepository
	contact     *repository.ContactRepository
	newsletter  *repository.NewsletterRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	mail       *service.MailService
	strategy   *service.StrategyService
	assessment *service.AssessmentService
	affiliate  *service.AffiliateService
	content    *service.ContentService
	contact    *service.ContactService
	newsletter *service.NewsletterService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	affiliate  *controller.AffiliateController
	content    *controller.ContentController
	contact    *controller.ContactController
	newsletter *controller.NewsletterController
	dashboard  *controller.DashboardController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	cacheTTL := time.Duration(cfg.Quiz.ResultCacheMinute) * time.Minute
	return &repositories{
		admin:       repository.NewAdminUserRepository(db),
		assessment:  repository.NewAssessmentRepository(db),
		affiliate:   repository.NewAffiliateRepository(db),
		referral:    repository.NewReferralRepository(rdb),
		resultCache: repository.NewResultCacheRepository(rdb, cacheTTL),
		project:     repository.NewProjectRepository(db),
		blog:        repository.NewBlogPostRepository(db),
		service:     repository.NewServiceRepository(db),
		contact:     repository.NewContactRepository(db),
		newsletter:  repository.NewNewsletterRepository(db),
	}
}

// newMailer 未启用邮件或 SES 初始化失败时返回 nil，MailService 随之禁用
func newMailer(cfg *config.Config) service.Mailer {
	if !cfg.Mail.Enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mailer, err := service.NewSESMailer(ctx, cfg.Mail.Region)
	if err != nil {
		logger.Log.Error("Failed to initialize SES mailer, mail disabled", zap.Error(err))
		return nil
	}
	return mailer
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	engine := scoring.DefaultEngine()

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.admin, cfg)

	s.mail = service.NewMailService(cfg, newMailer(cfg))
	s.strategy = service.NewStrategyService(cfg, engine)

	s.assessment = service.NewAssessmentService(
		engine,
		repos.assessment,
		repos.resultCache,
		repos.affiliate,
		s.mail,
		s.strategy,
	)
	s.affiliate = service.NewAffiliateService(repos.affiliate, repos.referral, repos.assessment)
	s.content = service.NewContentService(repos.project, repos.blog, repos.service, s.storage)
	s.contact = service.NewContactService(repos.contact, s.mail)
	s.newsletter = service.NewNewsletterService(repos.newsletter, s.mail)
	s.dashboard = service.NewDashboardService(repos.assessment, repos.contact, repos.newsletter, repos.affiliate)

	a.RegisterConfigCallback(s.mail.UpdateConfig)
	a.RegisterConfigCallback(s.strategy.UpdateConfig)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		assessment: controller.NewAssessmentController(s.assessment, a.Config),
		affiliate:  controller.NewAffiliateController(s.affiliate, a.Config),
		content:    controller.NewContentController(s.content),
		contact:    controller.NewContactController(s.contact),
		newsletter: controller.NewNewsletterController(s.newsletter),
		dashboard:  controller.NewDashboardController(s.dashboard),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.origins = security.NewOriginAllowList(cfg.CORS.AllowedOrigins)
	a.RegisterConfigCallback(func(c *config.Config) {
		a.origins.Set(c.CORS.AllowedOrigins)
	})

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}

	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startConfigWatcher 配置文件变化时依次执行已注册的回调
func (a *App) startConfigWatcher() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelWatch = cancel

	go func() {
		err := configwatcher.WatchConfig(ctx, filepath.Join(configDir, "config.yaml"), func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	// 仅执行迁移时不需要其余组件
	if cfg.MigrateOnly {
		return app
	}

	// Redis 不可用时点击统计和结果缓存降级为空操作
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("dream-site", cfg.Tracing)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		if err := os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm); err != nil {
			logger.Log.Warn("Failed to create upload directory", zap.Error(err))
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startConfigWatcher()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	if a.cancelWatch != nil {
		a.cancelWatch()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
