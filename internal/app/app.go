package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/config"
	"github.com/rwtnews/site/internal/database"
	"github.com/rwtnews/site/internal/middleware"
	"github.com/rwtnews/site/internal/modules/content/repository"
	"github.com/rwtnews/site/internal/modules/engagement"
	"github.com/rwtnews/site/internal/pkg/mail"
	"github.com/rwtnews/site/internal/pkg/metrics"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
	"github.com/rwtnews/site/internal/pkg/strapi"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rc     *pkgredis.Client
	cms    *strapi.Client
	repo   *repository.Repository
	mailer *mail.Sender
	store  engagement.Store
	logger *zap.Logger
}

// New initializes the application: config → Redis → DB → CMS → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	rc, err := connectRedis(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	var db *gorm.DB
	if cfg.Engagement.Driver == config.EngagementMySQL {
		db, err = database.Connect(cfg, true)
		if err != nil {
			closeRedis(rc)
			return nil, fmt.Errorf("database: %w", err)
		}
	}

	cms := strapi.New(strapi.Options{
		BaseURL:  cfg.CMS.URL,
		Token:    cfg.CMS.APIToken,
		Timeout:  cfg.CMS.Timeout,
		Logger:   logger.Named("cms"),
		Observer: metrics.ObserveCMS,
	})

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.Visitor(!cfg.IsDev()))

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rc:     rc,
		cms:    cms,
		repo:   repository.New(cms, logger.Named("repository")),
		mailer: mail.New(mail.BuildMailConfig(cfg)),
		store:  newEngagementStore(cfg, rc, db),
		logger: logger,
	}
	if err := app.registerRoutes(); err != nil {
		app.Shutdown()
		return nil, err
	}
	if !app.mailer.Configured() {
		logger.Warn("mail provider is not configured, newsletter signups will fail", zap.String("provider", cfg.Mail.Provider))
	}
	return app, nil
}

// connectRedis is fatal only for the redis engagement driver. Otherwise the
// page cache, rate limiting and idempotence run disabled.
func connectRedis(cfg *config.AppConfig, logger *zap.Logger) (*pkgredis.Client, error) {
	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err == nil {
		return rc, nil
	}
	if cfg.Engagement.Driver == config.EngagementRedis {
		return nil, err
	}
	logger.Warn("redis unavailable, running without page cache and rate limits", zap.Error(err))
	return nil, nil
}

func newEngagementStore(cfg *config.AppConfig, rc *pkgredis.Client, db *gorm.DB) engagement.Store {
	switch cfg.Engagement.Driver {
	case config.EngagementRedis:
		return engagement.NewRedisStore(rc)
	case config.EngagementMySQL:
		return engagement.NewSQLStore(db)
	default:
		return engagement.NewMemoryStore()
	}
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Idempotence"},
		ExposeHeaders:    []string{"Content-Length", middleware.CacheStatusHeader},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(origin string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the redis pool and the database.
func (a *App) Shutdown() {
	closeRedis(a.rc)
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}

func closeRedis(rc *pkgredis.Client) {
	if rc != nil {
		_ = rc.Close()
	}
}
