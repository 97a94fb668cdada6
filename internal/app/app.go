package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/database"
	"github.com/myblog/core/internal/middleware"
	pkgcron "github.com/myblog/core/internal/pkg/cron"
	"github.com/myblog/core/internal/pkg/flash"
	pkgredis "github.com/myblog/core/internal/pkg/redis"
	"github.com/myblog/core/internal/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	view   *view.Renderer
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
}

// New builds the application: runtime settings → DB → Redis → middleware →
// templates → blueprints → background jobs.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		rc, err = pkgredis.Connect(cfg.Redis.URLValue())
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
			rc = nil
		}
	}

	v, err := view.New(logger.Named("view"))
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("templates: %w", err)
	}

	switch {
	case cfg.IsTesting():
		gin.SetMode(gin.TestMode)
	case cfg.IsDev():
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered", zap.Any("error", recovered), zap.String("path", c.Request.URL.Path))
		v.Abort(c, http.StatusInternalServerError, "")
	}))
	router.Use(middleware.Logger(logger))
	router.Use(apiCORS(cfg))
	router.Use(flash.Sessions([]byte(cfg.SecretKey), !cfg.IsDev()))
	router.Use(middleware.CSRF(middleware.CSRFOptions{
		Enabled: cfg.CSRF.Enable,
		Secret:  cfg.SecretKey,
		Secure:  !cfg.IsDev(),
		Exempt:  []string{"/api/"},
	}, func(c *gin.Context, reason string) {
		v.Abort(c, http.StatusBadRequest, reason)
	}))
	router.Use(middleware.LoadUser(db))

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  rc,
		view:   v,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(logger.Named("cron")),
	}

	svc := a.newServices()
	a.registerCronJobs(svc)
	a.registerTemplateContext(svc)
	a.registerRoutes(svc)

	if !cfg.IsTesting() {
		a.sched.Start(ctx)
	}
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// DB returns the database handle.
func (a *App) DB() *gorm.DB { return a.db }

// Scheduler returns the background job scheduler.
func (a *App) Scheduler() *pkgcron.Scheduler { return a.sched }

// Shutdown stops background jobs and closes connections.
func (a *App) Shutdown() {
	a.cancel()
	a.sched.Wait()
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
