package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/modules/admin"
	"github.com/myblog/core/internal/modules/api"
	"github.com/myblog/core/internal/modules/auth"
	"github.com/myblog/core/internal/modules/blog"
	"github.com/myblog/core/internal/modules/syndication"
)

const (
	commentRateLimit = 10
	loginRateLimit   = 10
	rateWindow       = time.Minute
)

func (a *App) registerRoutes(svc services) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		a.view.Abort(c, http.StatusNotFound, "")
	})
	r.NoMethod(func(c *gin.Context) {
		a.view.Abort(c, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
	})

	commentLimit := middleware.RateLimit(a.redis, "comment", commentRateLimit, rateWindow, a.tooManyRequests)
	loginLimit := middleware.RateLimit(a.redis, "login", loginRateLimit, rateWindow, a.tooManyRequests)

	blog.NewHandler(svc.posts, svc.categories, svc.comments, a.view, a.cfg.Blog, a.logger.Named("blog")).
		RegisterRoutes(r, commentLimit)

	syndication.NewHandler(svc.account, svc.posts, svc.categories, a.logger.Named("syndication")).
		RegisterRoutes(r)

	auth.NewHandler(a.db, svc.account, a.view, a.logger.Named("auth")).
		RegisterRoutes(r.Group("/auth"), loginLimit)

	admin.NewHandler(admin.Services{
		Account:    svc.account,
		Posts:      svc.posts,
		Categories: svc.categories,
		Comments:   svc.comments,
		Links:      svc.links,
	}, a.view, a.cfg.Blog, a.sched, a.logger.Named("admin")).
		RegisterRoutes(r.Group("/admin"))

	api.NewHandler(svc.posts, svc.categories, svc.comments, svc.links).RegisterRoutes(r.Group("/api"))
}

func (a *App) tooManyRequests(c *gin.Context) {
	a.view.Abort(c, http.StatusTooManyRequests, "Too many requests, please slow down.")
}
