package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/modules/content/link"
	"github.com/myblog/core/internal/modules/content/post"
	"github.com/myblog/core/internal/pkg/cron"
	"github.com/myblog/core/internal/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles the content services the dashboard edits.
type Services struct {
	Account    *account.Service
	Posts      *post.Service
	Categories *category.Service
	Comments   *comment.Service
	Links      *link.Service
}

type Handler struct {
	svc  Services
	view *view.Renderer
	opts config.BlogOptions
	jobs *cron.Scheduler
	log  *zap.Logger
}

// NewHandler builds the admin handler. jobs may be nil.
func NewHandler(svc Services, v *view.Renderer, opts config.BlogOptions, jobs *cron.Scheduler, log *zap.Logger) *Handler {
	return &Handler{svc: svc, view: v, opts: opts, jobs: jobs, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.index)
	rg.GET("/new_post", h.newPostStub)

	a := rg.Group("", middleware.LoginRequired())

	a.GET("/post/manage", h.managePosts)
	a.GET("/post/new", h.newPost)
	a.POST("/post/new", h.newPost)
	a.GET("/post/:id/edit", h.editPost)
	a.POST("/post/:id/edit", h.editPost)
	a.POST("/post/:id/delete", h.deletePost)
	a.POST("/post/:id/set-comment", h.setComment)

	a.GET("/comment/manage", h.manageComments)
	a.POST("/comment/:id/approve", h.approveComment)
	a.POST("/comment/:id/delete", h.deleteComment)

	a.GET("/category/manage", h.manageCategories)
	a.GET("/category/new", h.newCategory)
	a.POST("/category/new", h.newCategory)
	a.GET("/category/:id/edit", h.editCategory)
	a.POST("/category/:id/edit", h.editCategory)
	a.POST("/category/:id/delete", h.deleteCategory)

	a.GET("/link/manage", h.manageLinks)
	a.GET("/link/new", h.newLink)
	a.POST("/link/new", h.newLink)
	a.GET("/link/:id/edit", h.editLink)
	a.POST("/link/:id/edit", h.editLink)
	a.POST("/link/:id/delete", h.deleteLink)

	a.GET("/settings", h.settings)
	a.POST("/settings", h.settings)
}

// GET /admin/
func (h *Handler) index(c *gin.Context) {
	c.String(http.StatusOK, "admin page")
}

// GET /admin/new_post
func (h *Handler) newPostStub(c *gin.Context) {
	c.String(http.StatusOK, "new_post page")
}

// redirectBack follows ?next= when it is a local path, else goes to fallback.
func redirectBack(c *gin.Context, fallback string) {
	c.Redirect(http.StatusFound, middleware.SafeNext(c.Query("next"), fallback))
}

func (h *Handler) notFound(c *gin.Context) {
	h.view.Abort(c, http.StatusNotFound, "")
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.notFound(c)
		return
	}
	h.log.Error("admin handler failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.view.Abort(c, http.StatusInternalServerError, "")
}
