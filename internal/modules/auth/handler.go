package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
	sessionpkg "github.com/myblog/core/internal/pkg/session"
	"github.com/myblog/core/internal/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginForm is the login form.
type LoginForm struct {
	Username string `form:"username" binding:"required,max=20"`
	Password string `form:"password" binding:"required,max=128"`
	Remember bool   `form:"remember"`
}

type Handler struct {
	db      *gorm.DB
	account *account.Service
	view    *view.Renderer
	log     *zap.Logger
}

func NewHandler(db *gorm.DB, acc *account.Service, v *view.Renderer, log *zap.Logger) *Handler {
	return &Handler{db: db, account: acc, view: v, log: log}
}

// RegisterRoutes mounts /auth. loginLimit guards password attempts.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	rg.GET("/login", h.loginPage)
	rg.POST("/login", loginLimit, h.login)
	rg.POST("/logout", middleware.LoginRequired(), h.logout)
}

func (h *Handler) loginPage(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "", nil)
}

func (h *Handler) login(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var f LoginForm
	if err := c.ShouldBind(&f); err != nil {
		h.render(c, f.Username, form.Messages(err))
		return
	}

	admin, err := h.account.Authenticate(f.Username, f.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		h.log.Info("login failed", zap.String("username", f.Username), zap.String("ip", c.ClientIP()))
		flash.Add(c, flash.Warning, "Invalid username or password.")
		h.render(c, f.Username, nil)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	token, _, err := sessionpkg.Issue(h.db, admin.ID, c.ClientIP(), c.Request.UserAgent(), f.Remember)
	if err != nil {
		h.fail(c, err)
		return
	}
	middleware.SetSessionCookie(c, token, f.Remember)
	flash.Add(c, flash.Info, "Welcome back.")
	c.Redirect(http.StatusFound, middleware.SafeNext(c.Query("next"), "/"))
}

func (h *Handler) logout(c *gin.Context) {
	err := sessionpkg.Revoke(h.db, middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.fail(c, err)
		return
	}
	middleware.ClearSessionCookie(c)
	flash.Add(c, flash.Info, "Logout success.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) render(c *gin.Context, username string, problems []string) {
	h.view.HTML(c, http.StatusOK, "auth/login.html", gin.H{
		"username":    username,
		"next":        middleware.SafeNext(c.Query("next"), ""),
		"form_errors": problems,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("auth handler failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.view.Abort(c, http.StatusInternalServerError, "")
}
