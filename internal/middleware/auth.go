package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/pkg/flash"
	sessionpkg "github.com/myblog/core/internal/pkg/session"
	"gorm.io/gorm"
)

const (
	ContextKeyAdmin  = "admin_user"
	ContextKeyUserID = "user_id"
	ContextKeySID    = "session_id"

	SessionCookie = "blog_session"
	LoginPath     = "/auth/login"
)

// LoadUser reads the session cookie and, when it carries an active session,
// stores the admin in the request context. It never blocks the request.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		admin, sid, err := loadAdmin(db, token)
		if err != nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}
		c.Set(ContextKeyAdmin, admin)
		c.Set(ContextKeyUserID, admin.ID)
		c.Set(ContextKeySID, sid)
		c.Next()
	}
}

func loadAdmin(db *gorm.DB, token string) (*models.AdminModel, string, error) {
	claims, err := sessionpkg.Validate(db, token)
	if err != nil {
		return nil, "", err
	}
	var admin models.AdminModel
	if err := db.First(&admin, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", sessionpkg.ErrInactive
		}
		return nil, "", err
	}
	return &admin, claims.SessionID, nil
}

// LoginRequired redirects anonymous visitors to the login page, keeping the
// requested path in ?next=.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		flash.Add(c, flash.Warning, "Please log in to access this page.")
		target := LoginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// CurrentAdmin returns the logged-in admin, or nil.
func CurrentAdmin(c *gin.Context) *models.AdminModel {
	v, _ := c.Get(ContextKeyAdmin)
	admin, _ := v.(*models.AdminModel)
	return admin
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentSessionID extracts the authenticated session ID from context.
func CurrentSessionID(c *gin.Context) string {
	v, _ := c.Get(ContextKeySID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request carries an active session.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// SetSessionCookie stores the session token. Without remember the cookie
// lives until the browser closes.
func SetSessionCookie(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(sessionpkg.RememberTTL / time.Second)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", isSecure(c), true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", isSecure(c), true)
}

// SafeNext returns target when it is a local absolute path, otherwise fallback.
func SafeNext(target, fallback string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
