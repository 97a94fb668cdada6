package app

import (
	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/pkg/flash"
	"go.uber.org/zap"
)

// registerTemplateContext exposes the blog owner, sidebar data and the
// request's login state to every template.
func (a *App) registerTemplateContext(svc services) {
	a.view.Use(func(c *gin.Context) gin.H {
		current := middleware.CurrentAdmin(c)
		h := gin.H{
			"current_user": current,
			"csrf_token":   middleware.CSRFToken(c),
			"flashes":      flash.Pop(c),
		}

		if admin, err := svc.account.Get(); err != nil {
			a.logger.Warn("template context: admin", zap.Error(err))
		} else {
			h["admin"] = admin
		}
		if cats, err := svc.categories.List(); err != nil {
			a.logger.Warn("template context: categories", zap.Error(err))
		} else {
			h["categories"] = cats
		}
		if links, err := svc.links.List(); err != nil {
			a.logger.Warn("template context: links", zap.Error(err))
		} else {
			h["links"] = links
		}
		if current != nil {
			if n, err := svc.comments.CountUnread(); err == nil {
				h["unread_comments"] = n
			}
		}
		return h
	})
}
