// Package syndication publishes the blog as RSS and Atom feeds and as a sitemap.
package syndication

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/post"
	"go.uber.org/zap"
)

// FeedSize is the number of posts listed in a feed.
const FeedSize = 20

type Handler struct {
	account    *account.Service
	posts      *post.Service
	categories *category.Service
	log        *zap.Logger
}

func NewHandler(acc *account.Service, posts *post.Service, categories *category.Service, log *zap.Logger) *Handler {
	return &Handler{account: acc, posts: posts, categories: categories, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/feed.xml", h.rss)
	r.GET("/atom.xml", h.atom)
	r.GET("/sitemap.xml", h.sitemap)
}

func (h *Handler) write(c *gin.Context, contentType string, doc any) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("syndication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "error generating document")
}

// baseURL is the absolute site root as seen by the client.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	return scheme + "://" + c.Request.Host
}
