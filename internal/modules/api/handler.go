package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/modules/content/link"
	"github.com/myblog/core/internal/modules/content/post"
	"github.com/myblog/core/internal/pkg/pagination"
	"github.com/myblog/core/internal/pkg/response"
	"github.com/myblog/core/internal/view"
)

type categoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

type postResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Summary      string            `json:"summary"`
	Body         string            `json:"body,omitempty"`
	HTML         string            `json:"html,omitempty"`
	CanComment   bool              `json:"can_comment"`
	CommentCount int               `json:"comment_count"`
	Category     *categoryResponse `json:"category,omitempty"`
	Created      time.Time         `json:"created"`
	Modified     time.Time         `json:"modified"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Site      string    `json:"site,omitempty"`
	Body      string    `json:"body"`
	FromAdmin bool      `json:"from_admin"`
	RepliedID *string   `json:"replied_id,omitempty"`
	Created   time.Time `json:"created"`
}

type linkResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func toCategory(c *models.CategoryModel) *categoryResponse {
	if c == nil {
		return nil
	}
	return &categoryResponse{ID: c.ID, Name: c.Name, IsDefault: c.IsDefault}
}

func toPost(p *models.PostModel, full bool) postResponse {
	r := postResponse{
		ID:           p.ID,
		Title:        p.Title,
		Summary:      view.Excerpt(p.Body, 200),
		CanComment:   p.CanComment,
		CommentCount: view.PostCommentsLength(p.Comments),
		Category:     toCategory(p.Category),
		Created:      p.CreatedAt,
		Modified:     p.UpdatedAt,
	}
	if full {
		r.Body = p.Body
		r.HTML = string(view.Markdown(p.Body))
	}
	return r
}

func toComment(c *models.CommentModel) commentResponse {
	return commentResponse{
		ID: c.ID, Author: c.Author, Site: c.Site, Body: c.Body,
		FromAdmin: c.FromAdmin, RepliedID: c.RepliedID, Created: c.CreatedAt,
	}
}

type Handler struct {
	posts      *post.Service
	categories *category.Service
	comments   *comment.Service
	links      *link.Service
}

func NewHandler(posts *post.Service, categories *category.Service, comments *comment.Service, links *link.Service) *Handler {
	return &Handler{posts: posts, categories: categories, comments: comments, links: links}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.ping)
	rg.GET("/posts", h.listPosts)
	rg.GET("/posts/:id", h.getPost)
	rg.GET("/categories", h.listCategories)
	rg.GET("/links", h.listLinks)
}

// GET /api/ping
func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": 1, "time": time.Now()})
}

// GET /api/posts?page=&size=
func (h *Handler) listPosts(c *gin.Context) {
	items, pag, err := h.posts.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]postResponse, 0, len(items))
	for i := range items {
		out = append(out, toPost(&items[i], false))
	}
	response.Paged(c, out, pag)
}

// GET /api/posts/:id?page=&size= (size and page apply to the comments)
func (h *Handler) getPost(c *gin.Context) {
	p, err := h.posts.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	comments, pag, err := h.comments.ListReviewed(p.ID, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toComment(&comments[i]))
	}
	body := toPost(p, true)
	body.CommentCount = int(pag.Total)
	response.OK(c, gin.H{
		"post":       body,
		"comments":   out,
		"pagination": pag,
	})
}

// GET /api/categories
func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.categories.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]*categoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, toCategory(&cats[i]))
	}
	response.OK(c, out)
}

// GET /api/links
func (h *Handler) listLinks(c *gin.Context) {
	links, err := h.links.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]linkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, linkResponse{ID: l.ID, Name: l.Name, URL: l.URL})
	}
	response.OK(c, out)
}
