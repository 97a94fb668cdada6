package blog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/modules/content/post"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
	"github.com/myblog/core/internal/pkg/pagination"
	"github.com/myblog/core/internal/view"
	"go.uber.org/zap"
)

// CommentForm is the public comment form. Author and Email are only
// required for visitors; the admin comments under their own name.
type CommentForm struct {
	Author    string `form:"author"     binding:"max=30"`
	Email     string `form:"email"      binding:"omitempty,email,max=254"`
	Site      string `form:"site"       binding:"max=255"`
	Body      string `form:"body"       binding:"required"`
	RepliedID string `form:"replied_id" binding:"max=36"`
}

type Handler struct {
	posts      *post.Service
	categories *category.Service
	comments   *comment.Service
	view       *view.Renderer
	opts       config.BlogOptions
	log        *zap.Logger
}

func NewHandler(posts *post.Service, categories *category.Service, comments *comment.Service, v *view.Renderer, opts config.BlogOptions, log *zap.Logger) *Handler {
	return &Handler{posts: posts, categories: categories, comments: comments, view: v, opts: opts, log: log}
}

// RegisterRoutes mounts the public pages. commentLimit guards comment submission.
func (h *Handler) RegisterRoutes(r gin.IRouter, commentLimit gin.HandlerFunc) {
	r.GET("/", h.index)
	r.GET("/page/:page", h.index)
	r.GET("/about", h.about)
	r.GET("/category/:id", h.showCategory)
	r.GET("/post/:id", h.showPost)
	r.POST("/post/:id", commentLimit, h.createComment)
	r.GET("/reply/comment/:id", h.replyComment)
}

func (h *Handler) index(c *gin.Context) {
	page := 1
	if raw := c.Param("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.view.Abort(c, http.StatusNotFound, "")
			return
		}
		page = n
	}

	posts, pag, err := h.posts.List(pagination.New(page, h.opts.PostPerPage))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(posts) == 0 && page != 1 {
		h.view.Abort(c, http.StatusNotFound, "")
		return
	}
	h.view.HTML(c, http.StatusOK, "blog/index.html", gin.H{
		"posts":      posts,
		"pagination": pag,
	})
}

func (h *Handler) about(c *gin.Context) {
	h.view.HTML(c, http.StatusOK, "blog/about.html", nil)
}

func (h *Handler) showCategory(c *gin.Context) {
	cat, err := h.categories.GetByID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if cat == nil {
		h.view.Abort(c, http.StatusNotFound, "")
		return
	}

	q := pagination.PageOf(c, h.opts.PostPerPage)
	posts, pag, err := h.posts.ListByCategory(cat.ID, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(posts) == 0 && q.Page != 1 {
		h.view.Abort(c, http.StatusNotFound, "")
		return
	}
	h.view.HTML(c, http.StatusOK, "blog/category.html", gin.H{
		"category":   cat,
		"posts":      posts,
		"pagination": pag,
	})
}

func (h *Handler) showPost(c *gin.Context) {
	p, ok := h.loadPost(c)
	if !ok {
		return
	}
	h.renderPost(c, p, CommentForm{}, nil)
}

func (h *Handler) createComment(c *gin.Context) {
	p, ok := h.loadPost(c)
	if !ok {
		return
	}
	if !p.CanComment {
		h.view.Abort(c, http.StatusBadRequest, "Comment is disabled for this post.")
		return
	}

	var f CommentForm
	bindErr := c.ShouldBind(&f)
	if f.RepliedID == "" {
		f.RepliedID = c.Query("reply")
	}
	if bindErr != nil {
		h.renderPost(c, p, f, form.Messages(bindErr))
		return
	}

	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		var problems []string
		if f.Author == "" {
			problems = append(problems, "Author is required.")
		}
		if f.Email == "" {
			problems = append(problems, "Email is required.")
		}
		if f.Site != "" && !form.IsHTTPURL(f.Site) {
			problems = append(problems, "Site must be a valid http(s) URL.")
		}
		if len(problems) > 0 {
			h.renderPost(c, p, f, problems)
			return
		}
	}

	_, err := h.comments.Create(comment.Input{
		PostID:    p.ID,
		RepliedID: f.RepliedID,
		Author:    f.Author,
		Email:     f.Email,
		Site:      f.Site,
		Body:      f.Body,
		FromAdmin: admin != nil,
	})
	switch {
	case errors.Is(err, comment.ErrCommentDisabled):
		h.view.Abort(c, http.StatusBadRequest, "Comment is disabled for this post.")
		return
	case errors.Is(err, comment.ErrReplyMismatch):
		h.view.Abort(c, http.StatusBadRequest, "The comment you replied to does not exist.")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	if admin != nil {
		flash.Add(c, flash.Success, "Comment published.")
	} else {
		flash.Add(c, flash.Info, "Thanks, your comment will be published after reviewed.")
	}
	c.Redirect(http.StatusFound, "/post/"+p.ID+"#comments")
}

func (h *Handler) replyComment(c *gin.Context) {
	cm, err := h.comments.GetByID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if cm == nil || cm.Post == nil {
		h.view.Abort(c, http.StatusNotFound, "")
		return
	}
	if !cm.Post.CanComment {
		flash.Add(c, flash.Warning, "Comment is disabled.")
		c.Redirect(http.StatusFound, "/post/"+cm.PostID)
		return
	}
	c.Redirect(http.StatusFound, "/post/"+cm.PostID+"?reply="+cm.ID+"#comment-form")
}

func (h *Handler) loadPost(c *gin.Context) (*models.PostModel, bool) {
	p, err := h.posts.GetByID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if p == nil {
		h.view.Abort(c, http.StatusNotFound, "")
		return nil, false
	}
	return p, true
}

func (h *Handler) renderPost(c *gin.Context, p *models.PostModel, f CommentForm, problems []string) {
	comments, pag, err := h.comments.ListReviewed(p.ID, pagination.PageOf(c, h.opts.CommentPerPage))
	if err != nil {
		h.fail(c, err)
		return
	}

	var replyTo *models.CommentModel
	replyID := f.RepliedID
	if replyID == "" {
		replyID = c.Query("reply")
	}
	if replyID != "" {
		if target, err := h.comments.GetByID(replyID); err == nil && target != nil && target.PostID == p.ID {
			replyTo = target
		}
	}

	h.view.HTML(c, http.StatusOK, "blog/post.html", gin.H{
		"post":        p,
		"comments":    comments,
		"pagination":  pag,
		"reply_to":    replyTo,
		"form":        f,
		"form_errors": problems,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("blog handler failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.view.Abort(c, http.StatusInternalServerError, "")
}
