package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/modules/content/post"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
	"github.com/myblog/core/internal/pkg/pagination"
)

// GET /admin/post/manage
func (h *Handler) managePosts(c *gin.Context) {
	q := pagination.PageOf(c, h.opts.ManagePostPerPage)
	posts, pag, err := h.svc.Posts.List(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.view.HTML(c, http.StatusOK, "admin/manage_post.html", gin.H{
		"posts":      posts,
		"pagination": pag,
	})
}

// GET|POST /admin/post/new
func (h *Handler) newPost(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		f := PostForm{CanComment: true}
		if def, err := h.svc.Categories.Default(); err == nil && def != nil {
			f.Category = def.ID
		}
		h.renderPostForm(c, "", f, nil)
		return
	}

	var f PostForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderPostForm(c, "", f, form.Messages(err))
		return
	}
	p, err := h.svc.Posts.Create(toPostInput(f))
	if problem := postProblem(err); problem != "" {
		h.renderPostForm(c, "", f, []string{problem})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Post created.")
	c.Redirect(http.StatusFound, "/post/"+p.ID)
}

// GET|POST /admin/post/:id/edit
func (h *Handler) editPost(c *gin.Context) {
	id := c.Param("id")
	if c.Request.Method == http.MethodGet {
		p, err := h.svc.Posts.GetByID(id)
		if err != nil {
			h.fail(c, err)
			return
		}
		if p == nil {
			h.notFound(c)
			return
		}
		h.renderPostForm(c, id, PostForm{
			Title:      p.Title,
			Category:   p.CategoryID,
			Body:       p.Body,
			CanComment: p.CanComment,
		}, nil)
		return
	}

	var f PostForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderPostForm(c, id, f, form.Messages(err))
		return
	}
	p, err := h.svc.Posts.Update(id, toPostInput(f))
	if problem := postProblem(err); problem != "" {
		h.renderPostForm(c, id, f, []string{problem})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		h.notFound(c)
		return
	}
	flash.Add(c, flash.Success, "Post updated.")
	c.Redirect(http.StatusFound, "/post/"+p.ID)
}

// POST /admin/post/:id/delete
func (h *Handler) deletePost(c *gin.Context) {
	if err := h.svc.Posts.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Post deleted.")
	redirectBack(c, "/admin/post/manage")
}

// POST /admin/post/:id/set-comment
func (h *Handler) setComment(c *gin.Context) {
	p, err := h.svc.Posts.ToggleComment(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		h.notFound(c)
		return
	}
	if p.CanComment {
		flash.Add(c, flash.Success, "Comment enabled.")
	} else {
		flash.Add(c, flash.Success, "Comment disabled.")
	}
	redirectBack(c, "/admin/post/manage")
}

func (h *Handler) renderPostForm(c *gin.Context, postID string, f PostForm, problems []string) {
	h.view.HTML(c, http.StatusOK, "admin/edit_post.html", gin.H{
		"post_id":     postID,
		"form":        f,
		"form_errors": problems,
	})
}

func toPostInput(f PostForm) post.Input {
	return post.Input{Title: f.Title, Body: f.Body, CategoryID: f.Category, CanComment: f.CanComment}
}

// postProblem maps validation errors from the post service to form messages.
func postProblem(err error) string {
	switch {
	case errors.Is(err, post.ErrTitleRequired):
		return "Title is required."
	case errors.Is(err, post.ErrTitleTooLong):
		return "Title must be at most 60 characters."
	case errors.Is(err, post.ErrBodyRequired):
		return "Body is required."
	case errors.Is(err, post.ErrUnknownCategory):
		return "Please choose an existing category."
	}
	return ""
}
