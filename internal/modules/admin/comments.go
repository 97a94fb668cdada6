package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/pagination"
)

// GET /admin/comment/manage?filter=all|unread|admin
func (h *Handler) manageComments(c *gin.Context) {
	filter := comment.ParseFilter(c.Query("filter"))
	q := pagination.PageOf(c, h.opts.ManageCommentPerPage)
	comments, pag, err := h.svc.Comments.List(filter, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.view.HTML(c, http.StatusOK, "admin/manage_comment.html", gin.H{
		"comments":   comments,
		"pagination": pag,
		"filter":     string(filter),
	})
}

// POST /admin/comment/:id/approve
func (h *Handler) approveComment(c *gin.Context) {
	if err := h.svc.Comments.Approve(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Comment published.")
	redirectBack(c, "/admin/comment/manage")
}

// POST /admin/comment/:id/delete
func (h *Handler) deleteComment(c *gin.Context) {
	if err := h.svc.Comments.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Comment deleted.")
	redirectBack(c, "/admin/comment/manage")
}
