package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/modules/content/link"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
)

// GET /admin/link/manage
func (h *Handler) manageLinks(c *gin.Context) {
	links, err := h.svc.Links.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.view.HTML(c, http.StatusOK, "admin/manage_link.html", gin.H{"links": links})
}

// GET|POST /admin/link/new
func (h *Handler) newLink(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.renderLinkForm(c, "", LinkForm{}, nil)
		return
	}
	f, problems := bindLink(c)
	if len(problems) > 0 {
		h.renderLinkForm(c, "", f, problems)
		return
	}
	if _, err := h.svc.Links.Create(link.Input{Name: f.Name, URL: f.URL}); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Link created.")
	c.Redirect(http.StatusFound, "/admin/link/manage")
}

// GET|POST /admin/link/:id/edit
func (h *Handler) editLink(c *gin.Context) {
	id := c.Param("id")
	if c.Request.Method == http.MethodGet {
		l, err := h.svc.Links.GetByID(id)
		if err != nil {
			h.fail(c, err)
			return
		}
		if l == nil {
			h.notFound(c)
			return
		}
		h.renderLinkForm(c, id, LinkForm{Name: l.Name, URL: l.URL}, nil)
		return
	}

	f, problems := bindLink(c)
	if len(problems) > 0 {
		h.renderLinkForm(c, id, f, problems)
		return
	}
	l, err := h.svc.Links.Update(id, link.Input{Name: f.Name, URL: f.URL})
	if err != nil {
		h.fail(c, err)
		return
	}
	if l == nil {
		h.notFound(c)
		return
	}
	flash.Add(c, flash.Success, "Link updated.")
	c.Redirect(http.StatusFound, "/admin/link/manage")
}

// POST /admin/link/:id/delete
func (h *Handler) deleteLink(c *gin.Context) {
	if err := h.svc.Links.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Link deleted.")
	c.Redirect(http.StatusFound, "/admin/link/manage")
}

func bindLink(c *gin.Context) (LinkForm, []string) {
	var f LinkForm
	if err := c.ShouldBind(&f); err != nil {
		return f, form.Messages(err)
	}
	if !form.IsHTTPURL(f.URL) {
		return f, []string{"URL must be a valid http(s) URL."}
	}
	return f, nil
}

func (h *Handler) renderLinkForm(c *gin.Context, linkID string, f LinkForm, problems []string) {
	h.view.HTML(c, http.StatusOK, "admin/edit_link.html", gin.H{
		"link_id":     linkID,
		"form":        f,
		"form_errors": problems,
	})
}
