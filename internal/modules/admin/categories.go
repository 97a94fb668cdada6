package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
)

// GET /admin/category/manage
func (h *Handler) manageCategories(c *gin.Context) {
	summaries, err := h.svc.Categories.ListWithCounts()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.view.HTML(c, http.StatusOK, "admin/manage_category.html", gin.H{"summaries": summaries})
}

// GET|POST /admin/category/new
func (h *Handler) newCategory(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		h.renderCategoryForm(c, "", CategoryForm{}, nil)
		return
	}
	var f CategoryForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderCategoryForm(c, "", f, form.Messages(err))
		return
	}
	_, err := h.svc.Categories.Create(f.Name)
	if problem := categoryProblem(err); problem != "" {
		h.renderCategoryForm(c, "", f, []string{problem})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Category created.")
	c.Redirect(http.StatusFound, "/admin/category/manage")
}

// GET|POST /admin/category/:id/edit
func (h *Handler) editCategory(c *gin.Context) {
	id := c.Param("id")
	if c.Request.Method == http.MethodGet {
		cat, err := h.svc.Categories.GetByID(id)
		if err != nil {
			h.fail(c, err)
			return
		}
		if cat == nil {
			h.notFound(c)
			return
		}
		h.renderCategoryForm(c, id, CategoryForm{Name: cat.Name}, nil)
		return
	}

	var f CategoryForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderCategoryForm(c, id, f, form.Messages(err))
		return
	}
	cat, err := h.svc.Categories.Rename(id, f.Name)
	if problem := categoryProblem(err); problem != "" {
		h.renderCategoryForm(c, id, f, []string{problem})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if cat == nil {
		h.notFound(c)
		return
	}
	flash.Add(c, flash.Success, "Category updated.")
	c.Redirect(http.StatusFound, "/admin/category/manage")
}

// POST /admin/category/:id/delete
func (h *Handler) deleteCategory(c *gin.Context) {
	err := h.svc.Categories.Delete(c.Param("id"))
	if errors.Is(err, category.ErrProtected) {
		flash.Add(c, flash.Warning, "You can not delete the default category.")
		c.Redirect(http.StatusFound, "/admin/category/manage")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Category deleted.")
	c.Redirect(http.StatusFound, "/admin/category/manage")
}

func (h *Handler) renderCategoryForm(c *gin.Context, categoryID string, f CategoryForm, problems []string) {
	h.view.HTML(c, http.StatusOK, "admin/edit_category.html", gin.H{
		"category_id": categoryID,
		"form":        f,
		"form_errors": problems,
	})
}

func categoryProblem(err error) string {
	switch {
	case errors.Is(err, category.ErrDuplicateName):
		return "Name already in use."
	case errors.Is(err, category.ErrNameRequired):
		return "Name is required."
	case errors.Is(err, category.ErrNameTooLong):
		return "Name must be at most 30 characters."
	}
	return ""
}
