package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/pkg/cron"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/form"
)

// GET|POST /admin/settings
func (h *Handler) settings(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if c.Request.Method == http.MethodGet {
		h.renderSettings(c, SettingsForm{
			Name:         admin.Name,
			BlogTitle:    admin.BlogTitle,
			BlogSubTitle: admin.BlogSubTitle,
			About:        admin.About,
		}, nil)
		return
	}

	var f SettingsForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderSettings(c, f, form.Messages(err))
		return
	}
	if _, err := h.svc.Account.UpdateSettings(admin.ID, account.Settings{
		Name:         f.Name,
		BlogTitle:    f.BlogTitle,
		BlogSubTitle: f.BlogSubTitle,
		About:        f.About,
	}); err != nil {
		h.fail(c, err)
		return
	}
	flash.Add(c, flash.Success, "Setting updated.")
	c.Redirect(http.StatusFound, "/admin/settings")
}

func (h *Handler) renderSettings(c *gin.Context, f SettingsForm, problems []string) {
	var jobs []cron.ListItem
	if h.jobs != nil {
		jobs = h.jobs.List()
	}
	h.view.HTML(c, http.StatusOK, "admin/settings.html", gin.H{
		"form":        f,
		"form_errors": problems,
		"jobs":        jobs,
	})
}
