package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/pkg/cron"
	"github.com/myblog/core/internal/pkg/flash"
	"github.com/myblog/core/internal/pkg/pagination"
)

func sampleData() gin.H {
	now := time.Now()
	cat := models.CategoryModel{Base: models.Base{ID: "c1", CreatedAt: now}, Name: "Default", IsDefault: true}
	post := models.PostModel{
		Base:       models.Base{ID: "p1", CreatedAt: now},
		Title:      "Hello",
		Body:       "**bold** text",
		CanComment: true,
		CategoryID: cat.ID,
		Category:   &cat,
	}
	parent := models.CommentModel{Base: models.Base{ID: "m0", CreatedAt: now}, Author: "Ann", Body: "first", Reviewed: true}
	reply := models.CommentModel{
		Base:     models.Base{ID: "m1", CreatedAt: now},
		Author:   "Bob",
		Email:    "bob@example.com",
		Site:     "https://bob.example.com",
		Body:     "second",
		PostID:   post.ID,
		Post:     &post,
		Replied:  &parent,
		Reviewed: false,
	}
	post.Comments = []models.CommentModel{parent, reply}
	admin := &models.AdminModel{Username: "admin", Name: "Mima", BlogTitle: "Bluelog", BlogSubTitle: "sub", About: "about *me*"}
	lastRun := now.Add(-time.Hour)

	return gin.H{
		"admin":           admin,
		"current_user":    admin,
		"csrf_token":      "token",
		"unread_comments": int64(1),
		"flashes":         []flash.Message{{Category: flash.Info, Text: "Hi."}},
		"categories":      []models.CategoryModel{cat},
		"links":           []models.LinkModel{{Base: models.Base{ID: "l1"}, Name: "Go", URL: "https://go.dev"}},
		"posts":           []models.PostModel{post},
		"post":            &post,
		"comments":        []models.CommentModel{parent, reply},
		"reply_to":        &parent,
		"category":        &cat,
		"summaries": []struct {
			models.CategoryModel
			PostCount int64
		}{{cat, 1}},
		"pagination":  pagination.Pagination{Total: 30, CurrentPage: 2, TotalPage: 3, Size: 10, HasNextPage: true},
		"filter":      "unread",
		"form_errors": []string{"Title is required."},
		"form": gin.H{
			"Title": "Hello", "Category": "c1", "Body": "body", "CanComment": true,
			"Name": "Go", "URL": "https://go.dev", "BlogTitle": "Bluelog", "BlogSubTitle": "sub", "About": "about",
			"Author": "Ann", "Email": "ann@example.com", "Site": "",
		},
		"jobs": []cron.ListItem{
			{Name: "purge_sessions", Status: cron.StatusFulfill, NextDate: now.Add(time.Hour), LastRunAt: &lastRun},
			{Name: "backup", Status: cron.StatusIdle, NextDate: now.Add(time.Hour)},
		},
		"post_id":     "p1",
		"category_id": "c1",
		"link_id":     "l1",
		"username":    "admin",
		"next":        "/admin/",
		"description": "Bad thing.",
	}
}

func TestEveryPageRenders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	for _, name := range r.Pages() {
		body, err := r.Execute(c, name, sampleData())
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !strings.Contains(string(body), "</html>") {
			t.Errorf("%s: truncated output", name)
		}
	}

	// Anonymous visitor with no optional data.
	for _, name := range []string{"blog/index.html", "blog/about.html", "auth/login.html", "errors/404.html"} {
		data := gin.H{"pagination": pagination.Pagination{CurrentPage: 1}}
		if _, err := r.Execute(c, name, data); err != nil {
			t.Errorf("%s without context: %v", name, err)
		}
	}
}

func TestHTMLFailureRendersErrorPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	r.HTML(c, http.StatusOK, "blog/index.html", gin.H{"pagination": "not a pagination"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "500 Error") {
		t.Fatalf("body = %q", w.Body.String())
	}
	if len(c.Errors) == 0 {
		t.Fatal("render error not recorded")
	}
}

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{
		"blog/index.html", "blog/post.html", "blog/about.html", "blog/category.html",
		"auth/login.html",
		"admin/manage_post.html", "admin/edit_post.html", "admin/manage_comment.html",
		"admin/manage_category.html", "admin/edit_category.html",
		"admin/manage_link.html", "admin/edit_link.html", "admin/settings.html",
		"errors/400.html", "errors/404.html", "errors/500.html",
	} {
		if !r.Has(name) {
			t.Errorf("page %s not parsed", name)
		}
	}
}

func TestHTMLMergesContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Use(func(c *gin.Context) gin.H {
		return gin.H{"admin": &models.AdminModel{BlogTitle: "Bluelog", BlogSubTitle: "sub"}}
	})

	post := models.PostModel{
		Base:     models.Base{ID: "p1", CreatedAt: time.Now()},
		Title:    "Hello",
		Body:     "**bold** text",
		Category: &models.CategoryModel{Base: models.Base{ID: "c1"}, Name: "Default"},
		Comments: []models.CommentModel{{Reviewed: true}, {Reviewed: false}},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	r.HTML(c, http.StatusOK, "blog/index.html", gin.H{
		"posts":      []models.PostModel{post},
		"pagination": pagination.Pagination{Total: 1, CurrentPage: 1, TotalPage: 1, Size: 10},
	})

	body := w.Body.String()
	for _, want := range []string{"<title>Home - Bluelog</title>", "Hello", "bold text", `href="/category/c1"`, `#comments">1</a>`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestErrorPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	r.HTML(c, http.StatusBadRequest, "errors/400.html", gin.H{"description": "The CSRF token is missing."})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "The CSRF token is missing.") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestFuncs(t *testing.T) {
	comments := []models.CommentModel{{Reviewed: true}, {Reviewed: true}, {}}
	if got := PostCommentsLength(comments); got != 2 {
		t.Errorf("PostCommentsLength = %d", got)
	}
	if got := string(Markdown("# Title")); !strings.Contains(got, "<h1>Title</h1>") {
		t.Errorf("Markdown = %q", got)
	}
	if got := string(Markdown("<script>alert(1)</script>")); strings.Contains(got, "<script>") {
		t.Errorf("raw html should be dropped: %q", got)
	}
	if got := Excerpt("Some *long* paragraph here", 9); got != "Some long..." {
		t.Errorf("Excerpt = %q", got)
	}
	if got := FromNow(time.Now().Add(-3 * time.Hour)); got != "3 hours ago" {
		t.Errorf("FromNow = %q", got)
	}
	if Moment(time.Time{}) != "" {
		t.Error("Moment of zero time should be empty")
	}
	cases := map[string]string{
		PageURL("/page/", 2):                         "/page/2",
		PageURL("/category/x", 3):                    "/category/x?page=3",
		PageURL("/admin/comment/manage?filter=a", 4): "/admin/comment/manage?filter=a&page=4",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("PageURL = %q, want %q", got, want)
		}
	}
}
