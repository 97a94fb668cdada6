package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/models"
	sessionpkg "github.com/myblog/core/internal/pkg/session"
	"github.com/myblog/core/internal/testutil"
)

func TestLoginRequiredRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/post/manage", LoginRequired(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/post/manage?page=2", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, LoginPath+"?next=") || !strings.Contains(loc, "%2Fadmin%2Fpost%2Fmanage") {
		t.Fatalf("Location = %q", loc)
	}
}

func TestLoadUserFromSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	admin := models.AdminModel{Username: "admin"}
	if err := admin.SetPassword("secret"); err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatal(err)
	}
	token, _, err := sessionpkg.Issue(db, admin.ID, "127.0.0.1", "test", false)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(LoadUser(db))
	r.GET("/whoami", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentAdmin(c).Username)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "admin" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}

	if err := sessionpkg.RevokeAll(db, admin.ID); err != nil {
		t.Fatal(err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("revoked session should redirect, got %d", w.Code)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/admin/post/manage":   "/admin/post/manage",
		"/post/1?reply=2":      "/post/1?reply=2",
		"https://evil.example": "/",
		"//evil.example/x":     "/",
		"/\\evil.example":      "/",
		"relative/path":        "/",
	}
	for in, want := range cases {
		if got := SafeNext(in, "/"); got != want {
			t.Errorf("SafeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
