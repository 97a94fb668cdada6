package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/database"
	"github.com/myblog/core/internal/middleware"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/modules/content/post"
	"github.com/myblog/core/internal/testutil"
)

type fixture struct {
	app  *App
	post *models.PostModel
}

func newFixture(t *testing.T, mutate func(*config.AppConfig)) *fixture {
	t.Helper()
	cfg := testutil.Config(t)
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)
	if err := database.CreateAll(a.DB()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := account.NewService(a.DB()).Init("admin", "helloflask"); err != nil {
		t.Fatal(err)
	}
	cat, _, err := category.NewService(a.DB()).EnsureDefault("Default")
	if err != nil {
		t.Fatal(err)
	}
	p, err := post.NewService(a.DB()).Create(post.Input{
		Title:      "Hello",
		Body:       "First **post**",
		CategoryID: cat.ID,
		CanComment: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{app: a, post: p}
}

func (f *fixture) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	f.app.Router().ServeHTTP(w, req)
	return w
}

func (f *fixture) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := f.do(http.MethodPost, "/auth/login", url.Values{"username": {"admin"}, "password": {"helloflask"}})
	if w.Code != http.StatusFound {
		t.Fatalf("login status = %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestAdminStubs(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/admin/", nil)
	if w.Code != http.StatusOK || w.Body.String() != "admin page" {
		t.Fatalf("GET /admin/ = %d %q", w.Code, w.Body.String())
	}
	w = f.do(http.MethodGet, "/admin/new_post", nil)
	if w.Code != http.StatusOK || w.Body.String() != "new_post page" {
		t.Fatalf("GET /admin/new_post = %d %q", w.Code, w.Body.String())
	}
}

func TestBlogPages(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello") {
		t.Fatalf("index = %d", w.Code)
	}
	w = f.do(http.MethodGet, "/post/"+f.post.ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<strong>post</strong>") {
		t.Fatalf("post page = %d", w.Code)
	}
	w = f.do(http.MethodGet, "/about", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), account.DefaultAbout) {
		t.Fatalf("about = %d", w.Code)
	}
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/no/such/page", nil)
	if w.Code != http.StatusNotFound || !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("html 404 = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	w = f.do(http.MethodGet, "/post/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing post = %d", w.Code)
	}

	w = f.do(http.MethodGet, "/api/nothing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("api 404 = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("api 404 is not JSON: %v", err)
	}
	if body["ok"] != float64(0) {
		t.Fatalf("envelope = %v", body)
	}
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/admin/post/manage", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/auth/login?next=") {
		t.Fatalf("Location = %q", loc)
	}

	cookie := f.login(t)
	w = f.do(http.MethodGet, "/admin/post/manage", nil, cookie)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello") {
		t.Fatalf("manage posts = %d", w.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/auth/login", url.Values{"username": {"admin"}, "password": {"nope"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password.") {
		t.Fatal("missing invalid credentials message")
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)

	w := f.do(http.MethodPost, "/auth/logout", url.Values{}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("logout = %d", w.Code)
	}
	w = f.do(http.MethodGet, "/admin/post/manage", nil, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("revoked session still valid: %d", w.Code)
	}
}

func TestVisitorCommentNeedsReview(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/post/"+f.post.ID, url.Values{
		"author": {"Guest"},
		"email":  {"guest@example.com"},
		"body":   {"a pending remark"},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("comment = %d body %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/post/"+f.post.ID+"#comments" {
		t.Fatalf("Location = %q", loc)
	}

	w = f.do(http.MethodGet, "/post/"+f.post.ID, nil)
	if strings.Contains(w.Body.String(), "a pending remark") {
		t.Fatal("unreviewed comment is visible")
	}

	comments, _, err := comment.NewService(f.app.DB()).List(comment.FilterUnread, testPage())
	if err != nil || len(comments) != 1 {
		t.Fatalf("unread = %d, %v", len(comments), err)
	}

	cookie := f.login(t)
	w = f.do(http.MethodPost, "/admin/comment/"+comments[0].ID+"/approve", url.Values{}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("approve = %d", w.Code)
	}
	w = f.do(http.MethodGet, "/post/"+f.post.ID, nil)
	if !strings.Contains(w.Body.String(), "a pending remark") {
		t.Fatal("approved comment is not visible")
	}
}

func TestVisitorCommentValidation(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/post/"+f.post.ID, url.Values{"body": {"anonymous"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Author is required.") {
		t.Fatal("missing author error")
	}
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	f := newFixture(t, func(cfg *config.AppConfig) { cfg.CSRF.Enable = true })

	w := f.do(http.MethodPost, "/auth/login", url.Values{"username": {"admin"}, "password": {"helloflask"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "The CSRF token is missing.") {
		t.Fatalf("body does not explain the failure")
	}

	w = f.do(http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("api GET under csrf = %d", w.Code)
	}
}

func TestAPIPosts(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != f.post.ID {
		t.Fatalf("data = %+v", body.Data)
	}

	w = f.do(http.MethodGet, "/api/posts/"+f.post.ID, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title":"Hello"`) {
		t.Fatalf("post = %d %s", w.Code, w.Body.String())
	}
}

func TestSchedulerJobs(t *testing.T) {
	f := newFixture(t, nil)
	items := f.app.Scheduler().List()
	if len(items) != 1 || items[0].Name != JobPurgeSessions {
		t.Fatalf("jobs = %+v", items)
	}

	f = newFixture(t, func(cfg *config.AppConfig) { cfg.Backup.Enable = true })
	if len(f.app.Scheduler().List()) != 2 {
		t.Fatal("backup job not registered")
	}
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern, host string
		want          bool
	}{
		{"example.com", "example.com", true},
		{"*.example.com", "blog.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "127.0.0.1:5173", false},
	}
	for _, tc := range cases {
		if got := matchOriginPattern(tc.pattern, extractOriginHost("http://"+tc.host)); got != tc.want {
			t.Errorf("matchOriginPattern(%q, %q) = %v", tc.pattern, tc.host, got)
		}
	}
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("+08:00")
	if err != nil {
		t.Fatal(err)
	}
	if _, off := timeIn(loc); off != 8*3600 {
		t.Fatalf("offset = %d", off)
	}
	if _, err := parseTimezoneLocation("Mars/Base"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestSettingsListsJobs(t *testing.T) {
	f := newFixture(t, nil)
	cookie := f.login(t)

	w := f.do(http.MethodGet, "/admin/settings", nil, cookie)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), JobPurgeSessions) {
		t.Fatalf("settings = %d", w.Code)
	}

	w = f.do(http.MethodPost, "/admin/settings", url.Values{
		"name":           {"Mima"},
		"blog_title":     {"Mima's Room"},
		"blog_sub_title": {"Real"},
		"about":          {"hi"},
	}, cookie)
	if w.Code != http.StatusFound {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}
	admin, err := account.NewService(f.app.DB()).Get()
	if err != nil || admin.BlogTitle != "Mima's Room" {
		t.Fatalf("admin = %+v, %v", admin, err)
	}
}

func TestFeedRoutes(t *testing.T) {
	f := newFixture(t, nil)
	for _, path := range []string{"/feed.xml", "/atom.xml", "/sitemap.xml"} {
		w := f.do(http.MethodGet, path, nil)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), f.post.ID) {
			t.Errorf("%s = %d", path, w.Code)
		}
	}
}
