package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func flashRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Sessions([]byte("test-secret-0123456789abcdef"), false))
	r.POST("/save", func(c *gin.Context) {
		Add(c, Success, "Post created.")
		c.Redirect(http.StatusFound, "/show")
	})
	r.GET("/show", func(c *gin.Context) {
		msgs := Pop(c)
		if len(msgs) == 0 {
			c.String(http.StatusOK, "")
			return
		}
		c.String(http.StatusOK, msgs[0].Category+":"+msgs[0].Text)
	})
	return r
}

func get(r *gin.Engine, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFlashSurvivesRedirect(t *testing.T) {
	r := flashRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/save", nil))
	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Name != SessionName {
		t.Fatalf("expected %s cookie, got %+v", SessionName, cookies)
	}

	w = get(r, cookies)
	if got := w.Body.String(); got != "success:Post created." {
		t.Fatalf("body = %q", got)
	}

	// The response re-saves the session without the consumed message.
	w = get(r, w.Result().Cookies())
	if got := w.Body.String(); got != "" {
		t.Fatalf("message shown twice: %q", got)
	}
}

func TestFlashRejectsForgedCookie(t *testing.T) {
	r := flashRouter()
	w := get(r, []*http.Cookie{{Name: SessionName, Value: "forged"}})
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
}

func TestPopSameRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Sessions([]byte("test-secret-0123456789abcdef"), false))
	var msgs, again []Message
	r.GET("/", func(c *gin.Context) {
		Add(c, Warning, "one")
		Add(c, Danger, "two")
		msgs = Pop(c)
		again = Pop(c)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(msgs) != 2 || msgs[1].Text != "two" {
		t.Fatalf("Pop() = %+v", msgs)
	}
	if len(again) != 0 {
		t.Fatalf("second Pop() = %+v", again)
	}
}

func TestWithoutSessionsIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Add(c, Info, "dropped")
	if msgs := Pop(c); msgs != nil {
		t.Fatalf("Pop() = %+v", msgs)
	}
}
