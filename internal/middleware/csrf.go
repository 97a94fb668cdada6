package middleware

import (
	"context"
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	ContextKeyCSRF = "csrf_token"

	CSRFCookie = "blog_csrf"
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRFToken"
)

// CSRFFailure renders the rejection for a request whose token is missing or wrong.
type CSRFFailure func(c *gin.Context, reason string)

// CSRFOptions configures the CSRF middleware.
type CSRFOptions struct {
	Enabled bool
	// Secret is stretched into the cookie signing key.
	Secret string
	// Secure marks the token cookie Secure.
	Secure bool
	// Exempt lists path prefixes that are never checked.
	Exempt []string
}

type ginContextKey struct{}

// CSRF issues a signed per-browser token cookie and, when enabled, requires
// unsafe requests to echo the masked token back in the csrf_token form field
// or X-CSRFToken header.
func CSRF(opts CSRFOptions, onFailure CSRFFailure) gin.HandlerFunc {
	if !opts.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	key := sha256.Sum256([]byte(opts.Secret))
	protect := csrf.Protect(key[:],
		csrf.CookieName(CSRFCookie),
		csrf.FieldName(CSRFField),
		csrf.RequestHeader(CSRFHeader),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.Secure(opts.Secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c, ok := r.Context().Value(ginContextKey{}).(*gin.Context)
			if !ok {
				return
			}
			onFailure(c, csrfReason(csrf.FailureReason(r)))
			c.Abort()
		})),
	)

	return func(c *gin.Context) {
		if hasPrefix(c.Request.URL.Path, opts.Exempt) {
			c.Next()
			return
		}

		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		if !isSecure(c) {
			r = csrf.PlaintextHTTPRequest(r)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Set(ContextKeyCSRF, csrf.Token(r))
		})).ServeHTTP(c.Writer, r)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFToken returns the masked token for the current request, or "" when
// protection is off.
func CSRFToken(c *gin.Context) string {
	return c.GetString(ContextKeyCSRF)
}

func csrfReason(err error) string {
	switch {
	case errors.Is(err, csrf.ErrNoToken):
		return "The CSRF token is missing."
	case errors.Is(err, csrf.ErrBadToken):
		return "The CSRF tokens do not match."
	case errors.Is(err, csrf.ErrNoReferer):
		return "The referrer header is missing."
	case errors.Is(err, csrf.ErrBadReferer):
		return "The referrer does not match the host."
	default:
		return "The CSRF token is invalid."
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
