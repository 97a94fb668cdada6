// Package flash carries one-shot messages across a redirect in a signed
// session cookie.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie holding queued messages.
const SessionName = "blog_flash"

// Message categories used by the templates.
const (
	Info    = "info"
	Success = "success"
	Warning = "warning"
	Danger  = "danger"
)

// Message is a single flashed message.
type Message struct {
	Category string
	Text     string
}

func init() {
	gob.Register(Message{})
}

// Sessions installs the cookie session store Add and Pop read from.
func Sessions(secret []byte, secure bool) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store)
}

// Add queues a message for the next rendered page. Without the Sessions
// middleware it does nothing.
func Add(c *gin.Context, category, text string) {
	s := sessionOf(c)
	if s == nil {
		return
	}
	s.AddFlash(Message{Category: category, Text: text})
	if err := s.Save(); err != nil {
		_ = c.Error(err)
	}
}

// Pop returns every queued message and clears the queue.
func Pop(c *gin.Context) []Message {
	s := sessionOf(c)
	if s == nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		_ = c.Error(err)
	}
	msgs := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

func sessionOf(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}
