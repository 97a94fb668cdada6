package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/myblog/core/internal/pkg/response"
	"go.uber.org/zap"
)

// Partials are named with a leading underscore, which a plain directory
// embed would skip.
//
//go:embed all:templates
var templateFS embed.FS

const (
	layoutFile  = "templates/base.html"
	partialsDir = "templates/partials"
	layoutName  = "base"
	errorPage   = "errors/500.html"
)

// ContextProcessor contributes values available to every template.
type ContextProcessor func(c *gin.Context) gin.H

// Renderer holds one parsed template set per page: the layout, the partials
// and the page itself.
type Renderer struct {
	pages      map[string]*template.Template
	processors []ContextProcessor
	log        *zap.Logger
}

// New parses every page under templates/. log may be nil.
func New(log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	partials, err := fs.Glob(templateFS, partialsDir+"/*.html")
	if err != nil {
		return nil, err
	}
	if len(partials) == 0 {
		return nil, errors.New("no partial templates under " + partialsDir)
	}

	r := &Renderer{pages: make(map[string]*template.Template), log: log}
	err = fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == layoutFile || strings.HasPrefix(p, partialsDir+"/") {
			return nil
		}
		files := append([]string{layoutFile}, partials...)
		files = append(files, p)
		tmpl, err := template.New(path.Base(p)).Funcs(Funcs()).ParseFS(templateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimPrefix(p, "templates/")] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Use registers a context processor. Processors run in order; page data wins
// over processor values.
func (r *Renderer) Use(p ContextProcessor) {
	r.processors = append(r.processors, p)
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// HTML renders page name with the merged template context. The page is
// executed into a buffer first; a failed render sends the 500 page instead
// of a truncated body.
func (r *Renderer) HTML(c *gin.Context, code int, name string, data gin.H) {
	body, err := r.Execute(c, name, data)
	if err != nil {
		r.log.Error("render template", zap.String("page", name), zap.Error(err))
		_ = c.Error(err)
		code = http.StatusInternalServerError
		if name == errorPage {
			c.String(code, http.StatusText(code))
			return
		}
		if body, err = r.Execute(c, errorPage, nil); err != nil {
			r.log.Error("render template", zap.String("page", errorPage), zap.Error(err))
			c.String(code, http.StatusText(code))
			return
		}
	}
	c.Data(code, "text/html; charset=utf-8", body)
}

// Execute runs page name with the context processors and data merged; data
// wins over processor values.
func (r *Renderer) Execute(c *gin.Context, name string, data gin.H) ([]byte, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("template %s not found", name)
	}
	ctx := gin.H{}
	for _, p := range r.processors {
		for k, v := range p(c) {
			ctx[k] = v
		}
	}
	for k, v := range data {
		ctx[k] = v
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pages lists the parsed page names.
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Abort renders the error page for code and stops the handler chain. Requests
// under /api get the JSON error envelope instead.
func (r *Renderer) Abort(c *gin.Context, code int, description string) {
	if c.Request != nil && strings.HasPrefix(c.Request.URL.Path, "/api/") {
		msg := description
		if msg == "" {
			msg = http.StatusText(code)
		}
		response.Error(c, code, msg)
		return
	}
	page := fmt.Sprintf("errors/%d.html", code)
	if !r.Has(page) {
		page = "errors/500.html"
		if code < 500 {
			page = "errors/400.html"
		}
	}
	r.HTML(c, code, page, gin.H{"description": description})
	c.Abort()
}
