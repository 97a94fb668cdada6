package view

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/myblog/core/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Funcs is the template function map shared by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"post_comments_length": PostCommentsLength,
		"markdown":             Markdown,
		"excerpt":              Excerpt,
		"moment":               Moment,
		"fromNow":              FromNow,
		"pageURL":              PageURL,
		"dict":                 dict,
	}
}

// PostCommentsLength counts the published comments in comments.
func PostCommentsLength(comments []models.CommentModel) int {
	n := 0
	for _, c := range comments {
		if c.Reviewed {
			n++
		}
	}
	return n
}

// Markdown renders a post or comment body. Raw HTML in the source is dropped.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// Excerpt renders src, strips the markup and cuts it to n runes.
func Excerpt(src string, n int) string {
	text := tagPattern.ReplaceAllString(string(Markdown(src)), " ")
	text = strings.Join(strings.Fields(text), " ")
	text = unescapeEntities(text)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Moment formats t for display, in the style of "2006-01-02 15:04".
func Moment(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FromNow describes t relative to now, e.g. "3 hours ago".
func FromNow(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// PageURL builds the link to page of a paginated listing. Bases ending in
// "/page/" take the number as a path segment, others as ?page=.
func PageURL(base string, page int) string {
	switch {
	case strings.HasSuffix(base, "/page/"):
		return fmt.Sprintf("%s%d", base, page)
	case strings.Contains(base, "?"):
		return fmt.Sprintf("%s&page=%d", base, page)
	default:
		return fmt.Sprintf("%s?page=%d", base, page)
	}
}

func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		out[key] = kv[i+1]
	}
	return out, nil
}

var entityReplacer = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'")

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}
