package syndication

import (
	"encoding/xml"
	"time"

	"github.com/gin-gonic/gin"
)

type urlSet struct {
	XMLName xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// GET /sitemap.xml
func (h *Handler) sitemap(c *gin.Context) {
	base := baseURL(c)
	posts, err := h.posts.Stamps()
	if err != nil {
		h.fail(c, err)
		return
	}
	cats, err := h.categories.List()
	if err != nil {
		h.fail(c, err)
		return
	}

	var latest time.Time
	if len(posts) > 0 {
		latest = posts[0].CreatedAt
	}
	set := urlSet{URLs: []sitemapURL{
		{Loc: base + "/", LastMod: stamp(latest), ChangeFreq: "daily", Priority: "1.0"},
		{Loc: base + "/about", ChangeFreq: "monthly", Priority: "0.5"},
	}}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/post/" + p.ID,
			LastMod:    stamp(p.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, cat := range cats {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/category/" + cat.ID,
			LastMod:    stamp(cat.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}
	h.write(c, "application/xml; charset=utf-8", set)
}
