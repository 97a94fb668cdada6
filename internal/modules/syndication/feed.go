package syndication

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/view"
)

const excerptLength = 200

// buildFeed collects the newest posts. categories holds each item's category
// name by index, since feeds.Item has no category field.
func (h *Handler) buildFeed(c *gin.Context) (feed *feeds.Feed, categories []string, err error) {
	admin, err := h.account.Get()
	if err != nil {
		return nil, nil, err
	}
	root := baseURL(c)
	feed = &feeds.Feed{
		Title:       account.DefaultBlogTitle,
		Description: account.DefaultBlogSubTitle,
		Link:        &feeds.Link{Href: root + "/"},
		Id:          root + "/",
	}
	if admin != nil {
		feed.Title, feed.Description = admin.BlogTitle, admin.BlogSubTitle
		if admin.Name != "" {
			feed.Author = &feeds.Author{Name: admin.Name}
		}
	}

	posts, err := h.posts.Recent(FeedSize)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range posts {
		link := root + "/post/" + p.ID
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: view.Excerpt(p.Body, excerptLength),
			Content:     string(view.Markdown(p.Body)),
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
		})
		name := ""
		if p.Category != nil {
			name = p.Category.Name
		}
		categories = append(categories, name)

		if p.UpdatedAt.After(feed.Updated) {
			feed.Updated = p.UpdatedAt
		}
		if p.CreatedAt.After(feed.Created) {
			feed.Created = p.CreatedAt
		}
	}
	if feed.Updated.IsZero() {
		feed.Updated = time.Now()
	}
	return feed, categories, nil
}

// GET /feed.xml
func (h *Handler) rss(c *gin.Context) {
	feed, categories, err := h.buildFeed(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	doc := (&feeds.Rss{Feed: feed}).RssFeed()
	for i, item := range doc.Items {
		item.Category = categories[i]
	}
	out, err := feeds.ToXML(doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(out))
}

// GET /atom.xml
func (h *Handler) atom(c *gin.Context) {
	feed, _, err := h.buildFeed(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := feed.ToAtom()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(out))
}
