package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps (page-1)*size well inside int64 for any allowed size.
	MaxPage = math.MaxInt32
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// Pagination metadata returned with paginated lists and handed to templates.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// FromContext reads ?page= and ?size= from the request.
func FromContext(c *gin.Context) Query {
	return normalize(
		parseIntOr(c.DefaultQuery("page", "1"), DefaultPage),
		parseIntOr(c.DefaultQuery("size", strconv.Itoa(DefaultSize)), DefaultSize),
	)
}

// PageOf reads ?page= from the request and uses a fixed page size.
func PageOf(c *gin.Context, size int) Query {
	return normalize(parseIntOr(c.DefaultQuery("page", "1"), DefaultPage), size)
}

// New builds a query from explicit values.
func New(page, size int) Query {
	return normalize(page, size)
}

func normalize(page, size int) Query {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Query{Page: page, Size: size}
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
// Scopes (preloads, mostly) are applied to the page query only, not to the count.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T, scopes ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	q = normalize(q.Page, q.Size)
	offset := (q.Page - 1) * q.Size
	if err := db.Session(&gorm.Session{}).Scopes(scopes...).Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	return Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func (p Pagination) HasPrevPage() bool { return p.CurrentPage > 1 }

func (p Pagination) PrevPage() int { return p.CurrentPage - 1 }

func (p Pagination) NextPage() int { return p.CurrentPage + 1 }

// Pages lists the page numbers around the current page for a pager widget.
func (p Pagination) Pages() []int {
	const window = 2
	start := p.CurrentPage - window
	if start < 1 {
		start = 1
	}
	end := p.CurrentPage + window
	if end > p.TotalPage {
		end = p.TotalPage
	}
	if end < start {
		return nil
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Preload returns a scope that preloads the named associations.
func Preload(associations ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, a := range associations {
			db = db.Preload(a)
		}
		return db
	}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
