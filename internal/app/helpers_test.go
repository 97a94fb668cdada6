package app

import (
	"time"

	"github.com/myblog/core/internal/pkg/pagination"
)

func testPage() pagination.Query { return pagination.New(1, 50) }

func timeIn(loc *time.Location) (string, int) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
}
