package seed

import (
	"testing"

	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/testutil"
)

func TestForge(t *testing.T) {
	db := testutil.NewDB(t)
	var steps []string
	res, err := Forge(db, Options{Categories: 3, Posts: 8, Comments: 40, Seed: 42, Progress: func(msg string) {
		steps = append(steps, msg)
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Categories != 4 || res.Posts != 8 || res.Comments != 40+4*3 || res.Links != 4 {
		t.Fatalf("result = %+v", res)
	}
	if len(steps) != 6 || steps[len(steps)-1] != "Done." {
		t.Fatalf("progress = %q", steps)
	}

	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		q := db.Model(model)
		if query != "" {
			q = q.Where(query, args...)
		}
		if err := q.Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		return n
	}
	if n := count(&models.AdminModel{}, ""); n != 1 {
		t.Fatalf("admins = %d", n)
	}
	if n := count(&models.CategoryModel{}, "is_default = ?", true); n != 1 {
		t.Fatalf("default categories = %d", n)
	}
	if n := count(&models.CommentModel{}, "reviewed = ?", false); n != 4 {
		t.Fatalf("unreviewed = %d", n)
	}
	if n := count(&models.CommentModel{}, "from_admin = ?", true); n != 4 {
		t.Fatalf("admin comments = %d", n)
	}

	var replies []models.CommentModel
	if err := db.Preload("Replied").Where("replied_id IS NOT NULL").Find(&replies).Error; err != nil {
		t.Fatal(err)
	}
	if len(replies) != 4 {
		t.Fatalf("replies = %d", len(replies))
	}
	for _, r := range replies {
		if r.Replied == nil || r.Replied.PostID != r.PostID {
			t.Fatalf("reply %s is not on the same post as its parent", r.ID)
		}
	}
}

func TestForgeRejectsNegativeCounts(t *testing.T) {
	if _, err := Forge(testutil.NewDB(t), Options{Posts: -1}); err == nil {
		t.Fatal("expected error")
	}
}
