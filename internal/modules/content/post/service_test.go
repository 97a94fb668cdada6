package post

import (
	"errors"
	"testing"
	"time"

	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/pkg/pagination"
	"github.com/myblog/core/internal/testutil"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Service, models.CategoryModel) {
	t.Helper()
	db := testutil.NewDB(t)
	cat := models.CategoryModel{Name: "Default", IsDefault: true}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatal(err)
	}
	return db, NewService(db), cat
}

func TestCreateAndUpdate(t *testing.T) {
	_, svc, cat := setup(t)

	if _, err := svc.Create(Input{Title: "", Body: "x", CategoryID: cat.ID}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Create(Input{Title: "t", Body: "x", CategoryID: "nope"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v", err)
	}

	p, err := svc.Create(Input{Title: " Hello ", Body: "# hi", CategoryID: cat.ID, CanComment: false})
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Hello" || p.CanComment || p.Category == nil || p.Category.Name != "Default" {
		t.Fatalf("created = %+v", p)
	}

	up, err := svc.Update(p.ID, Input{Title: "Hello again", Body: "body", CategoryID: cat.ID, CanComment: true})
	if err != nil {
		t.Fatal(err)
	}
	if up.Title != "Hello again" || !up.CanComment {
		t.Fatalf("updated = %+v", up)
	}

	toggled, err := svc.ToggleComment(p.ID)
	if err != nil || toggled.CanComment {
		t.Fatalf("toggle: %+v %v", toggled, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db, svc, cat := setup(t)
	for _, title := range []string{"one", "two", "three"} {
		if _, err := svc.Create(Input{Title: title, Body: "b", CategoryID: cat.ID, CanComment: true}); err != nil {
			t.Fatal(err)
		}
	}
	for i, title := range []string{"one", "two", "three"} {
		ts := time.Date(2020+i, 1, 1, 0, 0, 0, 0, time.Local)
		if err := db.Model(&models.PostModel{}).Where("title = ?", title).Update("created_at", ts).Error; err != nil {
			t.Fatal(err)
		}
	}

	items, pag, err := svc.List(pagination.New(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if pag.Total != 3 || len(items) != 2 || items[0].Title != "three" || items[1].Title != "two" {
		t.Fatalf("items = %+v pag = %+v", items, pag)
	}
}

func TestDeleteCascadesComments(t *testing.T) {
	db, svc, cat := setup(t)
	p, err := svc.Create(Input{Title: "t", Body: "b", CategoryID: cat.ID, CanComment: true})
	if err != nil {
		t.Fatal(err)
	}
	parent := models.CommentModel{Body: "parent", PostID: p.ID, Reviewed: true}
	if err := db.Create(&parent).Error; err != nil {
		t.Fatal(err)
	}
	reply := models.CommentModel{Body: "reply", PostID: p.ID, RepliedID: &parent.ID}
	if err := db.Create(&reply).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	var n int64
	db.Model(&models.CommentModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("comments left = %d", n)
	}
	if got, err := svc.GetByID(p.ID); err != nil || got != nil {
		t.Fatalf("post still there: %+v %v", got, err)
	}
}
