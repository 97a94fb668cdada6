package database

import (
	"path/filepath"
	"testing"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/models"
)

func TestCreateAndDropAll(t *testing.T) {
	cfg := config.Testing()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "schema.db")

	db, err := Connect(cfg, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer Close(db)

	if err := CreateAll(db); err != nil {
		t.Fatalf("create all: %v", err)
	}
	for _, m := range models.All() {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("table for %T missing after CreateAll", m)
		}
	}

	if err := db.Create(&models.LinkModel{Name: "Go", URL: "https://go.dev"}).Error; err != nil {
		t.Fatalf("insert link: %v", err)
	}

	if err := Reset(db); err != nil {
		t.Fatalf("reset: %v", err)
	}
	var count int64
	db.Model(&models.LinkModel{}).Count(&count)
	if count != 0 {
		t.Fatalf("links after reset = %d, want 0", count)
	}

	if err := DropAll(db); err != nil {
		t.Fatalf("drop all: %v", err)
	}
	for _, m := range models.All() {
		if db.Migrator().HasTable(m) {
			t.Fatalf("table for %T still present after DropAll", m)
		}
	}
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	cfg := config.Testing()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "fk.db")

	db, err := Connect(cfg, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer Close(db)
	if err := CreateAll(db); err != nil {
		t.Fatal(err)
	}

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil || enabled != 1 {
		t.Fatalf("foreign_keys = %d, %v", enabled, err)
	}
	orphan := models.CommentModel{Body: "orphan", PostID: "00000000-0000-0000-0000-000000000000"}
	if err := db.Create(&orphan).Error; err == nil {
		t.Fatal("comment for a missing post was accepted")
	}
}

func TestWithForeignKeys(t *testing.T) {
	cases := map[string]string{
		"blog.db":                   "blog.db?_foreign_keys=on",
		"file:blog.db?cache=shared": "file:blog.db?cache=shared&_foreign_keys=on",
		"blog.db?_foreign_keys=off": "blog.db?_foreign_keys=off",
	}
	for in, want := range cases {
		if got := withForeignKeys(in); got != want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", in, got, want)
		}
	}
}
