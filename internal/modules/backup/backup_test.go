package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/testutil"
)

func TestCreateWritesEveryTable(t *testing.T) {
	db := testutil.NewDB(t)
	if err := db.Create(&models.LinkModel{Name: "GitHub", URL: "https://github.com"}).Error; err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	svc := NewService(db, dir, config.BackupOptions{}, nil)

	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	a, err := svc.Create(now)
	if err != nil {
		t.Fatal(err)
	}
	if a.Filename != "backup-2024-05-06T07-08-09.zip" || a.Path != filepath.Join(dir, a.Filename) {
		t.Fatalf("artifact = %+v", a)
	}

	zr, err := zip.OpenReader(a.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	found := map[string][]map[string]interface{}{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		var rows []map[string]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			t.Fatalf("%s: %v", f.Name, err)
		}
		found[f.Name] = rows
	}
	for _, table := range Tables() {
		if _, ok := found[table+".json"]; !ok {
			t.Errorf("archive missing %s.json", table)
		}
	}
	if links := found["links.json"]; len(links) != 1 || links[0]["name"] != "GitHub" {
		t.Fatalf("links.json = %+v", links)
	}

	items, err := svc.List()
	if err != nil || len(items) != 1 || items[0].Filename != a.Filename {
		t.Fatalf("List() = %+v %v", items, err)
	}
}

func TestRunWithoutS3OnlyWritesLocally(t *testing.T) {
	svc := NewService(testutil.NewDB(t), t.TempDir(), config.BackupOptions{Enable: true}, nil)
	if err := svc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upload(context.Background(), &Artifact{Filename: "x.zip"}); err == nil {
		t.Fatal("upload without s3 config should fail")
	}
}

func TestObjectKey(t *testing.T) {
	cases := map[[2]string]string{
		{"", "a.zip"}:            "a.zip",
		{"/blog/", "a.zip"}:      "blog/a.zip",
		{"blog\\daily", "a.zip"}: "blog/daily/a.zip",
	}
	for in, want := range cases {
		if got := objectKey(in[0], in[1]); got != want {
			t.Errorf("objectKey(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
