package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/myblog/core/internal/config"
	"github.com/myblog/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const filenameLayout = "2006-01-02T15-04-05"

// Artifact is a backup archive written to disk.
type Artifact struct {
	Filename string
	Path     string
	Size     int64
	data     []byte
}

// Item describes an archive in the backup directory.
type Item struct {
	Filename string
	Size     int64
	ModTime  time.Time
}

// Service exports blog content into zip archives of JSON table dumps.
type Service struct {
	db   *gorm.DB
	dir  string
	opts config.BackupOptions
	log  *zap.Logger
}

// NewService writes archives into dir. log may be nil.
func NewService(db *gorm.DB, dir string, opts config.BackupOptions, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, dir: dir, opts: opts, log: log}
}

// Tables lists the exported tables. Login sessions are not content and are skipped.
func Tables() []string {
	return []string{
		models.AdminModel{}.TableName(),
		models.CategoryModel{}.TableName(),
		models.PostModel{}.TableName(),
		models.CommentModel{}.TableName(),
		models.LinkModel{}.TableName(),
	}
}

// Create dumps every content table into a new archive under the backup dir.
func (s *Service) Create(now time.Time) (*Artifact, error) {
	buf, err := s.archive()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("backup-%s.zip", now.Format(filenameLayout))
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	return &Artifact{Filename: filename, Path: path, Size: int64(buf.Len()), data: buf.Bytes()}, nil
}

// Upload sends an archive to the configured S3 bucket and returns its key.
func (s *Service) Upload(ctx context.Context, a *Artifact) (string, error) {
	up, err := newS3Uploader(s.opts.S3)
	if err != nil {
		return "", err
	}
	key := objectKey(s.opts.S3.Prefix, a.Filename)
	if err := up.Upload(ctx, key, a.data, "application/zip"); err != nil {
		return "", err
	}
	return key, nil
}

// Run creates an archive and uploads it when S3 is configured. It backs the
// scheduled backup job.
func (s *Service) Run(ctx context.Context) error {
	a, err := s.Create(time.Now())
	if err != nil {
		return err
	}
	s.log.Info("backup created", zap.String("file", a.Path), zap.Int64("size", a.Size))
	if !s.opts.S3.Configured() {
		return nil
	}
	key, err := s.Upload(ctx, a)
	if err != nil {
		return err
	}
	s.log.Info("backup uploaded", zap.String("bucket", s.opts.S3.Bucket), zap.String("key", key))
	return nil
}

// List returns the archives in the backup dir, newest first.
func (s *Service) List() ([]Item, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Filename: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Filename > items[j].Filename })
	return items, nil
}

func (s *Service) archive() (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)

	for _, table := range Tables() {
		var rows []map[string]interface{}
		if err := s.db.Table(table).Order("created_at ASC").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("dump %s: %w", table, err)
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", table, err)
		}
		f, err := w.Create(table + ".json")
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func objectKey(prefix, filename string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return filename
	}
	return prefix + "/" + filename
}
