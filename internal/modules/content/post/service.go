package post

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/pkg/pagination"
	"gorm.io/gorm"
)

const maxTitleLength = 60

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title is too long")
	ErrBodyRequired    = errors.New("body is required")
	ErrUnknownCategory = errors.New("category does not exist")
)

// Input carries the editable fields of a post.
type Input struct {
	Title      string
	Body       string
	CategoryID string
	CanComment bool
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns posts newest first with their category and comments loaded.
func (s *Service) List(q pagination.Query) ([]models.PostModel, pagination.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).Order("created_at DESC")
	var items []models.PostModel
	pag, err := pagination.Paginate(tx, q, &items, pagination.Preload("Category", "Comments"))
	return items, pag, err
}

// ListByCategory returns the posts of one category newest first.
func (s *Service) ListByCategory(categoryID string, q pagination.Query) ([]models.PostModel, pagination.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Where("category_id = ?", categoryID).
		Order("created_at DESC")
	var items []models.PostModel
	pag, err := pagination.Paginate(tx, q, &items, pagination.Preload("Category", "Comments"))
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var p models.PostModel
	if err := s.db.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Recent returns the newest limit posts with their category loaded.
func (s *Service) Recent(limit int) ([]models.PostModel, error) {
	var items []models.PostModel
	err := s.db.Preload("Category").Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

// Stamps returns every post's id and timestamps, newest first.
func (s *Service) Stamps() ([]models.PostModel, error) {
	var items []models.PostModel
	err := s.db.Select("id", "created_at", "updated_at").Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Service) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.PostModel{}).Count(&n).Error
	return n, err
}

func (s *Service) Create(in Input) (*models.PostModel, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	p := models.PostModel{
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
		CanComment: in.CanComment,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return s.GetByID(p.ID)
}

// Update overwrites a post's fields. Returns (nil, nil) when id is unknown.
func (s *Service) Update(id string, in Input) (*models.PostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	if err := s.db.Model(p).Select("title", "body", "category_id", "can_comment").Updates(models.PostModel{
		Title:      in.Title,
		Body:       in.Body,
		CategoryID: in.CategoryID,
		CanComment: in.CanComment,
	}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ToggleComment flips CanComment and returns the updated post.
func (s *Service) ToggleComment(id string) (*models.PostModel, error) {
	p, err := s.GetByID(id)
	if err != nil || p == nil {
		return p, err
	}
	p.CanComment = !p.CanComment
	return p, s.db.Model(p).Update("can_comment", p.CanComment).Error
}

// Delete removes a post together with all of its comments.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var p models.PostModel
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		// Self references are cleared first so the bulk delete never trips the replied_id foreign key.
		if err := tx.Model(&models.CommentModel{}).
			Where("post_id = ?", p.ID).
			Update("replied_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", p.ID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

func (s *Service) validate(in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	switch {
	case in.Title == "":
		return ErrTitleRequired
	case utf8.RuneCountInString(in.Title) > maxTitleLength:
		return ErrTitleTooLong
	case strings.TrimSpace(in.Body) == "":
		return ErrBodyRequired
	}
	var n int64
	if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", in.CategoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownCategory
	}
	return nil
}
