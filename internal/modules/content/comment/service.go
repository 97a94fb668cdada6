package comment

import (
	"errors"
	"strings"

	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/pkg/pagination"
	"gorm.io/gorm"
)

// Filter selects which comments the manage page lists.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterUnread Filter = "unread"
	FilterAdmin  Filter = "admin"
)

// ParseFilter maps a query value to a Filter, defaulting to all.
func ParseFilter(raw string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(raw))) {
	case FilterUnread:
		return FilterUnread
	case FilterAdmin:
		return FilterAdmin
	default:
		return FilterAll
	}
}

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentDisabled = errors.New("comment disabled")
	ErrReplyMismatch   = errors.New("replied comment does not belong to this post")
	ErrBodyRequired    = errors.New("comment body is required")
)

// Input is a new comment. Author, Email and Site are ignored for admin comments.
type Input struct {
	PostID    string
	RepliedID string
	Author    string
	Email     string
	Site      string
	Body      string
	FromAdmin bool
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns comments for the manage page, newest first.
func (s *Service) List(filter Filter, q pagination.Query) ([]models.CommentModel, pagination.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).Order("created_at DESC")
	switch filter {
	case FilterUnread:
		tx = tx.Where("reviewed = ?", false)
	case FilterAdmin:
		tx = tx.Where("from_admin = ?", true)
	}
	var items []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &items, pagination.Preload("Post"))
	return items, pag, err
}

// ListReviewed returns the published comments of a post, oldest first.
func (s *Service) ListReviewed(postID string, q pagination.Query) ([]models.CommentModel, pagination.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Where("post_id = ? AND reviewed = ?", postID, true).
		Order("created_at ASC")
	var items []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &items, pagination.Preload("Replied"))
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.CommentModel, error) {
	var c models.CommentModel
	if err := s.db.Preload("Post").First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CountUnread returns the number of comments waiting for review.
func (s *Service) CountUnread() (int64, error) {
	var n int64
	err := s.db.Model(&models.CommentModel{}).Where("reviewed = ?", false).Count(&n).Error
	return n, err
}

// Create stores a comment. Admin comments are published at once; visitor
// comments wait for review.
func (s *Service) Create(in Input) (*models.CommentModel, error) {
	if strings.TrimSpace(in.Body) == "" {
		return nil, ErrBodyRequired
	}

	var out *models.CommentModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p models.PostModel
		if err := tx.First(&p, "id = ?", in.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if !p.CanComment {
			return ErrCommentDisabled
		}

		c := models.CommentModel{
			Body:   in.Body,
			PostID: p.ID,
		}
		if in.FromAdmin {
			c.FromAdmin = true
			c.Reviewed = true
		} else {
			c.Author = strings.TrimSpace(in.Author)
			c.Email = strings.TrimSpace(in.Email)
			c.Site = strings.TrimSpace(in.Site)
		}

		if id := strings.TrimSpace(in.RepliedID); id != "" {
			var replied models.CommentModel
			if err := tx.First(&replied, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReplyMismatch
				}
				return err
			}
			if replied.PostID != p.ID {
				return ErrReplyMismatch
			}
			c.RepliedID = &replied.ID
		}

		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	return out, err
}

// Approve marks a comment reviewed. Returns gorm.ErrRecordNotFound for unknown ids.
func (s *Service) Approve(id string) error {
	res := s.db.Model(&models.CommentModel{}).Where("id = ?", id).Update("reviewed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.Model(&models.CommentModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a comment and every reply below it.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var root models.CommentModel
		if err := tx.First(&root, "id = ?", id).Error; err != nil {
			return err
		}

		ids := []string{root.ID}
		frontier := []string{root.ID}
		for len(frontier) > 0 {
			var next []string
			if err := tx.Model(&models.CommentModel{}).
				Where("replied_id IN ?", frontier).
				Pluck("id", &next).Error; err != nil {
				return err
			}
			ids = append(ids, next...)
			frontier = next
		}

		if err := tx.Model(&models.CommentModel{}).
			Where("id IN ?", ids).
			Update("replied_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.CommentModel{}).Error
	})
}
