package link

import (
	"errors"
	"strings"

	"github.com/myblog/core/internal/models"
	"gorm.io/gorm"
)

// Input carries the editable fields of a link.
type Input struct {
	Name string
	URL  string
}

var ErrInvalidInput = errors.New("name and url are required")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns every link ordered by name.
func (s *Service) List() ([]models.LinkModel, error) {
	var items []models.LinkModel
	err := s.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.LinkModel, error) {
	var l models.LinkModel
	if err := s.db.First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (s *Service) Create(in Input) (*models.LinkModel, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}
	l := models.LinkModel{Name: in.Name, URL: in.URL}
	return &l, s.db.Create(&l).Error
}

// Update returns (nil, nil) when id is unknown.
func (s *Service) Update(id string, in Input) (*models.LinkModel, error) {
	l, err := s.GetByID(id)
	if err != nil || l == nil {
		return l, err
	}
	if err := normalize(&in); err != nil {
		return nil, err
	}
	l.Name, l.URL = in.Name, in.URL
	return l, s.db.Model(l).Updates(map[string]interface{}{"name": in.Name, "url": in.URL}).Error
}

func (s *Service) Delete(id string) error {
	res := s.db.Delete(&models.LinkModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalize(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	if in.Name == "" || in.URL == "" {
		return ErrInvalidInput
	}
	return nil
}
