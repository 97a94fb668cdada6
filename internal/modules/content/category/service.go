package category

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/myblog/core/internal/models"
	"gorm.io/gorm"
)

const maxNameLength = 30

var (
	ErrNameRequired  = errors.New("category name is required")
	ErrNameTooLong   = errors.New("category name is too long")
	ErrDuplicateName = errors.New("name already in use")
	ErrProtected     = errors.New("you can not delete the default category")
	ErrNoDefault     = errors.New("no default category")
)

// Summary pairs a category with its post count for the manage page.
type Summary struct {
	models.CategoryModel
	PostCount int64
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns every category ordered by name.
func (s *Service) List() ([]models.CategoryModel, error) {
	var items []models.CategoryModel
	err := s.db.Order("name ASC").Find(&items).Error
	return items, err
}

// ListWithCounts returns every category with the number of posts it holds.
func (s *Service) ListWithCounts() ([]Summary, error) {
	cats, err := s.List()
	if err != nil {
		return nil, err
	}

	var counts []struct {
		CategoryID string
		N          int64
	}
	if err := s.db.Model(&models.PostModel{}).
		Select("category_id, COUNT(*) AS n").
		Group("category_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]int64, len(counts))
	for _, row := range counts {
		byID[row.CategoryID] = row.N
	}

	out := make([]Summary, 0, len(cats))
	for _, cat := range cats {
		out = append(out, Summary{CategoryModel: cat, PostCount: byID[cat.ID]})
	}
	return out, nil
}

func (s *Service) GetByID(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// Default returns the default category, or nil when none is marked.
func (s *Service) Default() (*models.CategoryModel, error) {
	return findDefault(s.db)
}

// EnsureDefault makes sure a default category exists. An existing category
// called name is promoted; otherwise one is created. created reports whether
// a row was inserted.
func (s *Service) EnsureDefault(name string) (cat *models.CategoryModel, created bool, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findDefault(tx)
		if err != nil {
			return err
		}
		if existing != nil {
			cat = existing
			return nil
		}

		var byName models.CategoryModel
		err = tx.Where("name = ?", name).First(&byName).Error
		switch {
		case err == nil:
			if err := tx.Model(&byName).Update("is_default", true).Error; err != nil {
				return err
			}
			byName.IsDefault = true
			cat = &byName
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		cat = &models.CategoryModel{Name: name, IsDefault: true}
		created = true
		return tx.Create(cat).Error
	})
	if err != nil {
		return nil, false, err
	}
	return cat, created, nil
}

func (s *Service) Create(name string) (*models.CategoryModel, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(name, ""); err != nil {
		return nil, err
	}
	cat := models.CategoryModel{Name: name}
	return &cat, s.db.Create(&cat).Error
}

// Rename changes a category's name. Returns (nil, nil) when id is unknown.
func (s *Service) Rename(id, name string) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil || cat == nil {
		return cat, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(name, id); err != nil {
		return nil, err
	}
	cat.Name = name
	return cat, s.db.Model(cat).Update("name", name).Error
}

// Delete removes a category and moves its posts to the default category.
func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cat models.CategoryModel
		if err := tx.First(&cat, "id = ?", id).Error; err != nil {
			return err
		}
		if cat.IsDefault {
			return ErrProtected
		}
		def, err := findDefault(tx)
		if err != nil {
			return err
		}
		if def == nil {
			return ErrNoDefault
		}
		if err := tx.Model(&models.PostModel{}).
			Where("category_id = ?", cat.ID).
			Update("category_id", def.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}

func (s *Service) checkUnique(name, exceptID string) error {
	q := s.db.Model(&models.CategoryModel{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateName
	}
	return nil
}

func findDefault(db *gorm.DB) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := db.Where("is_default = ?", true).Order("created_at ASC").First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
