package account

import (
	"errors"
	"strings"

	"github.com/myblog/core/internal/models"
	"gorm.io/gorm"
)

// Blog metadata given to a freshly created admin.
const (
	DefaultBlogTitle    = "Bluelog"
	DefaultBlogSubTitle = "No, I'm the real thing."
	DefaultName         = "Admin"
	DefaultAbout        = "Anything about you."
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// Settings are the blog fields the admin can edit.
type Settings struct {
	Name         string
	BlogTitle    string
	BlogSubTitle string
	About        string
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Get returns the blog owner, or nil before `init` has run.
func (s *Service) Get() (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.Order("created_at ASC").First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Authenticate checks a username/password pair.
func (s *Service) Authenticate(username, password string) (*models.AdminModel, error) {
	var a models.AdminModel
	err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !a.ValidatePassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &a, nil
}

// Init sets the admin credentials. The existing admin is updated in place so
// there is never more than one; otherwise one is created with default blog
// metadata. created reports which path was taken.
func (s *Service) Init(username, password string) (admin *models.AdminModel, created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, ErrUsernameRequired
	}
	if password == "" {
		return nil, false, ErrPasswordRequired
	}

	existing, err := s.Get()
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		existing.Username = username
		if err := existing.SetPassword(password); err != nil {
			return nil, false, err
		}
		err := s.db.Model(existing).Updates(map[string]interface{}{
			"username":      existing.Username,
			"password_hash": existing.PasswordHash,
		}).Error
		return existing, false, err
	}

	a := models.AdminModel{
		Username:     username,
		BlogTitle:    DefaultBlogTitle,
		BlogSubTitle: DefaultBlogSubTitle,
		Name:         DefaultName,
		About:        DefaultAbout,
	}
	if err := a.SetPassword(password); err != nil {
		return nil, false, err
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

// UpdateSettings saves the blog metadata of admin id.
func (s *Service) UpdateSettings(id string, in Settings) (*models.AdminModel, error) {
	var a models.AdminModel
	if err := s.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	a.Name = strings.TrimSpace(in.Name)
	a.BlogTitle = strings.TrimSpace(in.BlogTitle)
	a.BlogSubTitle = strings.TrimSpace(in.BlogSubTitle)
	a.About = in.About
	err := s.db.Model(&a).Select("name", "blog_title", "blog_sub_title", "about").Updates(&a).Error
	return &a, err
}
