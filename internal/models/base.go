package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every entity. IDs are UUID strings so URLs do not leak row counts.
type Base struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created"  gorm:"index"`
	UpdatedAt time.Time `json:"modified"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// All lists every model in dependency order: referenced tables first.
func All() []interface{} {
	return []interface{}{
		&AdminModel{},
		&SessionModel{},
		&CategoryModel{},
		&PostModel{},
		&CommentModel{},
		&LinkModel{},
	}
}
