package models

// CategoryModel groups posts. Exactly one category is the default; posts of a
// deleted category move there.
type CategoryModel struct {
	Base
	Name      string `json:"name"       gorm:"size:30;uniqueIndex;not null"`
	IsDefault bool   `json:"is_default" gorm:"default:false;index"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }
