package models

// PostModel is a blog post. Body is Markdown; CreatedAt is the publish timestamp.
type PostModel struct {
	Base
	Title      string         `json:"title"       gorm:"size:60;not null"`
	Body       string         `json:"body"        gorm:"type:longtext"`
	CanComment bool           `json:"can_comment" gorm:"not null"`
	CategoryID string         `json:"category_id" gorm:"type:char(36);index;not null"`
	Category   *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Comments   []CommentModel `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (PostModel) TableName() string { return "posts" }
