package models

// CommentModel is a visitor or admin comment. Visitor comments stay hidden until
// Reviewed; RepliedID points at the comment this one answers.
type CommentModel struct {
	Base
	Author    string        `json:"author"     gorm:"size:30"`
	Email     string        `json:"email"      gorm:"size:254"`
	Site      string        `json:"site"       gorm:"size:255"`
	Body      string        `json:"body"       gorm:"type:text;not null"`
	FromAdmin bool          `json:"from_admin" gorm:"default:false"`
	Reviewed  bool          `json:"reviewed"   gorm:"default:false;index"`
	PostID    string        `json:"post_id"    gorm:"type:char(36);index;not null"`
	Post      *PostModel    `json:"post,omitempty"    gorm:"foreignKey:PostID"`
	RepliedID *string       `json:"replied_id" gorm:"type:char(36);index"`
	Replied   *CommentModel `json:"replied,omitempty" gorm:"foreignKey:RepliedID"`
}

func (CommentModel) TableName() string { return "comments" }
