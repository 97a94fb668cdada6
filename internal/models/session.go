package models

import "time"

// SessionModel backs a signed login cookie so it can be revoked server side.
type SessionModel struct {
	Base
	AdminID   string     `json:"admin_id"   gorm:"type:char(36);index;not null"`
	IP        string     `json:"ip"         gorm:"size:64"`
	UA        string     `json:"ua"         gorm:"type:text"`
	Remember  bool       `json:"remember"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (SessionModel) TableName() string { return "sessions" }
