package session

import (
	"errors"
	"strings"
	"time"

	"github.com/myblog/core/internal/models"
	jwtpkg "github.com/myblog/core/internal/pkg/jwt"
	"gorm.io/gorm"
)

const (
	// RememberTTL is the lifetime of a "remember me" login.
	RememberTTL = 30 * 24 * time.Hour
	// DefaultTTL bounds a browser-session login.
	DefaultTTL = 24 * time.Hour
)

var ErrInactive = errors.New("session expired or revoked")

// Issue creates a DB session and signs a token bound to that session.
func Issue(db *gorm.DB, adminID, ip, ua string, remember bool) (string, *models.SessionModel, error) {
	ttl := DefaultTTL
	if remember {
		ttl = RememberTTL
	}

	s := &models.SessionModel{
		AdminID:   adminID,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		Remember:  remember,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.Create(s).Error; err != nil {
		return "", nil, err
	}

	token, err := jwtpkg.Sign(adminID, s.ID, ttl)
	if err != nil {
		_ = db.Delete(s).Error
		return "", nil, err
	}
	return token, s, nil
}

// Validate parses token and checks that its session is still active.
func Validate(db *gorm.DB, token string) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	active, err := IsActive(db, claims.UserID, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInactive
	}
	return claims, nil
}

func IsActive(db *gorm.DB, adminID, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}

	var count int64
	err := db.Model(&models.SessionModel{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, adminID, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func Revoke(db *gorm.DB, adminID, sessionID string) error {
	now := time.Now()
	res := db.Model(&models.SessionModel{}).
		Where("id = ? AND admin_id = ? AND revoked_at IS NULL", sessionID, adminID).
		Update("revoked_at", &now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RevokeAll revokes every session of an admin, e.g. after a password change.
func RevokeAll(db *gorm.DB, adminID string) error {
	now := time.Now()
	return db.Model(&models.SessionModel{}).
		Where("admin_id = ? AND revoked_at IS NULL", adminID).
		Update("revoked_at", &now).Error
}

// Purge deletes expired and revoked sessions and returns how many were removed.
func Purge(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at <= ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.SessionModel{})
	return res.RowsAffected, res.Error
}
