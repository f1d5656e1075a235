package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// URL is a shortened link. The short code is unique and never changes once
// the record exists; Clicks is only written by the redirect path.
type URL struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	ShortCode   string     `json:"shortCode" gorm:"size:20;unique;not null"`
	OriginalURL string     `json:"originalUrl" gorm:"type:text;not null"`
	Clicks      int        `json:"clicks" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ClickEvents []Click    `json:"-" gorm:"foreignKey:URLID;constraint:OnDelete:CASCADE"`
}

func (URL) TableName() string { return "urls" }

func (u *URL) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the link has an expiry timestamp in the past.
// Expired links stay in storage but are unreachable through the redirect
// path until a cleanup sweep removes them.
func (u *URL) Expired() bool {
	return u.ExpiresAt != nil && u.ExpiresAt.Before(time.Now())
}
