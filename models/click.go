package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Click is a single recorded visit through a short code. Rows are immutable
// once created. Country and city are left null at record time; an external
// enrichment step may resolve them from the IP later.
type Click struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	URLID     string    `json:"urlId" gorm:"size:36;index;not null"`
	ClickedAt time.Time `json:"clickedAt"`
	Referrer  *string   `json:"referrer" gorm:"type:text"`
	UserAgent *string   `json:"userAgent" gorm:"type:text"`
	IPAddress *string   `json:"ipAddress" gorm:"type:text"`
	Country   *string   `json:"country" gorm:"type:text"`
	City      *string   `json:"city" gorm:"type:text"`
}

func (Click) TableName() string { return "url_clicks" }

func (c *Click) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
