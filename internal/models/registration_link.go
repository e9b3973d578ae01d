package models

import (
	"time"

	"gorm.io/datatypes"
)

type RegistrationLink struct {
	Base
	CampID            string                      `gorm:"type:varchar(36);index;not null" json:"camp_id"`
	Name              string                      `gorm:"size:200;not null" json:"name"`
	LinkToken         string                      `gorm:"size:255;uniqueIndex;not null" json:"link_token"`
	AllowedCategories datatypes.JSONSlice[string] `json:"allowed_categories"`
	IsActive          bool                        `gorm:"not null" json:"is_active"`
	ExpiresAt         *time.Time                  `json:"expires_at"`
	UsageLimit        *int                        `json:"usage_limit"`
	UsageCount        int                         `gorm:"not null;default:0" json:"usage_count"`
	CreatedBy         string                      `gorm:"type:varchar(36);not null" json:"created_by"`
}
