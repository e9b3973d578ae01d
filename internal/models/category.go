package models

import "github.com/shopspring/decimal"

type Category struct {
	Base
	CampID             string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_category_camp_name" json:"camp_id"`
	Name               string          `gorm:"size:200;not null;uniqueIndex:idx_category_camp_name" json:"name"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount_amount"`
	IsDefault          bool            `gorm:"not null" json:"is_default"`
}
