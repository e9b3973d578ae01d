package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Camp struct {
	Base
	Name                 string          `gorm:"size:200;not null" json:"name"`
	Description          string          `gorm:"type:text" json:"description"`
	Location             string          `gorm:"size:255;not null" json:"location"`
	StartDate            time.Time       `gorm:"not null" json:"start_date"`
	EndDate              time.Time       `gorm:"not null" json:"end_date"`
	RegistrationDeadline time.Time       `gorm:"not null" json:"registration_deadline"`
	BaseFee              decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_fee"`
	Capacity             int             `gorm:"not null" json:"capacity"`
	IsActive             bool            `gorm:"not null" json:"is_active"`
	ManagerID            string          `gorm:"type:varchar(36);index;not null" json:"manager_id"`
}

// AcceptingRegistrations reports whether the camp is open for new
// registrants at the given instant. Capacity is checked separately.
func (c Camp) AcceptingRegistrations(now time.Time) bool {
	return c.IsActive && !now.After(c.RegistrationDeadline)
}

// Full reports whether count registrations leave no room. A capacity of zero
// or less means the camp has no limit.
func (c Camp) Full(count int64) bool {
	return c.Capacity > 0 && count >= int64(c.Capacity)
}
