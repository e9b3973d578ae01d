package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Registration struct {
	Base
	CampID                string            `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_registration_camper_code" json:"camp_id"`
	ChurchID              string            `gorm:"type:varchar(36);not null;index" json:"church_id"`
	CategoryID            string            `gorm:"type:varchar(36);not null;index" json:"category_id"`
	RegistrationLinkID    *string           `gorm:"type:varchar(36);index" json:"registration_link_id"`
	Surname               string            `gorm:"size:100;not null" json:"surname"`
	MiddleName            string            `gorm:"size:100" json:"middle_name"`
	LastName              string            `gorm:"size:100;not null" json:"last_name"`
	Age                   int               `gorm:"not null" json:"age"`
	Email                 string            `gorm:"size:255" json:"email"`
	PhoneNumber           string            `gorm:"size:20;not null" json:"phone_number"`
	EmergencyContactName  string            `gorm:"size:200;not null" json:"emergency_contact_name"`
	EmergencyContactPhone string            `gorm:"size:20;not null" json:"emergency_contact_phone"`
	CustomFieldResponses  datatypes.JSONMap `json:"custom_field_responses"`
	TotalAmount           decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	HasPaid               bool              `gorm:"not null" json:"has_paid"`
	HasCheckedIn          bool              `gorm:"not null" json:"has_checked_in"`
	CamperCode            string            `gorm:"size:6;not null;uniqueIndex:idx_registration_camper_code" json:"camper_code"`
	RegistrationDate      time.Time         `gorm:"not null" json:"registration_date"`
}

func (r Registration) FullName() string {
	if r.MiddleName == "" {
		return r.Surname + " " + r.LastName
	}
	return r.Surname + " " + r.MiddleName + " " + r.LastName
}
