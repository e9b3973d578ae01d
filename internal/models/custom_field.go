package models

import "gorm.io/datatypes"

const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDropdown = "dropdown"
	FieldCheckbox = "checkbox"
	FieldDate     = "date"
)

type CustomField struct {
	Base
	CampID     string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_field_camp_name" json:"camp_id"`
	FieldName  string                      `gorm:"size:200;not null;uniqueIndex:idx_field_camp_name" json:"field_name"`
	FieldType  string                      `gorm:"size:20;not null" json:"field_type"`
	IsRequired bool                        `gorm:"not null" json:"is_required"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	Order      int                         `gorm:"column:field_order;not null" json:"order"`
}

func ValidFieldType(t string) bool {
	switch t {
	case FieldText, FieldNumber, FieldDropdown, FieldCheckbox, FieldDate:
		return true
	}
	return false
}

// HasOptions reports whether the field type draws its answers from Options.
func HasOptions(t string) bool {
	return t == FieldDropdown || t == FieldCheckbox
}
