package models

type Church struct {
	Base
	CampID   string `gorm:"type:varchar(36);not null;uniqueIndex:idx_church_identity" json:"camp_id"`
	Name     string `gorm:"size:200;not null;uniqueIndex:idx_church_identity" json:"name"`
	District string `gorm:"size:200;not null;uniqueIndex:idx_church_identity" json:"district"`
	Area     string `gorm:"size:200;not null;uniqueIndex:idx_church_identity" json:"area"`
}
