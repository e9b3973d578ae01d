package models

const (
	RoleCampManager = "camp_manager"
	RoleVolunteer   = "volunteer"
)

type User struct {
	Base
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:200;not null" json:"full_name"`
	Role         string `gorm:"size:32;not null" json:"role"`
}

func ValidRole(role string) bool {
	return role == RoleCampManager || role == RoleVolunteer
}
