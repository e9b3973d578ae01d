package handlers

import (
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/shopspring/decimal"
)

// money renders amounts with exactly two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type UserOut struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func userOut(u models.User) UserOut {
	return UserOut{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role, CreatedAt: u.CreatedAt}
}

type CampOut struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	BaseFee              string    `json:"base_fee" example:"250.00"`
	Capacity             int       `json:"capacity"`
	IsActive             bool      `json:"is_active"`
	ManagerID            string    `json:"manager_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func campOut(c models.Camp) CampOut {
	return CampOut{
		ID:                   c.ID,
		Name:                 c.Name,
		Description:          c.Description,
		Location:             c.Location,
		StartDate:            c.StartDate,
		EndDate:              c.EndDate,
		RegistrationDeadline: c.RegistrationDeadline,
		BaseFee:              money(c.BaseFee),
		Capacity:             c.Capacity,
		IsActive:             c.IsActive,
		ManagerID:            c.ManagerID,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

type ChurchOut struct {
	ID       string `json:"id"`
	CampID   string `json:"camp_id"`
	Name     string `json:"name"`
	District string `json:"district"`
	Area     string `json:"area"`
}

func churchOut(c models.Church) ChurchOut {
	return ChurchOut{ID: c.ID, CampID: c.CampID, Name: c.Name, District: c.District, Area: c.Area}
}

type CategoryOut struct {
	ID                 string `json:"id"`
	CampID             string `json:"camp_id"`
	Name               string `json:"name"`
	DiscountPercentage string `json:"discount_percentage" example:"15.00"`
	DiscountAmount     string `json:"discount_amount" example:"0.00"`
	IsDefault          bool   `json:"is_default"`
}

func categoryOut(c models.Category) CategoryOut {
	return CategoryOut{
		ID:                 c.ID,
		CampID:             c.CampID,
		Name:               c.Name,
		DiscountPercentage: money(c.DiscountPercentage),
		DiscountAmount:     money(c.DiscountAmount),
		IsDefault:          c.IsDefault,
	}
}

type CustomFieldOut struct {
	ID         string   `json:"id"`
	CampID     string   `json:"camp_id"`
	FieldName  string   `json:"field_name"`
	FieldType  string   `json:"field_type" enum:"text,number,dropdown,checkbox,date"`
	IsRequired bool     `json:"is_required"`
	Options    []string `json:"options"`
	Order      int      `json:"order"`
}

func customFieldOut(f models.CustomField) CustomFieldOut {
	options := []string(f.Options)
	if options == nil {
		options = []string{}
	}
	return CustomFieldOut{
		ID:         f.ID,
		CampID:     f.CampID,
		FieldName:  f.FieldName,
		FieldType:  f.FieldType,
		IsRequired: f.IsRequired,
		Options:    options,
		Order:      f.Order,
	}
}

type LinkOut struct {
	ID                string     `json:"id"`
	CampID            string     `json:"camp_id"`
	Name              string     `json:"name"`
	LinkToken         string     `json:"link_token"`
	AllowedCategories []string   `json:"allowed_categories"`
	IsActive          bool       `json:"is_active"`
	ExpiresAt         *time.Time `json:"expires_at"`
	UsageLimit        *int       `json:"usage_limit"`
	UsageCount        int        `json:"usage_count"`
	CreatedBy         string     `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
}

func linkOut(l models.RegistrationLink) LinkOut {
	allowed := []string(l.AllowedCategories)
	if allowed == nil {
		allowed = []string{}
	}
	return LinkOut{
		ID:                l.ID,
		CampID:            l.CampID,
		Name:              l.Name,
		LinkToken:         l.LinkToken,
		AllowedCategories: allowed,
		IsActive:          l.IsActive,
		ExpiresAt:         l.ExpiresAt,
		UsageLimit:        l.UsageLimit,
		UsageCount:        l.UsageCount,
		CreatedBy:         l.CreatedBy,
		CreatedAt:         l.CreatedAt,
	}
}

type RegistrationOut struct {
	ID                    string         `json:"id"`
	CampID                string         `json:"camp_id"`
	ChurchID              string         `json:"church_id"`
	CategoryID            string         `json:"category_id"`
	RegistrationLinkID    *string        `json:"registration_link_id"`
	CamperCode            string         `json:"camper_code" example:"ABC123"`
	Surname               string         `json:"surname"`
	MiddleName            string         `json:"middle_name"`
	LastName              string         `json:"last_name"`
	Age                   int            `json:"age"`
	Email                 string         `json:"email"`
	PhoneNumber           string         `json:"phone_number"`
	EmergencyContactName  string         `json:"emergency_contact_name"`
	EmergencyContactPhone string         `json:"emergency_contact_phone"`
	CustomFieldResponses  map[string]any `json:"custom_field_responses"`
	TotalAmount           string         `json:"total_amount" example:"212.50"`
	HasPaid               bool           `json:"has_paid"`
	HasCheckedIn          bool           `json:"has_checked_in"`
	RegistrationDate      time.Time      `json:"registration_date"`
}

func registrationOut(r models.Registration) RegistrationOut {
	responses := map[string]any(r.CustomFieldResponses)
	if responses == nil {
		responses = map[string]any{}
	}
	return RegistrationOut{
		ID:                    r.ID,
		CampID:                r.CampID,
		ChurchID:              r.ChurchID,
		CategoryID:            r.CategoryID,
		RegistrationLinkID:    r.RegistrationLinkID,
		CamperCode:            r.CamperCode,
		Surname:               r.Surname,
		MiddleName:            r.MiddleName,
		LastName:              r.LastName,
		Age:                   r.Age,
		Email:                 r.Email,
		PhoneNumber:           r.PhoneNumber,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		CustomFieldResponses:  responses,
		TotalAmount:           money(r.TotalAmount),
		HasPaid:               r.HasPaid,
		HasCheckedIn:          r.HasCheckedIn,
		RegistrationDate:      r.RegistrationDate,
	}
}

// mapSlice converts every element with fn.
func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

type FormOut struct {
	Camp         CampOut          `json:"camp"`
	Churches     []ChurchOut      `json:"churches"`
	Categories   []CategoryOut    `json:"categories"`
	CustomFields []CustomFieldOut `json:"custom_fields"`
	LinkType     string           `json:"link_type" enum:"general,category_specific"`
	LinkName     string           `json:"link_name,omitempty"`
}

func formOut(f service.Form) FormOut {
	out := FormOut{
		Camp:         campOut(f.Camp),
		Churches:     mapSlice(f.Churches, churchOut),
		Categories:   mapSlice(f.Categories, categoryOut),
		CustomFields: mapSlice(f.CustomFields, customFieldOut),
		LinkType:     f.LinkType,
	}
	if f.Link != nil {
		out.LinkName = f.Link.Name
	}
	return out
}
