package handlers

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

type RegistrationHandler struct {
	registrations *service.RegistrationService
	log           *logrus.Logger
}

func NewRegistrationHandler(registrations *service.RegistrationService, log *logrus.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, log: log}
}

type ListRegistrationsRequest struct {
	CampPath
	Page         int    `query:"page" minimum:"1" default:"1"`
	Limit        int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
	HasPaid      string `query:"has_paid" enum:"true,false" doc:"Filter by payment state"`
	HasCheckedIn string `query:"has_checked_in" enum:"true,false"`
	ChurchID     string `query:"church_id"`
	CategoryID   string `query:"category_id"`
}

func optionalBool(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

type RegistrationPath struct {
	RegistrationID string `path:"registration_id"`
}

type UpdateRegistrationRequest struct {
	RegistrationPath
	Body struct {
		Surname               *string        `json:"surname,omitempty" maxLength:"100"`
		MiddleName            *string        `json:"middle_name,omitempty" maxLength:"100"`
		LastName              *string        `json:"last_name,omitempty" maxLength:"100"`
		Age                   *int           `json:"age,omitempty" minimum:"1" maximum:"150"`
		Email                 *string        `json:"email,omitempty" maxLength:"255"`
		PhoneNumber           *string        `json:"phone_number,omitempty" maxLength:"20"`
		EmergencyContactName  *string        `json:"emergency_contact_name,omitempty" maxLength:"200"`
		EmergencyContactPhone *string        `json:"emergency_contact_phone,omitempty" maxLength:"20"`
		ChurchID              *string        `json:"church_id,omitempty"`
		CategoryID            *string        `json:"category_id,omitempty" doc:"Changing the category reprices the registration"`
		CustomFieldResponses  map[string]any `json:"custom_field_responses,omitempty" doc:"Answers keyed by custom field ID"`
		HasPaid               *bool          `json:"has_paid,omitempty"`
		HasCheckedIn          *bool          `json:"has_checked_in,omitempty"`
	}
}

type PaymentRequest struct {
	RegistrationPath
	Body struct {
		HasPaid bool `json:"has_paid"`
	}
}

type CheckInRequest struct {
	RegistrationPath
	Body struct {
		HasCheckedIn bool `json:"has_checked_in"`
	}
}

type RegistrationResponse struct {
	Body RegistrationOut
}

type RegistrationPageResponse struct {
	Body struct {
		Items []RegistrationOut `json:"items"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
		Limit int               `json:"limit"`
	}
}

type RecomputeResponse struct {
	Body struct {
		Updated int `json:"updated" doc:"Registrations whose total changed"`
	}
}

func (h *RegistrationHandler) HandleList(ctx context.Context, input *ListRegistrationsRequest) (*RegistrationPageResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	page := repo.NewPage(input.Page, input.Limit)
	filter := repo.RegistrationFilter{
		ChurchID:     input.ChurchID,
		CategoryID:   input.CategoryID,
		HasPaid:      optionalBool(input.HasPaid),
		HasCheckedIn: optionalBool(input.HasCheckedIn),
	}
	registrations, total, err := h.registrations.List(ctx, id, input.CampID, filter, page)
	if err != nil {
		return nil, apiError(h.log, "list registrations", err)
	}

	res := &RegistrationPageResponse{}
	res.Body.Items = mapSlice(registrations, registrationOut)
	res.Body.Total = total
	res.Body.Page = page.Number
	res.Body.Limit = page.Size
	return res, nil
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *RegistrationPath) (*RegistrationResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	registration, err := h.registrations.Get(ctx, id, input.RegistrationID)
	if err != nil {
		return nil, apiError(h.log, "get registration", err)
	}
	return &RegistrationResponse{Body: registrationOut(*registration)}, nil
}

func (h *RegistrationHandler) HandleUpdate(ctx context.Context, input *UpdateRegistrationRequest) (*RegistrationResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	b := input.Body
	registration, err := h.registrations.Update(ctx, id, input.RegistrationID, service.RegistrationPatch{
		Surname:               b.Surname,
		MiddleName:            b.MiddleName,
		LastName:              b.LastName,
		Age:                   b.Age,
		Email:                 b.Email,
		PhoneNumber:           b.PhoneNumber,
		EmergencyContactName:  b.EmergencyContactName,
		EmergencyContactPhone: b.EmergencyContactPhone,
		ChurchID:              b.ChurchID,
		CategoryID:            b.CategoryID,
		CustomFieldResponses:  b.CustomFieldResponses,
		HasPaid:               b.HasPaid,
		HasCheckedIn:          b.HasCheckedIn,
	})
	if err != nil {
		return nil, apiError(h.log, "update registration", err)
	}
	return &RegistrationResponse{Body: registrationOut(*registration)}, nil
}

func (h *RegistrationHandler) HandleDelete(ctx context.Context, input *RegistrationPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.registrations.Delete(ctx, id, input.RegistrationID); err != nil {
		return nil, apiError(h.log, "delete registration", err)
	}
	return &NoContentResponse{}, nil
}

func (h *RegistrationHandler) HandlePayment(ctx context.Context, input *PaymentRequest) (*RegistrationResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	registration, err := h.registrations.SetPayment(ctx, id, input.RegistrationID, input.Body.HasPaid)
	if err != nil {
		return nil, apiError(h.log, "set payment", err)
	}
	return &RegistrationResponse{Body: registrationOut(*registration)}, nil
}

func (h *RegistrationHandler) HandleCheckIn(ctx context.Context, input *CheckInRequest) (*RegistrationResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	registration, err := h.registrations.SetCheckIn(ctx, id, input.RegistrationID, input.Body.HasCheckedIn)
	if err != nil {
		return nil, apiError(h.log, "set check-in", err)
	}
	return &RegistrationResponse{Body: registrationOut(*registration)}, nil
}

func (h *RegistrationHandler) HandleRecompute(ctx context.Context, input *CampPath) (*RecomputeResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.registrations.Recompute(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "recompute totals", err)
	}
	res := &RecomputeResponse{}
	res.Body.Updated = n
	return res, nil
}
