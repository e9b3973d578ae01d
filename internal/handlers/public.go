package handlers

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

// PublicHandler serves the unauthenticated registration form.
type PublicHandler struct {
	registrations *service.RegistrationService
	links         *service.LinkService
	log           *logrus.Logger
}

func NewPublicHandler(registrations *service.RegistrationService, links *service.LinkService, log *logrus.Logger) *PublicHandler {
	return &PublicHandler{registrations: registrations, links: links, log: log}
}

type LinkTokenPath struct {
	LinkToken string `path:"link_token" maxLength:"255"`
}

type SubmissionBody struct {
	Surname               string         `json:"surname" minLength:"1" maxLength:"100"`
	MiddleName            string         `json:"middle_name,omitempty" maxLength:"100"`
	LastName              string         `json:"last_name" minLength:"1" maxLength:"100"`
	Age                   int            `json:"age" minimum:"1" maximum:"150"`
	Email                 string         `json:"email,omitempty" maxLength:"255"`
	PhoneNumber           string         `json:"phone_number" minLength:"1" maxLength:"20"`
	EmergencyContactName  string         `json:"emergency_contact_name" minLength:"1" maxLength:"200"`
	EmergencyContactPhone string         `json:"emergency_contact_phone" minLength:"1" maxLength:"20"`
	ChurchID              string         `json:"church_id"`
	CategoryID            string         `json:"category_id"`
	CustomFieldResponses  map[string]any `json:"custom_field_responses,omitempty" doc:"Answers keyed by custom field ID"`
}

func (b SubmissionBody) input() service.SubmissionInput {
	return service.SubmissionInput{
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
	}
}

type LinkSubmissionRequest struct {
	LinkTokenPath
	Body SubmissionBody
}

type GeneralSubmissionRequest struct {
	CampPath
	Body SubmissionBody
}

type FormResponse struct {
	Body FormOut
}

type SubmissionResponse struct {
	Body struct {
		Message      string          `json:"message"`
		Registration RegistrationOut `json:"registration"`
	}
}

type LinkStatusResponse struct {
	Body *service.LinkStatus
}

func submitted(registration RegistrationOut) *SubmissionResponse {
	res := &SubmissionResponse{}
	res.Body.Message = "Registration successful. Your camper code is " + registration.CamperCode
	res.Body.Registration = registration
	return res
}

func (h *PublicHandler) HandleLinkForm(ctx context.Context, input *LinkTokenPath) (*FormResponse, error) {
	form, err := h.registrations.FormForLink(ctx, input.LinkToken)
	if err != nil {
		return nil, apiError(h.log, "link form", err)
	}
	return &FormResponse{Body: formOut(*form)}, nil
}

func (h *PublicHandler) HandleLinkSubmit(ctx context.Context, input *LinkSubmissionRequest) (*SubmissionResponse, error) {
	registration, err := h.registrations.SubmitViaLink(ctx, input.LinkToken, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "submit via link", err)
	}
	return submitted(registrationOut(*registration)), nil
}

func (h *PublicHandler) HandleLinkStatus(ctx context.Context, input *LinkTokenPath) (*LinkStatusResponse, error) {
	status, err := h.links.Status(ctx, input.LinkToken)
	if err != nil {
		return nil, apiError(h.log, "link status", err)
	}
	return &LinkStatusResponse{Body: status}, nil
}

func (h *PublicHandler) HandleCampForm(ctx context.Context, input *CampPath) (*FormResponse, error) {
	form, err := h.registrations.FormForCamp(ctx, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "camp form", err)
	}
	return &FormResponse{Body: formOut(*form)}, nil
}

func (h *PublicHandler) HandleCampSubmit(ctx context.Context, input *GeneralSubmissionRequest) (*SubmissionResponse, error) {
	registration, err := h.registrations.SubmitGeneral(ctx, input.CampID, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "submit general", err)
	}
	return submitted(registrationOut(*registration)), nil
}
