package handlers

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

type CustomFieldHandler struct {
	fields *service.CustomFieldService
	log    *logrus.Logger
}

func NewCustomFieldHandler(fields *service.CustomFieldService, log *logrus.Logger) *CustomFieldHandler {
	return &CustomFieldHandler{fields: fields, log: log}
}

type CreateCustomFieldRequest struct {
	CampPath
	Body struct {
		FieldName  string   `json:"field_name" minLength:"1" maxLength:"200"`
		FieldType  string   `json:"field_type" enum:"text,number,dropdown,checkbox,date"`
		IsRequired bool     `json:"is_required,omitempty"`
		Options    []string `json:"options,omitempty" doc:"Choices for dropdown and checkbox fields"`
		Order      int      `json:"order,omitempty"`
	}
}

type CustomFieldPath struct {
	FieldID string `path:"field_id"`
}

type UpdateCustomFieldRequest struct {
	CustomFieldPath
	Body struct {
		FieldName  *string   `json:"field_name,omitempty" maxLength:"200"`
		FieldType  *string   `json:"field_type,omitempty" enum:"text,number,dropdown,checkbox,date"`
		IsRequired *bool     `json:"is_required,omitempty"`
		Options    *[]string `json:"options,omitempty"`
		Order      *int      `json:"order,omitempty"`
	}
}

type CustomFieldResponse struct {
	Body CustomFieldOut
}

type CustomFieldListResponse struct {
	Body []CustomFieldOut
}

func (h *CustomFieldHandler) HandleList(ctx context.Context, input *CampPath) (*CustomFieldListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := h.fields.List(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "list custom fields", err)
	}
	return &CustomFieldListResponse{Body: mapSlice(fields, customFieldOut)}, nil
}

func (h *CustomFieldHandler) HandleCreate(ctx context.Context, input *CreateCustomFieldRequest) (*CustomFieldResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	field, err := h.fields.Create(ctx, id, input.CampID, service.CustomFieldInput{
		FieldName:  input.Body.FieldName,
		FieldType:  input.Body.FieldType,
		IsRequired: input.Body.IsRequired,
		Options:    input.Body.Options,
		Order:      input.Body.Order,
	})
	if err != nil {
		return nil, apiError(h.log, "create custom field", err)
	}
	return &CustomFieldResponse{Body: customFieldOut(*field)}, nil
}

func (h *CustomFieldHandler) HandleUpdate(ctx context.Context, input *UpdateCustomFieldRequest) (*CustomFieldResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	field, err := h.fields.Update(ctx, id, input.FieldID, service.CustomFieldPatch{
		FieldName:  input.Body.FieldName,
		FieldType:  input.Body.FieldType,
		IsRequired: input.Body.IsRequired,
		Options:    input.Body.Options,
		Order:      input.Body.Order,
	})
	if err != nil {
		return nil, apiError(h.log, "update custom field", err)
	}
	return &CustomFieldResponse{Body: customFieldOut(*field)}, nil
}

func (h *CustomFieldHandler) HandleDelete(ctx context.Context, input *CustomFieldPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.fields.Delete(ctx, id, input.FieldID); err != nil {
		return nil, apiError(h.log, "delete custom field", err)
	}
	return &NoContentResponse{}, nil
}
