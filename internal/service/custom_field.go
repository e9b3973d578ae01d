package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type CustomFieldService struct {
	store *repo.Store
	log   *logrus.Logger
}

func NewCustomFieldService(store *repo.Store, log *logrus.Logger) *CustomFieldService {
	return &CustomFieldService{store: store, log: log}
}

type CustomFieldInput struct {
	FieldName  string
	FieldType  string
	IsRequired bool
	Options    []string
	Order      int
}

type CustomFieldPatch struct {
	FieldName  *string
	FieldType  *string
	IsRequired *bool
	Options    *[]string
	Order      *int
}

func (s *CustomFieldService) List(ctx context.Context, actor auth.Identity, campID string) ([]models.CustomField, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}
	return s.store.CustomFields.ListByCamp(ctx, campID)
}

func (s *CustomFieldService) Create(ctx context.Context, actor auth.Identity, campID string, in CustomFieldInput) (*models.CustomField, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}

	field := &models.CustomField{
		CampID:     campID,
		FieldName:  in.FieldName,
		FieldType:  in.FieldType,
		IsRequired: in.IsRequired,
		Options:    datatypes.JSONSlice[string](in.Options),
		Order:      in.Order,
	}
	if err := validateField(field); err != nil {
		return nil, err
	}
	if err := s.store.CustomFields.Create(ctx, field); err != nil {
		return nil, duplicateFieldName(field, err)
	}

	s.log.WithFields(logrus.Fields{"camp_id": campID, "field_id": field.ID}).Info("custom field created")
	return field, nil
}

func (s *CustomFieldService) Update(ctx context.Context, actor auth.Identity, fieldID string, patch CustomFieldPatch) (*models.CustomField, error) {
	field, err := s.store.CustomFields.Get(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCamp(ctx, s.store, actor, field.CampID); err != nil {
		return nil, err
	}

	if patch.FieldName != nil {
		field.FieldName = *patch.FieldName
	}
	if patch.FieldType != nil {
		field.FieldType = *patch.FieldType
	}
	if patch.IsRequired != nil {
		field.IsRequired = *patch.IsRequired
	}
	if patch.Options != nil {
		field.Options = datatypes.JSONSlice[string](*patch.Options)
	}
	if patch.Order != nil {
		field.Order = *patch.Order
	}
	if err := validateField(field); err != nil {
		return nil, err
	}
	if err := s.store.CustomFields.Update(ctx, field); err != nil {
		return nil, duplicateFieldName(field, err)
	}
	return field, nil
}

// Delete removes the field. Answers already stored on registrations are kept.
func (s *CustomFieldService) Delete(ctx context.Context, actor auth.Identity, fieldID string) error {
	field, err := s.store.CustomFields.Get(ctx, fieldID)
	if err != nil {
		return err
	}
	if _, err := ownedCamp(ctx, s.store, actor, field.CampID); err != nil {
		return err
	}
	return s.store.CustomFields.Delete(ctx, fieldID)
}

func validateField(field *models.CustomField) error {
	var err error
	if field.FieldName, err = requireText("field_name", field.FieldName, 200); err != nil {
		return err
	}
	if !models.ValidFieldType(field.FieldType) {
		return models.Invalid("field_type", "must be one of text, number, dropdown, checkbox, date")
	}

	if !models.HasOptions(field.FieldType) {
		field.Options = nil
		return nil
	}

	options := make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		option = strings.TrimSpace(option)
		if option == "" {
			return models.Invalid("options", "must not contain blank entries")
		}
		if slices.Contains(options, option) {
			return models.Invalid("options", "contains duplicate %q", option)
		}
		options = append(options, option)
	}
	if len(options) == 0 {
		return models.Invalid("options", "are required for %s fields", field.FieldType)
	}
	field.Options = datatypes.JSONSlice[string](options)
	return nil
}

func duplicateFieldName(field *models.CustomField, err error) error {
	if errors.Is(err, models.ErrConflict) {
		return fmt.Errorf("field %q already exists: %w", field.FieldName, models.ErrConflict)
	}
	return err
}
