package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

type CustomFieldRepository interface {
	Get(ctx context.Context, id string) (*models.CustomField, error)
	// ListByCamp returns fields in display order.
	ListByCamp(ctx context.Context, campID string) ([]models.CustomField, error)
	Create(ctx context.Context, field *models.CustomField) error
	Update(ctx context.Context, field *models.CustomField) error
	Delete(ctx context.Context, id string) error
}

type customFieldRepo struct {
	db *gorm.DB
}

func (r *customFieldRepo) Get(ctx context.Context, id string) (*models.CustomField, error) {
	var field models.CustomField
	if err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error; err != nil {
		return nil, translate("repo.CustomField.Get", err)
	}
	return &field, nil
}

func (r *customFieldRepo) ListByCamp(ctx context.Context, campID string) ([]models.CustomField, error) {
	var fields []models.CustomField
	err := r.db.WithContext(ctx).
		Where("camp_id = ?", campID).
		Order("field_order").Order("field_name").
		Find(&fields).Error
	if err != nil {
		return nil, translate("repo.CustomField.ListByCamp", err)
	}
	return fields, nil
}

func (r *customFieldRepo) Create(ctx context.Context, field *models.CustomField) error {
	return translate("repo.CustomField.Create", r.db.WithContext(ctx).Create(field).Error)
}

func (r *customFieldRepo) Update(ctx context.Context, field *models.CustomField) error {
	return translate("repo.CustomField.Update", r.db.WithContext(ctx).Save(field).Error)
}

func (r *customFieldRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.CustomField](ctx, r.db, "repo.CustomField.Delete", id)
}
