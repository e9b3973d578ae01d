package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

type LinkRepository interface {
	Get(ctx context.Context, id string) (*models.RegistrationLink, error)
	GetByToken(ctx context.Context, token string) (*models.RegistrationLink, error)
	ListByCamp(ctx context.Context, campID string) ([]models.RegistrationLink, error)
	Create(ctx context.Context, link *models.RegistrationLink) error
	// Update writes the editable columns only. usage_count is never touched.
	Update(ctx context.Context, link *models.RegistrationLink) error
	Delete(ctx context.Context, id string) error
	// IncrementUsageIfUnderLimit bumps usage_count by one only while the link
	// is active and below its limit. It reports whether a row was updated.
	IncrementUsageIfUnderLimit(ctx context.Context, id string) (bool, error)
}

type linkRepo struct {
	db *gorm.DB
}

func (r *linkRepo) Get(ctx context.Context, id string) (*models.RegistrationLink, error) {
	var link models.RegistrationLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, translate("repo.Link.Get", err)
	}
	return &link, nil
}

func (r *linkRepo) GetByToken(ctx context.Context, token string) (*models.RegistrationLink, error) {
	var link models.RegistrationLink
	if err := r.db.WithContext(ctx).First(&link, "link_token = ?", token).Error; err != nil {
		return nil, translate("repo.Link.GetByToken", err)
	}
	return &link, nil
}

func (r *linkRepo) ListByCamp(ctx context.Context, campID string) ([]models.RegistrationLink, error) {
	var links []models.RegistrationLink
	err := r.db.WithContext(ctx).
		Where("camp_id = ?", campID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, translate("repo.Link.ListByCamp", err)
	}
	return links, nil
}

func (r *linkRepo) Create(ctx context.Context, link *models.RegistrationLink) error {
	return translate("repo.Link.Create", r.db.WithContext(ctx).Create(link).Error)
}

func (r *linkRepo) Update(ctx context.Context, link *models.RegistrationLink) error {
	err := r.db.WithContext(ctx).
		Model(link).
		Select("name", "allowed_categories", "is_active", "expires_at", "usage_limit", "updated_at").
		Updates(link).Error
	return translate("repo.Link.Update", err)
}

func (r *linkRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.RegistrationLink](ctx, r.db, "repo.Link.Delete", id)
}

func (r *linkRepo) IncrementUsageIfUnderLimit(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RegistrationLink{}).
		Where("id = ? AND is_active = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if res.Error != nil {
		return false, translate("repo.Link.IncrementUsageIfUnderLimit", res.Error)
	}
	return res.RowsAffected == 1, nil
}
