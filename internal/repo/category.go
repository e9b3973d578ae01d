package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Get(ctx context.Context, id string) (*models.Category, error)
	ListByCamp(ctx context.Context, campID string) ([]models.Category, error)
	// ListByIDs returns the categories of campID whose id is in ids. Ids
	// belonging to other camps are silently skipped.
	ListByIDs(ctx context.Context, campID string, ids []string) ([]models.Category, error)
	GetByName(ctx context.Context, campID, name string) (*models.Category, error)
	GetDefault(ctx context.Context, campID string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) Get(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate("repo.Category.Get", err)
	}
	return &category, nil
}

func (r *categoryRepo) ListByCamp(ctx context.Context, campID string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("camp_id = ?", campID).Order("name").Find(&categories).Error; err != nil {
		return nil, translate("repo.Category.ListByCamp", err)
	}
	return categories, nil
}

func (r *categoryRepo) ListByIDs(ctx context.Context, campID string, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).
		Where("camp_id = ? AND id IN ?", campID, ids).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, translate("repo.Category.ListByIDs", err)
	}
	return categories, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, campID, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "camp_id = ? AND name = ?", campID, name).Error; err != nil {
		return nil, translate("repo.Category.GetByName", err)
	}
	return &category, nil
}

func (r *categoryRepo) GetDefault(ctx context.Context, campID string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "camp_id = ? AND is_default = ?", campID, true).Error; err != nil {
		return nil, translate("repo.Category.GetDefault", err)
	}
	return &category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return translate("repo.Category.Create", r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	return translate("repo.Category.Update", r.db.WithContext(ctx).Save(category).Error)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Category](ctx, r.db, "repo.Category.Delete", id)
}
