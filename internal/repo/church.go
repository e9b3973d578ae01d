package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

type ChurchRepository interface {
	Get(ctx context.Context, id string) (*models.Church, error)
	ListByCamp(ctx context.Context, campID string) ([]models.Church, error)
	// FindIdentical returns the church with the same name, district and area
	// in the camp.
	FindIdentical(ctx context.Context, church models.Church) (*models.Church, error)
	Create(ctx context.Context, church *models.Church) error
	Update(ctx context.Context, church *models.Church) error
	Delete(ctx context.Context, id string) error
}

type churchRepo struct {
	db *gorm.DB
}

func (r *churchRepo) Get(ctx context.Context, id string) (*models.Church, error) {
	var church models.Church
	if err := r.db.WithContext(ctx).First(&church, "id = ?", id).Error; err != nil {
		return nil, translate("repo.Church.Get", err)
	}
	return &church, nil
}

func (r *churchRepo) ListByCamp(ctx context.Context, campID string) ([]models.Church, error) {
	var churches []models.Church
	if err := r.db.WithContext(ctx).Where("camp_id = ?", campID).Order("name").Find(&churches).Error; err != nil {
		return nil, translate("repo.Church.ListByCamp", err)
	}
	return churches, nil
}

func (r *churchRepo) FindIdentical(ctx context.Context, church models.Church) (*models.Church, error) {
	var found models.Church
	err := r.db.WithContext(ctx).
		Where("camp_id = ? AND name = ? AND district = ? AND area = ?", church.CampID, church.Name, church.District, church.Area).
		First(&found).Error
	if err != nil {
		return nil, translate("repo.Church.FindIdentical", err)
	}
	return &found, nil
}

func (r *churchRepo) Create(ctx context.Context, church *models.Church) error {
	return translate("repo.Church.Create", r.db.WithContext(ctx).Create(church).Error)
}

func (r *churchRepo) Update(ctx context.Context, church *models.Church) error {
	return translate("repo.Church.Update", r.db.WithContext(ctx).Save(church).Error)
}

func (r *churchRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Church](ctx, r.db, "repo.Church.Delete", id)
}
