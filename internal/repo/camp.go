package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CampRepository interface {
	Get(ctx context.Context, id string) (*models.Camp, error)
	// GetForUpdate locks the camp row for the rest of the transaction on
	// backends that support row locks.
	GetForUpdate(ctx context.Context, id string) (*models.Camp, error)
	ListByManager(ctx context.Context, managerID string) ([]models.Camp, error)
	Create(ctx context.Context, camp *models.Camp) error
	Update(ctx context.Context, camp *models.Camp) error
	// Delete removes the camp together with everything scoped to it. Run it
	// inside Store.Transaction.
	Delete(ctx context.Context, id string) error
}

type campRepo struct {
	db *gorm.DB
}

func (r *campRepo) Get(ctx context.Context, id string) (*models.Camp, error) {
	var camp models.Camp
	if err := r.db.WithContext(ctx).First(&camp, "id = ?", id).Error; err != nil {
		return nil, translate("repo.Camp.Get", err)
	}
	return &camp, nil
}

func (r *campRepo) GetForUpdate(ctx context.Context, id string) (*models.Camp, error) {
	var camp models.Camp
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&camp, "id = ?", id).Error
	if err != nil {
		return nil, translate("repo.Camp.GetForUpdate", err)
	}
	return &camp, nil
}

func (r *campRepo) ListByManager(ctx context.Context, managerID string) ([]models.Camp, error) {
	var camps []models.Camp
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("start_date DESC").
		Find(&camps).Error
	if err != nil {
		return nil, translate("repo.Camp.ListByManager", err)
	}
	return camps, nil
}

func (r *campRepo) Create(ctx context.Context, camp *models.Camp) error {
	return translate("repo.Camp.Create", r.db.WithContext(ctx).Create(camp).Error)
}

func (r *campRepo) Update(ctx context.Context, camp *models.Camp) error {
	return translate("repo.Camp.Update", r.db.WithContext(ctx).Save(camp).Error)
}

func (r *campRepo) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	scoped := []any{
		&models.Registration{},
		&models.RegistrationLink{},
		&models.CustomField{},
		&models.Category{},
		&models.Church{},
	}
	for _, model := range scoped {
		if err := db.Where("camp_id = ?", id).Delete(model).Error; err != nil {
			return translate("repo.Camp.Delete", err)
		}
	}
	return deleteByID[models.Camp](ctx, r.db, "repo.Camp.Delete", id)
}
