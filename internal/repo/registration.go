package repo

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegistrationFilter narrows registration queries. Zero values match anything.
type RegistrationFilter struct {
	CampID       string
	CampIDs      []string
	ChurchID     string
	CategoryID   string
	LinkID       string
	HasPaid      *bool
	HasCheckedIn *bool
}

type RegistrationRepository interface {
	Get(ctx context.Context, id string) (*models.Registration, error)
	Find(ctx context.Context, filter RegistrationFilter) ([]models.Registration, error)
	FindPage(ctx context.Context, filter RegistrationFilter, page Page) ([]models.Registration, int64, error)
	Count(ctx context.Context, filter RegistrationFilter) (int64, error)
	// CountByCamp is the fill level used for capacity checks.
	CountByCamp(ctx context.Context, campID string) (int64, error)
	// SumTotals adds up total_amount over the matching registrations.
	SumTotals(ctx context.Context, filter RegistrationFilter) (decimal.Decimal, error)
	CamperCodeExists(ctx context.Context, campID, code string) (bool, error)
	Create(ctx context.Context, registration *models.Registration) error
	Update(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, id string) error
}

type registrationRepo struct {
	db *gorm.DB
}

func (f RegistrationFilter) apply(db *gorm.DB) *gorm.DB {
	if f.CampID != "" {
		db = db.Where("camp_id = ?", f.CampID)
	}
	if f.CampIDs != nil {
		db = db.Where("camp_id IN ?", f.CampIDs)
	}
	if f.ChurchID != "" {
		db = db.Where("church_id = ?", f.ChurchID)
	}
	if f.CategoryID != "" {
		db = db.Where("category_id = ?", f.CategoryID)
	}
	if f.LinkID != "" {
		db = db.Where("registration_link_id = ?", f.LinkID)
	}
	if f.HasPaid != nil {
		db = db.Where("has_paid = ?", *f.HasPaid)
	}
	if f.HasCheckedIn != nil {
		db = db.Where("has_checked_in = ?", *f.HasCheckedIn)
	}
	return db
}

func (r *registrationRepo) Get(ctx context.Context, id string) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.WithContext(ctx).First(&registration, "id = ?", id).Error; err != nil {
		return nil, translate("repo.Registration.Get", err)
	}
	return &registration, nil
}

func (r *registrationRepo) Find(ctx context.Context, filter RegistrationFilter) ([]models.Registration, error) {
	var registrations []models.Registration
	err := filter.apply(r.db.WithContext(ctx)).
		Order("registration_date DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, translate("repo.Registration.Find", err)
	}
	return registrations, nil
}

func (r *registrationRepo) FindPage(ctx context.Context, filter RegistrationFilter, page Page) ([]models.Registration, int64, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var registrations []models.Registration
	err = filter.apply(r.db.WithContext(ctx)).
		Order("registration_date DESC").Order("id").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&registrations).Error
	if err != nil {
		return nil, 0, translate("repo.Registration.FindPage", err)
	}
	return registrations, total, nil
}

func (r *registrationRepo) Count(ctx context.Context, filter RegistrationFilter) (int64, error) {
	var n int64
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Registration{})).Count(&n).Error
	if err != nil {
		return 0, translate("repo.Registration.Count", err)
	}
	return n, nil
}

func (r *registrationRepo) CountByCamp(ctx context.Context, campID string) (int64, error) {
	return r.Count(ctx, RegistrationFilter{CampID: campID})
}

func (r *registrationRepo) SumTotals(ctx context.Context, filter RegistrationFilter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := filter.apply(r.db.WithContext(ctx).Model(&models.Registration{})).
		Pluck("total_amount", &amounts).Error
	if err != nil {
		return decimal.Zero, translate("repo.Registration.SumTotals", err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *registrationRepo) CamperCodeExists(ctx context.Context, campID, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("camp_id = ? AND camper_code = ?", campID, code).
		Count(&n).Error
	if err != nil {
		return false, translate("repo.Registration.CamperCodeExists", err)
	}
	return n > 0, nil
}

func (r *registrationRepo) Create(ctx context.Context, registration *models.Registration) error {
	return translate("repo.Registration.Create", r.db.WithContext(ctx).Create(registration).Error)
}

func (r *registrationRepo) Update(ctx context.Context, registration *models.Registration) error {
	return translate("repo.Registration.Update", r.db.WithContext(ctx).Save(registration).Error)
}

func (r *registrationRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[models.Registration](ctx, r.db, "repo.Registration.Delete", id)
}
