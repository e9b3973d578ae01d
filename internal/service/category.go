package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var hundred = decimal.NewFromInt(100)

type CategoryService struct {
	store *repo.Store
	log   *logrus.Logger
}

func NewCategoryService(store *repo.Store, log *logrus.Logger) *CategoryService {
	return &CategoryService{store: store, log: log}
}

type CategoryInput struct {
	Name               string
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	IsDefault          bool
}

type CategoryPatch struct {
	Name               *string
	DiscountPercentage *decimal.Decimal
	DiscountAmount     *decimal.Decimal
	IsDefault          *bool
}

func (s *CategoryService) List(ctx context.Context, actor auth.Identity, campID string) ([]models.Category, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}
	return s.store.Categories.ListByCamp(ctx, campID)
}

func (s *CategoryService) Create(ctx context.Context, actor auth.Identity, campID string, in CategoryInput) (*models.Category, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}

	category := &models.Category{
		CampID:             campID,
		Name:               in.Name,
		DiscountPercentage: in.DiscountPercentage,
		DiscountAmount:     in.DiscountAmount,
		IsDefault:          in.IsDefault,
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := checkCategoryUnique(ctx, tx, category); err != nil {
			return err
		}
		return tx.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"camp_id": campID, "category_id": category.ID}).Info("category created")
	return category, nil
}

// Update changes discounts for future registrations only. Existing totals
// move when a manager asks for a recompute.
func (s *CategoryService) Update(ctx context.Context, actor auth.Identity, categoryID string, patch CategoryPatch) (*models.Category, error) {
	category, err := s.store.Categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCamp(ctx, s.store, actor, category.CampID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.DiscountPercentage != nil {
		category.DiscountPercentage = *patch.DiscountPercentage
	}
	if patch.DiscountAmount != nil {
		category.DiscountAmount = *patch.DiscountAmount
	}
	if patch.IsDefault != nil {
		category.IsDefault = *patch.IsDefault
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := checkCategoryUnique(ctx, tx, category); err != nil {
			return err
		}
		return tx.Categories.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that registrations still point at.
func (s *CategoryService) Delete(ctx context.Context, actor auth.Identity, categoryID string) error {
	category, err := s.store.Categories.Get(ctx, categoryID)
	if err != nil {
		return err
	}
	if _, err := ownedCamp(ctx, s.store, actor, category.CampID); err != nil {
		return err
	}

	n, err := s.store.Registrations.Count(ctx, repo.RegistrationFilter{CategoryID: categoryID})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("category has %d registrations: %w", n, models.ErrConflict)
	}
	return s.store.Categories.Delete(ctx, categoryID)
}

// checkCategoryUnique enforces one name per camp and at most one default.
func checkCategoryUnique(ctx context.Context, store *repo.Store, category *models.Category) error {
	existing, err := store.Categories.GetByName(ctx, category.CampID, category.Name)
	switch {
	case err == nil && existing.ID != category.ID:
		return fmt.Errorf("category %q already exists: %w", category.Name, models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}

	if !category.IsDefault {
		return nil
	}
	current, err := store.Categories.GetDefault(ctx, category.CampID)
	switch {
	case err == nil && current.ID != category.ID:
		return fmt.Errorf("camp already has default category %q: %w", current.Name, models.ErrConflict)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return err
	}
	return nil
}

func validateCategory(category *models.Category) error {
	var err error
	if category.Name, err = requireText("name", category.Name, 200); err != nil {
		return err
	}
	if category.DiscountPercentage.IsNegative() || category.DiscountPercentage.GreaterThan(hundred) {
		return models.Invalid("discount_percentage", "must be between 0 and 100")
	}
	if category.DiscountAmount.IsNegative() {
		return models.Invalid("discount_amount", "must not be negative")
	}
	return nil
}
