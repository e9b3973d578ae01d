package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/sirupsen/logrus"
)

type ChurchService struct {
	store *repo.Store
	log   *logrus.Logger
}

func NewChurchService(store *repo.Store, log *logrus.Logger) *ChurchService {
	return &ChurchService{store: store, log: log}
}

type ChurchInput struct {
	Name     string
	District string
	Area     string
}

func (s *ChurchService) List(ctx context.Context, actor auth.Identity, campID string) ([]models.Church, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}
	return s.store.Churches.ListByCamp(ctx, campID)
}

// Create adds a church to the camp. An identical church (same name, district
// and area) is returned instead of a duplicate, with created set to false.
func (s *ChurchService) Create(ctx context.Context, actor auth.Identity, campID string, in ChurchInput) (church *models.Church, created bool, err error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, false, err
	}
	return s.findOrCreate(ctx, s.store, campID, in)
}

// CreateBatch adds several churches atomically, skipping duplicates.
func (s *ChurchService) CreateBatch(ctx context.Context, actor auth.Identity, campID string, in []ChurchInput) ([]models.Church, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, models.Invalid("churches", "at least one church is required")
	}

	churches := make([]models.Church, 0, len(in))
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		for i, item := range in {
			church, _, err := s.findOrCreate(ctx, tx, campID, item)
			if err != nil {
				var verr *models.ValidationError
				if errors.As(err, &verr) {
					verr.Field = fmt.Sprintf("churches[%d].%s", i, verr.Field)
				}
				return err
			}
			churches = append(churches, *church)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return churches, nil
}

func (s *ChurchService) findOrCreate(ctx context.Context, store *repo.Store, campID string, in ChurchInput) (*models.Church, bool, error) {
	church, err := buildChurch(campID, in)
	if err != nil {
		return nil, false, err
	}

	existing, err := store.Churches.FindIdentical(ctx, *church)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	if err := store.Churches.Create(ctx, church); err != nil {
		return nil, false, err
	}
	s.log.WithFields(logrus.Fields{"camp_id": campID, "church_id": church.ID}).Info("church created")
	return church, true, nil
}

func (s *ChurchService) Update(ctx context.Context, actor auth.Identity, churchID string, in ChurchInput) (*models.Church, error) {
	church, err := s.store.Churches.Get(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCamp(ctx, s.store, actor, church.CampID); err != nil {
		return nil, err
	}

	updated, err := buildChurch(church.CampID, in)
	if err != nil {
		return nil, err
	}
	church.Name, church.District, church.Area = updated.Name, updated.District, updated.Area

	if err := s.store.Churches.Update(ctx, church); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("an identical church already exists: %w", models.ErrConflict)
		}
		return nil, err
	}
	return church, nil
}

// Delete refuses to remove a church that registrations still point at.
func (s *ChurchService) Delete(ctx context.Context, actor auth.Identity, churchID string) error {
	church, err := s.store.Churches.Get(ctx, churchID)
	if err != nil {
		return err
	}
	if _, err := ownedCamp(ctx, s.store, actor, church.CampID); err != nil {
		return err
	}

	n, err := s.store.Registrations.Count(ctx, repo.RegistrationFilter{ChurchID: churchID})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("church has %d registrations: %w", n, models.ErrConflict)
	}
	return s.store.Churches.Delete(ctx, churchID)
}

func buildChurch(campID string, in ChurchInput) (*models.Church, error) {
	name, err := requireText("name", in.Name, 200)
	if err != nil {
		return nil, err
	}
	district, err := optionalText("district", in.District, 200)
	if err != nil {
		return nil, err
	}
	area, err := optionalText("area", in.Area, 200)
	if err != nil {
		return nil, err
	}
	return &models.Church{CampID: campID, Name: name, District: district, Area: area}, nil
}
