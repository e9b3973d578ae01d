package service

import (
	"context"
	"math"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CampService struct {
	store *repo.Store
	log   *logrus.Logger
}

func NewCampService(store *repo.Store, log *logrus.Logger) *CampService {
	return &CampService{store: store, log: log}
}

type CampInput struct {
	Name                 string
	Description          string
	Location             string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	BaseFee              decimal.Decimal
	Capacity             int
	IsActive             *bool
}

// CampPatch updates only the fields that are set.
type CampPatch struct {
	Name                 *string
	Description          *string
	Location             *string
	StartDate            *time.Time
	EndDate              *time.Time
	RegistrationDeadline *time.Time
	BaseFee              *decimal.Decimal
	Capacity             *int
	IsActive             *bool
}

type CampStats struct {
	CampID              string          `json:"camp_id"`
	TotalRegistrations  int64           `json:"total_registrations"`
	PaidRegistrations   int64           `json:"paid_registrations"`
	UnpaidRegistrations int64           `json:"unpaid_registrations"`
	CheckedInCount      int64           `json:"checked_in_count"`
	TotalCapacity       int             `json:"total_capacity"`
	CapacityPercentage  float64         `json:"capacity_percentage"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
}

func (s *CampService) List(ctx context.Context, actor auth.Identity) ([]models.Camp, error) {
	return s.store.Camps.ListByManager(ctx, actor.UserID)
}

func (s *CampService) Create(ctx context.Context, actor auth.Identity, in CampInput) (*models.Camp, error) {
	camp := &models.Camp{
		Name:                 in.Name,
		Description:          in.Description,
		Location:             in.Location,
		StartDate:            in.StartDate.UTC(),
		EndDate:              in.EndDate.UTC(),
		RegistrationDeadline: in.RegistrationDeadline.UTC(),
		BaseFee:              in.BaseFee,
		Capacity:             in.Capacity,
		IsActive:             in.IsActive == nil || *in.IsActive,
		ManagerID:            actor.UserID,
	}
	if err := validateCamp(camp); err != nil {
		return nil, err
	}
	if err := s.store.Camps.Create(ctx, camp); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"camp_id": camp.ID, "manager_id": actor.UserID}).Info("camp created")
	return camp, nil
}

func (s *CampService) Get(ctx context.Context, actor auth.Identity, id string) (*models.Camp, error) {
	return ownedCamp(ctx, s.store, actor, id)
}

func (s *CampService) Update(ctx context.Context, actor auth.Identity, id string, patch CampPatch) (*models.Camp, error) {
	camp, err := ownedCamp(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		camp.Name = *patch.Name
	}
	if patch.Description != nil {
		camp.Description = *patch.Description
	}
	if patch.Location != nil {
		camp.Location = *patch.Location
	}
	if patch.StartDate != nil {
		camp.StartDate = patch.StartDate.UTC()
	}
	if patch.EndDate != nil {
		camp.EndDate = patch.EndDate.UTC()
	}
	if patch.RegistrationDeadline != nil {
		camp.RegistrationDeadline = patch.RegistrationDeadline.UTC()
	}
	if patch.BaseFee != nil {
		camp.BaseFee = *patch.BaseFee
	}
	if patch.Capacity != nil {
		camp.Capacity = *patch.Capacity
	}
	if patch.IsActive != nil {
		camp.IsActive = *patch.IsActive
	}

	if err := validateCamp(camp); err != nil {
		return nil, err
	}
	if err := s.store.Camps.Update(ctx, camp); err != nil {
		return nil, err
	}
	return camp, nil
}

// Delete removes the camp and everything registered under it.
func (s *CampService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	if _, err := ownedCamp(ctx, s.store, actor, id); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		return tx.Camps.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"camp_id": id, "manager_id": actor.UserID}).Info("camp deleted")
	return nil
}

func (s *CampService) Stats(ctx context.Context, actor auth.Identity, id string) (*CampStats, error) {
	camp, err := ownedCamp(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}

	yes := true
	stats := &CampStats{CampID: camp.ID, TotalCapacity: camp.Capacity}
	if stats.TotalRegistrations, err = s.store.Registrations.CountByCamp(ctx, camp.ID); err != nil {
		return nil, err
	}
	paidFilter := repo.RegistrationFilter{CampID: camp.ID, HasPaid: &yes}
	if stats.PaidRegistrations, err = s.store.Registrations.Count(ctx, paidFilter); err != nil {
		return nil, err
	}
	if stats.CheckedInCount, err = s.store.Registrations.Count(ctx, repo.RegistrationFilter{CampID: camp.ID, HasCheckedIn: &yes}); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.store.Registrations.SumTotals(ctx, paidFilter); err != nil {
		return nil, err
	}
	stats.UnpaidRegistrations = stats.TotalRegistrations - stats.PaidRegistrations
	if camp.Capacity > 0 {
		pct := float64(stats.TotalRegistrations) / float64(camp.Capacity) * 100
		stats.CapacityPercentage = math.Round(pct*100) / 100
	}
	return stats, nil
}

func validateCamp(camp *models.Camp) error {
	var err error
	if camp.Name, err = requireText("name", camp.Name, 200); err != nil {
		return err
	}
	if camp.Location, err = requireText("location", camp.Location, 255); err != nil {
		return err
	}
	if camp.Description, err = optionalText("description", camp.Description, 5000); err != nil {
		return err
	}
	if camp.StartDate.IsZero() || camp.EndDate.IsZero() {
		return models.Invalid("start_date", "start and end dates are required")
	}
	if camp.StartDate.After(camp.EndDate) {
		return models.Invalid("end_date", "must not be before start_date")
	}
	if camp.RegistrationDeadline.IsZero() || !camp.RegistrationDeadline.Before(camp.StartDate) {
		return models.Invalid("registration_deadline", "must be before start_date")
	}
	if camp.BaseFee.IsNegative() {
		return models.Invalid("base_fee", "must not be negative")
	}
	if !camp.BaseFee.Equal(camp.BaseFee.Round(2)) {
		return models.Invalid("base_fee", "must have at most 2 decimal places")
	}
	if camp.Capacity < 1 {
		return models.Invalid("capacity", "must be at least 1")
	}
	return nil
}
