package service

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/pricing"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

func (s *RegistrationService) List(ctx context.Context, actor auth.Identity, campID string, filter repo.RegistrationFilter, page repo.Page) ([]models.Registration, int64, error) {
	if _, err := ownedCamp(ctx, s.store, actor, campID); err != nil {
		return nil, 0, err
	}
	filter.CampID = campID
	filter.CampIDs = nil
	return s.store.Registrations.FindPage(ctx, filter, page)
}

func (s *RegistrationService) Get(ctx context.Context, actor auth.Identity, id string) (*models.Registration, error) {
	registration, err := s.store.Registrations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedCamp(ctx, s.store, actor, registration.CampID); err != nil {
		return nil, err
	}
	return registration, nil
}

// Update applies a manager's edit. Church and category must stay within the
// camp, and a category change reprices the registration at the camp's
// current base fee.
func (s *RegistrationService) Update(ctx context.Context, actor auth.Identity, id string, patch RegistrationPatch) (*models.Registration, error) {
	var registration *models.Registration
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		var err error
		if registration, err = tx.Registrations.Get(ctx, id); err != nil {
			return err
		}
		camp, err := ownedCamp(ctx, tx, actor, registration.CampID)
		if err != nil {
			return err
		}

		in := patch.merge(*registration)
		if err := in.validate(); err != nil {
			return err
		}
		if in.ChurchID != registration.ChurchID {
			if _, err := campChurch(ctx, tx, camp.ID, in.ChurchID); err != nil {
				return err
			}
		}
		if in.CategoryID != registration.CategoryID {
			category, err := campCategory(ctx, tx, camp.ID, in.CategoryID)
			if err != nil {
				return err
			}
			registration.TotalAmount = pricing.ForCategory(camp.BaseFee, *category)
		}
		if patch.CustomFieldResponses != nil {
			fields, err := tx.CustomFields.ListByCamp(ctx, camp.ID)
			if err != nil {
				return err
			}
			responses, err := validateResponses(fields, patch.CustomFieldResponses)
			if err != nil {
				return err
			}
			registration.CustomFieldResponses = datatypes.JSONMap(responses)
		}

		registration.Surname = in.Surname
		registration.MiddleName = in.MiddleName
		registration.LastName = in.LastName
		registration.Age = in.Age
		registration.Email = in.Email
		registration.PhoneNumber = in.PhoneNumber
		registration.EmergencyContactName = in.EmergencyContactName
		registration.EmergencyContactPhone = in.EmergencyContactPhone
		registration.ChurchID = in.ChurchID
		registration.CategoryID = in.CategoryID
		if patch.HasPaid != nil {
			registration.HasPaid = *patch.HasPaid
		}
		if patch.HasCheckedIn != nil {
			registration.HasCheckedIn = *patch.HasCheckedIn
		}
		return tx.Registrations.Update(ctx, registration)
	})
	if err != nil {
		return nil, err
	}
	return registration, nil
}

// Delete cancels a registration. The originating link keeps its usage count.
func (s *RegistrationService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	registration, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.Registrations.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"camp_id": registration.CampID, "registration_id": id}).Info("registration cancelled")
	return nil
}

func (s *RegistrationService) SetPayment(ctx context.Context, actor auth.Identity, id string, paid bool) (*models.Registration, error) {
	return s.Update(ctx, actor, id, RegistrationPatch{HasPaid: &paid})
}

func (s *RegistrationService) SetCheckIn(ctx context.Context, actor auth.Identity, id string, checkedIn bool) (*models.Registration, error) {
	return s.Update(ctx, actor, id, RegistrationPatch{HasCheckedIn: &checkedIn})
}

// Recompute reprices every unpaid registration of the camp from the current
// base fee and category discounts. Paid registrations keep what they paid.
// It returns how many totals changed.
func (s *RegistrationService) Recompute(ctx context.Context, actor auth.Identity, campID string) (int, error) {
	changed := 0
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		camp, err := ownedCamp(ctx, tx, actor, campID)
		if err != nil {
			return err
		}
		categories, err := tx.Categories.ListByCamp(ctx, campID)
		if err != nil {
			return err
		}
		byID := make(map[string]models.Category, len(categories))
		for _, c := range categories {
			byID[c.ID] = c
		}

		unpaid := false
		registrations, err := tx.Registrations.Find(ctx, repo.RegistrationFilter{CampID: campID, HasPaid: &unpaid})
		if err != nil {
			return err
		}
		for i := range registrations {
			registration := &registrations[i]
			category, ok := byID[registration.CategoryID]
			if !ok {
				continue
			}
			total := pricing.ForCategory(camp.BaseFee, category)
			if total.Equal(registration.TotalAmount) {
				continue
			}
			registration.TotalAmount = total
			if err := tx.Registrations.Update(ctx, registration); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{"camp_id": campID, "changed": changed}).Info("registration totals recomputed")
	return changed, nil
}

// merge overlays the patch on the current registration as a full input.
func (p RegistrationPatch) merge(r models.Registration) SubmissionInput {
	in := SubmissionInput{
		Surname:               r.Surname,
		MiddleName:            r.MiddleName,
		LastName:              r.LastName,
		Age:                   r.Age,
		Email:                 r.Email,
		PhoneNumber:           r.PhoneNumber,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		ChurchID:              r.ChurchID,
		CategoryID:            r.CategoryID,
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&in.Surname, p.Surname)
	set(&in.MiddleName, p.MiddleName)
	set(&in.LastName, p.LastName)
	set(&in.Email, p.Email)
	set(&in.PhoneNumber, p.PhoneNumber)
	set(&in.EmergencyContactName, p.EmergencyContactName)
	set(&in.EmergencyContactPhone, p.EmergencyContactPhone)
	set(&in.ChurchID, p.ChurchID)
	set(&in.CategoryID, p.CategoryID)
	if p.Age != nil {
		in.Age = *p.Age
	}
	return in
}
