package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/linkgate"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/notifier"
	"github.com/gdg-garage/camp-registration-api/internal/pricing"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	LinkTypeGeneral          = "general"
	LinkTypeCategorySpecific = "category_specific"

	camperCodeAttempts = 50
)

// errUsageRace marks a submission whose conditional usage increment lost to a
// concurrent writer. It never leaves this package.
var errUsageRace = errors.New("registration link usage changed concurrently")

type RegistrationService struct {
	store     *repo.Store
	notifier  notifier.Notifier
	confirmer notifier.Confirmer
	log       *logrus.Logger
	now       func() time.Time
	code      func() string
}

// NewRegistrationService wires the public submission flow. n and c may be nil.
func NewRegistrationService(store *repo.Store, n notifier.Notifier, c notifier.Confirmer, log *logrus.Logger) *RegistrationService {
	return &RegistrationService{store: store, notifier: n, confirmer: c, log: log, now: nowUTC, code: randomCamperCode}
}

// SubmissionInput is a registrant's public form submission.
type SubmissionInput struct {
	Surname               string
	MiddleName            string
	LastName              string
	Age                   int
	Email                 string
	PhoneNumber           string
	EmergencyContactName  string
	EmergencyContactPhone string
	ChurchID              string
	CategoryID            string
	CustomFieldResponses  map[string]any
}

// RegistrationPatch is a manager's edit. Unset fields are kept.
type RegistrationPatch struct {
	Surname               *string
	MiddleName            *string
	LastName              *string
	Age                   *int
	Email                 *string
	PhoneNumber           *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	ChurchID              *string
	CategoryID            *string
	CustomFieldResponses  map[string]any
	HasPaid               *bool
	HasCheckedIn          *bool
}

// Form is everything a registrant needs to fill in the public form.
type Form struct {
	Camp         models.Camp
	Churches     []models.Church
	Categories   []models.Category
	CustomFields []models.CustomField
	LinkType     string
	Link         *models.RegistrationLink
}

// FormForLink returns the form behind a registration link, limited to the
// categories the link allows.
func (s *RegistrationService) FormForLink(ctx context.Context, token string) (*Form, error) {
	link, err := s.store.Links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	camp, err := s.store.Camps.Get(ctx, link.CampID)
	if err != nil {
		return nil, err
	}
	count, err := s.store.Registrations.CountByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	decision := linkgate.Evaluate(*link, *camp, now, count)
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if !camp.AcceptingRegistrations(now) {
		return nil, models.ErrRegistrationClosed
	}

	var categories []models.Category
	if decision.AllCategories() {
		categories, err = s.store.Categories.ListByCamp(ctx, camp.ID)
	} else {
		categories, err = s.store.Categories.ListByIDs(ctx, camp.ID, decision.AllowedCategoryIDs)
	}
	if err != nil {
		return nil, err
	}
	return s.form(ctx, camp, categories, LinkTypeCategorySpecific, link)
}

// FormForCamp returns the general form offering every category.
func (s *RegistrationService) FormForCamp(ctx context.Context, campID string) (*Form, error) {
	camp, err := s.store.Camps.Get(ctx, campID)
	if err != nil {
		return nil, err
	}
	if !camp.AcceptingRegistrations(s.now()) {
		return nil, models.ErrRegistrationClosed
	}
	categories, err := s.store.Categories.ListByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}
	return s.form(ctx, camp, categories, LinkTypeGeneral, nil)
}

func (s *RegistrationService) form(ctx context.Context, camp *models.Camp, categories []models.Category, linkType string, link *models.RegistrationLink) (*Form, error) {
	churches, err := s.store.Churches.ListByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}
	fields, err := s.store.CustomFields.ListByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}
	return &Form{
		Camp:         *camp,
		Churches:     churches,
		Categories:   categories,
		CustomFields: fields,
		LinkType:     linkType,
		Link:         link,
	}, nil
}

// SubmitViaLink registers through a shareable link. The link is gated,
// the registration inserted and the link's usage bumped in one transaction.
// When the usage bump loses a race the whole attempt is retried once before
// failing closed with a usage-exhausted rejection.
func (s *RegistrationService) SubmitViaLink(ctx context.Context, token string, in SubmissionInput) (*models.Registration, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var registration *models.Registration
	var camp *models.Camp
	err := s.retryUsageRace(ctx, token, func() error {
		return s.store.Transaction(ctx, func(tx *repo.Store) error {
			link, err := tx.Links.GetByToken(ctx, token)
			if err != nil {
				return err
			}
			if camp, err = tx.Camps.GetForUpdate(ctx, link.CampID); err != nil {
				return err
			}
			count, err := tx.Registrations.CountByCamp(ctx, camp.ID)
			if err != nil {
				return err
			}

			now := s.now()
			decision := linkgate.Evaluate(*link, *camp, now, count)
			if err := decision.Err(); err != nil {
				return err
			}
			if !camp.AcceptingRegistrations(now) {
				return models.ErrRegistrationClosed
			}

			if registration, err = s.insert(ctx, tx, camp, link, decision, in); err != nil {
				return err
			}

			ok, err := tx.Links.IncrementUsageIfUnderLimit(ctx, link.ID)
			if err != nil {
				return err
			}
			if !ok {
				return errUsageRace
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.afterSubmit(ctx, *camp, *registration)
	return registration, nil
}

// SubmitGeneral registers through the camp's general form, which offers
// every category.
func (s *RegistrationService) SubmitGeneral(ctx context.Context, campID string, in SubmissionInput) (*models.Registration, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var registration *models.Registration
	var camp *models.Camp
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		var err error
		if camp, err = tx.Camps.GetForUpdate(ctx, campID); err != nil {
			return err
		}
		if !camp.AcceptingRegistrations(s.now()) {
			return models.ErrRegistrationClosed
		}
		count, err := tx.Registrations.CountByCamp(ctx, camp.ID)
		if err != nil {
			return err
		}
		if camp.Full(count) {
			return models.RejectLink(models.ReasonCampFull)
		}

		registration, err = s.insert(ctx, tx, camp, nil, linkgate.Decision{Outcome: linkgate.Valid}, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterSubmit(ctx, *camp, *registration)
	return registration, nil
}

func (s *RegistrationService) retryUsageRace(ctx context.Context, token string, attempt func() error) error {
	err := attempt()
	if !errors.Is(err, errUsageRace) {
		return err
	}
	s.log.WithField("link_token", token).Debug("usage limit race, retrying submission")

	err = attempt()
	if errors.Is(err, errUsageRace) {
		return models.RejectLink(models.ReasonUsageExhausted)
	}
	return err
}

// insert validates the references and answers, prices the registrant and
// stores the registration.
func (s *RegistrationService) insert(ctx context.Context, tx *repo.Store, camp *models.Camp, link *models.RegistrationLink, decision linkgate.Decision, in SubmissionInput) (*models.Registration, error) {
	church, err := campChurch(ctx, tx, camp.ID, in.ChurchID)
	if err != nil {
		return nil, err
	}
	category, err := campCategory(ctx, tx, camp.ID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !decision.Allows(category.ID) {
		return nil, models.ErrInvalidCategoryForLink
	}

	fields, err := tx.CustomFields.ListByCamp(ctx, camp.ID)
	if err != nil {
		return nil, err
	}
	responses, err := validateResponses(fields, in.CustomFieldResponses)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueCamperCode(ctx, tx, camp.ID)
	if err != nil {
		return nil, err
	}

	registration := &models.Registration{
		CampID:                camp.ID,
		ChurchID:              church.ID,
		CategoryID:            category.ID,
		Surname:               in.Surname,
		MiddleName:            in.MiddleName,
		LastName:              in.LastName,
		Age:                   in.Age,
		Email:                 in.Email,
		PhoneNumber:           in.PhoneNumber,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
		CustomFieldResponses:  datatypes.JSONMap(responses),
		TotalAmount:           pricing.ForCategory(camp.BaseFee, *category),
		CamperCode:            code,
		RegistrationDate:      s.now(),
	}
	if link != nil {
		registration.RegistrationLinkID = &link.ID
	}

	if err := tx.Registrations.Create(ctx, registration); err != nil {
		return nil, err
	}
	return registration, nil
}

func (s *RegistrationService) afterSubmit(ctx context.Context, camp models.Camp, registration models.Registration) {
	entry := s.log.WithFields(logrus.Fields{
		"camp_id":         camp.ID,
		"registration_id": registration.ID,
		"camper_code":     registration.CamperCode,
		"total_amount":    registration.TotalAmount.StringFixed(2),
	})
	if registration.RegistrationLinkID != nil {
		entry = entry.WithField("link_id", *registration.RegistrationLinkID)
	}
	entry.Info("registration created")

	if s.notifier != nil {
		if err := s.notifier.NotifyRegistration(ctx, camp, registration); err != nil {
			entry.WithError(err).Warn("registration notification failed")
		}
	}
	if s.confirmer != nil && registration.Email != "" {
		if err := s.confirmer.ConfirmRegistration(ctx, camp, registration); err != nil {
			entry.WithError(err).Warn("registration confirmation email failed")
		}
	}
}

func (s *RegistrationService) uniqueCamperCode(ctx context.Context, tx *repo.Store, campID string) (string, error) {
	for i := 0; i < camperCodeAttempts; i++ {
		code := s.code()
		exists, err := tx.Registrations.CamperCodeExists(ctx, campID, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("service.Registration: no free camper code after %d attempts", camperCodeAttempts)
}

// randomCamperCode returns three uppercase letters followed by three digits.
func randomCamperCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := 0; i < 3; i++ {
		code[i] = letters[rand.IntN(len(letters))]
		code[i+3] = digits[rand.IntN(len(digits))]
	}
	return string(code)
}

func campChurch(ctx context.Context, store *repo.Store, campID, churchID string) (*models.Church, error) {
	church, err := store.Churches.Get(ctx, churchID)
	if err != nil {
		return nil, fmt.Errorf("church %s: %w", churchID, err)
	}
	if church.CampID != campID {
		return nil, fmt.Errorf("church %s is not part of this camp: %w", churchID, models.ErrNotFound)
	}
	return church, nil
}

func campCategory(ctx context.Context, store *repo.Store, campID, categoryID string) (*models.Category, error) {
	category, err := store.Categories.Get(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", categoryID, err)
	}
	if category.CampID != campID {
		return nil, fmt.Errorf("category %s is not part of this camp: %w", categoryID, models.ErrNotFound)
	}
	return category, nil
}

func (in *SubmissionInput) validate() error {
	var err error
	if in.Surname, err = requireText("surname", in.Surname, 100); err != nil {
		return err
	}
	if in.MiddleName, err = optionalText("middle_name", in.MiddleName, 100); err != nil {
		return err
	}
	if in.LastName, err = requireText("last_name", in.LastName, 100); err != nil {
		return err
	}
	if in.Age < 1 || in.Age > 150 {
		return models.Invalid("age", "must be between 1 and 150")
	}
	if in.Email, err = optionalText("email", in.Email, 255); err != nil {
		return err
	}
	if in.Email != "" {
		if in.Email, err = normalizeEmail("email", in.Email); err != nil {
			return err
		}
	}
	if in.PhoneNumber, err = requireText("phone_number", in.PhoneNumber, 20); err != nil {
		return err
	}
	if in.EmergencyContactName, err = requireText("emergency_contact_name", in.EmergencyContactName, 200); err != nil {
		return err
	}
	if in.EmergencyContactPhone, err = requireText("emergency_contact_phone", in.EmergencyContactPhone, 20); err != nil {
		return err
	}
	if in.ChurchID, err = requireText("church_id", in.ChurchID, 36); err != nil {
		return err
	}
	if in.CategoryID, err = requireText("category_id", in.CategoryID, 36); err != nil {
		return err
	}
	return nil
}
