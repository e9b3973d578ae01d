// Package service holds the business rules. Every operation takes the
// caller's identity explicitly and talks to storage through repo.Store.
package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/notifier"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Users         *UserService
	Camps         *CampService
	Churches      *ChurchService
	Categories    *CategoryService
	CustomFields  *CustomFieldService
	Links         *LinkService
	Registrations *RegistrationService
}

// New wires every service against one store. n and c may be nil.
func New(store *repo.Store, tokens *auth.TokenManager, n notifier.Notifier, c notifier.Confirmer, log *logrus.Logger) *Services {
	return &Services{
		Users:         NewUserService(store, tokens, log),
		Camps:         NewCampService(store, log),
		Churches:      NewChurchService(store, log),
		Categories:    NewCategoryService(store, log),
		CustomFields:  NewCustomFieldService(store, log),
		Links:         NewLinkService(store, log),
		Registrations: NewRegistrationService(store, n, c, log),
	}
}

// ownedCamp loads a camp and checks the caller manages it.
func ownedCamp(ctx context.Context, store *repo.Store, actor auth.Identity, campID string) (*models.Camp, error) {
	camp, err := store.Camps.Get(ctx, campID)
	if err != nil {
		return nil, err
	}
	if camp.ManagerID != actor.UserID {
		return nil, fmt.Errorf("camp %s: %w", campID, models.ErrForbidden)
	}
	return camp, nil
}

func requireText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", models.Invalid(field, "is required")
	}
	if len(value) > maxLen {
		return "", models.Invalid(field, "must be at most %d characters", maxLen)
	}
	return value, nil
}

func optionalText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) > maxLen {
		return "", models.Invalid(field, "must be at most %d characters", maxLen)
	}
	return value, nil
}

func normalizeEmail(field, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", models.Invalid(field, "must be a valid email address")
	}
	return email, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
