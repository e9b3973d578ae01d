package service

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/logging"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/gdg-garage/camp-registration-api/internal/testutil"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []models.Registration
	err   error
}

func (n *recordingNotifier) NotifyRegistration(_ context.Context, _ models.Camp, r models.Registration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, r)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type recordingConfirmer struct {
	mu     sync.Mutex
	emails []string
	err    error
}

func (c *recordingConfirmer) ConfirmRegistration(_ context.Context, _ models.Camp, r models.Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails = append(c.emails, r.Email)
	return c.err
}

func (c *recordingConfirmer) sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.emails)
}

type fixture struct {
	db       *gorm.DB
	store    *repo.Store
	svc      *Services
	tokens   *auth.TokenManager
	notifier *recordingNotifier
	mailer   *recordingConfirmer
	manager  models.User
	actor    auth.Identity
	camp     models.Camp
	church   models.Church
	youth    models.Category
	adult    models.Category
}

// newFixture seeds a manager with one open camp (base fee 250.00), a church
// and two categories: Youth at 15% off and Adult at full price.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repo.NewStore(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	n := &recordingNotifier{}
	c := &recordingConfirmer{}

	f := &fixture{
		db:       db,
		store:    store,
		svc:      New(store, tokens, n, c, logging.Discard()),
		tokens:   tokens,
		notifier: n,
		mailer:   c,
	}
	f.manager = testutil.CreateUser(t, db, "manager@example.com")
	f.actor = auth.Identity{UserID: f.manager.ID, Role: f.manager.Role}
	f.camp = testutil.CreateCamp(t, db, f.manager.ID)
	f.church = testutil.CreateChurch(t, db, f.camp.ID, "Grace Chapel")
	f.youth = testutil.CreateCategory(t, db, f.camp.ID, "Youth", "15", "0")
	f.adult = testutil.CreateCategory(t, db, f.camp.ID, "Adult", "0", "0")
	return f
}

func (f *fixture) submission(categoryID string) SubmissionInput {
	return SubmissionInput{
		Surname:               "Ama",
		LastName:              "Mensah",
		Age:                   17,
		Email:                 "ama@example.com",
		PhoneNumber:           "0240000000",
		EmergencyContactName:  "Kofi Mensah",
		EmergencyContactPhone: "0241111111",
		ChurchID:              f.church.ID,
		CategoryID:            categoryID,
	}
}

func (f *fixture) link(t *testing.T, mutate ...func(*models.RegistrationLink)) models.RegistrationLink {
	t.Helper()
	return testutil.CreateLink(t, f.db, f.camp.ID, f.manager.ID, mutate...)
}

func (f *fixture) stranger(t *testing.T) auth.Identity {
	t.Helper()
	other := testutil.CreateUser(t, f.db, "stranger@example.com")
	return auth.Identity{UserID: other.ID, Role: other.Role}
}
