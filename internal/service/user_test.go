package service

import (
	"context"
	"testing"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := f.svc.Users

	user, err := users.Register(ctx, RegisterUserInput{
		Email:    "  Leader@Example.com ",
		Password: "correct horse",
		FullName: "Camp Leader",
	})
	require.NoError(t, err)
	assert.Equal(t, "leader@example.com", user.Email)
	assert.Equal(t, models.RoleCampManager, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = users.Register(ctx, RegisterUserInput{Email: "leader@example.com", Password: "another pass", FullName: "Someone"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, _, err = users.Login(ctx, "leader@example.com", "wrong password")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, _, err = users.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	loggedIn, session, err := users.Login(ctx, "LEADER@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.NotEmpty(t, session.RefreshToken)

	identity, err := f.tokens.Authenticate(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)

	refreshed, err := users.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken)

	_, err = users.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestUserService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]RegisterUserInput{
		"bad email":      {Email: "not-an-email", Password: "long enough", FullName: "Name"},
		"short password": {Email: "a@example.com", Password: "short", FullName: "Name"},
		"short name":     {Email: "a@example.com", Password: "long enough", FullName: "N"},
		"unknown role":   {Email: "a@example.com", Password: "long enough", FullName: "Name", Role: "admin"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Users.Register(context.Background(), in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestUserService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := f.svc.Users

	user, err := users.Register(ctx, RegisterUserInput{Email: "vol@example.com", Password: "password1", FullName: "Volunteer", Role: models.RoleVolunteer})
	require.NoError(t, err)
	actor := auth.Identity{UserID: user.ID, Role: user.Role}

	_, err = users.UpdateProfile(ctx, actor, ProfileInput{Email: &f.manager.Email})
	assert.ErrorIs(t, err, models.ErrConflict)

	name := "Renamed Volunteer"
	updated, err := users.UpdateProfile(ctx, actor, ProfileInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, "vol@example.com", updated.Email)

	err = users.ChangePassword(ctx, actor, "not it", "password2")
	assert.ErrorIs(t, err, models.ErrValidation)
	require.NoError(t, users.ChangePassword(ctx, actor, "password1", "password2"))

	_, _, err = users.Login(ctx, "vol@example.com", "password2")
	assert.NoError(t, err)
}

func TestUserService_SignInExternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Users.SignInExternal(ctx, "New.Person@example.com", "New Person")
	require.NoError(t, err)
	identity, err := f.tokens.Authenticate(session.AccessToken)
	require.NoError(t, err)

	user, err := f.store.Users.GetByEmail(ctx, "new.person@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, models.RoleCampManager, user.Role)

	again, err := f.svc.Users.SignInExternal(ctx, "new.person@example.com", "")
	require.NoError(t, err)
	second, err := f.tokens.Authenticate(again.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, second.UserID)
}

func TestUserService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateCamp(t, f.db, f.manager.ID, func(c *models.Camp) { c.IsActive = false })

	paid, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.youth.ID))
	require.NoError(t, err)
	_, err = f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
	require.NoError(t, err)
	_, err = f.svc.Registrations.SetPayment(ctx, f.actor, paid.ID, true)
	require.NoError(t, err)

	stats, err := f.svc.Users.Stats(ctx, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CampsManaged)
	assert.Equal(t, 1, stats.ActiveCamps)
	assert.Equal(t, int64(2), stats.TotalRegistrations)
	assert.True(t, decimal.RequireFromString("212.50").Equal(stats.TotalRevenue), stats.TotalRevenue.String())
}
