package service

import (
	"context"
	"testing"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkToken(t *testing.T) {
	assert.Regexp(t, `^you_[0-9a-f]{32}$`, newLinkToken("Youth Ministry"))
	assert.Regexp(t, `^a1b_[0-9a-f]{32}$`, newLinkToken("  A-1 B"))
	assert.Regexp(t, `^lnk_[0-9a-f]{32}$`, newLinkToken("!!!"))
	assert.NotEqual(t, newLinkToken("x"), newLinkToken("x"))
}

func TestLinkService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	links := f.svc.Links

	expires := time.Now().Add(48 * time.Hour)
	link, err := links.Create(ctx, f.actor, f.camp.ID, LinkInput{
		Name:              "Youth Ministry",
		AllowedCategories: []string{f.youth.ID, f.youth.ID},
		ExpiresAt:         &expires,
		UsageLimit:        testutil.Ptr(25),
	})
	require.NoError(t, err)
	assert.True(t, link.IsActive)
	assert.Equal(t, []string{f.youth.ID}, []string(link.AllowedCategories))
	assert.Regexp(t, `^you_`, link.LinkToken)
	assert.Zero(t, link.UsageCount)

	past := time.Now().Add(-time.Hour)
	cases := map[string]LinkInput{
		"blank name":     {Name: ""},
		"expired":        {Name: "x", ExpiresAt: &past},
		"zero limit":     {Name: "x", UsageLimit: testutil.Ptr(0)},
		"foreign categ.": {Name: "x", AllowedCategories: []string{"not-a-category"}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := links.Create(ctx, f.actor, f.camp.ID, in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	_, err = links.Create(ctx, f.stranger(t), f.camp.ID, LinkInput{Name: "x"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestLinkService_UpdateKeepsUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.link(t, func(l *models.RegistrationLink) {
		l.UsageLimit = testutil.Ptr(5)
		l.UsageCount = 3
	})

	updated, err := f.svc.Links.Update(ctx, f.actor, link.ID, LinkInput{
		Name:              "Renamed",
		AllowedCategories: []string{f.adult.ID},
		UsageLimit:        testutil.Ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 3, updated.UsageCount)
	assert.Equal(t, 10, *updated.UsageLimit)
	assert.Equal(t, link.LinkToken, updated.LinkToken)
	assert.True(t, updated.IsActive)

	cleared, err := f.svc.Links.Update(ctx, f.actor, link.ID, LinkInput{Name: "Renamed"})
	require.NoError(t, err)
	assert.Nil(t, cleared.UsageLimit)
	assert.Empty(t, cleared.AllowedCategories)
}

func TestLinkService_ToggleAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.link(t)

	toggled, err := f.svc.Links.Toggle(ctx, f.actor, link.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	toggled, err = f.svc.Links.Toggle(ctx, f.actor, link.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Links.Delete(ctx, f.actor, link.ID), models.ErrConflict)

	unused := f.link(t)
	require.NoError(t, f.svc.Links.Delete(ctx, f.actor, unused.ID))
	_, err = f.svc.Links.Get(ctx, f.actor, unused.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLinkService_Status(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.link(t, func(l *models.RegistrationLink) { l.UsageLimit = testutil.Ptr(3) })
	status, err := f.svc.Links.Status(ctx, open.LinkToken)
	require.NoError(t, err)
	assert.True(t, status.IsValid)
	assert.Empty(t, status.Reason)
	assert.Equal(t, f.camp.Name, status.CampName)
	assert.True(t, status.RegistrationOpen)
	assert.Equal(t, 100, status.Capacity)

	inactive := f.link(t, func(l *models.RegistrationLink) { l.IsActive = false })
	status, err = f.svc.Links.Status(ctx, inactive.LinkToken)
	require.NoError(t, err)
	assert.False(t, status.IsValid)
	assert.Equal(t, models.ReasonInactive, status.Reason)

	f.svc.Links.now = func() time.Time { return f.camp.RegistrationDeadline.Add(time.Hour) }
	status, err = f.svc.Links.Status(ctx, open.LinkToken)
	require.NoError(t, err)
	assert.False(t, status.IsValid)
	assert.False(t, status.RegistrationOpen)
	assert.Empty(t, status.Reason)

	_, err = f.svc.Links.Status(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
