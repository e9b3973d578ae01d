package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func rejectionReason(t *testing.T, err error) models.LinkRejectReason {
	t.Helper()
	var rejected *models.LinkRejectedError
	require.True(t, errors.As(err, &rejected), "expected link rejection, got %v", err)
	return rejected.Reason
}

func TestSubmitViaLink_PricesRegistrant(t *testing.T) {
	f := newFixture(t)
	link := f.link(t)

	registration, err := f.svc.Registrations.SubmitViaLink(context.Background(), link.LinkToken, f.submission(f.youth.ID))
	require.NoError(t, err)

	assert.Equal(t, "212.50", registration.TotalAmount.StringFixed(2))
	assert.Regexp(t, `^[A-Z]{3}[0-9]{3}$`, registration.CamperCode)
	require.NotNil(t, registration.RegistrationLinkID)
	assert.Equal(t, link.ID, *registration.RegistrationLinkID)

	stored, err := f.store.Registrations.Get(context.Background(), registration.ID)
	require.NoError(t, err)
	assert.Equal(t, "212.50", stored.TotalAmount.StringFixed(2))

	reloaded, err := f.store.Links.Get(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.UsageCount)
	assert.Equal(t, 1, f.notifier.count())
}

func TestSubmitViaLink_CategoryNotAllowed(t *testing.T) {
	f := newFixture(t)
	link := f.link(t, func(l *models.RegistrationLink) {
		l.AllowedCategories = datatypes.JSONSlice[string]{f.youth.ID}
	})

	_, err := f.svc.Registrations.SubmitViaLink(context.Background(), link.LinkToken, f.submission(f.adult.ID))
	assert.ErrorIs(t, err, models.ErrInvalidCategoryForLink)

	reloaded, err := f.store.Links.Get(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.UsageCount)
	assert.Zero(t, f.notifier.count())
}

func TestSubmitViaLink_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.svc.Registrations.SubmitViaLink(ctx, "nope", f.submission(f.youth.ID))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("inactive wins over everything", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) {
			l.IsActive = false
			l.ExpiresAt = &past
			l.UsageLimit = testutil.Ptr(1)
			l.UsageCount = 1
		})
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
		assert.Equal(t, models.ReasonInactive, rejectionReason(t, err))
	})

	t.Run("expired", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) { l.ExpiresAt = &past })
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
		assert.Equal(t, models.ReasonExpired, rejectionReason(t, err))
	})

	t.Run("usage exhausted", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) {
			l.UsageLimit = testutil.Ptr(2)
			l.UsageCount = 2
		})
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
		assert.Equal(t, models.ReasonUsageExhausted, rejectionReason(t, err))
	})

	t.Run("one use left", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) {
			l.UsageLimit = testutil.Ptr(2)
			l.UsageCount = 1
		})
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
		require.NoError(t, err)

		_, err = f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
		assert.Equal(t, models.ReasonUsageExhausted, rejectionReason(t, err))
	})

	t.Run("church from another camp", func(t *testing.T) {
		other := testutil.CreateCamp(t, f.db, f.manager.ID)
		foreign := testutil.CreateChurch(t, f.db, other.ID, "Elsewhere")
		link := f.link(t)

		in := f.submission(f.youth.ID)
		in.ChurchID = foreign.ID
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, in)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		link := f.link(t)
		in := f.submission(f.youth.ID)
		in.Age = 0
		_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, in)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestSubmitViaLink_CampFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&f.camp).Update("capacity", 1).Error)
	link := f.link(t)

	_, err := f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
	require.NoError(t, err)

	_, err = f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.youth.ID))
	assert.Equal(t, models.ReasonCampFull, rejectionReason(t, err))
}

func TestSubmitViaLink_DeadlinePassed(t *testing.T) {
	f := newFixture(t)
	link := f.link(t)
	f.svc.Registrations.now = func() time.Time { return f.camp.RegistrationDeadline.Add(time.Minute) }

	_, err := f.svc.Registrations.SubmitViaLink(context.Background(), link.LinkToken, f.submission(f.youth.ID))
	assert.ErrorIs(t, err, models.ErrRegistrationClosed)
}

func TestSubmitViaLink_ConcurrentUsageLimit(t *testing.T) {
	const limit = 8

	run := func(t *testing.T, submitters int) (successes int, usage int) {
		f := newFixture(t)
		link := f.link(t, func(l *models.RegistrationLink) { l.UsageLimit = testutil.Ptr(limit) })

		var wg sync.WaitGroup
		results := make(chan error, submitters)
		for i := 0; i < submitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.svc.Registrations.SubmitViaLink(context.Background(), link.LinkToken, f.submission(f.youth.ID))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		for err := range results {
			if err == nil {
				successes++
				continue
			}
			assert.Equal(t, models.ReasonUsageExhausted, rejectionReason(t, err))
		}

		reloaded, err := f.store.Links.Get(context.Background(), link.ID)
		require.NoError(t, err)
		n, err := f.store.Registrations.CountByCamp(context.Background(), f.camp.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(successes), n)
		return successes, reloaded.UsageCount
	}

	t.Run("exactly the limit", func(t *testing.T) {
		successes, usage := run(t, limit)
		assert.Equal(t, limit, successes)
		assert.Equal(t, limit, usage)
	})

	t.Run("twice the limit", func(t *testing.T) {
		successes, usage := run(t, 2*limit)
		assert.Equal(t, limit, successes)
		assert.Equal(t, limit, usage)
	})
}

func TestRetryUsageRace(t *testing.T) {
	f := newFixture(t)
	s := f.svc.Registrations

	calls := 0
	err := s.retryUsageRace(context.Background(), "tok", func() error {
		calls++
		return errUsageRace
	})
	assert.Equal(t, 2, calls)
	assert.Equal(t, models.ReasonUsageExhausted, rejectionReason(t, err))

	calls = 0
	err = s.retryUsageRace(context.Background(), "tok", func() error {
		calls++
		if calls == 1 {
			return errUsageRace
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("boom")
	err = s.retryUsageRace(context.Background(), "tok", func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestSubmitGeneral(t *testing.T) {
	ctx := context.Background()

	t.Run("any category", func(t *testing.T) {
		f := newFixture(t)
		registration, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		require.NoError(t, err)
		assert.Equal(t, "250.00", registration.TotalAmount.StringFixed(2))
		assert.Nil(t, registration.RegistrationLinkID)
	})

	t.Run("camp full", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Model(&f.camp).Update("capacity", 1).Error)
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		require.NoError(t, err)
		_, err = f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		assert.Equal(t, models.ReasonCampFull, rejectionReason(t, err))
	})

	t.Run("zero capacity is unlimited", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Model(&f.camp).Update("capacity", 0).Error)
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		require.NoError(t, err)

		link := f.link(t)
		_, err = f.svc.Registrations.SubmitViaLink(ctx, link.LinkToken, f.submission(f.adult.ID))
		require.NoError(t, err)
	})

	t.Run("inactive camp", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.db.Model(&f.camp).Update("is_active", false).Error)
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		assert.ErrorIs(t, err, models.ErrRegistrationClosed)
	})

	t.Run("unknown camp", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Registrations.SubmitGeneral(ctx, "missing", f.submission(f.adult.ID))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("registrant confirmation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		require.NoError(t, err)
		assert.Equal(t, []string{"ama@example.com"}, f.mailer.sent())

		in := f.submission(f.adult.ID)
		in.Email = ""
		_, err = f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, in)
		require.NoError(t, err)
		assert.Len(t, f.mailer.sent(), 1)
	})

	t.Run("confirmation failure does not fail submission", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.err = errors.New("smtp down")
		registration, err := f.svc.Registrations.SubmitViaLink(ctx, f.link(t).LinkToken, f.submission(f.youth.ID))
		require.NoError(t, err)
		assert.NotEmpty(t, registration.CamperCode)
		assert.Equal(t, []string{"ama@example.com"}, f.mailer.sent())
	})

	t.Run("notification failure does not fail submission", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.err = errors.New("discord down")
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
		assert.NoError(t, err)
		assert.Equal(t, 1, f.notifier.count())
	})
}

func TestSubmit_CustomFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shirt := testutil.CreateField(t, f.db, f.camp.ID, "T-shirt size", models.FieldDropdown, true, "S", "M", "L")
	diet := testutil.CreateField(t, f.db, f.camp.ID, "Diet", models.FieldCheckbox, false, "Vegan", "Halal")

	t.Run("required answer missing", func(t *testing.T) {
		_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, f.submission(f.youth.ID))
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("answers stored", func(t *testing.T) {
		in := f.submission(f.youth.ID)
		in.CustomFieldResponses = map[string]any{shirt.ID: "M", diet.ID: []any{"Vegan"}}
		registration, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, in)
		require.NoError(t, err)

		stored, err := f.store.Registrations.Get(ctx, registration.ID)
		require.NoError(t, err)
		assert.Equal(t, "M", stored.CustomFieldResponses[shirt.ID])
		assert.Equal(t, []any{"Vegan"}, stored.CustomFieldResponses[diet.ID])
	})

	t.Run("non-finite number rejected", func(t *testing.T) {
		weight := testutil.CreateField(t, f.db, f.camp.ID, "Weight", models.FieldNumber, false)
		before, err := f.store.Registrations.CountByCamp(ctx, f.camp.ID)
		require.NoError(t, err)

		for _, value := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
			in := f.submission(f.youth.ID)
			in.CustomFieldResponses = map[string]any{shirt.ID: "M", weight.ID: value}
			_, err := f.svc.Registrations.SubmitGeneral(ctx, f.camp.ID, in)
			assert.ErrorIs(t, err, models.ErrValidation, value)
		}

		after, err := f.store.Registrations.CountByCamp(ctx, f.camp.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestForms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("link limits categories", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) {
			l.AllowedCategories = datatypes.JSONSlice[string]{f.youth.ID}
		})
		form, err := f.svc.Registrations.FormForLink(ctx, link.LinkToken)
		require.NoError(t, err)
		assert.Equal(t, LinkTypeCategorySpecific, form.LinkType)
		require.Len(t, form.Categories, 1)
		assert.Equal(t, f.youth.ID, form.Categories[0].ID)
		assert.Len(t, form.Churches, 1)
	})

	t.Run("open link offers all", func(t *testing.T) {
		form, err := f.svc.Registrations.FormForLink(ctx, f.link(t).LinkToken)
		require.NoError(t, err)
		assert.Len(t, form.Categories, 2)
	})

	t.Run("rejected link", func(t *testing.T) {
		link := f.link(t, func(l *models.RegistrationLink) { l.IsActive = false })
		_, err := f.svc.Registrations.FormForLink(ctx, link.LinkToken)
		assert.ErrorIs(t, err, models.ErrLinkRejected)
	})

	t.Run("general", func(t *testing.T) {
		form, err := f.svc.Registrations.FormForCamp(ctx, f.camp.ID)
		require.NoError(t, err)
		assert.Equal(t, LinkTypeGeneral, form.LinkType)
		assert.Nil(t, form.Link)
		assert.Len(t, form.Categories, 2)
	})
}

func TestRandomCamperCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Regexp(t, `^[A-Z]{3}[0-9]{3}$`, randomCamperCode())
	}
}

func TestUniqueCamperCode_SkipsTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.svc.Registrations

	codes := []string{"AAA111", "AAA111", "BBB222"}
	s.code = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	first, err := s.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
	require.NoError(t, err)
	assert.Equal(t, "AAA111", first.CamperCode)

	second, err := s.SubmitGeneral(ctx, f.camp.ID, f.submission(f.adult.ID))
	require.NoError(t, err)
	assert.Equal(t, "BBB222", second.CamperCode)
}
