package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("camp x: %w", models.ErrNotFound), http.StatusNotFound},
		{"validation", models.Invalid("age", "must be between 1 and 150"), http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("dup: %w", models.ErrConflict), http.StatusConflict},
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("camp x: %w", models.ErrForbidden), http.StatusForbidden},
		{"link rejected", models.RejectLink(models.ReasonExpired), http.StatusGone},
		{"category not on link", models.ErrInvalidCategoryForLink, http.StatusBadRequest},
		{"closed", models.ErrRegistrationClosed, http.StatusGone},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			assert.Equal(t, tt.want, statusOf(t, apiError(logger, "op", tt.err)))
		})
	}
}

func TestAPIError_LogsUnexpected(t *testing.T) {
	logger, hook := test.NewNullLogger()

	err := apiError(logger, "create camp", errors.New("disk on fire"))
	assert.NotContains(t, err.Error(), "disk on fire")
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, "create camp", hook.LastEntry().Data["op"])
	}

	apiError(logger, "get camp", models.ErrNotFound)
	assert.Len(t, hook.Entries, 1)
}
