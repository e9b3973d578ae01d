package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/sirupsen/logrus"
)

// apiError turns a service error into the huma status error the client sees.
// Anything unrecognised is logged and reported as a bare 500.
func apiError(log *logrus.Logger, op string, err error) error {
	var rejected *models.LinkRejectedError
	var invalid *models.ValidationError

	switch {
	case errors.As(err, &rejected):
		return huma.NewError(http.StatusGone, "registration link cannot be used", &huma.ErrorDetail{
			Message:  string(rejected.Reason),
			Location: "reason",
			Value:    rejected.Reason,
		})
	case errors.As(err, &invalid):
		return huma.Error422UnprocessableEntity(invalid.Error(), &huma.ErrorDetail{
			Message:  invalid.Message,
			Location: "body." + invalid.Field,
		})
	case errors.Is(err, models.ErrInvalidCategoryForLink):
		return huma.Error400BadRequest("category is not available through this registration link")
	case errors.Is(err, models.ErrRegistrationClosed):
		return huma.NewError(http.StatusGone, "registration for this camp is closed")
	case errors.Is(err, models.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, models.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, models.ErrForbidden):
		return huma.Error403Forbidden("you do not manage this camp")
	case errors.Is(err, models.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	}

	log.WithError(err).WithField("op", op).Error("request failed")
	return huma.Error500InternalServerError("internal server error")
}

func actor(ctx context.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, huma.Error401Unauthorized("Unauthorized")
	}
	return id, nil
}
