package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gdg-garage/camp-registration-api/internal/logging"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type whoAmIOutput struct {
	Body struct {
		UserID string `json:"user_id"`
	}
}

func TestGuard(t *testing.T) {
	m := testManager()
	guard := NewGuard(m, logging.Discard())

	_, api := humatest.New(t)
	handler := func(ctx context.Context, _ *struct{}) (*whoAmIOutput, error) {
		id, ok := IdentityFrom(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("no identity")
		}
		out := &whoAmIOutput{}
		out.Body.UserID = id.UserID
		return out, nil
	}
	huma.Get(api, "/me", handler, guard.Require(api))
	huma.Get(api, "/managers-only", handler, guard.Require(api, models.RoleCampManager))

	managerToken, err := m.IssueAccess(manager)
	require.NoError(t, err)
	volunteerToken, err := m.IssueAccess(models.User{Base: models.Base{ID: "user-2"}, Role: models.RoleVolunteer})
	require.NoError(t, err)

	t.Run("no header", func(t *testing.T) {
		resp := api.Get("/me")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		resp := api.Get("/me", "Authorization: Basic "+managerToken)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		resp := api.Get("/me", "Authorization: Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		resp := api.Get("/me", "Authorization: Bearer "+managerToken)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"user_id":"user-1"`)
	})

	t.Run("role allowed", func(t *testing.T) {
		resp := api.Get("/managers-only", "Authorization: Bearer "+managerToken)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("role denied", func(t *testing.T) {
		resp := api.Get("/managers-only", "Authorization: Bearer "+volunteerToken)
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = bearerToken("abc")
	assert.False(t, ok)
}
