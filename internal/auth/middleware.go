package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

type contextKey string

const identityKey contextKey = "identity"

const SecurityScheme = "bearerAuth"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Guard authenticates huma operations from the Authorization header.
type Guard struct {
	authn Authenticator
	log   *logrus.Logger
}

func NewGuard(authn Authenticator, log *logrus.Logger) *Guard {
	return &Guard{authn: authn, log: log}
}

// Require returns an operation option that documents bearer auth and rejects
// requests without a valid access token. When roles are given the caller's
// role must be one of them.
func (g *Guard) Require(api huma.API, roles ...string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Security = []map[string][]string{{SecurityScheme: {}}}
		o.Middlewares = append(o.Middlewares, g.middleware(api, roles))
	}
}

func (g *Guard) middleware(api huma.API, roles []string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := g.authn.Authenticate(token)
		if err != nil {
			g.log.WithFields(logrus.Fields{
				"type":      "security",
				"event":     "invalid_token",
				"client_ip": ctx.RemoteAddr(),
				"path":      ctx.URL().Path,
			}).Warn("rejected bearer token")
			huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, id.Role) {
			huma.WriteErr(api, ctx, http.StatusForbidden, "insufficient role")
			return
		}

		next(huma.WithValue(ctx, identityKey, id))
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
