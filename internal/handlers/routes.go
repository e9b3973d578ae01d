package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/config"
	"github.com/gdg-garage/camp-registration-api/internal/middleware"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *service.Services
	Tokens   auth.Authenticator
	Log      *logrus.Logger
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

func tag(name string) func(*huma.Operation) {
	return func(o *huma.Operation) {
		o.Tags = append(o.Tags, name)
	}
}

// NewRouter builds the chi router with every route registered and returns
// the huma API alongside it.
func NewRouter(d Deps) (*chi.Mux, huma.API) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRequestLogger(d.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.NewCORSHandler(d.Config.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(d.Config.MaxBodyBytes))

	humaConfig := huma.DefaultConfig("Camp Registration API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		auth.SecurityScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, humaConfig)

	guard := auth.NewGuard(d.Tokens, d.Log)
	signedIn := guard.Require(api)
	limiter := middleware.NewRateLimiter(d.Config.RateLimitPerMinute, d.Config.RateLimitBurst, d.Log)
	limited := limiter.Limit(api)

	health := NewHealthHandler(d.DB, d.Log)
	huma.Get(api, "/health", health.HandleHealth, tag("Health"))

	// Auth
	users := NewUserHandler(d.Services.Users, d.Log)
	huma.Post(api, "/auth/register", users.HandleRegister, tag("Auth"), created, limited)
	huma.Post(api, "/auth/login", users.HandleLogin, tag("Auth"), limited)
	huma.Post(api, "/auth/refresh", users.HandleRefresh, tag("Auth"), limited)
	huma.Post(api, "/auth/logout", users.HandleLogout, tag("Auth"), signedIn)
	huma.Get(api, "/auth/me", users.HandleMe, tag("Auth"), signedIn)
	huma.Put(api, "/auth/me", users.HandleUpdateMe, tag("Auth"), signedIn)
	huma.Put(api, "/auth/me/password", users.HandleChangePassword, tag("Auth"), signedIn)
	huma.Get(api, "/auth/me/stats", users.HandleStats, tag("Auth"), signedIn)
	huma.Get(api, "/auth/users", users.HandleListUsers, tag("Auth"), signedIn)

	if d.Config.GoogleEnabled() {
		google := auth.NewGoogleLogin(d.Config, d.Services.Users, d.Log)
		r.Get("/auth/google/login", google.HandleLogin)
		r.Get("/auth/google/callback", google.HandleCallback)
	}

	// Camps
	camps := NewCampHandler(d.Services.Camps, d.Log)
	huma.Get(api, "/camps", camps.HandleList, tag("Camps"), signedIn)
	huma.Post(api, "/camps", camps.HandleCreate, tag("Camps"), created, guard.Require(api, models.RoleCampManager))
	huma.Get(api, "/camps/{camp_id}", camps.HandleGet, tag("Camps"), signedIn)
	huma.Put(api, "/camps/{camp_id}", camps.HandleUpdate, tag("Camps"), signedIn)
	huma.Delete(api, "/camps/{camp_id}", camps.HandleDelete, tag("Camps"), signedIn)
	huma.Get(api, "/camps/{camp_id}/stats", camps.HandleStats, tag("Camps"), signedIn)

	churches := NewChurchHandler(d.Services.Churches, d.Log)
	huma.Get(api, "/camps/{camp_id}/churches", churches.HandleList, tag("Churches"), signedIn)
	huma.Post(api, "/camps/{camp_id}/churches", churches.HandleCreate, tag("Churches"), signedIn)
	huma.Post(api, "/camps/{camp_id}/churches/batch", churches.HandleCreateBatch, tag("Churches"), created, signedIn)
	huma.Put(api, "/camps/churches/{church_id}", churches.HandleUpdate, tag("Churches"), signedIn)
	huma.Delete(api, "/camps/churches/{church_id}", churches.HandleDelete, tag("Churches"), signedIn)

	categories := NewCategoryHandler(d.Services.Categories, d.Log)
	huma.Get(api, "/camps/{camp_id}/categories", categories.HandleList, tag("Categories"), signedIn)
	huma.Post(api, "/camps/{camp_id}/categories", categories.HandleCreate, tag("Categories"), created, signedIn)
	huma.Put(api, "/camps/categories/{category_id}", categories.HandleUpdate, tag("Categories"), signedIn)
	huma.Delete(api, "/camps/categories/{category_id}", categories.HandleDelete, tag("Categories"), signedIn)

	fields := NewCustomFieldHandler(d.Services.CustomFields, d.Log)
	huma.Get(api, "/camps/{camp_id}/custom-fields", fields.HandleList, tag("Custom fields"), signedIn)
	huma.Post(api, "/camps/{camp_id}/custom-fields", fields.HandleCreate, tag("Custom fields"), created, signedIn)
	huma.Put(api, "/camps/custom-fields/{field_id}", fields.HandleUpdate, tag("Custom fields"), signedIn)
	huma.Delete(api, "/camps/custom-fields/{field_id}", fields.HandleDelete, tag("Custom fields"), signedIn)

	links := NewLinkHandler(d.Services.Links, d.Log)
	huma.Get(api, "/camps/{camp_id}/registration-links", links.HandleList, tag("Registration links"), signedIn)
	huma.Post(api, "/camps/{camp_id}/registration-links", links.HandleCreate, tag("Registration links"), created, signedIn)
	huma.Get(api, "/camps/registration-links/{link_id}", links.HandleGet, tag("Registration links"), signedIn)
	huma.Put(api, "/camps/registration-links/{link_id}", links.HandleUpdate, tag("Registration links"), signedIn)
	huma.Delete(api, "/camps/registration-links/{link_id}", links.HandleDelete, tag("Registration links"), signedIn)
	huma.Patch(api, "/camps/registration-links/{link_id}/toggle", links.HandleToggle, tag("Registration links"), signedIn)

	registrations := NewRegistrationHandler(d.Services.Registrations, d.Log)
	huma.Get(api, "/camps/{camp_id}/registrations", registrations.HandleList, tag("Registrations"), signedIn)
	huma.Post(api, "/camps/{camp_id}/registrations/recompute", registrations.HandleRecompute, tag("Registrations"), signedIn)
	huma.Get(api, "/camps/registrations/{registration_id}", registrations.HandleGet, tag("Registrations"), signedIn)
	huma.Put(api, "/camps/registrations/{registration_id}", registrations.HandleUpdate, tag("Registrations"), signedIn)
	huma.Delete(api, "/camps/registrations/{registration_id}", registrations.HandleDelete, tag("Registrations"), signedIn)
	huma.Patch(api, "/camps/registrations/{registration_id}/payment", registrations.HandlePayment, tag("Registrations"), signedIn)
	huma.Patch(api, "/camps/registrations/{registration_id}/checkin", registrations.HandleCheckIn, tag("Registrations"), signedIn)

	// Public registration
	public := NewPublicHandler(d.Services.Registrations, d.Services.Links, d.Log)
	huma.Get(api, "/register/check/{link_token}", public.HandleLinkStatus, tag("Public"), limited)
	huma.Get(api, "/register/{link_token}", public.HandleLinkForm, tag("Public"), limited)
	huma.Post(api, "/register/{link_token}", public.HandleLinkSubmit, tag("Public"), created, limited)
	huma.Get(api, "/camps/{camp_id}/register", public.HandleCampForm, tag("Public"), limited)
	huma.Post(api, "/camps/{camp_id}/register", public.HandleCampSubmit, tag("Public"), created, limited)

	return r, api
}
