package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	GoogleAuthorizeEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenEndpoint     = "https://oauth2.googleapis.com/token"
	GoogleUserInfoAPI       = "https://openidconnect.googleapis.com/v1/userinfo"

	stateCookie = "oauth_state"
)

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExternalSignIn finds or provisions the account for a verified external
// identity.
type ExternalSignIn interface {
	SignInExternal(ctx context.Context, email, fullName string) (*Session, error)
}

// GoogleLogin runs the OAuth authorization code flow against Google and
// signs the user in through ExternalSignIn.
type GoogleLogin struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	signIn      ExternalSignIn
	log         *logrus.Logger
}

func NewGoogleLogin(cfg *config.Config, signIn ExternalSignIn, log *logrus.Logger) *GoogleLogin {
	return &GoogleLogin{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  GoogleAuthorizeEndpoint,
				TokenURL: GoogleTokenEndpoint,
			},
		},
		userInfoURL: GoogleUserInfoAPI,
		signIn:      signIn,
		log:         log,
	}
}

func (g *GoogleLogin) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	url := g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (g *GoogleLogin) HandleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", MaxAge: -1, Path: "/"})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		g.log.WithError(err).Warn("google token exchange failed")
		http.Error(w, "Failed to exchange token", http.StatusBadGateway)
		return
	}

	client := g.oauthConfig.Client(ctx, token)
	resp, err := client.Get(g.userInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	var googleUser struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusBadGateway)
		return
	}
	if googleUser.Email == "" || !googleUser.EmailVerified {
		http.Error(w, "Google account email is not verified", http.StatusForbidden)
		return
	}

	session, err := g.signIn.SignInExternal(ctx, googleUser.Email, googleUser.Name)
	if err != nil {
		g.log.WithError(err).WithField("email", googleUser.Email).Error("google sign-in failed")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
