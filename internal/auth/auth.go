package auth

import (
	"fmt"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"

	MinPasswordLength = 8
)

// Identity is who a request acts as.
type Identity struct {
	UserID string
	Role   string
}

// Authenticator turns a bearer token into an Identity.
type Authenticator interface {
	Authenticate(token string) (Identity, error)
}

type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *TokenManager) IssueAccess(user models.User) (string, error) {
	return m.issue(user, AccessToken, m.accessTTL)
}

func (m *TokenManager) IssueRefresh(user models.User) (string, error) {
	return m.issue(user, RefreshToken, m.refreshTTL)
}

func (m *TokenManager) issue(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses tokenString and checks it is of the wanted type.
func (m *TokenManager) Verify(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	}
	if claims.TokenType != tokenType || claims.UserID == "" {
		return nil, fmt.Errorf("%w: wrong token type", models.ErrUnauthorized)
	}
	return claims, nil
}

func (m *TokenManager) Authenticate(token string) (Identity, error) {
	claims, err := m.Verify(token, AccessToken)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return models.Invalid("password", "must be at least %d characters", MinPasswordLength)
	}
	if len(password) > 72 {
		return models.Invalid("password", "must be at most 72 bytes")
	}
	return nil
}
