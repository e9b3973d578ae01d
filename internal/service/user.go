package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/models"
	"github.com/gdg-garage/camp-registration-api/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	store  *repo.Store
	tokens *auth.TokenManager
	log    *logrus.Logger
}

func NewUserService(store *repo.Store, tokens *auth.TokenManager, log *logrus.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, log: log}
}

type RegisterUserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

type ProfileInput struct {
	Email    *string
	FullName *string
}

type UserStats struct {
	CampsManaged       int             `json:"camps_managed"`
	ActiveCamps        int             `json:"active_camps"`
	TotalRegistrations int64           `json:"total_registrations"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
}

func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	email, err := normalizeEmail("email", in.Email)
	if err != nil {
		return nil, err
	}
	fullName, err := validFullName(in.FullName)
	if err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleCampManager
	}
	if !models.ValidRole(role) {
		return nil, models.Invalid("role", "must be %s or %s", models.RoleCampManager, models.RoleVolunteer)
	}

	if _, err := s.store.Users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service.User.Register: %w", err)
	}
	user := &models.User{Email: email, PasswordHash: hash, FullName: fullName, Role: role}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *auth.Session, error) {
	user, err := s.store.Users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil, fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.log.WithFields(logrus.Fields{"type": "security", "user_id": user.ID}).Warn("failed login")
		return nil, nil, fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
	}

	session, err := s.session(*user, true)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users.Get(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("user no longer exists: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return s.session(*user, false)
}

// SignInExternal signs in the account with a verified email, creating a camp
// manager account on first sight.
func (s *UserService) SignInExternal(ctx context.Context, email, fullName string) (*auth.Session, error) {
	normalized, err := normalizeEmail("email", email)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByEmail(ctx, normalized)
	if errors.Is(err, models.ErrNotFound) {
		if len(fullName) < 2 {
			fullName = normalized
		}
		hash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			return nil, err
		}
		user = &models.User{Email: normalized, FullName: fullName, PasswordHash: hash, Role: models.RoleCampManager}
		if err := s.store.Users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.log.WithField("user_id", user.ID).Info("user provisioned from external sign-in")
	} else if err != nil {
		return nil, err
	}

	return s.session(*user, true)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users.List(ctx)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor auth.Identity, in ProfileInput) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if user.FullName, err = validFullName(*in.FullName); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		email, err := normalizeEmail("email", *in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if _, err := s.store.Users.GetByEmail(ctx, email); err == nil {
				return nil, fmt.Errorf("email already registered: %w", models.ErrConflict)
			} else if !errors.Is(err, models.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}

	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor auth.Identity, current, next string) error {
	user, err := s.store.Users.Get(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return models.Invalid("current_password", "is incorrect")
	}
	if err := auth.ValidatePassword(next); err != nil {
		return err
	}
	if user.PasswordHash, err = auth.HashPassword(next); err != nil {
		return fmt.Errorf("service.User.ChangePassword: %w", err)
	}
	if err := s.store.Users.Update(ctx, user); err != nil {
		return err
	}
	s.log.WithField("user_id", user.ID).Info("password changed")
	return nil
}

func (s *UserService) Stats(ctx context.Context, actor auth.Identity) (*UserStats, error) {
	camps, err := s.store.Camps.ListByManager(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{CampsManaged: len(camps), TotalRevenue: decimal.Zero}
	ids := make([]string, 0, len(camps))
	for _, camp := range camps {
		ids = append(ids, camp.ID)
		if camp.IsActive {
			stats.ActiveCamps++
		}
	}

	if stats.TotalRegistrations, err = s.store.Registrations.Count(ctx, repo.RegistrationFilter{CampIDs: ids}); err != nil {
		return nil, err
	}
	paid := true
	if stats.TotalRevenue, err = s.store.Registrations.SumTotals(ctx, repo.RegistrationFilter{CampIDs: ids, HasPaid: &paid}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *UserService) session(user models.User, withRefresh bool) (*auth.Session, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("service.User.session: %w", err)
	}
	session := &auth.Session{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}
	if withRefresh {
		if session.RefreshToken, err = s.tokens.IssueRefresh(user); err != nil {
			return nil, fmt.Errorf("service.User.session: %w", err)
		}
	}
	return session, nil
}

func validFullName(name string) (string, error) {
	name, err := requireText("full_name", name, 200)
	if err != nil {
		return "", err
	}
	if len(name) < 2 {
		return "", models.Invalid("full_name", "must be at least 2 characters")
	}
	return name, nil
}
