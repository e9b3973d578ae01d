package handlers

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/auth"
	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	users *service.UserService
	log   *logrus.Logger
}

func NewUserHandler(users *service.UserService, log *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type RegisterUserRequest struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Login email"`
		Password string `json:"password" minLength:"8" maxLength:"72"`
		FullName string `json:"full_name" minLength:"2" maxLength:"200"`
		Role     string `json:"role,omitempty" enum:"camp_manager,volunteer" doc:"Defaults to camp_manager"`
	}
}

type UserResponse struct {
	Body UserOut
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

type LoginResponse struct {
	Body struct {
		auth.Session
		User UserOut `json:"user"`
	}
}

type RefreshRequest struct {
	Body struct {
		RefreshToken string `json:"refresh_token"`
	}
}

type SessionResponse struct {
	Body *auth.Session
}

type UpdateProfileRequest struct {
	Body struct {
		Email    *string `json:"email,omitempty" format:"email"`
		FullName *string `json:"full_name,omitempty" minLength:"2" maxLength:"200"`
	}
}

type ChangePasswordRequest struct {
	Body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password" minLength:"8" maxLength:"72"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(text string) *MessageResponse {
	res := &MessageResponse{}
	res.Body.Message = text
	return res
}

type UserStatsResponse struct {
	Body struct {
		CampsManaged       int    `json:"camps_managed"`
		ActiveCamps        int    `json:"active_camps"`
		TotalRegistrations int64  `json:"total_registrations"`
		TotalRevenue       string `json:"total_revenue"`
	}
}

type UserListResponse struct {
	Body []UserOut
}

func (h *UserHandler) HandleRegister(ctx context.Context, input *RegisterUserRequest) (*UserResponse, error) {
	user, err := h.users.Register(ctx, service.RegisterUserInput{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		FullName: input.Body.FullName,
		Role:     input.Body.Role,
	})
	if err != nil {
		return nil, apiError(h.log, "register user", err)
	}
	return &UserResponse{Body: userOut(*user)}, nil
}

func (h *UserHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	user, session, err := h.users.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apiError(h.log, "login", err)
	}
	res := &LoginResponse{}
	res.Body.Session = *session
	res.Body.User = userOut(*user)
	return res, nil
}

func (h *UserHandler) HandleRefresh(ctx context.Context, input *RefreshRequest) (*SessionResponse, error) {
	session, err := h.users.Refresh(ctx, input.Body.RefreshToken)
	if err != nil {
		return nil, apiError(h.log, "refresh token", err)
	}
	return &SessionResponse{Body: session}, nil
}

func (h *UserHandler) HandleMe(ctx context.Context, _ *struct{}) (*UserResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.users.Get(ctx, id.UserID)
	if err != nil {
		return nil, apiError(h.log, "get profile", err)
	}
	return &UserResponse{Body: userOut(*user)}, nil
}

func (h *UserHandler) HandleUpdateMe(ctx context.Context, input *UpdateProfileRequest) (*UserResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.users.UpdateProfile(ctx, id, service.ProfileInput{
		Email:    input.Body.Email,
		FullName: input.Body.FullName,
	})
	if err != nil {
		return nil, apiError(h.log, "update profile", err)
	}
	return &UserResponse{Body: userOut(*user)}, nil
}

func (h *UserHandler) HandleChangePassword(ctx context.Context, input *ChangePasswordRequest) (*MessageResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.users.ChangePassword(ctx, id, input.Body.CurrentPassword, input.Body.NewPassword); err != nil {
		return nil, apiError(h.log, "change password", err)
	}
	return message("Password updated"), nil
}

// HandleLogout acknowledges a sign-out. Tokens are stateless, so the client
// discards them.
func (h *UserHandler) HandleLogout(ctx context.Context, _ *struct{}) (*MessageResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	h.log.WithField("user_id", id.UserID).Debug("user logged out")
	return message("Successfully logged out"), nil
}

func (h *UserHandler) HandleStats(ctx context.Context, _ *struct{}) (*UserStatsResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := h.users.Stats(ctx, id)
	if err != nil {
		return nil, apiError(h.log, "user stats", err)
	}
	res := &UserStatsResponse{}
	res.Body.CampsManaged = stats.CampsManaged
	res.Body.ActiveCamps = stats.ActiveCamps
	res.Body.TotalRegistrations = stats.TotalRegistrations
	res.Body.TotalRevenue = money(stats.TotalRevenue)
	return res, nil
}

func (h *UserHandler) HandleListUsers(ctx context.Context, _ *struct{}) (*UserListResponse, error) {
	users, err := h.users.List(ctx)
	if err != nil {
		return nil, apiError(h.log, "list users", err)
	}
	return &UserListResponse{Body: mapSlice(users, userOut)}, nil
}
