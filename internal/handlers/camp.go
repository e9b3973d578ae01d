package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CampHandler struct {
	camps *service.CampService
	log   *logrus.Logger
}

func NewCampHandler(camps *service.CampService, log *logrus.Logger) *CampHandler {
	return &CampHandler{camps: camps, log: log}
}

type CampPath struct {
	CampID string `path:"camp_id" doc:"Camp ID"`
}

type CreateCampRequest struct {
	Body struct {
		Name                 string    `json:"name" minLength:"1" maxLength:"200"`
		Description          string    `json:"description,omitempty" maxLength:"5000"`
		Location             string    `json:"location" minLength:"1" maxLength:"255"`
		StartDate            time.Time `json:"start_date"`
		EndDate              time.Time `json:"end_date"`
		RegistrationDeadline time.Time `json:"registration_deadline" doc:"Must be before start_date"`
		BaseFee              float64   `json:"base_fee" minimum:"0" doc:"Fee before category discounts"`
		Capacity             int       `json:"capacity" minimum:"1"`
		IsActive             *bool     `json:"is_active,omitempty" doc:"Defaults to true"`
	}
}

type UpdateCampRequest struct {
	CampPath
	Body struct {
		Name                 *string    `json:"name,omitempty" maxLength:"200"`
		Description          *string    `json:"description,omitempty" maxLength:"5000"`
		Location             *string    `json:"location,omitempty" maxLength:"255"`
		StartDate            *time.Time `json:"start_date,omitempty"`
		EndDate              *time.Time `json:"end_date,omitempty"`
		RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
		BaseFee              *float64   `json:"base_fee,omitempty" minimum:"0"`
		Capacity             *int       `json:"capacity,omitempty" minimum:"1"`
		IsActive             *bool      `json:"is_active,omitempty"`
	}
}

type CampResponse struct {
	Body CampOut
}

type CampListResponse struct {
	Body []CampOut
}

type CampStatsResponse struct {
	Body struct {
		CampID              string  `json:"camp_id"`
		TotalRegistrations  int64   `json:"total_registrations"`
		PaidRegistrations   int64   `json:"paid_registrations"`
		UnpaidRegistrations int64   `json:"unpaid_registrations"`
		CheckedInCount      int64   `json:"checked_in_count"`
		TotalCapacity       int     `json:"total_capacity"`
		CapacityPercentage  float64 `json:"capacity_percentage"`
		TotalRevenue        string  `json:"total_revenue"`
	}
}

type NoContentResponse struct{}

func (h *CampHandler) HandleList(ctx context.Context, _ *struct{}) (*CampListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	camps, err := h.camps.List(ctx, id)
	if err != nil {
		return nil, apiError(h.log, "list camps", err)
	}
	return &CampListResponse{Body: mapSlice(camps, campOut)}, nil
}

func (h *CampHandler) HandleCreate(ctx context.Context, input *CreateCampRequest) (*CampResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	b := input.Body
	camp, err := h.camps.Create(ctx, id, service.CampInput{
		Name:                 b.Name,
		Description:          b.Description,
		Location:             b.Location,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
		RegistrationDeadline: b.RegistrationDeadline,
		BaseFee:              decimal.NewFromFloat(b.BaseFee),
		Capacity:             b.Capacity,
		IsActive:             b.IsActive,
	})
	if err != nil {
		return nil, apiError(h.log, "create camp", err)
	}
	return &CampResponse{Body: campOut(*camp)}, nil
}

func (h *CampHandler) HandleGet(ctx context.Context, input *CampPath) (*CampResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	camp, err := h.camps.Get(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "get camp", err)
	}
	return &CampResponse{Body: campOut(*camp)}, nil
}

func (h *CampHandler) HandleUpdate(ctx context.Context, input *UpdateCampRequest) (*CampResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	b := input.Body
	patch := service.CampPatch{
		Name:                 b.Name,
		Description:          b.Description,
		Location:             b.Location,
		StartDate:            b.StartDate,
		EndDate:              b.EndDate,
		RegistrationDeadline: b.RegistrationDeadline,
		Capacity:             b.Capacity,
		IsActive:             b.IsActive,
	}
	if b.BaseFee != nil {
		fee := decimal.NewFromFloat(*b.BaseFee)
		patch.BaseFee = &fee
	}
	camp, err := h.camps.Update(ctx, id, input.CampID, patch)
	if err != nil {
		return nil, apiError(h.log, "update camp", err)
	}
	return &CampResponse{Body: campOut(*camp)}, nil
}

func (h *CampHandler) HandleDelete(ctx context.Context, input *CampPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.camps.Delete(ctx, id, input.CampID); err != nil {
		return nil, apiError(h.log, "delete camp", err)
	}
	return &NoContentResponse{}, nil
}

func (h *CampHandler) HandleStats(ctx context.Context, input *CampPath) (*CampStatsResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := h.camps.Stats(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "camp stats", err)
	}
	res := &CampStatsResponse{}
	res.Body.CampID = stats.CampID
	res.Body.TotalRegistrations = stats.TotalRegistrations
	res.Body.PaidRegistrations = stats.PaidRegistrations
	res.Body.UnpaidRegistrations = stats.UnpaidRegistrations
	res.Body.CheckedInCount = stats.CheckedInCount
	res.Body.TotalCapacity = stats.TotalCapacity
	res.Body.CapacityPercentage = stats.CapacityPercentage
	res.Body.TotalRevenue = money(stats.TotalRevenue)
	return res, nil
}
