package handlers

import (
	"context"
	"net/http"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

type ChurchHandler struct {
	churches *service.ChurchService
	log      *logrus.Logger
}

func NewChurchHandler(churches *service.ChurchService, log *logrus.Logger) *ChurchHandler {
	return &ChurchHandler{churches: churches, log: log}
}

type ChurchBody struct {
	Name     string `json:"name" minLength:"1" maxLength:"200"`
	District string `json:"district,omitempty" maxLength:"200"`
	Area     string `json:"area,omitempty" maxLength:"200"`
}

func (b ChurchBody) input() service.ChurchInput {
	return service.ChurchInput{Name: b.Name, District: b.District, Area: b.Area}
}

type CreateChurchRequest struct {
	CampPath
	Body ChurchBody
}

type CreateChurchesRequest struct {
	CampPath
	Body struct {
		Churches []ChurchBody `json:"churches" minItems:"1" maxItems:"500"`
	}
}

type ChurchPath struct {
	ChurchID string `path:"church_id"`
}

type UpdateChurchRequest struct {
	ChurchPath
	Body ChurchBody
}

type ChurchResponse struct {
	Status int
	Body   ChurchOut
}

type ChurchListResponse struct {
	Body []ChurchOut
}

func (h *ChurchHandler) HandleList(ctx context.Context, input *CampPath) (*ChurchListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	churches, err := h.churches.List(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "list churches", err)
	}
	return &ChurchListResponse{Body: mapSlice(churches, churchOut)}, nil
}

// HandleCreate answers 201 for a new church and 200 when an identical church
// already existed.
func (h *ChurchHandler) HandleCreate(ctx context.Context, input *CreateChurchRequest) (*ChurchResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	church, created, err := h.churches.Create(ctx, id, input.CampID, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "create church", err)
	}
	res := &ChurchResponse{Status: http.StatusOK, Body: churchOut(*church)}
	if created {
		res.Status = http.StatusCreated
	}
	return res, nil
}

func (h *ChurchHandler) HandleCreateBatch(ctx context.Context, input *CreateChurchesRequest) (*ChurchListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	in := mapSlice(input.Body.Churches, ChurchBody.input)
	churches, err := h.churches.CreateBatch(ctx, id, input.CampID, in)
	if err != nil {
		return nil, apiError(h.log, "create churches", err)
	}
	return &ChurchListResponse{Body: mapSlice(churches, churchOut)}, nil
}

func (h *ChurchHandler) HandleUpdate(ctx context.Context, input *UpdateChurchRequest) (*ChurchResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	church, err := h.churches.Update(ctx, id, input.ChurchID, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "update church", err)
	}
	return &ChurchResponse{Status: http.StatusOK, Body: churchOut(*church)}, nil
}

func (h *ChurchHandler) HandleDelete(ctx context.Context, input *ChurchPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.churches.Delete(ctx, id, input.ChurchID); err != nil {
		return nil, apiError(h.log, "delete church", err)
	}
	return &NoContentResponse{}, nil
}
