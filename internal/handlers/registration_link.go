package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/sirupsen/logrus"
)

type LinkHandler struct {
	links *service.LinkService
	log   *logrus.Logger
}

func NewLinkHandler(links *service.LinkService, log *logrus.Logger) *LinkHandler {
	return &LinkHandler{links: links, log: log}
}

type LinkBody struct {
	Name              string     `json:"name" minLength:"1" maxLength:"200"`
	AllowedCategories []string   `json:"allowed_categories,omitempty" doc:"Category IDs; empty allows every category"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty" minimum:"1"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

func (b LinkBody) input() service.LinkInput {
	return service.LinkInput{
		Name:              b.Name,
		AllowedCategories: b.AllowedCategories,
		ExpiresAt:         b.ExpiresAt,
		UsageLimit:        b.UsageLimit,
		IsActive:          b.IsActive,
	}
}

type CreateLinkRequest struct {
	CampPath
	Body LinkBody
}

type LinkPath struct {
	LinkID string `path:"link_id"`
}

type UpdateLinkRequest struct {
	LinkPath
	Body LinkBody
}

type LinkResponse struct {
	Body LinkOut
}

type LinkListResponse struct {
	Body []LinkOut
}

func (h *LinkHandler) HandleList(ctx context.Context, input *CampPath) (*LinkListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	links, err := h.links.List(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "list links", err)
	}
	return &LinkListResponse{Body: mapSlice(links, linkOut)}, nil
}

func (h *LinkHandler) HandleCreate(ctx context.Context, input *CreateLinkRequest) (*LinkResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	link, err := h.links.Create(ctx, id, input.CampID, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "create link", err)
	}
	return &LinkResponse{Body: linkOut(*link)}, nil
}

func (h *LinkHandler) HandleGet(ctx context.Context, input *LinkPath) (*LinkResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	link, err := h.links.Get(ctx, id, input.LinkID)
	if err != nil {
		return nil, apiError(h.log, "get link", err)
	}
	return &LinkResponse{Body: linkOut(*link)}, nil
}

// HandleUpdate replaces the link's settings. Omitted optional settings are
// cleared.
func (h *LinkHandler) HandleUpdate(ctx context.Context, input *UpdateLinkRequest) (*LinkResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	link, err := h.links.Update(ctx, id, input.LinkID, input.Body.input())
	if err != nil {
		return nil, apiError(h.log, "update link", err)
	}
	return &LinkResponse{Body: linkOut(*link)}, nil
}

func (h *LinkHandler) HandleToggle(ctx context.Context, input *LinkPath) (*LinkResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	link, err := h.links.Toggle(ctx, id, input.LinkID)
	if err != nil {
		return nil, apiError(h.log, "toggle link", err)
	}
	return &LinkResponse{Body: linkOut(*link)}, nil
}

func (h *LinkHandler) HandleDelete(ctx context.Context, input *LinkPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.links.Delete(ctx, id, input.LinkID); err != nil {
		return nil, apiError(h.log, "delete link", err)
	}
	return &NoContentResponse{}, nil
}
