package handlers

import (
	"context"

	"github.com/gdg-garage/camp-registration-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	categories *service.CategoryService
	log        *logrus.Logger
}

func NewCategoryHandler(categories *service.CategoryService, log *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

type CreateCategoryRequest struct {
	CampPath
	Body struct {
		Name               string  `json:"name" minLength:"1" maxLength:"200"`
		DiscountPercentage float64 `json:"discount_percentage,omitempty" minimum:"0" maximum:"100"`
		DiscountAmount     float64 `json:"discount_amount,omitempty" minimum:"0"`
		IsDefault          bool    `json:"is_default,omitempty"`
	}
}

type CategoryPath struct {
	CategoryID string `path:"category_id"`
}

type UpdateCategoryRequest struct {
	CategoryPath
	Body struct {
		Name               *string  `json:"name,omitempty" maxLength:"200"`
		DiscountPercentage *float64 `json:"discount_percentage,omitempty" minimum:"0" maximum:"100"`
		DiscountAmount     *float64 `json:"discount_amount,omitempty" minimum:"0"`
		IsDefault          *bool    `json:"is_default,omitempty"`
	}
}

type CategoryResponse struct {
	Body CategoryOut
}

type CategoryListResponse struct {
	Body []CategoryOut
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func (h *CategoryHandler) HandleList(ctx context.Context, input *CampPath) (*CategoryListResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := h.categories.List(ctx, id, input.CampID)
	if err != nil {
		return nil, apiError(h.log, "list categories", err)
	}
	return &CategoryListResponse{Body: mapSlice(categories, categoryOut)}, nil
}

func (h *CategoryHandler) HandleCreate(ctx context.Context, input *CreateCategoryRequest) (*CategoryResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	category, err := h.categories.Create(ctx, id, input.CampID, service.CategoryInput{
		Name:               input.Body.Name,
		DiscountPercentage: decimal.NewFromFloat(input.Body.DiscountPercentage),
		DiscountAmount:     decimal.NewFromFloat(input.Body.DiscountAmount),
		IsDefault:          input.Body.IsDefault,
	})
	if err != nil {
		return nil, apiError(h.log, "create category", err)
	}
	return &CategoryResponse{Body: categoryOut(*category)}, nil
}

func (h *CategoryHandler) HandleUpdate(ctx context.Context, input *UpdateCategoryRequest) (*CategoryResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	category, err := h.categories.Update(ctx, id, input.CategoryID, service.CategoryPatch{
		Name:               input.Body.Name,
		DiscountPercentage: decimalPtr(input.Body.DiscountPercentage),
		DiscountAmount:     decimalPtr(input.Body.DiscountAmount),
		IsDefault:          input.Body.IsDefault,
	})
	if err != nil {
		return nil, apiError(h.log, "update category", err)
	}
	return &CategoryResponse{Body: categoryOut(*category)}, nil
}

func (h *CategoryHandler) HandleDelete(ctx context.Context, input *CategoryPath) (*NoContentResponse, error) {
	id, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.categories.Delete(ctx, id, input.CategoryID); err != nil {
		return nil, apiError(h.log, "delete category", err)
	}
	return &NoContentResponse{}, nil
}
