package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/camp-registration-api/internal/database"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewHealthHandler(db *gorm.DB, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

type HealthResponse struct {
	Body struct {
		Status   string `json:"status" example:"ok"`
		Database string `json:"database" example:"ok"`
	}
}

func (h *HealthHandler) HandleHealth(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.log.WithError(err).Error("health check failed")
		return nil, huma.Error503ServiceUnavailable("database unavailable")
	}
	res := &HealthResponse{}
	res.Body.Status = "ok"
	res.Body.Database = "ok"
	return res, nil
}
