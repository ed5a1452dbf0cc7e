package health

import (
	"net/http"

	"gorm.io/gorm"

	"social-api/internal/shared/httpx"
)

type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) error {
	database := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		database = "disconnected"
	}
	httpx.WriteJSON(w, map[string]string{
		"status":   "healthy",
		"database": database,
		"cache":    "active",
	}, http.StatusOK)
	return nil
}
