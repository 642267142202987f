package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/stats"
	"github.com/google/uuid"
)

// StatsService определяет интерфейс для сервиса статистики
type StatsService interface {
	UserLeaderboard(ctx context.Context) ([]*stats.UserDistance, error)
	FleetUtilization(ctx context.Context) ([]*stats.VehicleUsage, error)
	MyStats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error)
}

// StatsHandler обрабатывает запросы статистики
type StatsHandler struct {
	statsService StatsService
	logger       logger.Logger
}

// NewStatsHandler создает новый handler
func NewStatsHandler(statsService StatsService, logger logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetMyStats возвращает персональную статистику текущего пользователя
// GET /api/v1/stats/me
func (h *StatsHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.statsService.MyStats(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get user stats", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// GetLeaderboard возвращает рейтинг пользователей по пробегу (только администратор)
// GET /api/v1/stats/leaderboard
func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.UserLeaderboard(r.Context())
	if err != nil {
		h.logger.Error("Failed to get leaderboard", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// GetFleetUtilization возвращает статистику автопарка (только администратор)
// GET /api/v1/stats/fleet
func (h *StatsHandler) GetFleetUtilization(w http.ResponseWriter, r *http.Request) {
	result, err := h.statsService.FleetUtilization(r.Context())
	if err != nil {
		h.logger.Error("Failed to get fleet utilization", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get fleet utilization")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}
