package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/observation"
	"github.com/google/uuid"
)

// ObservationService определяет интерфейс для сервиса заметок
type ObservationService interface {
	CreateObservation(ctx context.Context, req *observation.CreateObservationRequest) (*domain.Observation, error)
	GetVehicleObservations(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Observation, error)
	ResolveObservation(ctx context.Context, id, resolvedBy uuid.UUID) error
	ListObservations(ctx context.Context, limit, offset int) ([]*domain.Observation, error)
}

// ObservationHandler обрабатывает запросы связанные с заметками об автомобилях
type ObservationHandler struct {
	observationService ObservationService
	logger             logger.Logger
}

// NewObservationHandler создает новый handler
func NewObservationHandler(observationService ObservationService, logger logger.Logger) *ObservationHandler {
	return &ObservationHandler{
		observationService: observationService,
		logger:             logger,
	}
}

// CreateObservation создает новую заметку
// POST /api/v1/observations
func (h *ObservationHandler) CreateObservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req observation.CreateObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.UserID = claims.UserID

	obs, err := h.observationService.CreateObservation(r.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrInvalidObservationType, domain.ErrInvalidObservationData:
			respondError(w, http.StatusBadRequest, err.Error())
		case domain.ErrVehicleNotFound:
			respondError(w, http.StatusNotFound, "Vehicle not found")
		default:
			h.logger.Error("Failed to create observation", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create observation")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    obs,
	})
}

// GetVehicleObservations возвращает заметки автомобиля
// GET /api/v1/vehicles/{id}/observations
func (h *ObservationHandler) GetVehicleObservations(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	limit, offset := getPagination(r)

	observations, err := h.observationService.GetVehicleObservations(r.Context(), vehicleID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get vehicle observations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get observations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    observations,
	})
}

// ResolveObservation переводит заметку в состояние "решено" (только администратор)
// PUT /api/v1/observations/{id}/resolve
func (h *ObservationHandler) ResolveObservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	observationID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid observation ID")
		return
	}

	err = h.observationService.ResolveObservation(r.Context(), observationID, claims.UserID)
	if err != nil {
		switch err {
		case domain.ErrObservationNotFound:
			respondError(w, http.StatusNotFound, "Observation not found")
		case domain.ErrObservationResolved:
			respondError(w, http.StatusConflict, "Observation already resolved")
		default:
			h.logger.Error("Failed to resolve observation", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to resolve observation")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// ListObservations возвращает все заметки (только администратор)
// GET /api/v1/observations
func (h *ObservationHandler) ListObservations(w http.ResponseWriter, r *http.Request) {
	limit, offset := getPagination(r)

	observations, err := h.observationService.ListObservations(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list observations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get observations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    observations,
	})
}
