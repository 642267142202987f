package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/trip"
	"github.com/google/uuid"
)

// TripService определяет интерфейс для сервиса поездок
type TripService interface {
	StartTrip(ctx context.Context, req *trip.StartTripRequest) (*domain.Trip, error)
	StartTripFromReservation(ctx context.Context, req *trip.StartFromReservationRequest) (*domain.Trip, error)
	EndTrip(ctx context.Context, req *trip.EndTripRequest) (*domain.Trip, error)
	StartCheck(ctx context.Context, vehicleID uuid.UUID) (*trip.StartCheckResponse, error)
	GetMyTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Trip, error)
	GetActiveTrip(ctx context.Context, userID uuid.UUID) (*domain.Trip, error)
	ListTrips(ctx context.Context, limit, offset int) ([]*domain.Trip, error)
}

// TripHandler обрабатывает запросы связанные с поездками
type TripHandler struct {
	tripService TripService
	logger      logger.Logger
}

// NewTripHandler создает новый handler
func NewTripHandler(tripService TripService, logger logger.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// StartTrip начинает новую поездку
// POST /api/v1/trips
func (h *TripHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req trip.StartTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Поездка всегда создается от имени текущего пользователя
	req.UserID = claims.UserID

	t, err := h.tripService.StartTrip(r.Context(), &req)
	if err != nil {
		h.respondTripError(w, err, "Failed to start trip")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    t,
	})
}

// StartTripFromReservation начинает поездку по брони
// POST /api/v1/trips/from-reservation
func (h *TripHandler) StartTripFromReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req trip.StartFromReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.UserID = claims.UserID

	t, err := h.tripService.StartTripFromReservation(r.Context(), &req)
	if err != nil {
		h.respondTripError(w, err, "Failed to start trip from reservation")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    t,
	})
}

// EndTrip завершает поездку
// PUT /api/v1/trips/{id}/end
func (h *TripHandler) EndTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tripID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	var req trip.EndTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.TripID = tripID
	req.CallerID = claims.UserID
	req.CallerRole = claims.Role

	t, err := h.tripService.EndTrip(r.Context(), &req)
	if err != nil {
		h.respondTripError(w, err, "Failed to end trip")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    t,
	})
}

// StartCheck возвращает данные для экрана начала поездки
// GET /api/v1/vehicles/{id}/start-check
func (h *TripHandler) StartCheck(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	check, err := h.tripService.StartCheck(r.Context(), vehicleID)
	if err != nil {
		if err == domain.ErrVehicleNotFound {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("Failed to run start check", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to run start check")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    check,
	})
}

// GetMyTrips возвращает поездки текущего пользователя
// GET /api/v1/trips/me
func (h *TripHandler) GetMyTrips(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := getPagination(r)

	trips, err := h.tripService.GetMyTrips(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get user trips", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get trips")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    trips,
	})
}

// GetActiveTrip возвращает активную поездку текущего пользователя
// GET /api/v1/trips/active
func (h *TripHandler) GetActiveTrip(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	t, err := h.tripService.GetActiveTrip(r.Context(), claims.UserID)
	if err != nil {
		if err == domain.ErrTripNotFound {
			respondError(w, http.StatusNotFound, "No active trip")
			return
		}
		h.logger.Error("Failed to get active trip", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get active trip")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    t,
	})
}

// ListTrips возвращает все поездки (только администратор)
// GET /api/v1/trips
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	limit, offset := getPagination(r)

	trips, err := h.tripService.ListTrips(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list trips", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get trips")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    trips,
	})
}

// respondTripError преобразует доменные ошибки поездок в HTTP коды
func (h *TripHandler) respondTripError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case domain.ErrInvalidDestination, domain.ErrInvalidMileage,
		domain.ErrMileageBelowStart, domain.ErrInvalidParkingFloor:
		respondError(w, http.StatusBadRequest, err.Error())
	case domain.ErrTripAlreadyEnded, domain.ErrActiveTripExists,
		domain.ErrReservationNotPending, domain.ErrVehicleInactive:
		respondError(w, http.StatusConflict, err.Error())
	case domain.ErrForbidden:
		respondError(w, http.StatusForbidden, "Forbidden")
	case domain.ErrTripNotFound, domain.ErrVehicleNotFound, domain.ErrReservationNotFound:
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
