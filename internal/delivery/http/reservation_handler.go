package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/usecase/reservation"
	"github.com/google/uuid"
)

// ReservationService определяет интерфейс для сервиса бронирования
type ReservationService interface {
	CreateReservation(ctx context.Context, req *reservation.CreateReservationRequest) (*domain.Reservation, error)
	IsAvailable(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error)
	CancelReservation(ctx context.Context, id, callerID uuid.UUID, callerRole domain.UserRole) error
	GetMyReservations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error)
	GetVehicleReservations(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Reservation, error)
}

// ReservationHandler обрабатывает запросы связанные с бронями
type ReservationHandler struct {
	reservationService ReservationService
	logger             logger.Logger
}

// NewReservationHandler создает новый handler
func NewReservationHandler(reservationService ReservationService, logger logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		logger:             logger,
	}
}

// CreateReservation создает новую бронь
// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req reservation.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Бронь всегда создается от имени текущего пользователя
	req.UserID = claims.UserID

	res, err := h.reservationService.CreateReservation(r.Context(), &req)
	if err != nil {
		switch err {
		case domain.ErrReservationOverlap:
			respondError(w, http.StatusConflict, "Vehicle is already reserved for this time window")
		case domain.ErrInvalidTimeRange, domain.ErrInvalidReservationData:
			respondError(w, http.StatusBadRequest, err.Error())
		case domain.ErrVehicleNotFound:
			respondError(w, http.StatusNotFound, "Vehicle not found")
		case domain.ErrVehicleInactive:
			respondError(w, http.StatusConflict, "Vehicle is inactive")
		default:
			h.logger.Error("Failed to create reservation", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create reservation")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    res,
	})
}

// CheckAvailability проверяет доступность окна (подсказка для интерфейса)
// GET /api/v1/vehicles/{id}/availability?start=...&end=...
func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start time")
		return
	}

	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end time")
		return
	}

	available, err := h.reservationService.IsAvailable(r.Context(), vehicleID, start, end)
	if err != nil {
		if err == domain.ErrInvalidTimeRange {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to check availability", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to check availability")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"available": available,
		},
	})
}

// CancelReservation отменяет бронь
// DELETE /api/v1/reservations/{id}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reservationID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	err = h.reservationService.CancelReservation(r.Context(), reservationID, claims.UserID, claims.Role)
	if err != nil {
		switch err {
		case domain.ErrReservationNotFound:
			respondError(w, http.StatusNotFound, "Reservation not found")
		case domain.ErrReservationNotPending:
			respondError(w, http.StatusConflict, "Reservation is not pending")
		case domain.ErrForbidden:
			respondError(w, http.StatusForbidden, "Forbidden")
		default:
			h.logger.Error("Failed to cancel reservation", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// GetMyReservations возвращает брони текущего пользователя
// GET /api/v1/reservations/me
func (h *ReservationHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := getPagination(r)

	reservations, err := h.reservationService.GetMyReservations(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get user reservations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get reservations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    reservations,
	})
}

// GetVehicleReservations возвращает брони автомобиля (только администратор)
// GET /api/v1/vehicles/{id}/reservations
func (h *ReservationHandler) GetVehicleReservations(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	limit, offset := getPagination(r)

	reservations, err := h.reservationService.GetVehicleReservations(r.Context(), vehicleID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get vehicle reservations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get reservations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    reservations,
	})
}
