package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// CreateReservationRequest - запрос на создание брони
type CreateReservationRequest struct {
	UserID    uuid.UUID `json:"user_id"`
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Purpose   string    `json:"purpose,omitempty"`
}

// Service содержит бизнес-логику бронирования автомобилей
type Service struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр ReservationService
func NewService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		logger:          logger,
	}
}

// CreateReservation создает бронь. Проверка пересечения и вставка выполняются
// атомарно на стороне хранилища, поэтому два конкурирующих запроса на одно
// окно не могут пройти оба.
func (s *Service) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*domain.Reservation, error) {
	s.logger.Info("Creating reservation", map[string]interface{}{
		"user_id":    req.UserID,
		"vehicle_id": req.VehicleID,
	})

	// Проверяем, что автомобиль существует и активен
	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsActive {
		return nil, domain.ErrVehicleInactive
	}

	reservation := &domain.Reservation{
		UserID:    req.UserID,
		VehicleID: req.VehicleID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.ReservationPending,
		Purpose:   req.Purpose,
	}

	// Валидация: start_time строго раньше end_time
	if err := reservation.Validate(); err != nil {
		return nil, err
	}

	// Атомарная проверка пересечения + вставка
	if err := s.reservationRepo.CreateIfAvailable(ctx, reservation); err != nil {
		if err == domain.ErrReservationOverlap {
			s.logger.Warn("Reservation window conflict", map[string]interface{}{
				"vehicle_id": req.VehicleID,
				"start_time": req.StartTime,
				"end_time":   req.EndTime,
			})
			return nil, domain.ErrReservationOverlap
		}
		s.logger.Error("Failed to create reservation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID,
	})

	return reservation, nil
}

// IsAvailable проверяет, свободно ли окно [start, end] для автомобиля.
// Используется для предварительной подсказки в интерфейсе: авторитетная
// проверка выполняется в транзакции создания.
func (s *Service) IsAvailable(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, domain.ErrInvalidTimeRange
	}

	hasOverlap, err := s.reservationRepo.HasOverlap(ctx, vehicleID, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}

	return !hasOverlap, nil
}

// CancelReservation отменяет бронь. Разрешено только владельцу (или
// администратору) и только пока бронь в статусе pending: повторная отмена
// возвращает ошибку.
func (s *Service) CancelReservation(ctx context.Context, id, callerID uuid.UUID, callerRole domain.UserRole) error {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if reservation.UserID != callerID && callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	err = s.reservationRepo.UpdateStatus(ctx, id,
		domain.ReservationPending, domain.ReservationCancelled)
	if err != nil {
		return err
	}

	s.logger.Info("Reservation cancelled", map[string]interface{}{
		"reservation_id": id,
	})

	return nil
}

// GetReservationByID возвращает бронь по ID
func (s *Service) GetReservationByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// GetMyReservations возвращает брони пользователя
func (s *Service) GetMyReservations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	return s.reservationRepo.GetByUserID(ctx, userID, limit, offset)
}

// GetVehicleReservations возвращает брони автомобиля
func (s *Service) GetVehicleReservations(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	return s.reservationRepo.GetByVehicleID(ctx, vehicleID, limit, offset)
}
