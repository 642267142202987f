package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// StartTripRequest - запрос на начало поездки
type StartTripRequest struct {
	UserID       uuid.UUID `json:"user_id"`
	VehicleID    uuid.UUID `json:"vehicle_id" validate:"required"`
	Destination  string    `json:"destination" validate:"required"`
	Purpose      string    `json:"purpose,omitempty"`
	StartMileage int       `json:"start_mileage"`
}

// StartFromReservationRequest - запрос на начало поездки по брони
type StartFromReservationRequest struct {
	UserID        uuid.UUID `json:"user_id"`
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	Destination   string    `json:"destination" validate:"required"`
	StartMileage  int       `json:"start_mileage"`
}

// EndTripRequest - запрос на завершение поездки
type EndTripRequest struct {
	TripID         uuid.UUID       `json:"trip_id"`
	CallerID       uuid.UUID       `json:"-"`
	CallerRole     domain.UserRole `json:"-"`
	EndMileage     int             `json:"end_mileage"`
	ParkingFloor   *int            `json:"parking_floor,omitempty"`
	ParkingSpot    string          `json:"parking_spot,omitempty"`
	RangeRemaining *int            `json:"range_remaining,omitempty"`
}

// StartCheckResponse - данные для экрана начала поездки.
// LowRange - предупреждение о малом остатке хода (не блокирует начало поездки).
type StartCheckResponse struct {
	Vehicle        *domain.Vehicle `json:"vehicle"`
	LastMileage    *int            `json:"last_mileage,omitempty"`
	RangeRemaining *int            `json:"range_remaining,omitempty"`
	LowRange       bool            `json:"low_range"`
}

// Service содержит бизнес-логику жизненного цикла поездок
type Service struct {
	tripRepo        repository.TripRepository
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр TripService
func NewService(
	tripRepo repository.TripRepository,
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		tripRepo:        tripRepo,
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		logger:          logger,
	}
}

// StartTrip начинает новую поездку
func (s *Service) StartTrip(ctx context.Context, req *StartTripRequest) (*domain.Trip, error) {
	s.logger.Info("Starting trip", map[string]interface{}{
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

	// У пользователя не должно быть другой активной поездки
	if _, err := s.tripRepo.GetActiveByUser(ctx, req.UserID); err == nil {
		return nil, domain.ErrActiveTripExists
	} else if err != domain.ErrTripNotFound {
		return nil, fmt.Errorf("failed to check active trip: %w", err)
	}

	trip := &domain.Trip{
		UserID:       req.UserID,
		VehicleID:    req.VehicleID,
		Destination:  req.Destination,
		Purpose:      req.Purpose,
		StartMileage: req.StartMileage,
		StartTime:    time.Now(),
		IsActive:     true,
	}

	// Валидация: пункт назначения 3-200 символов, пробег 0..999999
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		s.logger.Error("Failed to create trip", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Info("Trip started", map[string]interface{}{
		"trip_id": trip.ID,
	})

	return trip, nil
}

// StartTripFromReservation начинает поездку по брони. Создание поездки и
// перевод брони pending -> active выполняются в одной транзакции хранилища:
// либо обе записи проходят, либо ни одной.
func (s *Service) StartTripFromReservation(ctx context.Context, req *StartFromReservationRequest) (*domain.Trip, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	// Поездку по брони начинает только ее владелец
	if reservation.UserID != req.UserID {
		return nil, domain.ErrForbidden
	}

	if reservation.Status != domain.ReservationPending {
		return nil, domain.ErrReservationNotPending
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsActive {
		return nil, domain.ErrVehicleInactive
	}

	// У пользователя не должно быть другой активной поездки
	if _, err := s.tripRepo.GetActiveByUser(ctx, req.UserID); err == nil {
		return nil, domain.ErrActiveTripExists
	} else if err != domain.ErrTripNotFound {
		return nil, fmt.Errorf("failed to check active trip: %w", err)
	}

	trip := &domain.Trip{
		UserID:       reservation.UserID,
		VehicleID:    reservation.VehicleID,
		Destination:  req.Destination,
		Purpose:      reservation.Purpose,
		StartMileage: req.StartMileage,
		StartTime:    time.Now(),
		IsActive:     true,
	}

	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := s.tripRepo.CreateFromReservation(ctx, trip, reservation.ID); err != nil {
		s.logger.Error("Failed to start trip from reservation", map[string]interface{}{
			"reservation_id": reservation.ID,
			"error":          err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Trip started from reservation", map[string]interface{}{
		"trip_id":        trip.ID,
		"reservation_id": reservation.ID,
	})

	return trip, nil
}

// EndTrip завершает поездку. Переход односторонний: конечный пробег должен
// быть не меньше начального, уже закрытая поездка не изменяется.
func (s *Service) EndTrip(ctx context.Context, req *EndTripRequest) (*domain.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	// Завершить поездку может только ее владелец или администратор
	if trip.UserID != req.CallerID && req.CallerRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if req.ParkingFloor != nil {
		if err := domain.ValidateParkingFloor(*req.ParkingFloor); err != nil {
			return nil, err
		}
	}

	// Проверки пробега и активности; при ошибке поездка остается активной
	if err := trip.Close(req.EndMileage, time.Now()); err != nil {
		return nil, err
	}

	trip.ParkingFloor = req.ParkingFloor
	trip.ParkingSpot = req.ParkingSpot
	trip.RangeRemaining = req.RangeRemaining

	if err := s.tripRepo.Close(ctx, trip); err != nil {
		s.logger.Error("Failed to close trip", map[string]interface{}{
			"trip_id": trip.ID,
			"error":   err.Error(),
		})
		return nil, err
	}

	// Если поездка была начата из брони, переводим бронь active -> completed
	if trip.ReservationID != nil {
		err := s.reservationRepo.UpdateStatus(ctx, *trip.ReservationID,
			domain.ReservationActive, domain.ReservationCompleted)
		if err != nil {
			// Не откатываем закрытие поездки: бронь доводится до completed
			// при следующем просмотре, а поездка уже закрыта корректно
			s.logger.Warn("Failed to complete reservation", map[string]interface{}{
				"reservation_id": *trip.ReservationID,
				"error":          err.Error(),
			})
		}
	}

	s.logger.Info("Trip ended", map[string]interface{}{
		"trip_id":     trip.ID,
		"end_mileage": req.EndMileage,
	})

	return trip, nil
}

// StartCheck возвращает данные для экрана начала поездки по QR токену
// автомобиля: последний пробег и предупреждение о малом остатке хода
func (s *Service) StartCheck(ctx context.Context, vehicleID uuid.UUID) (*StartCheckResponse, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	resp := &StartCheckResponse{Vehicle: vehicle}

	lastTrip, err := s.tripRepo.GetLastByVehicle(ctx, vehicleID)
	if err != nil {
		if err == domain.ErrTripNotFound {
			// Автомобиль еще не использовался
			return resp, nil
		}
		return nil, err
	}

	if lastTrip.EndMileage != nil {
		resp.LastMileage = lastTrip.EndMileage
	}
	resp.RangeRemaining = lastTrip.RangeRemaining
	resp.LowRange = lastTrip.IsLowRange()

	return resp, nil
}

// GetTripByID возвращает поездку по ID
func (s *Service) GetTripByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return s.tripRepo.GetByID(ctx, id)
}

// GetMyTrips возвращает поездки пользователя
func (s *Service) GetMyTrips(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Trip, error) {
	return s.tripRepo.GetByUserID(ctx, userID, limit, offset)
}

// GetActiveTrip возвращает активную поездку пользователя
func (s *Service) GetActiveTrip(ctx context.Context, userID uuid.UUID) (*domain.Trip, error) {
	return s.tripRepo.GetActiveByUser(ctx, userID)
}

// ListTrips возвращает список всех поездок (для администратора)
func (s *Service) ListTrips(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	return s.tripRepo.List(ctx, limit, offset)
}
