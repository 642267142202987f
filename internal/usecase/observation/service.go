package observation

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// CreateObservationRequest - запрос на создание заметки
type CreateObservationRequest struct {
	UserID      uuid.UUID              `json:"user_id"`
	VehicleID   uuid.UUID              `json:"vehicle_id" validate:"required"`
	TripID      *uuid.UUID             `json:"trip_id,omitempty"`
	Type        domain.ObservationType `json:"type" validate:"required"`
	Description string                 `json:"description" validate:"required"`
}

// Service содержит бизнес-логику заметок об автомобилях
type Service struct {
	observationRepo repository.ObservationRepository
	vehicleRepo     repository.VehicleRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр ObservationService
func NewService(
	observationRepo repository.ObservationRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		observationRepo: observationRepo,
		vehicleRepo:     vehicleRepo,
		logger:          logger,
	}
}

// CreateObservation создает новую заметку об автомобиле
func (s *Service) CreateObservation(ctx context.Context, req *CreateObservationRequest) (*domain.Observation, error) {
	// Проверяем, что автомобиль существует
	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	observation := &domain.Observation{
		VehicleID:   req.VehicleID,
		UserID:      req.UserID,
		TripID:      req.TripID,
		Type:        req.Type,
		Description: req.Description,
	}

	if err := observation.Validate(); err != nil {
		return nil, err
	}

	if err := s.observationRepo.Create(ctx, observation); err != nil {
		s.logger.Error("Failed to create observation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	s.logger.Info("Observation created", map[string]interface{}{
		"observation_id": observation.ID,
		"vehicle_id":     observation.VehicleID,
		"type":           observation.Type,
	})

	return observation, nil
}

// GetVehicleObservations возвращает заметки автомобиля
func (s *Service) GetVehicleObservations(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Observation, error) {
	return s.observationRepo.GetByVehicleID(ctx, vehicleID, limit, offset)
}

// ResolveObservation переводит заметку в состояние "решено".
// Уже решенная заметка не изменяется - возвращается ошибка.
func (s *Service) ResolveObservation(ctx context.Context, id, resolvedBy uuid.UUID) error {
	if err := s.observationRepo.Resolve(ctx, id, resolvedBy); err != nil {
		return err
	}

	s.logger.Info("Observation resolved", map[string]interface{}{
		"observation_id": id,
		"resolved_by":    resolvedBy,
	})

	return nil
}

// ListObservations возвращает список всех заметок
func (s *Service) ListObservations(ctx context.Context, limit, offset int) ([]*domain.Observation, error) {
	return s.observationRepo.List(ctx, limit, offset)
}
