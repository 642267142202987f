package vehicle

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на создание автомобиля
type CreateVehicleRequest struct {
	Name         string `json:"name" validate:"required"`
	LicensePlate string `json:"license_plate" validate:"required"`
	Model        string `json:"model,omitempty"`
}

// UpdateVehicleRequest - запрос на обновление автомобиля
type UpdateVehicleRequest struct {
	Name         string `json:"name" validate:"required"`
	LicensePlate string `json:"license_plate" validate:"required"`
	Model        string `json:"model,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// Service содержит бизнес-логику работы с автомобилями
type Service struct {
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(vehicleRepo repository.VehicleRepository, logger logger.Logger) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// CreateVehicle создает новый автомобиль с уникальным QR токеном
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"name":          req.Name,
		"license_plate": req.LicensePlate,
	})

	// Проверяем, что автомобиль с таким номером еще не зарегистрирован
	existingVehicle, err := s.vehicleRepo.GetByLicensePlate(ctx, req.LicensePlate)
	if err != nil && err != domain.ErrVehicleNotFound {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}

	if existingVehicle != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"license_plate": req.LicensePlate,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	// Создаем автомобиль
	vehicle := &domain.Vehicle{
		Name:         req.Name,
		LicensePlate: req.LicensePlate,
		QRToken:      domain.NewQRToken(),
		Model:        req.Model,
		IsActive:     true,
	}

	// Валидируем данные
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	// Сохраняем в БД
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicleByID возвращает автомобиль по ID
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// GetVehicleByQRToken возвращает автомобиль по QR токену
func (s *Service) GetVehicleByQRToken(ctx context.Context, qrToken string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}

	if !vehicle.IsActive {
		return nil, domain.ErrVehicleInactive
	}

	return vehicle, nil
}

// ListVehicles возвращает список автомобилей
func (s *Service) ListVehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx, limit, offset)
}

// UpdateVehicle обновляет данные автомобиля
func (s *Service) UpdateVehicle(ctx context.Context, id uuid.UUID, req *UpdateVehicleRequest) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.Name = req.Name
	vehicle.LicensePlate = req.LicensePlate
	vehicle.Model = req.Model
	if req.IsActive != nil {
		vehicle.IsActive = *req.IsActive
	}

	// Валидируем данные
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// DeleteVehicle удаляет автомобиль (мягкое удаление)
func (s *Service) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return s.vehicleRepo.Delete(ctx, id)
}
