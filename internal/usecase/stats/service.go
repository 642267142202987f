package stats

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleettrack/internal/pkg/logger"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
)

// UserStats - персональная статистика пользователя
type UserStats struct {
	TotalDistance int `json:"total_distance"`
	TripCount     int `json:"trip_count"`
}

// Service агрегирует историю поездок в статистику
type Service struct {
	tripRepo        repository.TripRepository
	observationRepo repository.ObservationRepository
	logger          logger.Logger
}

// NewService создает новый экземпляр StatsService
func NewService(
	tripRepo repository.TripRepository,
	observationRepo repository.ObservationRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		tripRepo:        tripRepo,
		observationRepo: observationRepo,
		logger:          logger,
	}
}

// UserLeaderboard возвращает рейтинг пользователей по суммарному пробегу
func (s *Service) UserLeaderboard(ctx context.Context) ([]*UserDistance, error) {
	trips, err := s.tripRepo.ListClosed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed trips: %w", err)
	}

	return RankUsersByDistance(trips), nil
}

// FleetUtilization возвращает статистику использования автомобилей
func (s *Service) FleetUtilization(ctx context.Context) ([]*VehicleUsage, error) {
	trips, err := s.tripRepo.ListClosed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed trips: %w", err)
	}

	observations, err := s.observationRepo.ListUnresolved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	return VehicleUtilization(trips, observations), nil
}

// MyStats возвращает персональную статистику пользователя
func (s *Service) MyStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	trips, err := s.tripRepo.ListClosed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed trips: %w", err)
	}

	result := &UserStats{}
	for _, trip := range trips {
		if trip.UserID != userID {
			continue
		}
		if distance, ok := trip.Distance(); ok {
			result.TotalDistance += distance
			result.TripCount++
		}
	}

	return result, nil
}
