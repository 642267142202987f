package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/redis"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	qrTokenCachePrefix = "vehicle:qr:"
	qrTokenCacheTTL    = 1 * time.Hour
)

// VehicleRepository добавляет кэширование к vehicle repository.
// Кэшируется только поиск по QR токену: это горячий путь экрана начала
// поездки (каждое сканирование QR кода), остальные методы ходят в БД.
type VehicleRepository struct {
	repo  repository.VehicleRepository
	cache *redis.Client
}

// NewVehicleRepository создает новый кэширующий vehicle repository
func NewVehicleRepository(repo repository.VehicleRepository, cache *redis.Client) repository.VehicleRepository {
	return &VehicleRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetByQRToken возвращает автомобиль по QR токену (с кэшированием)
func (r *VehicleRepository) GetByQRToken(ctx context.Context, qrToken string) (*domain.Vehicle, error) {
	cacheKey := qrTokenCachePrefix + qrToken

	// 1. Проверяем кэш
	cachedData, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		vehicle := &domain.Vehicle{}
		if err := json.Unmarshal([]byte(cachedData), vehicle); err == nil {
			return vehicle, nil
		}
		// Битое значение в кэше - сбрасываем и идем в БД
		_ = r.cache.Del(ctx, cacheKey)
	} else if err != redisv9.Nil {
		// Ошибка кэша не фатальна - продолжаем работу с БД
	}

	// 2. Cache miss - идем в БД
	vehicle, err := r.repo.GetByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем результат в кэш (ошибку записи игнорируем)
	if data, err := json.Marshal(vehicle); err == nil {
		_ = r.cache.Set(ctx, cacheKey, string(data), qrTokenCacheTTL)
	}

	return vehicle, nil
}

// Create создает автомобиль (кэш не трогаем - токен новый)
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.repo.Create(ctx, vehicle)
}

// GetByID возвращает автомобиль по ID (без кэширования)
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return r.repo.GetByID(ctx, id)
}

// GetByLicensePlate возвращает автомобиль по номеру (без кэширования)
func (r *VehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	return r.repo.GetByLicensePlate(ctx, licensePlate)
}

// Update обновляет автомобиль и инвалидирует кэш его QR токена
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := r.repo.Update(ctx, vehicle); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, qrTokenCachePrefix+vehicle.QRToken)
	return nil
}

// Delete удаляет автомобиль и инвалидирует кэш его QR токена
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, qrTokenCachePrefix+vehicle.QRToken)
	return nil
}

// List возвращает список автомобилей (без кэширования - используется редко)
func (r *VehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	return r.repo.List(ctx, limit, offset)
}
