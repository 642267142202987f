package repository

import (
	"context"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// Delete удаляет пользователя (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список пользователей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает автомобиль по номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)

	// GetByQRToken возвращает автомобиль по QR токену
	// КЛЮЧЕВОЙ МЕТОД для экрана начала поездки (сканирование QR кода)
	GetByQRToken(ctx context.Context, qrToken string) (*domain.Vehicle, error)

	// Update обновляет данные автомобиля
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// Delete удаляет автомобиль (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список автомобилей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error)
}

// TripRepository определяет методы для работы с поездками
type TripRepository interface {
	// Create создает новую поездку
	Create(ctx context.Context, trip *domain.Trip) error

	// CreateFromReservation атомарно создает поездку и переводит бронь
	// из pending в active в одной транзакции
	CreateFromReservation(ctx context.Context, trip *domain.Trip, reservationID uuid.UUID) error

	// GetByID возвращает поездку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)

	// GetActiveByUser возвращает активную поездку пользователя (если есть)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Trip, error)

	// GetLastByVehicle возвращает последнюю поездку автомобиля
	GetLastByVehicle(ctx context.Context, vehicleID uuid.UUID) (*domain.Trip, error)

	// GetByUserID возвращает поездки пользователя
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Trip, error)

	// GetByVehicleID возвращает поездки автомобиля
	GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Trip, error)

	// ListClosed возвращает все закрытые поездки (для статистики)
	ListClosed(ctx context.Context) ([]*domain.Trip, error)

	// ListActive возвращает все активные поездки
	ListActive(ctx context.Context) ([]*domain.Trip, error)

	// Close закрывает поездку: записывает конечный пробег, время окончания
	// и данные парковки. Гарантирует односторонний переход - уже закрытая
	// поездка не изменяется.
	Close(ctx context.Context, trip *domain.Trip) error

	// List возвращает список всех поездок с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Trip, error)
}

// ReservationRepository определяет методы для работы с бронями
type ReservationRepository interface {
	// CreateIfAvailable атомарно проверяет отсутствие пересечения с бронями
	// статусов pending/active на тот же автомобиль и создает бронь в одной
	// транзакции. При пересечении возвращает domain.ErrReservationOverlap.
	CreateIfAvailable(ctx context.Context, reservation *domain.Reservation) error

	// HasOverlap проверяет пересечение окна [start, end] с бронями автомобиля
	// (только для чтения, вне транзакции создания)
	HasOverlap(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error)

	// GetByID возвращает бронь по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// GetByUserID возвращает брони пользователя
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error)

	// GetByVehicleID возвращает брони автомобиля
	GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Reservation, error)

	// UpdateStatus переводит бронь из ожидаемого статуса в новый.
	// Если текущий статус не совпадает с ожидаемым, возвращает
	// domain.ErrReservationNotPending при from == pending и
	// domain.ErrReservationStatusConflict для остальных переходов.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReservationStatus) error

	// List возвращает список всех броней с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Reservation, error)
}

// ObservationRepository определяет методы для работы с заметками об автомобилях
type ObservationRepository interface {
	// Create создает новую заметку
	Create(ctx context.Context, observation *domain.Observation) error

	// GetByID возвращает заметку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Observation, error)

	// GetByVehicleID возвращает заметки автомобиля
	GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Observation, error)

	// ListUnresolved возвращает все нерешенные заметки (для статистики)
	ListUnresolved(ctx context.Context) ([]*domain.Observation, error)

	// Resolve переводит заметку в состояние "решено". Уже решенная заметка
	// не изменяется - возвращается domain.ErrObservationResolved.
	Resolve(ctx context.Context, id, resolvedBy uuid.UUID) error

	// List возвращает список всех заметок с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Observation, error)
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllUserTokens отзывает все токены пользователя
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
