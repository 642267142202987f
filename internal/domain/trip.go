package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ограничения на данные поездки
const (
	MinDestinationLen = 3
	MaxDestinationLen = 200
	MaxMileage        = 999999
	MinParkingFloor   = 0
	MaxParkingFloor   = 7

	// LowRangeThresholdKm - остаток хода, ниже которого показываем предупреждение
	LowRangeThresholdKm = 130
)

// Trip - одна поездка на автомобиле
// Поездка активна, пока не записан конечный пробег и время окончания.
// Закрытая поездка не может быть открыта заново.
type Trip struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	VehicleID      uuid.UUID  `json:"vehicle_id"`
	ReservationID  *uuid.UUID `json:"reservation_id,omitempty"` // Если поездка начата из брони
	Destination    string     `json:"destination"`
	Purpose        string     `json:"purpose,omitempty"`
	StartMileage   int        `json:"start_mileage"`
	EndMileage     *int       `json:"end_mileage,omitempty"` // NULL пока поездка активна
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	IsActive       bool       `json:"is_active"`
	ParkingFloor   *int       `json:"parking_floor,omitempty"` // Этаж парковки 0-7
	ParkingSpot    string     `json:"parking_spot,omitempty"`
	RangeRemaining *int       `json:"range_remaining,omitempty"` // Остаток хода в км
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Distance возвращает пройденное расстояние закрытой поездки.
// Для активной поездки расстояние не определено (ok == false).
func (t *Trip) Distance() (int, bool) {
	if t.EndMileage == nil {
		return 0, false
	}
	return *t.EndMileage - t.StartMileage, true
}

// IsLowRange сообщает, нужно ли предупредить о малом остатке хода
func (t *Trip) IsLowRange() bool {
	return t.RangeRemaining != nil && *t.RangeRemaining < LowRangeThresholdKm
}

// ValidateDestination проверяет пункт назначения (3-200 символов после обрезки пробелов)
func ValidateDestination(destination string) (string, error) {
	trimmed := strings.TrimSpace(destination)
	if len([]rune(trimmed)) < MinDestinationLen || len([]rune(trimmed)) > MaxDestinationLen {
		return "", ErrInvalidDestination
	}
	return trimmed, nil
}

// ValidateMileage проверяет значение пробега (целое, 0..999999 включительно)
func ValidateMileage(mileage int) error {
	if mileage < 0 || mileage > MaxMileage {
		return ErrInvalidMileage
	}
	return nil
}

// ValidateParkingFloor проверяет этаж парковки
func ValidateParkingFloor(floor int) error {
	if floor < MinParkingFloor || floor > MaxParkingFloor {
		return ErrInvalidParkingFloor
	}
	return nil
}

// Validate проверяет корректность данных поездки перед созданием
func (t *Trip) Validate() error {
	if t.UserID == uuid.Nil || t.VehicleID == uuid.Nil {
		return ErrInvalidUserData
	}

	destination, err := ValidateDestination(t.Destination)
	if err != nil {
		return err
	}
	t.Destination = destination

	if err := ValidateMileage(t.StartMileage); err != nil {
		return err
	}

	return nil
}

// Close закрывает поездку. Переход односторонний: конечный пробег должен быть
// не меньше начального, для уже закрытой поездки возвращается ошибка.
func (t *Trip) Close(endMileage int, endTime time.Time) error {
	if !t.IsActive || t.EndMileage != nil {
		return ErrTripAlreadyEnded
	}
	if err := ValidateMileage(endMileage); err != nil {
		return err
	}
	if endMileage < t.StartMileage {
		return ErrMileageBelowStart
	}

	t.EndMileage = &endMileage
	t.EndTime = &endTime
	t.IsActive = false
	t.UpdatedAt = endTime
	return nil
}
