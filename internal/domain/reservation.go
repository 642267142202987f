package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus представляет статус брони
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"   // Ожидает начала поездки
	ReservationActive    ReservationStatus = "active"    // Поездка по брони начата
	ReservationCompleted ReservationStatus = "completed" // Поездка по брони завершена
	ReservationCancelled ReservationStatus = "cancelled" // Отменена пользователем
)

// Reservation - бронь автомобиля на временное окно
// ИНВАРИАНТ: для одного автомобиля окна броней со статусом pending/active
// не пересекаются. Граничное касание окон считается пересечением
// (проверка с включающими границами, как и в хранилище).
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	VehicleID uuid.UUID         `json:"vehicle_id"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Status    ReservationStatus `json:"status"`
	Purpose   string            `json:"purpose,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Blocks сообщает, занимает ли бронь автомобиль (участвует в проверке пересечения)
func (r *Reservation) Blocks() bool {
	return r.Status == ReservationPending || r.Status == ReservationActive
}

// Overlaps проверяет пересечение окна брони с окном [start, end].
// Границы включающие: existing.start <= end AND existing.end >= start.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartTime.After(end) && !r.EndTime.Before(start)
}

// Validate проверяет корректность данных брони
func (r *Reservation) Validate() error {
	if r.UserID == uuid.Nil || r.VehicleID == uuid.Nil {
		return ErrInvalidReservationData
	}
	if !r.StartTime.Before(r.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Cancel отменяет бронь. Разрешено только из статуса pending:
// повторная отмена и отмена уже активной брони - ошибка.
func (r *Reservation) Cancel() error {
	if r.Status != ReservationPending {
		return ErrReservationNotPending
	}
	r.Status = ReservationCancelled
	r.UpdatedAt = time.Now()
	return nil
}
