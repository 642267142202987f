package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObservationType представляет тип заметки об автомобиле
type ObservationType string

const (
	ObservationIssue       ObservationType = "issue"       // Неисправность
	ObservationNote        ObservationType = "note"        // Обычная заметка
	ObservationMaintenance ObservationType = "maintenance" // Обслуживание
)

// Observation - заметка об автомобиле
// Создается любым пользователем, опционально привязана к поездке.
// Изменяется только переводом в состояние "решено" (обычно администратором).
type Observation struct {
	ID          uuid.UUID       `json:"id"`
	VehicleID   uuid.UUID       `json:"vehicle_id"`
	UserID      uuid.UUID       `json:"user_id"`
	TripID      *uuid.UUID      `json:"trip_id,omitempty"`
	Type        ObservationType `json:"type"`
	Description string          `json:"description"`
	Resolved    bool            `json:"resolved"`
	ResolvedBy  *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsOpenIssue сообщает, является ли заметка нерешенной неисправностью
func (o *Observation) IsOpenIssue() bool {
	return o.Type == ObservationIssue && !o.Resolved
}

// Validate проверяет корректность данных заметки
func (o *Observation) Validate() error {
	if o.VehicleID == uuid.Nil || o.UserID == uuid.Nil {
		return ErrInvalidObservationData
	}
	if o.Type != ObservationIssue && o.Type != ObservationNote && o.Type != ObservationMaintenance {
		return ErrInvalidObservationType
	}
	if strings.TrimSpace(o.Description) == "" {
		return ErrInvalidObservationData
	}
	return nil
}

// Resolve переводит заметку в состояние "решено". Повторное решение - ошибка.
func (o *Observation) Resolve(resolvedBy uuid.UUID, resolvedAt time.Time) error {
	if o.Resolved {
		return ErrObservationResolved
	}
	o.Resolved = true
	o.ResolvedBy = &resolvedBy
	o.ResolvedAt = &resolvedAt
	return nil
}
