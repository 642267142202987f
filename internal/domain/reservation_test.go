package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestReservation_Overlaps тестирует проверку пересечения временных окон.
// Границы включающие: окна, касающиеся друг друга краями, считаются пересекающимися.
func TestReservation_Overlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	existing := &Reservation{
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour), // 10:00 - 12:00
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "полное совпадение",
			start: base,
			end:   base.Add(2 * time.Hour),
			want:  true,
		},
		{
			name:  "кандидат внутри окна",
			start: base.Add(30 * time.Minute),
			end:   base.Add(time.Hour),
			want:  true,
		},
		{
			name:  "окно внутри кандидата",
			start: base.Add(-time.Hour),
			end:   base.Add(3 * time.Hour),
			want:  true,
		},
		{
			name:  "пересечение по началу",
			start: base.Add(-time.Hour),
			end:   base.Add(time.Hour),
			want:  true,
		},
		{
			name:  "пересечение по концу",
			start: base.Add(time.Hour),
			end:   base.Add(3 * time.Hour),
			want:  true,
		},
		{
			name:  "касание краем: кандидат начинается в момент окончания",
			start: base.Add(2 * time.Hour),
			end:   base.Add(4 * time.Hour),
			want:  true,
		},
		{
			name:  "касание краем: кандидат заканчивается в момент начала",
			start: base.Add(-2 * time.Hour),
			end:   base,
			want:  true,
		},
		{
			name:  "кандидат целиком раньше",
			start: base.Add(-3 * time.Hour),
			end:   base.Add(-time.Hour),
			want:  false,
		},
		{
			name:  "кандидат целиком позже",
			start: base.Add(3 * time.Hour),
			end:   base.Add(5 * time.Hour),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, existing.Overlaps(tt.start, tt.end))
		})
	}
}

// TestReservation_Blocks тестирует, какие статусы занимают автомобиль
func TestReservation_Blocks(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{ReservationPending, true},
		{ReservationActive, true},
		{ReservationCompleted, false},
		{ReservationCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := &Reservation{Status: tt.status}
			assert.Equal(t, tt.want, r.Blocks())
		})
	}
}

// TestReservation_Validate тестирует валидацию временного окна
func TestReservation_Validate(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("корректное окно", func(t *testing.T) {
		r := &Reservation{
			UserID:    uuid.New(),
			VehicleID: uuid.New(),
			StartTime: base,
			EndTime:   base.Add(time.Hour),
		}
		assert.NoError(t, r.Validate())
	})

	t.Run("начало равно концу", func(t *testing.T) {
		r := &Reservation{
			UserID:    uuid.New(),
			VehicleID: uuid.New(),
			StartTime: base,
			EndTime:   base,
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidTimeRange)
	})

	t.Run("начало позже конца", func(t *testing.T) {
		r := &Reservation{
			UserID:    uuid.New(),
			VehicleID: uuid.New(),
			StartTime: base.Add(time.Hour),
			EndTime:   base,
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidTimeRange)
	})

	t.Run("без пользователя", func(t *testing.T) {
		r := &Reservation{
			VehicleID: uuid.New(),
			StartTime: base,
			EndTime:   base.Add(time.Hour),
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidReservationData)
	})
}

// TestReservation_Cancel тестирует отмену брони
func TestReservation_Cancel(t *testing.T) {
	t.Run("отмена из pending", func(t *testing.T) {
		r := &Reservation{Status: ReservationPending}

		err := r.Cancel()

		assert.NoError(t, err)
		assert.Equal(t, ReservationCancelled, r.Status)
	})

	t.Run("повторная отмена", func(t *testing.T) {
		r := &Reservation{Status: ReservationPending}
		assert.NoError(t, r.Cancel())

		err := r.Cancel()

		assert.ErrorIs(t, err, ErrReservationNotPending)
		assert.Equal(t, ReservationCancelled, r.Status)
	})

	t.Run("отмена активной брони", func(t *testing.T) {
		r := &Reservation{Status: ReservationActive}

		err := r.Cancel()

		assert.ErrorIs(t, err, ErrReservationNotPending)
		assert.Equal(t, ReservationActive, r.Status)
	})

	t.Run("отмена завершенной брони", func(t *testing.T) {
		r := &Reservation{Status: ReservationCompleted}

		assert.ErrorIs(t, r.Cancel(), ErrReservationNotPending)
	})
}
