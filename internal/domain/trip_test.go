package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestValidateDestination тестирует валидацию пункта назначения
func TestValidateDestination(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		want        string
		wantErr     error
	}{
		{
			name:        "обычное назначение",
			destination: "Склад на Ленинском",
			want:        "Склад на Ленинском",
		},
		{
			name:        "пробелы обрезаются до проверки",
			destination: "  Офис  ",
			want:        "Офис",
		},
		{
			name:        "минимальная длина 3 символа",
			destination: "Юг",
			wantErr:     ErrInvalidDestination,
		},
		{
			name:        "ровно 3 символа проходит",
			destination: "Юго",
			want:        "Юго",
		},
		{
			name:        "пустая строка",
			destination: "   ",
			wantErr:     ErrInvalidDestination,
		},
		{
			name:        "ровно 200 символов проходит",
			destination: strings.Repeat("а", 200),
			want:        strings.Repeat("а", 200),
		},
		{
			name:        "201 символ не проходит",
			destination: strings.Repeat("а", 201),
			wantErr:     ErrInvalidDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDestination(tt.destination)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestValidateMileage тестирует границы допустимого пробега
func TestValidateMileage(t *testing.T) {
	tests := []struct {
		name    string
		mileage int
		wantErr error
	}{
		{name: "ноль допустим", mileage: 0},
		{name: "обычное значение", mileage: 125000},
		{name: "верхняя граница включительно", mileage: 999999},
		{name: "отрицательный пробег", mileage: -1, wantErr: ErrInvalidMileage},
		{name: "выше верхней границы", mileage: 1000000, wantErr: ErrInvalidMileage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMileage(tt.mileage)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateParkingFloor тестирует границы этажа парковки
func TestValidateParkingFloor(t *testing.T) {
	assert.NoError(t, ValidateParkingFloor(0))
	assert.NoError(t, ValidateParkingFloor(7))
	assert.ErrorIs(t, ValidateParkingFloor(-1), ErrInvalidParkingFloor)
	assert.ErrorIs(t, ValidateParkingFloor(8), ErrInvalidParkingFloor)
}

// TestTrip_Close тестирует закрытие поездки
func TestTrip_Close(t *testing.T) {
	newTrip := func() *Trip {
		return &Trip{
			ID:           uuid.New(),
			UserID:       uuid.New(),
			VehicleID:    uuid.New(),
			Destination:  "Склад на Ленинском",
			StartMileage: 12500,
			StartTime:    time.Now().Add(-time.Hour),
			IsActive:     true,
		}
	}

	t.Run("успешное закрытие", func(t *testing.T) {
		trip := newTrip()
		endTime := time.Now()

		err := trip.Close(12640, endTime)

		assert.NoError(t, err)
		assert.False(t, trip.IsActive)
		assert.Equal(t, 12640, *trip.EndMileage)
		assert.Equal(t, endTime, *trip.EndTime)

		distance, ok := trip.Distance()
		assert.True(t, ok)
		assert.Equal(t, 140, distance)
	})

	t.Run("конечный пробег равен начальному", func(t *testing.T) {
		trip := newTrip()

		err := trip.Close(12500, time.Now())

		assert.NoError(t, err)
		distance, ok := trip.Distance()
		assert.True(t, ok)
		assert.Equal(t, 0, distance)
	})

	t.Run("конечный пробег меньше начального", func(t *testing.T) {
		trip := newTrip()

		err := trip.Close(12400, time.Now())

		assert.ErrorIs(t, err, ErrMileageBelowStart)
		assert.True(t, trip.IsActive)
		assert.Nil(t, trip.EndMileage)
	})

	t.Run("повторное закрытие", func(t *testing.T) {
		trip := newTrip()
		assert.NoError(t, trip.Close(12640, time.Now()))

		err := trip.Close(12700, time.Now())

		assert.ErrorIs(t, err, ErrTripAlreadyEnded)
		assert.Equal(t, 12640, *trip.EndMileage)
	})

	t.Run("конечный пробег вне диапазона", func(t *testing.T) {
		trip := newTrip()

		err := trip.Close(1000000, time.Now())

		assert.ErrorIs(t, err, ErrInvalidMileage)
		assert.True(t, trip.IsActive)
	})
}

// TestTrip_Distance тестирует расстояние активной поездки
func TestTrip_Distance(t *testing.T) {
	trip := &Trip{StartMileage: 100, IsActive: true}

	_, ok := trip.Distance()

	assert.False(t, ok)
}

// TestTrip_IsLowRange тестирует порог предупреждения об остатке хода
func TestTrip_IsLowRange(t *testing.T) {
	tests := []struct {
		name  string
		value *int
		want  bool
	}{
		{name: "остаток не указан", value: nil, want: false},
		{name: "ниже порога", value: intPtr(129), want: true},
		{name: "ровно на пороге", value: intPtr(130), want: false},
		{name: "выше порога", value: intPtr(300), want: false},
		{name: "ноль", value: intPtr(0), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := &Trip{RangeRemaining: tt.value}
			assert.Equal(t, tt.want, trip.IsLowRange())
		})
	}
}

// TestTrip_Validate тестирует валидацию поездки перед созданием
func TestTrip_Validate(t *testing.T) {
	trip := &Trip{
		UserID:       uuid.New(),
		VehicleID:    uuid.New(),
		Destination:  "  Аэропорт Шереметьево  ",
		StartMileage: 9000,
	}

	err := trip.Validate()

	assert.NoError(t, err)
	// После валидации назначение хранится без окружающих пробелов
	assert.Equal(t, "Аэропорт Шереметьево", trip.Destination)
}

func intPtr(v int) *int {
	return &v
}
