package http

import (
	"context"
	"testing"
	"time"

	"github.com/frontandrew/fleettrack/internal/delivery/http/middleware"
	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/pkg/jwt"
	"github.com/google/uuid"
)

// CreateAuthContext создает контекст с JWT claims для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestVehicle создает тестовый автомобиль
func CreateTestVehicle(id uuid.UUID, name, licensePlate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		Name:         name,
		LicensePlate: domain.NormalizeLicensePlate(licensePlate),
		QRToken:      domain.NewQRToken(),
		Model:        "Test Model",
		IsActive:     true,
	}
}

// CreateTestTrip создает тестовую активную поездку
func CreateTestTrip(id, userID, vehicleID uuid.UUID, startMileage int) *domain.Trip {
	return &domain.Trip{
		ID:           id,
		UserID:       userID,
		VehicleID:    vehicleID,
		Destination:  "Склад на Ленинском",
		StartMileage: startMileage,
		StartTime:    time.Now().Add(-time.Hour),
		IsActive:     true,
	}
}

// CreateTestReservation создает тестовую бронь в статусе pending
func CreateTestReservation(id, userID, vehicleID uuid.UUID, start, end time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		UserID:    userID,
		VehicleID: vehicleID,
		StartTime: start,
		EndTime:   end,
		Status:    domain.ReservationPending,
	}
}
