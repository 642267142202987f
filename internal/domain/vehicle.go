package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle - автомобиль автопарка
// Каждый автомобиль имеет уникальный номер и уникальный QR токен,
// по которому пользователь открывает экран начала поездки
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`          // Отображаемое имя ("Бус 1")
	LicensePlate string    `json:"license_plate"` // Номер автомобиля (уникальный)
	QRToken      string    `json:"qr_token"`      // Токен для QR кода (уникальный)
	Model        string    `json:"model,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeLicensePlate нормализует номер автомобиля (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	// Убираем пробелы и приводим к верхнему регистру
	normalized := strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
	return normalized
}

// NewQRToken генерирует новый уникальный QR токен
func NewQRToken() string {
	return uuid.NewString()
}

// Validate проверяет корректность данных автомобиля
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrInvalidVehicleData
	}
	if v.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}
	// Нормализуем номер
	v.LicensePlate = NormalizeLicensePlate(v.LicensePlate)

	if len(v.LicensePlate) < 5 || len(v.LicensePlate) > 20 {
		return ErrInvalidLicensePlate
	}
	return nil
}
