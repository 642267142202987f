package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/fleettrack/internal/domain"
	"github.com/frontandrew/fleettrack/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, name, license_plate, qr_token, model, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	// Нормализуем номер перед сохранением
	vehicle.LicensePlate = domain.NormalizeLicensePlate(vehicle.LicensePlate)

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.LicensePlate,
		vehicle.QRToken,
		vehicle.Model,
		vehicle.IsActive,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, name, license_plate, qr_token, model, is_active, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	query := `
		SELECT id, name, license_plate, qr_token, model, is_active, created_at, updated_at
		FROM vehicles
		WHERE license_plate = $1
	`

	// Нормализуем номер перед поиском
	normalizedPlate := domain.NormalizeLicensePlate(licensePlate)

	return r.scanOne(r.db.QueryRow(ctx, query, normalizedPlate))
}

func (r *vehicleRepository) GetByQRToken(ctx context.Context, qrToken string) (*domain.Vehicle, error) {
	query := `
		SELECT id, name, license_plate, qr_token, model, is_active, created_at, updated_at
		FROM vehicles
		WHERE qr_token = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, qrToken))
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $2, license_plate = $3, model = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	vehicle.UpdatedAt = time.Now()
	vehicle.LicensePlate = domain.NormalizeLicensePlate(vehicle.LicensePlate)

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.LicensePlate,
		vehicle.Model,
		vehicle.IsActive,
		vehicle.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Мягкое удаление - устанавливаем is_active = false
	query := `
		UPDATE vehicles
		SET is_active = false, updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, name, license_plate, qr_token, model, is_active, created_at, updated_at
		FROM vehicles
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.Name,
			&vehicle.LicensePlate,
			&vehicle.QRToken,
			&vehicle.Model,
			&vehicle.IsActive,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

func (r *vehicleRepository) scanOne(row pgx.Row) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.LicensePlate,
		&vehicle.QRToken,
		&vehicle.Model,
		&vehicle.IsActive,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}
