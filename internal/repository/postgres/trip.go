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

const tripColumns = `id, user_id, vehicle_id, reservation_id, destination, purpose,
		start_mileage, end_mileage, start_time, end_time, is_active,
		parking_floor, parking_spot, range_remaining, created_at, updated_at`

type tripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) repository.TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, user_id, vehicle_id, reservation_id, destination, purpose,
			start_mileage, start_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	trip.ID = uuid.New()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.UserID,
		trip.VehicleID,
		trip.ReservationID,
		trip.Destination,
		trip.Purpose,
		trip.StartMileage,
		trip.StartTime,
		trip.IsActive,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

// CreateFromReservation создает поездку и переводит бронь pending -> active
// в одной транзакции. Бронь блокируется через FOR UPDATE: если вторая
// половина операции не проходит, транзакция откатывается целиком.
func (r *tripRepository) CreateFromReservation(ctx context.Context, trip *domain.Trip, reservationID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Блокируем бронь и проверяем статус
	var status domain.ReservationStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM vehicle_reservations WHERE id = $1 FOR UPDATE`,
		reservationID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		return err
	}

	if status != domain.ReservationPending {
		return domain.ErrReservationNotPending
	}

	trip.ID = uuid.New()
	trip.ReservationID = &reservationID
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO trips (id, user_id, vehicle_id, reservation_id, destination, purpose,
			start_mileage, start_time, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		trip.ID,
		trip.UserID,
		trip.VehicleID,
		trip.ReservationID,
		trip.Destination,
		trip.Purpose,
		trip.StartMileage,
		trip.StartTime,
		trip.IsActive,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE vehicle_reservations
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, reservationID, domain.ReservationActive, time.Now())
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *tripRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1 AND is_active = true
		ORDER BY start_time DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *tripRepository) GetLastByVehicle(ctx context.Context, vehicleID uuid.UUID) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = $1
		ORDER BY start_time DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, vehicleID))
}

func (r *tripRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, userID, limit, offset)
}

func (r *tripRepository) GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE vehicle_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, vehicleID, limit, offset)
}

func (r *tripRepository) ListClosed(ctx context.Context) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE is_active = false AND end_mileage IS NOT NULL
		ORDER BY start_time ASC
	`
	return r.queryMany(ctx, query)
}

func (r *tripRepository) ListActive(ctx context.Context) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE is_active = true
		ORDER BY start_time DESC
	`
	return r.queryMany(ctx, query)
}

// Close записывает закрытие поездки. Условие is_active = true в WHERE
// гарантирует односторонний переход: уже закрытая поездка не изменяется.
func (r *tripRepository) Close(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET end_mileage = $2, end_time = $3, is_active = false,
			parking_floor = $4, parking_spot = $5, range_remaining = $6, updated_at = $7
		WHERE id = $1 AND is_active = true
	`

	trip.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.EndMileage,
		trip.EndTime,
		trip.ParkingFloor,
		trip.ParkingSpot,
		trip.RangeRemaining,
		trip.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// Либо поездки нет, либо она уже закрыта
		if _, err := r.GetByID(ctx, trip.ID); err != nil {
			return err
		}
		return domain.ErrTripAlreadyEnded
	}

	return nil
}

func (r *tripRepository) List(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		ORDER BY start_time DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryMany(ctx, query, limit, offset)
}

func (r *tripRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Trip, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip := &domain.Trip{}
		if err := scanTrip(rows, trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

func (r *tripRepository) scanOne(row pgx.Row) (*domain.Trip, error) {
	trip := &domain.Trip{}
	if err := scanTrip(row, trip); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func scanTrip(row pgx.Row, trip *domain.Trip) error {
	return row.Scan(
		&trip.ID,
		&trip.UserID,
		&trip.VehicleID,
		&trip.ReservationID,
		&trip.Destination,
		&trip.Purpose,
		&trip.StartMileage,
		&trip.EndMileage,
		&trip.StartTime,
		&trip.EndTime,
		&trip.IsActive,
		&trip.ParkingFloor,
		&trip.ParkingSpot,
		&trip.RangeRemaining,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
}
