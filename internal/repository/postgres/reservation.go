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

const reservationColumns = `id, user_id, vehicle_id, start_time, end_time, status, purpose, created_at, updated_at`

type reservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// CreateIfAvailable выполняет проверку пересечения и вставку в одной
// транзакции. Сначала блокируется строка автомобиля, поэтому два
// конкурирующих запроса на одно окно сериализуются на стороне БД и
// второй видит уже закоммиченную бронь первого.
func (r *reservationRepository) CreateIfAvailable(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Точка сериализации по автомобилю: блокировка существующих броней
	// не защищает от двух вставок в пустой календарь.
	var vehicleID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, reservation.VehicleID).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVehicleNotFound
		}
		return err
	}

	var overlaps int
	err = tx.QueryRow(ctx, `
		SELECT count(*)
		FROM vehicle_reservations
		WHERE vehicle_id = $1
		  AND status IN ('pending', 'active')
		  AND start_time <= $3
		  AND end_time >= $2
	`, reservation.VehicleID, reservation.StartTime, reservation.EndTime).Scan(&overlaps)
	if err != nil {
		return err
	}

	if overlaps > 0 {
		return domain.ErrReservationOverlap
	}

	reservation.ID = uuid.New()
	reservation.Status = domain.ReservationPending
	reservation.CreatedAt = time.Now()
	reservation.UpdatedAt = time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_reservations (id, user_id, vehicle_id, start_time, end_time, status, purpose, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		reservation.ID,
		reservation.UserID,
		reservation.VehicleID,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Status,
		reservation.Purpose,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// HasOverlap проверяет пересечение окна с бронями pending/active.
// Границы включающие: existing.start <= end AND existing.end >= start.
func (r *reservationRepository) HasOverlap(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM vehicle_reservations
			WHERE vehicle_id = $1
			  AND status IN ('pending', 'active')
			  AND start_time <= $3
			  AND end_time >= $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, vehicleID, start, end).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM vehicle_reservations WHERE id = $1`

	reservation := &domain.Reservation{}
	err := scanReservation(r.db.QueryRow(ctx, query, id), reservation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM vehicle_reservations
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, userID, limit, offset)
}

func (r *reservationRepository) GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM vehicle_reservations
		WHERE vehicle_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, vehicleID, limit, offset)
}

// UpdateStatus переводит бронь из ожидаемого статуса в новый.
// Переход выполняется одним UPDATE с условием на текущий статус,
// поэтому конкурирующие переходы не перетирают друг друга.
func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ReservationStatus) error {
	query := `
		UPDATE vehicle_reservations
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// Либо брони нет, либо статус уже другой
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		if from == domain.ReservationPending {
			return domain.ErrReservationNotPending
		}
		return domain.ErrReservationStatusConflict
	}

	return nil
}

func (r *reservationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM vehicle_reservations
		ORDER BY start_time DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryMany(ctx, query, limit, offset)
}

func (r *reservationRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation := &domain.Reservation{}
		if err := scanReservation(rows, reservation); err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

func scanReservation(row pgx.Row, reservation *domain.Reservation) error {
	return row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.VehicleID,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Status,
		&reservation.Purpose,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
}
