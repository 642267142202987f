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

const observationColumns = `id, vehicle_id, user_id, trip_id, type, description, resolved, resolved_by, resolved_at, created_at`

type observationRepository struct {
	db *pgxpool.Pool
}

func NewObservationRepository(db *pgxpool.Pool) repository.ObservationRepository {
	return &observationRepository{db: db}
}

func (r *observationRepository) Create(ctx context.Context, observation *domain.Observation) error {
	query := `
		INSERT INTO vehicle_observations (id, vehicle_id, user_id, trip_id, type, description, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	observation.ID = uuid.New()
	observation.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		observation.ID,
		observation.VehicleID,
		observation.UserID,
		observation.TripID,
		observation.Type,
		observation.Description,
		observation.Resolved,
		observation.CreatedAt,
	)

	return err
}

func (r *observationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM vehicle_observations WHERE id = $1`

	observation := &domain.Observation{}
	err := scanObservation(r.db.QueryRow(ctx, query, id), observation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrObservationNotFound
		}
		return nil, err
	}

	return observation, nil
}

func (r *observationRepository) GetByVehicleID(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]*domain.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM vehicle_observations
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, vehicleID, limit, offset)
}

func (r *observationRepository) ListUnresolved(ctx context.Context) ([]*domain.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM vehicle_observations
		WHERE resolved = false
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query)
}

// Resolve переводит заметку в состояние "решено". Условие resolved = false
// в WHERE защищает от повторного решения.
func (r *observationRepository) Resolve(ctx context.Context, id, resolvedBy uuid.UUID) error {
	query := `
		UPDATE vehicle_observations
		SET resolved = true, resolved_by = $2, resolved_at = $3
		WHERE id = $1 AND resolved = false
	`

	result, err := r.db.Exec(ctx, query, id, resolvedBy, time.Now())
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// Либо заметки нет, либо она уже решена
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrObservationResolved
	}

	return nil
}

func (r *observationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM vehicle_observations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryMany(ctx, query, limit, offset)
}

func (r *observationRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Observation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []*domain.Observation
	for rows.Next() {
		observation := &domain.Observation{}
		if err := scanObservation(rows, observation); err != nil {
			return nil, err
		}
		observations = append(observations, observation)
	}

	return observations, nil
}

func scanObservation(row pgx.Row, observation *domain.Observation) error {
	return row.Scan(
		&observation.ID,
		&observation.VehicleID,
		&observation.UserID,
		&observation.TripID,
		&observation.Type,
		&observation.Description,
		&observation.Resolved,
		&observation.ResolvedBy,
		&observation.ResolvedAt,
		&observation.CreatedAt,
	)
}
