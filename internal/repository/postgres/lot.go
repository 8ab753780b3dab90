package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// LotRepository is a PostgreSQL implementation of repository.LotRepository.
type LotRepository struct {
	q Querier
}

// NewLotRepository creates a new PostgreSQL lot repository.
func NewLotRepository(db *sql.DB) *LotRepository {
	return &LotRepository{q: db}
}

// NewLotRepositoryWithTx creates a lot repository using a transaction.
func NewLotRepositoryWithTx(tx *sql.Tx) *LotRepository {
	return &LotRepository{q: tx}
}

// Create persists a new lot.
func (r *LotRepository) Create(ctx context.Context, lot *domain.Lot) error {
	query := `
		INSERT INTO lots (id, owner_user_id, name, address, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		lot.ID,
		lot.OwnerUserID,
		lot.Name,
		lot.Address,
		lot.Latitude,
		lot.Longitude,
		lot.CreatedAt,
	)

	return err
}

// GetByID retrieves a lot by ID.
func (r *LotRepository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	query := `
		SELECT id, owner_user_id, name, address, latitude, longitude, created_at
		FROM lots WHERE id = $1
	`

	var lot domain.Lot
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&lot.ID,
		&lot.OwnerUserID,
		&lot.Name,
		&lot.Address,
		&lot.Latitude,
		&lot.Longitude,
		&lot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &lot, nil
}

// GetByOwner retrieves all lots owned by a user.
func (r *LotRepository) GetByOwner(ctx context.Context, ownerUserID string) ([]*domain.Lot, error) {
	query := `
		SELECT id, owner_user_id, name, address, latitude, longitude, created_at
		FROM lots WHERE owner_user_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*domain.Lot
	for rows.Next() {
		var lot domain.Lot
		if err := rows.Scan(
			&lot.ID,
			&lot.OwnerUserID,
			&lot.Name,
			&lot.Address,
			&lot.Latitude,
			&lot.Longitude,
			&lot.CreatedAt,
		); err != nil {
			return nil, err
		}
		lots = append(lots, &lot)
	}
	return lots, rows.Err()
}

// SpotRepository is a PostgreSQL implementation of repository.SpotRepository.
type SpotRepository struct {
	q Querier
}

// NewSpotRepository creates a new PostgreSQL spot repository.
func NewSpotRepository(db *sql.DB) *SpotRepository {
	return &SpotRepository{q: db}
}

// NewSpotRepositoryWithTx creates a spot repository using a transaction.
func NewSpotRepositoryWithTx(tx *sql.Tx) *SpotRepository {
	return &SpotRepository{q: tx}
}

// Create persists a new spot.
func (r *SpotRepository) Create(ctx context.Context, spot *domain.Spot) error {
	query := `
		INSERT INTO spots (id, lot_id, name, spot_type)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query,
		spot.ID,
		spot.LotID,
		spot.Name,
		spot.SpotType,
	)

	return err
}

// GetByID retrieves a spot by ID.
func (r *SpotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	query := `
		SELECT id, lot_id, name, spot_type
		FROM spots WHERE id = $1
	`

	var spot domain.Spot
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&spot.ID,
		&spot.LotID,
		&spot.Name,
		&spot.SpotType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &spot, nil
}

// GetByLot retrieves all spots in a lot.
func (r *SpotRepository) GetByLot(ctx context.Context, lotID string) ([]*domain.Spot, error) {
	query := `
		SELECT id, lot_id, name, spot_type
		FROM spots WHERE lot_id = $1 ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []*domain.Spot
	for rows.Next() {
		var spot domain.Spot
		if err := rows.Scan(&spot.ID, &spot.LotID, &spot.Name, &spot.SpotType); err != nil {
			return nil, err
		}
		spots = append(spots, &spot)
	}
	return spots, rows.Err()
}
