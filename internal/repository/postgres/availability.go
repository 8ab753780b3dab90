package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// AvailabilityRepository is a PostgreSQL implementation of
// repository.AvailabilityRepository.
type AvailabilityRepository struct {
	q Querier
}

// NewAvailabilityRepository creates a new PostgreSQL availability repository.
func NewAvailabilityRepository(db *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{q: db}
}

// NewAvailabilityRepositoryWithTx creates an availability repository using a transaction.
func NewAvailabilityRepositoryWithTx(tx *sql.Tx) *AvailabilityRepository {
	return &AvailabilityRepository{q: tx}
}

// Create persists a new availability window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *domain.AvailabilityWindow) error {
	query := `
		INSERT INTO availability_windows (id, spot_id, start_time, end_time, status, booking_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var bookingID sql.NullString
	if window.BookingID != "" {
		bookingID = sql.NullString{String: window.BookingID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		window.ID,
		window.SpotID,
		window.StartTime,
		window.EndTime,
		window.Status,
		bookingID,
	)

	return err
}

// GetByID retrieves a window by ID.
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, status, booking_id
		FROM availability_windows WHERE id = $1
	`

	row := r.q.QueryRowContext(ctx, query, id)
	window, err := scanWindowRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return window, nil
}

// Delete removes a window by ID.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM availability_windows WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListBySpot retrieves all windows for a spot ordered by start time.
func (r *AvailabilityRepository) ListBySpot(ctx context.Context, spotID string) ([]*domain.AvailabilityWindow, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, status, booking_id
		FROM availability_windows WHERE spot_id = $1 ORDER BY start_time
	`

	rows, err := r.q.QueryContext(ctx, query, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*domain.AvailabilityWindow
	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, rows.Err()
}

// FindContaining retrieves the AVAILABLE window for the spot that fully
// contains [start, end]. The row is locked FOR UPDATE so concurrent splits
// of the same window serialize at the database.
func (r *AvailabilityRepository) FindContaining(ctx context.Context, spotID string, start, end time.Time) (*domain.AvailabilityWindow, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, status, booking_id
		FROM availability_windows
		WHERE spot_id = $1
		  AND start_time <= $2
		  AND end_time >= $3
		  AND status = 'AVAILABLE'
		FOR UPDATE
	`

	row := r.q.QueryRowContext(ctx, query, spotID, start, end)
	window, err := scanWindowRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return window, nil
}

// FindBookedByBookingID retrieves the BOOKED window created for a booking.
func (r *AvailabilityRepository) FindBookedByBookingID(ctx context.Context, bookingID string) (*domain.AvailabilityWindow, error) {
	query := `
		SELECT id, spot_id, start_time, end_time, status, booking_id
		FROM availability_windows
		WHERE booking_id = $1 AND status = 'BOOKED'
	`

	row := r.q.QueryRowContext(ctx, query, bookingID)
	window, err := scanWindowRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return window, nil
}

// FindOpenSpot returns one spot in the lot of the given type whose AVAILABLE
// window fully contains [start, end]. Spots with an overlapping PENDING
// booking created after holdCutoff are treated as provisionally held and
// excluded, so a second request cannot claim a window that a pending payment
// is about to consume.
func (r *AvailabilityRepository) FindOpenSpot(ctx context.Context, lotID string, spotType domain.SpotType, start, end time.Time, holdCutoff time.Time) (*domain.Spot, error) {
	query := `
		SELECT s.id, s.lot_id, s.name, s.spot_type
		FROM spots s
		JOIN availability_windows w ON w.spot_id = s.id
		WHERE s.lot_id = $1
		  AND s.spot_type = $2
		  AND w.start_time <= $3
		  AND w.end_time >= $4
		  AND w.status = 'AVAILABLE'
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.spot_id = s.id
			  AND b.status = 'PENDING'
			  AND b.created_at > $5
			  AND b.start_time < $4
			  AND b.end_time > $3
		  )
		LIMIT 1
	`

	var spot domain.Spot
	err := r.q.QueryRowContext(ctx, query, lotID, spotType, start, end, holdCutoff).Scan(
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWindow(rows *sql.Rows) (*domain.AvailabilityWindow, error) {
	return scanWindowRow(rows)
}

func scanWindowRow(row rowScanner) (*domain.AvailabilityWindow, error) {
	var window domain.AvailabilityWindow
	var bookingID sql.NullString

	if err := row.Scan(
		&window.ID,
		&window.SpotID,
		&window.StartTime,
		&window.EndTime,
		&window.Status,
		&bookingID,
	); err != nil {
		return nil, err
	}

	if bookingID.Valid {
		window.BookingID = bookingID.String
	}

	return &window, nil
}
