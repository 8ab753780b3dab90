package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, driver_user_id, lot_id, spot_id, start_time, end_time, status, qr_code_data, vehicle_plate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.DriverUserID,
		booking.LotID,
		booking.SpotID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		nullString(booking.QRCodeData),
		nullString(booking.VehiclePlate),
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := bookingSelect + ` WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByQRCode retrieves a booking by its gate token.
func (r *BookingRepository) GetByQRCode(ctx context.Context, qrCodeData string) (*domain.Booking, error) {
	query := bookingSelect + ` WHERE qr_code_data = $1`
	return r.getOne(ctx, query, qrCodeData)
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, qr_code_data = $2, vehicle_plate = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		booking.Status,
		nullString(booking.QRCodeData),
		nullString(booking.VehiclePlate),
		booking.ID,
	)
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

// ListByDriver retrieves a driver's bookings, newest first, with lot details.
func (r *BookingRepository) ListByDriver(ctx context.Context, driverUserID string) ([]*repository.BookingListRow, error) {
	query := `
		SELECT b.id, b.driver_user_id, b.lot_id, b.spot_id, b.start_time, b.end_time, b.status, b.qr_code_data, b.vehicle_plate, b.created_at,
		       l.name, l.address
		FROM bookings b
		JOIN lots l ON l.id = b.lot_id
		WHERE b.driver_user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*repository.BookingListRow
	for rows.Next() {
		var booking domain.Booking
		var qrCode, plate sql.NullString
		var lotName, lotAddress string
		if err := rows.Scan(
			&booking.ID,
			&booking.DriverUserID,
			&booking.LotID,
			&booking.SpotID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&qrCode,
			&plate,
			&booking.CreatedAt,
			&lotName,
			&lotAddress,
		); err != nil {
			return nil, err
		}
		booking.QRCodeData = qrCode.String
		booking.VehiclePlate = plate.String
		result = append(result, &repository.BookingListRow{
			Booking:    &booking,
			LotName:    lotName,
			LotAddress: lotAddress,
		})
	}
	return result, rows.Err()
}

// ListExpiredPending retrieves PENDING bookings created before cutoff.
func (r *BookingRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	query := bookingSelect + ` WHERE status = 'PENDING' AND created_at < $1`

	rows, err := r.q.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

const bookingSelect = `
	SELECT id, driver_user_id, lot_id, spot_id, start_time, end_time, status, qr_code_data, vehicle_plate, created_at
	FROM bookings`

func (r *BookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var qrCode, plate sql.NullString

	if err := row.Scan(
		&booking.ID,
		&booking.DriverUserID,
		&booking.LotID,
		&booking.SpotID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&qrCode,
		&plate,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}

	booking.QRCodeData = qrCode.String
	booking.VehiclePlate = plate.String

	return &booking, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
