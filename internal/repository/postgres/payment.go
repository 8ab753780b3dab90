package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, provider_order_id, provider_payment_id, amount_charged, commission_fee, seller_payout_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.ProviderOrderID,
		nullString(payment.ProviderPaymentID),
		payment.AmountCharged,
		payment.CommissionFee,
		payment.SellerPayoutAmount,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := paymentSelect + ` WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByProviderOrderID retrieves a payment by the provider's order reference.
// Returns nil when no payment exists for the order.
func (r *PaymentRepository) GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	query := paymentSelect + ` WHERE provider_order_id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// GetByBookingID retrieves the payment tied to a booking.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := paymentSelect + ` WHERE booking_id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// MarkPaid advances a payment to PAID_BY_DRIVER and records the provider's
// payment ID.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id, providerPaymentID string) error {
	query := `
		UPDATE payments
		SET status = 'PAID_BY_DRIVER', provider_payment_id = $1, updated_at = $2
		WHERE id = $3 AND status = 'PENDING'
	`

	result, err := r.q.ExecContext(ctx, query, providerPaymentID, time.Now(), id)
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

// ListDueForPayout retrieves all PAID_BY_DRIVER payments joined with the
// owner of the booked lot.
func (r *PaymentRepository) ListDueForPayout(ctx context.Context) ([]*repository.PayoutItem, error) {
	query := `
		SELECT p.id, p.booking_id, p.seller_payout_amount, u.id, u.phone
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		JOIN lots l ON l.id = b.lot_id
		JOIN users u ON u.id = l.owner_user_id
		WHERE p.status = 'PAID_BY_DRIVER'
		ORDER BY u.id, p.created_at
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*repository.PayoutItem
	for rows.Next() {
		var item repository.PayoutItem
		if err := rows.Scan(
			&item.PaymentID,
			&item.BookingID,
			&item.Amount,
			&item.SellerUserID,
			&item.SellerPhone,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// MarkPaidOut advances the given payments to PAYOUT_TO_SELLER_COMPLETE.
func (r *PaymentRepository) MarkPaidOut(ctx context.Context, paymentIDs []string) error {
	if len(paymentIDs) == 0 {
		return nil
	}

	query := `
		UPDATE payments
		SET status = 'PAYOUT_TO_SELLER_COMPLETE', updated_at = $1
		WHERE id = ANY($2) AND status = 'PAID_BY_DRIVER'
	`

	_, err := r.q.ExecContext(ctx, query, time.Now(), pq.Array(paymentIDs))
	return err
}

const paymentSelect = `
	SELECT id, booking_id, provider_order_id, provider_payment_id, amount_charged, commission_fee, seller_payout_amount, status, created_at, updated_at
	FROM payments`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var providerPaymentID sql.NullString

	if err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.ProviderOrderID,
		&providerPaymentID,
		&payment.AmountCharged,
		&payment.CommissionFee,
		&payment.SellerPayoutAmount,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	payment.ProviderPaymentID = providerPaymentID.String

	return &payment, nil
}
