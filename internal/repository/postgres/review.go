package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, reviewer_id, lot_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.LotID,
		review.Rating,
		nullString(review.Comment),
		review.CreatedAt,
	)

	return err
}

// GetByBookingID retrieves the review for a booking, or nil when absent.
func (r *ReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	query := `
		SELECT id, booking_id, reviewer_id, lot_id, rating, comment, created_at
		FROM reviews WHERE booking_id = $1
	`

	var review domain.Review
	var comment sql.NullString
	err := r.q.QueryRowContext(ctx, query, bookingID).Scan(
		&review.ID,
		&review.BookingID,
		&review.ReviewerID,
		&review.LotID,
		&review.Rating,
		&comment,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	review.Comment = comment.String
	return &review, nil
}

// ListByLot retrieves all reviews for a lot with reviewer names.
func (r *ReviewRepository) ListByLot(ctx context.Context, lotID string) ([]*repository.ReviewListRow, error) {
	query := `
		SELECT rv.id, rv.booking_id, rv.reviewer_id, rv.lot_id, rv.rating, rv.comment, rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.lot_id = $1
		ORDER BY rv.created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*repository.ReviewListRow
	for rows.Next() {
		var review domain.Review
		var comment sql.NullString
		var name string
		if err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.ReviewerID,
			&review.LotID,
			&review.Rating,
			&comment,
			&review.CreatedAt,
			&name,
		); err != nil {
			return nil, err
		}
		review.Comment = comment.String
		result = append(result, &repository.ReviewListRow{
			Review:       &review,
			ReviewerName: name,
		})
	}
	return result, rows.Err()
}
