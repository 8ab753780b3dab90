package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// PricingRepository is a PostgreSQL implementation of repository.PricingRepository.
type PricingRepository struct {
	q Querier
}

// NewPricingRepository creates a new PostgreSQL pricing repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{q: db}
}

// NewPricingRepositoryWithTx creates a pricing repository using a transaction.
func NewPricingRepositoryWithTx(tx *sql.Tx) *PricingRepository {
	return &PricingRepository{q: tx}
}

// Create persists a new pricing rule.
func (r *PricingRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, lot_id, name, rate, rate_type, is_active, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		rule.ID,
		rule.LotID,
		rule.Name,
		rule.Rate,
		rule.RateType,
		rule.IsActive,
		rule.Priority,
		rule.CreatedAt,
	)

	return err
}

// GetByID retrieves a rule by ID.
func (r *PricingRepository) GetByID(ctx context.Context, id string) (*domain.PricingRule, error) {
	query := `
		SELECT id, lot_id, name, rate, rate_type, is_active, priority, created_at
		FROM pricing_rules WHERE id = $1
	`

	return r.scanRule(r.q.QueryRowContext(ctx, query, id))
}

// GetActiveTopRule retrieves the active rule with the highest priority for a
// lot. Ties are broken by most recent creation, then by largest ID, which
// makes resolution deterministic.
func (r *PricingRepository) GetActiveTopRule(ctx context.Context, lotID string) (*domain.PricingRule, error) {
	query := `
		SELECT id, lot_id, name, rate, rate_type, is_active, priority, created_at
		FROM pricing_rules
		WHERE lot_id = $1 AND is_active = TRUE
		ORDER BY priority DESC, created_at DESC, id DESC
		LIMIT 1
	`

	return r.scanRule(r.q.QueryRowContext(ctx, query, lotID))
}

// ListByLot retrieves all rules for a lot ordered by priority descending.
func (r *PricingRepository) ListByLot(ctx context.Context, lotID string) ([]*domain.PricingRule, error) {
	query := `
		SELECT id, lot_id, name, rate, rate_type, is_active, priority, created_at
		FROM pricing_rules WHERE lot_id = $1 ORDER BY priority DESC, created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.PricingRule
	for rows.Next() {
		var rule domain.PricingRule
		if err := rows.Scan(
			&rule.ID,
			&rule.LotID,
			&rule.Name,
			&rule.Rate,
			&rule.RateType,
			&rule.IsActive,
			&rule.Priority,
			&rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

// Deactivate soft-deletes a rule.
func (r *PricingRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE pricing_rules SET is_active = FALSE WHERE id = $1`

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

// DeactivateAllForLot soft-deletes every rule of a lot.
func (r *PricingRepository) DeactivateAllForLot(ctx context.Context, lotID string) error {
	query := `UPDATE pricing_rules SET is_active = FALSE WHERE lot_id = $1`

	_, err := r.q.ExecContext(ctx, query, lotID)
	return err
}

func (r *PricingRepository) scanRule(row *sql.Row) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	err := row.Scan(
		&rule.ID,
		&rule.LotID,
		&rule.Name,
		&rule.Rate,
		&rule.RateType,
		&rule.IsActive,
		&rule.Priority,
		&rule.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &rule, nil
}
