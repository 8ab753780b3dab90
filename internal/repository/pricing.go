package repository

import (
	"context"

	"parkease/internal/domain"
)

// PricingRepository defines the persistence operations for pricing rules.
type PricingRepository interface {
	// Create persists a new pricing rule.
	Create(ctx context.Context, rule *domain.PricingRule) error

	// GetByID retrieves a rule by ID.
	GetByID(ctx context.Context, id string) (*domain.PricingRule, error)

	// GetActiveTopRule retrieves the active rule with the highest priority
	// for a lot. Equal priorities are broken by most recent creation, then
	// by largest ID, so resolution is deterministic. Returns ErrNotFound
	// when the lot has no active rule.
	GetActiveTopRule(ctx context.Context, lotID string) (*domain.PricingRule, error)

	// ListByLot retrieves all rules for a lot ordered by priority descending.
	ListByLot(ctx context.Context, lotID string) ([]*domain.PricingRule, error)

	// Deactivate soft-deletes a rule.
	Deactivate(ctx context.Context, id string) error

	// DeactivateAllForLot soft-deletes every rule of a lot.
	DeactivateAllForLot(ctx context.Context, lotID string) error
}
