package repository

import (
	"context"

	"parkease/internal/domain"
)

// LotRepository defines the persistence operations for parking lots.
type LotRepository interface {
	// Create persists a new lot.
	Create(ctx context.Context, lot *domain.Lot) error

	// GetByID retrieves a lot by ID.
	GetByID(ctx context.Context, id string) (*domain.Lot, error)

	// GetByOwner retrieves all lots owned by a user.
	GetByOwner(ctx context.Context, ownerUserID string) ([]*domain.Lot, error)
}

// SpotRepository defines the persistence operations for parking spots.
type SpotRepository interface {
	// Create persists a new spot.
	Create(ctx context.Context, spot *domain.Spot) error

	// GetByID retrieves a spot by ID.
	GetByID(ctx context.Context, id string) (*domain.Spot, error)

	// GetByLot retrieves all spots in a lot.
	GetByLot(ctx context.Context, lotID string) ([]*domain.Spot, error)
}
