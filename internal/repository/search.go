package repository

import (
	"context"
	"time"

	"parkease/internal/domain"
)

// SearchRow is a lot with its active rate, matched by availability search.
type SearchRow struct {
	LotID     string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Rate      float64
	RateType  domain.RateType
}

// SearchRepository defines the availability search query.
type SearchRepository interface {
	// FindAvailableLots retrieves the distinct lots that have at least one
	// spot of the given type with an AVAILABLE window fully containing
	// [start, end], joined with each lot's active pricing rule. Distance
	// filtering happens in the service layer.
	FindAvailableLots(ctx context.Context, spotType domain.SpotType, start, end time.Time) ([]*SearchRow, error)
}
