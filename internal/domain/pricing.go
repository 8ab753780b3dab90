package domain

import "time"

// RateType represents how a pricing rule is applied.
type RateType string

const (
	RateTypeHourly RateType = "HOURLY"
	RateTypeFlat   RateType = "FLAT"
)

// PricingRule is a rate definition scoped to a lot. Multiple rules may
// coexist; only the highest-priority active rule applies at resolution time.
// Superseded rules are deactivated, never deleted.
type PricingRule struct {
	ID        string
	LotID     string
	Name      string
	Rate      float64
	RateType  RateType
	IsActive  bool
	Priority  int
	CreatedAt time.Time
}
