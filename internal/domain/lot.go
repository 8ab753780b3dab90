package domain

import "time"

// SpotType represents the vehicle category a spot can hold.
type SpotType string

const (
	SpotTypeCar        SpotType = "CAR"
	SpotTypeTwoWheeler SpotType = "TWO_WHEELER"
)

// Lot represents a physical parking location owned by a seller.
type Lot struct {
	ID          string
	OwnerUserID string
	Name        string
	Address     string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
}

// Spot represents a bookable unit within a lot.
// Spots are immutable once created.
type Spot struct {
	ID       string
	LotID    string
	Name     string
	SpotType SpotType
}
