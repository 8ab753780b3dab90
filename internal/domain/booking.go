package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking represents a driver's reservation of a spot for a time window.
type Booking struct {
	ID           string
	DriverUserID string
	LotID        string
	SpotID       string
	StartTime    time.Time
	EndTime      time.Time
	Status       BookingStatus
	QRCodeData   string // assigned on confirmation, globally unique gate token
	VehiclePlate string
	CreatedAt    time.Time
}
