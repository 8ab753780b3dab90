package domain

import "time"

// WindowStatus represents the state of an availability window.
type WindowStatus string

const (
	WindowStatusAvailable WindowStatus = "AVAILABLE"
	WindowStatusBooked    WindowStatus = "BOOKED"
)

// AvailabilityWindow is a time interval during which a spot is either open
// for booking or already booked. Windows for a spot never overlap; a BOOKED
// window is never mutated in place. Absence of a window for a time range
// means the range is unlisted, not available.
type AvailabilityWindow struct {
	ID        string
	SpotID    string
	StartTime time.Time
	EndTime   time.Time
	Status    WindowStatus
	BookingID string // set if and only if Status is BOOKED
}

// Contains reports whether the window fully covers [start, end].
func (w *AvailabilityWindow) Contains(start, end time.Time) bool {
	return !w.StartTime.After(start) && !w.EndTime.Before(end)
}
