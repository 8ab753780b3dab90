package domain

import "time"

// Review is a driver's rating of a lot, tied to a single booking.
type Review struct {
	ID         string
	BookingID  string
	ReviewerID string
	LotID      string
	Rating     int
	Comment    string
	CreatedAt  time.Time
}
