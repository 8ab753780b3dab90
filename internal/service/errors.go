package service

import "errors"

var (
	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidPhone is returned when a phone number is empty or malformed.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidOTP is returned when a login code does not match or has expired.
	ErrInvalidOTP = errors.New("invalid or expired otp")

	// ErrInvalidLotID is returned when a lot ID is empty.
	ErrInvalidLotID = errors.New("invalid lot id")

	// ErrInvalidSpotID is returned when a spot ID is empty.
	ErrInvalidSpotID = errors.New("invalid spot id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidTimeRange is returned when a window's end does not follow its start.
	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// ErrInvalidRate is returned when a pricing rate is zero or negative.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrInvalidRateType is returned when a rate type is not HOURLY or FLAT.
	ErrInvalidRateType = errors.New("invalid rate type")

	// ErrInvalidSpotType is returned when a spot type is not recognised.
	ErrInvalidSpotType = errors.New("invalid spot type")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("not allowed for this user")

	// ErrWindowOverlap is returned when a new availability window overlaps
	// an existing one for the same spot.
	ErrWindowOverlap = errors.New("availability window overlaps an existing window")

	// ErrWindowNotFound is returned when no AVAILABLE window covers the
	// requested booking range at confirmation time.
	ErrWindowNotFound = errors.New("no available window covers the booked range")

	// ErrNoAvailability is returned when no spot in the lot can serve the
	// requested range.
	ErrNoAvailability = errors.New("no spot available for the requested time")

	// ErrNoActiveRate is returned when a lot has no active pricing rule.
	ErrNoActiveRate = errors.New("no active pricing rule for lot")

	// ErrSpotBusy is returned when another booking attempt holds the spot lock.
	ErrSpotBusy = errors.New("spot is being booked by another request")

	// ErrBookingNotPending is returned when confirming a booking that has
	// already left the PENDING state.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrBookingNotConfirmed is returned when redeeming a booking that is
	// not in the CONFIRMED state.
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")

	// ErrBookingCannotBeCancelled is returned when cancelling a booking in a
	// terminal state.
	ErrBookingCannotBeCancelled = errors.New("booking cannot be cancelled in current state")

	// ErrQRNotFound is returned when a scanned gate token matches no booking.
	ErrQRNotFound = errors.New("unknown qr code")

	// ErrTooEarly is returned when a gate scan happens before the booked window.
	ErrTooEarly = errors.New("booking window has not started")

	// ErrExpired is returned when a gate scan happens after the booked window.
	ErrExpired = errors.New("booking window has ended")

	// ErrAlreadyRedeemed is returned when a gate token is scanned a second time.
	ErrAlreadyRedeemed = errors.New("qr code already redeemed")

	// ErrAlreadyReviewed is returned when a booking already has a review.
	ErrAlreadyReviewed = errors.New("booking already reviewed")

	// ErrBookingNotCompleted is returned when reviewing a booking that has
	// not been completed.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrNoPayoutAccount is returned when a seller has no linked payout account.
	ErrNoPayoutAccount = errors.New("no payout account linked")

	// ErrSettlementInProgress is returned when a payout batch is already running.
	ErrSettlementInProgress = errors.New("settlement already in progress")

	// ErrUpstreamProvider is returned when the payment or payout gateway fails.
	ErrUpstreamProvider = errors.New("upstream provider error")

	// ErrIntegrity is returned when a confirmed payment references state the
	// ledger cannot reconcile. The webhook is still acknowledged; the error
	// is surfaced for operators.
	ErrIntegrity = errors.New("payment integrity violation")

	// ErrAddressNotFound is returned when a lot address cannot be geocoded.
	ErrAddressNotFound = errors.New("address could not be geocoded")

	// ErrNotSeller is returned when a seller-only operation is attempted by
	// a plain driver account.
	ErrNotSeller = errors.New("user is not a seller")
)
