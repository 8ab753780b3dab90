package service

import (
	"github.com/rs/zerolog"
)

// EventLogger emits structured domain events. Every state transition that an
// operator might need to trace lands here as one JSON line.
type EventLogger struct {
	log zerolog.Logger
}

// NewEventLogger creates an EventLogger writing through the given logger.
func NewEventLogger(log zerolog.Logger) *EventLogger {
	return &EventLogger{log: log}
}

// BookingCreated records a new PENDING booking.
func (l *EventLogger) BookingCreated(bookingID, driverUserID, lotID, spotID string, amount float64) {
	l.log.Info().
		Str("event", "booking_created").
		Str("booking_id", bookingID).
		Str("driver_user_id", driverUserID).
		Str("lot_id", lotID).
		Str("spot_id", spotID).
		Float64("amount", amount).
		Msg("booking created")
}

// BookingConfirmed records a payment-confirmed booking.
func (l *EventLogger) BookingConfirmed(bookingID, paymentID, providerPaymentID string) {
	l.log.Info().
		Str("event", "booking_confirmed").
		Str("booking_id", bookingID).
		Str("payment_id", paymentID).
		Str("provider_payment_id", providerPaymentID).
		Msg("booking confirmed")
}

// BookingCancelled records a cancelled booking.
func (l *EventLogger) BookingCancelled(bookingID, reason string) {
	l.log.Info().
		Str("event", "booking_cancelled").
		Str("booking_id", bookingID).
		Str("reason", reason).
		Msg("booking cancelled")
}

// BookingExpired records a pending booking cancelled by the expiry sweep.
func (l *EventLogger) BookingExpired(bookingID string) {
	l.log.Info().
		Str("event", "booking_expired").
		Str("booking_id", bookingID).
		Msg("pending booking expired")
}

// WindowSplit records an availability window split on confirmation.
func (l *EventLogger) WindowSplit(windowID, bookingID string, before, after bool) {
	l.log.Info().
		Str("event", "window_split").
		Str("window_id", windowID).
		Str("booking_id", bookingID).
		Bool("remainder_before", before).
		Bool("remainder_after", after).
		Msg("availability window split")
}

// BookingRedeemed records a gate scan that completed a booking.
func (l *EventLogger) BookingRedeemed(bookingID, scannedBy string) {
	l.log.Info().
		Str("event", "booking_redeemed").
		Str("booking_id", bookingID).
		Str("scanned_by", scannedBy).
		Msg("booking redeemed at gate")
}

// RoleUpgraded records a driver becoming a seller.
func (l *EventLogger) RoleUpgraded(userID, role string) {
	l.log.Info().
		Str("event", "role_upgraded").
		Str("user_id", userID).
		Str("role", role).
		Msg("user role upgraded")
}

// PayoutBatch records the outcome of a settlement run.
func (l *EventLogger) PayoutBatch(batchKey string, settled, skipped int, total float64) {
	l.log.Info().
		Str("event", "payout_batch").
		Str("batch_key", batchKey).
		Int("settled", settled).
		Int("skipped", skipped).
		Float64("total_amount", total).
		Msg("payout batch processed")
}

// PayoutFailed records a failed transfer for one seller.
func (l *EventLogger) PayoutFailed(sellerUserID string, amount float64, err error) {
	l.log.Error().
		Str("event", "payout_failed").
		Str("seller_user_id", sellerUserID).
		Float64("amount", amount).
		Err(err).
		Msg("payout transfer failed")
}

// IntegrityViolation records a webhook that could not be reconciled.
func (l *EventLogger) IntegrityViolation(orderID, detail string) {
	l.log.Error().
		Str("event", "integrity_violation").
		Str("provider_order_id", orderID).
		Str("detail", detail).
		Msg("payment integrity violation")
}
