package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"parkease/internal/domain"
)

// SMSSender is the interface for an outbound SMS gateway.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSMSSender is an SMSSender that only logs. Used in development and tests.
type LogSMSSender struct {
	log zerolog.Logger
}

// NewLogSMSSender creates a logging SMS sender.
func NewLogSMSSender(log zerolog.Logger) *LogSMSSender {
	return &LogSMSSender{log: log}
}

// Send logs the message instead of delivering it.
func (s *LogSMSSender) Send(ctx context.Context, phone, message string) error {
	s.log.Info().
		Str("event", "sms_sent").
		Str("phone", phone).
		Str("message", message).
		Msg("sms dispatched")
	return nil
}

// NotificationService delivers user-facing messages over SMS.
type NotificationService struct {
	sms SMSSender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sms SMSSender) *NotificationService {
	return &NotificationService{sms: sms}
}

// SendOTP delivers a login code.
func (s *NotificationService) SendOTP(ctx context.Context, phone, code string) error {
	return s.sms.Send(ctx, phone, fmt.Sprintf("Your ParkEase login code is %s. It expires in 5 minutes.", code))
}

// NotifyBookingConfirmed tells the driver their spot is secured.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, phone string, booking *domain.Booking, lotName string) error {
	return s.sms.Send(ctx, phone, fmt.Sprintf(
		"Booking confirmed at %s from %s to %s. Show QR %s at the gate.",
		lotName,
		booking.StartTime.Format("02 Jan 15:04"),
		booking.EndTime.Format("02 Jan 15:04"),
		booking.QRCodeData,
	))
}

// NotifyBookingCancelled tells the driver their booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, phone, bookingID string) error {
	return s.sms.Send(ctx, phone, fmt.Sprintf("Your booking %s has been cancelled.", bookingID))
}

// NotifyPayoutSent tells a seller their settlement went out.
func (s *NotificationService) NotifyPayoutSent(ctx context.Context, phone string, amount float64) error {
	return s.sms.Send(ctx, phone, fmt.Sprintf("A payout of %.2f has been sent to your linked account.", amount))
}
