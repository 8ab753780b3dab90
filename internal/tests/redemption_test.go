package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/service"
)

type redemptionEnv struct {
	bookings *MockBookingRepository
	lots     *MockLotRepository
	users    *MockUserRepository

	start time.Time
	end   time.Time
}

func newRedemptionEnv() *redemptionEnv {
	env := &redemptionEnv{
		bookings: NewMockBookingRepository(),
		lots:     NewMockLotRepository(),
		users:    NewMockUserRepository(),
		start:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	env.end = env.start.Add(3 * time.Hour)

	env.lots.AddLot(&domain.Lot{ID: "lot-1", OwnerUserID: "seller-1", Name: "MG Road Parking"})
	env.users.AddUser(&domain.User{ID: "driver-1", Phone: "+919900112233", Name: "Asha Rao", Role: domain.RoleDriver})
	env.bookings.AddBooking(&domain.Booking{
		ID:           "booking-1",
		DriverUserID: "driver-1",
		LotID:        "lot-1",
		SpotID:       "spot-1",
		StartTime:    env.start,
		EndTime:      env.end,
		Status:       domain.BookingStatusConfirmed,
		QRCodeData:   "pk_abc123def456",
	})
	return env
}

func (env *redemptionEnv) serviceAt(at time.Time) *service.RedemptionService {
	return service.NewRedemptionServiceWithClock(env.bookings, env.lots, env.users, nil, func() time.Time {
		return at
	})
}

func TestRedeem_WindowBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		at      time.Duration // offset from window start
		wantErr error
	}{
		{"one second early", -time.Second, service.ErrTooEarly},
		{"exactly at start", 0, nil},
		{"midway", 90 * time.Minute, nil},
		{"exactly at end", 3 * time.Hour, nil},
		{"one second late", 3*time.Hour + time.Second, service.ErrExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newRedemptionEnv()
			svc := env.serviceAt(env.start.Add(tc.at))

			result, err := svc.Redeem(context.Background(), "seller-1", "pk_abc123def456")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && result.Booking.Status != domain.BookingStatusCompleted {
				t.Errorf("expected COMPLETED after redemption, got %s", result.Booking.Status)
			}
		})
	}
}

func TestRedeem_ReturnsDriverName(t *testing.T) {
	t.Parallel()

	env := newRedemptionEnv()
	svc := env.serviceAt(env.start.Add(time.Hour))

	result, err := svc.Redeem(context.Background(), "seller-1", "pk_abc123def456")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.DriverName != "Asha Rao" {
		t.Errorf("expected driver name for the attendant, got %q", result.DriverName)
	}
}

func TestRedeem_SecondScanReportsAlreadyRedeemed(t *testing.T) {
	t.Parallel()

	env := newRedemptionEnv()
	svc := env.serviceAt(env.start.Add(time.Hour))
	ctx := context.Background()

	if _, err := svc.Redeem(ctx, "seller-1", "pk_abc123def456"); err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	if _, err := svc.Redeem(ctx, "seller-1", "pk_abc123def456"); !errors.Is(err, service.ErrAlreadyRedeemed) {
		t.Errorf("expected ErrAlreadyRedeemed, got %v", err)
	}
}

func TestRedeem_ForeignLotOwnerForbidden(t *testing.T) {
	t.Parallel()

	env := newRedemptionEnv()
	svc := env.serviceAt(env.start.Add(time.Hour))

	if _, err := svc.Redeem(context.Background(), "other-seller", "pk_abc123def456"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestRedeem_UnknownToken(t *testing.T) {
	t.Parallel()

	env := newRedemptionEnv()
	svc := env.serviceAt(env.start.Add(time.Hour))
	ctx := context.Background()

	if _, err := svc.Redeem(ctx, "seller-1", "pk_nosuchtoken"); !errors.Is(err, service.ErrQRNotFound) {
		t.Errorf("expected ErrQRNotFound for unknown token, got %v", err)
	}
	if _, err := svc.Redeem(ctx, "seller-1", ""); !errors.Is(err, service.ErrQRNotFound) {
		t.Errorf("expected ErrQRNotFound for empty token, got %v", err)
	}
}

func TestRedeem_UnpaidBookingRejected(t *testing.T) {
	t.Parallel()

	env := newRedemptionEnv()
	env.bookings.GetBooking("booking-1").Status = domain.BookingStatusPending
	svc := env.serviceAt(env.start.Add(time.Hour))

	if _, err := svc.Redeem(context.Background(), "seller-1", "pk_abc123def456"); !errors.Is(err, service.ErrBookingNotConfirmed) {
		t.Errorf("expected ErrBookingNotConfirmed, got %v", err)
	}
}
