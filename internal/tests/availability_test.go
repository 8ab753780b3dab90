package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/service"
)

func newAvailabilityFixture() (*MockAvailabilityRepository, *service.AvailabilityService) {
	availRepo := NewMockAvailabilityRepository()
	spotRepo := NewMockSpotRepository()
	lotRepo := NewMockLotRepository()

	lotRepo.AddLot(&domain.Lot{ID: "lot-1", OwnerUserID: "seller-1"})
	spotRepo.AddSpot(&domain.Spot{ID: "spot-1", LotID: "lot-1", SpotType: domain.SpotTypeCar})
	availRepo.Spots = spotRepo

	return availRepo, service.NewAvailabilityService(availRepo, spotRepo, lotRepo)
}

func TestSetAvailability_CreatesWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	availRepo, svc := newAvailabilityFixture()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "seller-1",
		SpotID:      "spot-1",
		StartTime:   start,
		EndTime:     start.Add(8 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to set availability: %v", err)
	}

	if window.Status != domain.WindowStatusAvailable {
		t.Errorf("expected AVAILABLE window, got %s", window.Status)
	}
	if got := len(availRepo.Windows()); got != 1 {
		t.Errorf("expected 1 stored window, got %d", got)
	}
}

func TestSetAvailability_RejectsOverlap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, svc := newAvailabilityFixture()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	if _, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "seller-1", SpotID: "spot-1",
		StartTime: start, EndTime: start.Add(4 * time.Hour),
	}); err != nil {
		t.Fatalf("failed to set first window: %v", err)
	}

	// Partial overlap with the existing window.
	_, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "seller-1", SpotID: "spot-1",
		StartTime: start.Add(2 * time.Hour), EndTime: start.Add(6 * time.Hour),
	})
	if !errors.Is(err, service.ErrWindowOverlap) {
		t.Errorf("expected ErrWindowOverlap, got %v", err)
	}

	// Back-to-back is fine: shared boundary is not an overlap.
	if _, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "seller-1", SpotID: "spot-1",
		StartTime: start.Add(4 * time.Hour), EndTime: start.Add(6 * time.Hour),
	}); err != nil {
		t.Errorf("adjacent window should be accepted, got %v", err)
	}
}

func TestSetAvailability_RejectsForeignSpot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, svc := newAvailabilityFixture()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "intruder",
		SpotID:      "spot-1",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestSetAvailability_RejectsInvertedRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, svc := newAvailabilityFixture()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err := svc.SetAvailability(ctx, service.SetAvailabilityRequest{
		OwnerUserID: "seller-1",
		SpotID:      "spot-1",
		StartTime:   start,
		EndTime:     start,
	})
	if !errors.Is(err, service.ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestDeleteWindow_RejectsBookedWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	availRepo, svc := newAvailabilityFixture()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	availRepo.AddWindow(&domain.AvailabilityWindow{
		ID: "w-booked", SpotID: "spot-1",
		StartTime: start, EndTime: start.Add(time.Hour),
		Status: domain.WindowStatusBooked, BookingID: "booking-1",
	})

	if err := svc.DeleteWindow(ctx, "seller-1", "w-booked"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden deleting a booked window, got %v", err)
	}
}

func TestSplitWindow_MiddleBookingLeavesBothRemainders(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := &domain.AvailabilityWindow{
		ID: "w-1", SpotID: "spot-1",
		StartTime: start, EndTime: start.Add(10 * time.Hour),
		Status: domain.WindowStatusAvailable,
	}

	segments := service.SplitWindow(window, start.Add(3*time.Hour), start.Add(5*time.Hour), "booking-1")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	before, booked, after := segments[0], segments[1], segments[2]

	if before.Status != domain.WindowStatusAvailable ||
		!before.StartTime.Equal(start) || !before.EndTime.Equal(start.Add(3*time.Hour)) {
		t.Errorf("unexpected leading remainder: %+v", before)
	}
	if booked.Status != domain.WindowStatusBooked || booked.BookingID != "booking-1" ||
		!booked.StartTime.Equal(start.Add(3*time.Hour)) || !booked.EndTime.Equal(start.Add(5*time.Hour)) {
		t.Errorf("unexpected booked segment: %+v", booked)
	}
	if after.Status != domain.WindowStatusAvailable ||
		!after.StartTime.Equal(start.Add(5*time.Hour)) || !after.EndTime.Equal(start.Add(10*time.Hour)) {
		t.Errorf("unexpected trailing remainder: %+v", after)
	}

	// No time is lost or invented by the split.
	if !before.StartTime.Equal(window.StartTime) || !after.EndTime.Equal(window.EndTime) {
		t.Error("split segments do not cover the original window")
	}
}

func TestSplitWindow_ExactFitLeavesNoRemainder(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := &domain.AvailabilityWindow{
		ID: "w-1", SpotID: "spot-1",
		StartTime: start, EndTime: start.Add(2 * time.Hour),
		Status: domain.WindowStatusAvailable,
	}

	segments := service.SplitWindow(window, start, start.Add(2*time.Hour), "booking-1")
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment for exact fit, got %d", len(segments))
	}
	if segments[0].Status != domain.WindowStatusBooked {
		t.Errorf("expected BOOKED segment, got %s", segments[0].Status)
	}
}

func TestSplitWindow_PrefixAndSuffixBookings(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := &domain.AvailabilityWindow{
		ID: "w-1", SpotID: "spot-1",
		StartTime: start, EndTime: start.Add(4 * time.Hour),
		Status: domain.WindowStatusAvailable,
	}

	// Booking aligned to the window start leaves only a trailing remainder.
	segments := service.SplitWindow(window, start, start.Add(time.Hour), "booking-1")
	if len(segments) != 2 {
		t.Fatalf("prefix booking: expected 2 segments, got %d", len(segments))
	}
	if segments[0].Status != domain.WindowStatusBooked || segments[1].Status != domain.WindowStatusAvailable {
		t.Error("prefix booking: unexpected segment statuses")
	}

	// Booking aligned to the window end leaves only a leading remainder.
	segments = service.SplitWindow(window, start.Add(3*time.Hour), start.Add(4*time.Hour), "booking-2")
	if len(segments) != 2 {
		t.Fatalf("suffix booking: expected 2 segments, got %d", len(segments))
	}
	if segments[0].Status != domain.WindowStatusAvailable || segments[1].Status != domain.WindowStatusBooked {
		t.Error("suffix booking: unexpected segment statuses")
	}
}
