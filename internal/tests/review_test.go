package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/service"
)

func newReviewEnv() (*MockBookingRepository, *service.ReviewService) {
	bookings := NewMockBookingRepository()
	bookings.AddBooking(&domain.Booking{
		ID:           "booking-1",
		DriverUserID: "driver-1",
		LotID:        "lot-1",
		SpotID:       "spot-1",
		StartTime:    time.Now().Add(-3 * time.Hour),
		EndTime:      time.Now().Add(-time.Hour),
		Status:       domain.BookingStatusCompleted,
	})
	return bookings, service.NewReviewService(NewMockReviewRepository(), bookings)
}

func TestCreateReview_OnePerCompletedBooking(t *testing.T) {
	t.Parallel()

	_, svc := newReviewEnv()
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, service.CreateReviewRequest{
		ReviewerID: "driver-1",
		BookingID:  "booking-1",
		Rating:     4,
		Comment:    "easy entry, well lit",
	})
	if err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
	if review.Rating != 4 || review.LotID != "lot-1" {
		t.Errorf("unexpected review %+v", review)
	}

	_, err = svc.CreateReview(ctx, service.CreateReviewRequest{
		ReviewerID: "driver-1",
		BookingID:  "booking-1",
		Rating:     5,
	})
	if !errors.Is(err, service.ErrAlreadyReviewed) {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestCreateReview_OnlyTheDriverCanReview(t *testing.T) {
	t.Parallel()

	_, svc := newReviewEnv()

	_, err := svc.CreateReview(context.Background(), service.CreateReviewRequest{
		ReviewerID: "stranger",
		BookingID:  "booking-1",
		Rating:     1,
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateReview_RequiresCompletedBooking(t *testing.T) {
	t.Parallel()

	bookings, svc := newReviewEnv()
	bookings.GetBooking("booking-1").Status = domain.BookingStatusConfirmed

	_, err := svc.CreateReview(context.Background(), service.CreateReviewRequest{
		ReviewerID: "driver-1",
		BookingID:  "booking-1",
		Rating:     3,
	})
	if !errors.Is(err, service.ErrBookingNotCompleted) {
		t.Errorf("expected ErrBookingNotCompleted, got %v", err)
	}
}

func TestCreateReview_RatingBounds(t *testing.T) {
	t.Parallel()

	_, svc := newReviewEnv()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), service.CreateReviewRequest{
			ReviewerID: "driver-1",
			BookingID:  "booking-1",
			Rating:     rating,
		})
		if !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}
