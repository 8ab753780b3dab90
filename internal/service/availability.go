package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// AvailabilityService handles seller management of spot availability windows.
type AvailabilityService struct {
	availRepo repository.AvailabilityRepository
	spotRepo  repository.SpotRepository
	lotRepo   repository.LotRepository
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	availRepo repository.AvailabilityRepository,
	spotRepo repository.SpotRepository,
	lotRepo repository.LotRepository,
) *AvailabilityService {
	return &AvailabilityService{
		availRepo: availRepo,
		spotRepo:  spotRepo,
		lotRepo:   lotRepo,
	}
}

// SetAvailabilityRequest contains the parameters for listing a time window.
type SetAvailabilityRequest struct {
	OwnerUserID string
	SpotID      string
	StartTime   time.Time
	EndTime     time.Time
}

// SetAvailability lists a spot as bookable for a time range. Windows for a
// spot may never overlap, regardless of status: a range already listed or
// booked rejects the new window outright rather than merging.
func (s *AvailabilityService) SetAvailability(ctx context.Context, req SetAvailabilityRequest) (*domain.AvailabilityWindow, error) {
	if req.SpotID == "" {
		return nil, ErrInvalidSpotID
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	if err := s.authorizeSpot(ctx, req.OwnerUserID, req.SpotID); err != nil {
		return nil, err
	}

	existing, err := s.availRepo.ListBySpot(ctx, req.SpotID)
	if err != nil {
		return nil, err
	}

	for _, w := range existing {
		if w.StartTime.Before(req.EndTime) && w.EndTime.After(req.StartTime) {
			return nil, ErrWindowOverlap
		}
	}

	window := &domain.AvailabilityWindow{
		ID:        uuid.New().String(),
		SpotID:    req.SpotID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.WindowStatusAvailable,
	}

	if err := s.availRepo.Create(ctx, window); err != nil {
		return nil, err
	}

	return window, nil
}

// ListWindows retrieves all windows for a spot the caller owns.
func (s *AvailabilityService) ListWindows(ctx context.Context, ownerUserID, spotID string) ([]*domain.AvailabilityWindow, error) {
	if spotID == "" {
		return nil, ErrInvalidSpotID
	}

	if err := s.authorizeSpot(ctx, ownerUserID, spotID); err != nil {
		return nil, err
	}

	return s.availRepo.ListBySpot(ctx, spotID)
}

// DeleteWindow unlists an AVAILABLE window. BOOKED windows belong to a
// confirmed booking and cannot be removed.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, ownerUserID, windowID string) error {
	window, err := s.availRepo.GetByID(ctx, windowID)
	if err != nil {
		return err
	}

	if err := s.authorizeSpot(ctx, ownerUserID, window.SpotID); err != nil {
		return err
	}

	if window.Status == domain.WindowStatusBooked {
		return ErrForbidden
	}

	return s.availRepo.Delete(ctx, windowID)
}

// authorizeSpot verifies the caller owns the lot containing the spot.
func (s *AvailabilityService) authorizeSpot(ctx context.Context, ownerUserID, spotID string) error {
	spot, err := s.spotRepo.GetByID(ctx, spotID)
	if err != nil {
		return err
	}

	lot, err := s.lotRepo.GetByID(ctx, spot.LotID)
	if err != nil {
		return err
	}

	if lot.OwnerUserID != ownerUserID {
		return ErrForbidden
	}

	return nil
}

// SplitWindow computes the replacement windows when [start, end] of an
// AVAILABLE window is consumed by a booking. The booked segment takes
// exactly the requested range; any remainder before or after stays
// AVAILABLE as separate windows. An exact-fit booking yields only the
// booked segment.
func SplitWindow(window *domain.AvailabilityWindow, start, end time.Time, bookingID string) []*domain.AvailabilityWindow {
	var result []*domain.AvailabilityWindow

	if window.StartTime.Before(start) {
		result = append(result, &domain.AvailabilityWindow{
			ID:        uuid.New().String(),
			SpotID:    window.SpotID,
			StartTime: window.StartTime,
			EndTime:   start,
			Status:    domain.WindowStatusAvailable,
		})
	}

	result = append(result, &domain.AvailabilityWindow{
		ID:        uuid.New().String(),
		SpotID:    window.SpotID,
		StartTime: start,
		EndTime:   end,
		Status:    domain.WindowStatusBooked,
		BookingID: bookingID,
	})

	if window.EndTime.After(end) {
		result = append(result, &domain.AvailabilityWindow{
			ID:        uuid.New().String(),
			SpotID:    window.SpotID,
			StartTime: end,
			EndTime:   window.EndTime,
			Status:    domain.WindowStatusAvailable,
		})
	}

	return result
}
