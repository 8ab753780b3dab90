package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// LotService handles seller management of lots and spots.
type LotService struct {
	lotRepo  repository.LotRepository
	spotRepo repository.SpotRepository
	accounts *AccountService
	geocoder Geocoder
}

// NewLotService creates a new LotService.
func NewLotService(
	lotRepo repository.LotRepository,
	spotRepo repository.SpotRepository,
	accounts *AccountService,
	geocoder Geocoder,
) *LotService {
	return &LotService{
		lotRepo:  lotRepo,
		spotRepo: spotRepo,
		accounts: accounts,
		geocoder: geocoder,
	}
}

// CreateLotRequest contains the parameters for registering a lot.
type CreateLotRequest struct {
	OwnerUserID string
	Name        string
	Address     string
}

// CreateLot registers a new parking lot. The address is geocoded for search
// and the owner is upgraded to a seller if they are not one already.
func (s *LotService) CreateLot(ctx context.Context, req CreateLotRequest) (*domain.Lot, error) {
	if req.OwnerUserID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressNotFound
	}

	lat, lng, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	lot := &domain.Lot{
		ID:          uuid.New().String(),
		OwnerUserID: req.OwnerUserID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    lat,
		Longitude:   lng,
		CreatedAt:   time.Now(),
	}

	if err := s.lotRepo.Create(ctx, lot); err != nil {
		return nil, err
	}

	if _, err := s.accounts.PromoteToSeller(ctx, req.OwnerUserID); err != nil {
		return nil, err
	}

	return lot, nil
}

// AddSpotRequest contains the parameters for adding a spot to a lot.
type AddSpotRequest struct {
	OwnerUserID string
	LotID       string
	Name        string
	SpotType    domain.SpotType
}

// AddSpot adds a bookable spot to a lot the caller owns. Spots are
// immutable once created; capacity changes mean adding new spots.
func (s *LotService) AddSpot(ctx context.Context, req AddSpotRequest) (*domain.Spot, error) {
	if req.LotID == "" {
		return nil, ErrInvalidLotID
	}
	if req.SpotType != domain.SpotTypeCar && req.SpotType != domain.SpotTypeTwoWheeler {
		return nil, ErrInvalidSpotType
	}

	lot, err := s.lotRepo.GetByID(ctx, req.LotID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerUserID != req.OwnerUserID {
		return nil, ErrForbidden
	}

	spot := &domain.Spot{
		ID:       uuid.New().String(),
		LotID:    req.LotID,
		Name:     req.Name,
		SpotType: req.SpotType,
	}

	if err := s.spotRepo.Create(ctx, spot); err != nil {
		return nil, err
	}

	return spot, nil
}

// MyLots retrieves the lots the caller owns.
func (s *LotService) MyLots(ctx context.Context, ownerUserID string) ([]*domain.Lot, error) {
	if ownerUserID == "" {
		return nil, ErrInvalidUserID
	}
	return s.lotRepo.GetByOwner(ctx, ownerUserID)
}

// ListSpots retrieves the spots of a lot the caller owns.
func (s *LotService) ListSpots(ctx context.Context, ownerUserID, lotID string) ([]*domain.Spot, error) {
	if lotID == "" {
		return nil, ErrInvalidLotID
	}

	lot, err := s.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerUserID != ownerUserID {
		return nil, ErrForbidden
	}

	return s.spotRepo.GetByLot(ctx, lotID)
}

// GetLot retrieves a lot by ID. Public; used by search detail views.
func (s *LotService) GetLot(ctx context.Context, lotID string) (*domain.Lot, error) {
	if lotID == "" {
		return nil, ErrInvalidLotID
	}
	return s.lotRepo.GetByID(ctx, lotID)
}
