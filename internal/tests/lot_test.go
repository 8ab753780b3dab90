package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/service"
)

type lotEnv struct {
	users *MockUserRepository
	lots  *MockLotRepository
	spots *MockSpotRepository
	svc   *service.LotService
}

func newLotEnv() *lotEnv {
	env := &lotEnv{
		users: NewMockUserRepository(),
		lots:  NewMockLotRepository(),
		spots: NewMockSpotRepository(),
	}
	accountService := service.NewAccountService(env.users, NewMockOTPStore(), nil, nil, nil, time.Hour)
	env.svc = service.NewLotService(env.lots, env.spots, accountService, service.NewStaticGeocoder())
	env.users.AddUser(&domain.User{ID: "user-1", Phone: "+919900112233", Role: domain.RoleDriver})
	return env
}

func TestCreateLot_GeocodesAndPromotesOwner(t *testing.T) {
	t.Parallel()

	env := newLotEnv()

	lot, err := env.svc.CreateLot(context.Background(), service.CreateLotRequest{
		OwnerUserID: "user-1",
		Name:        "MG Road Parking",
		Address:     "42 MG Road, Bangalore",
	})
	if err != nil {
		t.Fatalf("failed to create lot: %v", err)
	}
	if lot.Latitude == 0 && lot.Longitude == 0 {
		t.Error("expected geocoded coordinates")
	}
	if got := env.users.GetUser("user-1").Role; got != domain.RoleSellerC2B {
		t.Errorf("expected owner promoted to SELLER_C2B, got %s", got)
	}
}

func TestCreateLot_RejectsBlankAddress(t *testing.T) {
	t.Parallel()

	env := newLotEnv()

	_, err := env.svc.CreateLot(context.Background(), service.CreateLotRequest{
		OwnerUserID: "user-1",
		Name:        "MG Road Parking",
		Address:     "   ",
	})
	if !errors.Is(err, service.ErrAddressNotFound) {
		t.Errorf("expected ErrAddressNotFound, got %v", err)
	}
}

func TestAddSpot_OnlyOwnerCanAdd(t *testing.T) {
	t.Parallel()

	env := newLotEnv()
	env.lots.AddLot(&domain.Lot{ID: "lot-1", OwnerUserID: "user-1", Name: "MG Road Parking"})

	spot, err := env.svc.AddSpot(context.Background(), service.AddSpotRequest{
		OwnerUserID: "user-1",
		LotID:       "lot-1",
		Name:        "B1-07",
		SpotType:    domain.SpotTypeCar,
	})
	if err != nil {
		t.Fatalf("failed to add spot: %v", err)
	}
	if spot.LotID != "lot-1" || spot.SpotType != domain.SpotTypeCar {
		t.Errorf("unexpected spot %+v", spot)
	}

	_, err = env.svc.AddSpot(context.Background(), service.AddSpotRequest{
		OwnerUserID: "stranger",
		LotID:       "lot-1",
		Name:        "B1-08",
		SpotType:    domain.SpotTypeCar,
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden for foreign owner, got %v", err)
	}
}

func TestAddSpot_RejectsUnknownSpotType(t *testing.T) {
	t.Parallel()

	env := newLotEnv()
	env.lots.AddLot(&domain.Lot{ID: "lot-1", OwnerUserID: "user-1", Name: "MG Road Parking"})

	_, err := env.svc.AddSpot(context.Background(), service.AddSpotRequest{
		OwnerUserID: "user-1",
		LotID:       "lot-1",
		Name:        "B1-07",
		SpotType:    "BOAT",
	})
	if !errors.Is(err, service.ErrInvalidSpotType) {
		t.Errorf("expected ErrInvalidSpotType, got %v", err)
	}
}
