package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
	"parkease/internal/service"
)

// Reference point: Bangalore city centre.
const (
	cityLat = 12.9716
	cityLng = 77.5946
)

func newSearchRequest() service.SearchRequest {
	start := time.Now().Add(time.Hour)
	return service.SearchRequest{
		Latitude:  cityLat,
		Longitude: cityLng,
		SpotType:  domain.SpotTypeCar,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
}

func TestSearch_FiltersByRadiusAndSortsNearestFirst(t *testing.T) {
	t.Parallel()

	repo := NewMockSearchRepository()
	// ~1.2km north, ~2.3km east, and one far outside the default radius.
	repo.AddRow(&repository.SearchRow{LotID: "lot-near", Latitude: cityLat + 0.011, Longitude: cityLng, Rate: 50, RateType: domain.RateTypeHourly})
	repo.AddRow(&repository.SearchRow{LotID: "lot-mid", Latitude: cityLat, Longitude: cityLng + 0.021, Rate: 40, RateType: domain.RateTypeHourly})
	repo.AddRow(&repository.SearchRow{LotID: "lot-far", Latitude: cityLat + 0.5, Longitude: cityLng, Rate: 30, RateType: domain.RateTypeHourly})
	svc := service.NewSearchService(repo)

	results, err := svc.Search(context.Background(), newSearchRequest())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 lots within 5km, got %d", len(results))
	}
	if results[0].LotID != "lot-near" || results[1].LotID != "lot-mid" {
		t.Errorf("expected nearest-first order, got %s then %s", results[0].LotID, results[1].LotID)
	}
	if results[0].DistanceKm <= 0 || results[0].DistanceKm > 2 {
		t.Errorf("implausible distance for lot-near: %.3f km", results[0].DistanceKm)
	}
}

func TestSearch_CustomRadiusWidensTheNet(t *testing.T) {
	t.Parallel()

	repo := NewMockSearchRepository()
	repo.AddRow(&repository.SearchRow{LotID: "lot-far", Latitude: cityLat + 0.5, Longitude: cityLng, Rate: 30, RateType: domain.RateTypeHourly})
	svc := service.NewSearchService(repo)

	req := newSearchRequest()
	req.RadiusKm = 100

	results, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the far lot inside a 100km radius, got %d results", len(results))
	}
}

func TestSearch_PricesTheRequestedRange(t *testing.T) {
	t.Parallel()

	repo := NewMockSearchRepository()
	repo.AddRow(&repository.SearchRow{LotID: "lot-hourly", Latitude: cityLat, Longitude: cityLng, Rate: 49.999, RateType: domain.RateTypeHourly})
	repo.AddRow(&repository.SearchRow{LotID: "lot-flat", Latitude: cityLat, Longitude: cityLng, Rate: 200, RateType: domain.RateTypeFlat})
	svc := service.NewSearchService(repo)

	// Two-hour request (newSearchRequest uses a 2h range).
	results, err := svc.Search(context.Background(), newSearchRequest())
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	prices := map[string]float64{}
	for _, r := range results {
		prices[r.LotID] = r.TotalPrice
	}
	// 49.999 * 2h = 99.998, rounded for display.
	if prices["lot-hourly"] != 100 {
		t.Errorf("expected hourly total 100, got %v", prices["lot-hourly"])
	}
	if prices["lot-flat"] != 200 {
		t.Errorf("expected flat total 200, got %v", prices["lot-flat"])
	}
}

func TestSearch_RejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := service.NewSearchService(NewMockSearchRepository())
	ctx := context.Background()

	req := newSearchRequest()
	req.Latitude = 91
	if _, err := svc.Search(ctx, req); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	req = newSearchRequest()
	req.SpotType = "BOAT"
	if _, err := svc.Search(ctx, req); !errors.Is(err, service.ErrInvalidSpotType) {
		t.Errorf("expected ErrInvalidSpotType, got %v", err)
	}

	req = newSearchRequest()
	req.EndTime = req.StartTime
	if _, err := svc.Search(ctx, req); !errors.Is(err, service.ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}
