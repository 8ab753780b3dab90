package service

import (
	"context"
	"math"
	"sort"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

const defaultSearchRadiusKm = 5.0

// SearchService handles driver-facing availability search.
type SearchService struct {
	searchRepo repository.SearchRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(searchRepo repository.SearchRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo}
}

// SearchRequest contains the parameters for an availability search.
type SearchRequest struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64 // 0 uses the default
	SpotType  domain.SpotType
	StartTime time.Time
	EndTime   time.Time
}

// SearchResult is one lot that can serve the requested range.
type SearchResult struct {
	LotID      string
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
	DistanceKm float64
	Rate       float64
	RateType   domain.RateType
	TotalPrice float64 // price for the requested range, rounded for display
}

// Search returns lots near the given point that have at least one spot of
// the requested type open for the whole range, nearest first. TotalPrice is
// the lot's active rule applied to the requested range, rounded to two
// decimals at this presentation edge only; booking amounts are computed at
// full precision when the booking is created.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]*SearchResult, error) {
	if !isValidLatitude(req.Latitude) || !isValidLongitude(req.Longitude) {
		return nil, ErrInvalidLocation
	}
	if req.SpotType != domain.SpotTypeCar && req.SpotType != domain.SpotTypeTwoWheeler {
		return nil, ErrInvalidSpotType
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}

	rows, err := s.searchRepo.FindAvailableLots(ctx, req.SpotType, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var results []*SearchResult
	for _, row := range rows {
		distance := haversineKm(req.Latitude, req.Longitude, row.Latitude, row.Longitude)
		if distance > radiusKm {
			continue
		}

		rule := &domain.PricingRule{Rate: row.Rate, RateType: row.RateType}
		price := ComputePrice(rule, req.StartTime, req.EndTime)

		results = append(results, &SearchResult{
			LotID:      row.LotID,
			Name:       row.Name,
			Address:    row.Address,
			Latitude:   row.Latitude,
			Longitude:  row.Longitude,
			DistanceKm: distance,
			Rate:       row.Rate,
			RateType:   row.RateType,
			TotalPrice: math.Round(price*100) / 100,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results, nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
