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

func newPricingFixture() (*MockPricingRepository, *MockLotRepository, *service.PricingService) {
	pricingRepo := NewMockPricingRepository()
	lotRepo := NewMockLotRepository()
	lotRepo.AddLot(&domain.Lot{ID: "lot-1", OwnerUserID: "seller-1", Name: "MG Road Parking"})
	txManager := NewMockTxManager(repository.Tx{Pricing: pricingRepo, Lots: lotRepo})
	return pricingRepo, lotRepo, service.NewPricingService(txManager, pricingRepo, lotRepo)
}

func TestResolveRate_PicksHighestPriority(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pricingRepo, _, svc := newPricingFixture()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-low", LotID: "lot-1", Rate: 40, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 1, CreatedAt: base,
	})
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-high", LotID: "lot-1", Rate: 60, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 5, CreatedAt: base,
	})

	rule, err := svc.ResolveRate(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to resolve rate: %v", err)
	}
	if rule.ID != "rule-high" {
		t.Errorf("expected rule-high, got %s", rule.ID)
	}
}

func TestResolveRate_TieBreaksByRecencyThenID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pricingRepo, _, svc := newPricingFixture()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-old", LotID: "lot-1", Rate: 40, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 3, CreatedAt: base,
	})
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-new", LotID: "lot-1", Rate: 50, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 3, CreatedAt: base.Add(time.Hour),
	})

	rule, err := svc.ResolveRate(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to resolve rate: %v", err)
	}
	if rule.ID != "rule-new" {
		t.Errorf("expected newer rule to win the tie, got %s", rule.ID)
	}

	// Same priority and creation time: the larger ID wins, so resolution
	// stays deterministic.
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-zz", LotID: "lot-1", Rate: 55, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 3, CreatedAt: base.Add(time.Hour),
	})

	rule, err = svc.ResolveRate(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to resolve rate: %v", err)
	}
	if rule.ID != "rule-zz" {
		t.Errorf("expected largest id to win the full tie, got %s", rule.ID)
	}
}

func TestResolveRate_IgnoresInactiveRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pricingRepo, _, svc := newPricingFixture()

	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-retired", LotID: "lot-1", Rate: 99, RateType: domain.RateTypeHourly,
		IsActive: false, Priority: 10,
	})
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-live", LotID: "lot-1", Rate: 45, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 1,
	})

	rule, err := svc.ResolveRate(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to resolve rate: %v", err)
	}
	if rule.ID != "rule-live" {
		t.Errorf("expected rule-live, got %s", rule.ID)
	}
}

func TestResolveRate_NoActiveRule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newPricingFixture()

	_, err := svc.ResolveRate(ctx, "lot-1")
	if !errors.Is(err, service.ErrNoActiveRate) {
		t.Errorf("expected ErrNoActiveRate, got %v", err)
	}
}

func TestComputePrice_HourlyBillsFractionWithOneHourMinimum(t *testing.T) {
	t.Parallel()

	rule := &domain.PricingRule{Rate: 100, RateType: domain.RateTypeHourly}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		duration time.Duration
		want     float64
	}{
		{"thirty minutes bills one hour", 30 * time.Minute, 100},
		{"exactly one hour", time.Hour, 100},
		{"ninety minutes bills the fraction", 90 * time.Minute, 150},
		{"two and a half hours", 150 * time.Minute, 250},
		{"twelve hours", 12 * time.Hour, 1200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.ComputePrice(rule, start, start.Add(tc.duration))
			if got != tc.want {
				t.Errorf("expected %.2f, got %.2f", tc.want, got)
			}
		})
	}
}

func TestComputePrice_FlatIgnoresDuration(t *testing.T) {
	t.Parallel()

	rule := &domain.PricingRule{Rate: 200, RateType: domain.RateTypeFlat}
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, d := range []time.Duration{time.Minute, time.Hour, 12 * time.Hour} {
		if got := service.ComputePrice(rule, start, start.Add(d)); got != 200 {
			t.Errorf("flat rate for %v: expected 200, got %.2f", d, got)
		}
	}
}

func TestCreateRule_RejectsForeignLot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newPricingFixture()

	_, err := svc.CreateRule(ctx, service.CreateRuleRequest{
		OwnerUserID: "someone-else",
		LotID:       "lot-1",
		Rate:        50,
		RateType:    domain.RateTypeHourly,
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDeactivateRule_StopsResolution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pricingRepo, _, svc := newPricingFixture()

	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-1", LotID: "lot-1", Rate: 50, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 1,
	})

	if err := svc.DeactivateRule(ctx, "seller-1", "rule-1"); err != nil {
		t.Fatalf("failed to deactivate rule: %v", err)
	}

	if _, err := svc.ResolveRate(ctx, "lot-1"); !errors.Is(err, service.ErrNoActiveRate) {
		t.Errorf("expected ErrNoActiveRate after deactivation, got %v", err)
	}
}

func TestSetLotRate_ReplacesAllExistingRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pricingRepo, _, svc := newPricingFixture()

	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-old", LotID: "lot-1", Rate: 40, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 1,
	})
	pricingRepo.AddRule(&domain.PricingRule{
		ID: "rule-surge", LotID: "lot-1", Rate: 90, RateType: domain.RateTypeHourly,
		IsActive: true, Priority: 5,
	})

	rule, err := svc.SetLotRate(ctx, service.SetLotRateRequest{
		OwnerUserID: "seller-1",
		LotID:       "lot-1",
		Rate:        60,
		RateType:    domain.RateTypeHourly,
	})
	if err != nil {
		t.Fatalf("failed to set lot rate: %v", err)
	}
	if rule.Name != "Standard Rate" || rule.Priority != 0 {
		t.Errorf("expected priority-0 standard rate, got %q priority %d", rule.Name, rule.Priority)
	}

	resolved, err := svc.ResolveRate(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to resolve rate: %v", err)
	}
	if resolved.ID != rule.ID || resolved.Rate != 60 {
		t.Errorf("expected the new rate to resolve, got %s at %.2f", resolved.ID, resolved.Rate)
	}

	rules, err := pricingRepo.ListByLot(ctx, "lot-1")
	if err != nil {
		t.Fatalf("failed to list rules: %v", err)
	}
	for _, r := range rules {
		if r.ID != rule.ID && r.IsActive {
			t.Errorf("expected %s to be deactivated", r.ID)
		}
	}
}

func TestSetLotRate_RejectsForeignLotAndBadInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, _, svc := newPricingFixture()

	_, err := svc.SetLotRate(ctx, service.SetLotRateRequest{
		OwnerUserID: "someone-else", LotID: "lot-1", Rate: 60, RateType: domain.RateTypeHourly,
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	_, err = svc.SetLotRate(ctx, service.SetLotRateRequest{
		OwnerUserID: "seller-1", LotID: "lot-1", Rate: 0, RateType: domain.RateTypeHourly,
	})
	if !errors.Is(err, service.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}

	_, err = svc.SetLotRate(ctx, service.SetLotRateRequest{
		OwnerUserID: "seller-1", LotID: "lot-1", Rate: 60, RateType: domain.RateType("DAILY"),
	})
	if !errors.Is(err, service.ErrInvalidRateType) {
		t.Errorf("expected ErrInvalidRateType, got %v", err)
	}
}
