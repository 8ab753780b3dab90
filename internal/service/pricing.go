package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// PricingService handles rate definition and price resolution.
type PricingService struct {
	txManager   repository.TxManager
	pricingRepo repository.PricingRepository
	lotRepo     repository.LotRepository
}

// NewPricingService creates a new PricingService.
func NewPricingService(txManager repository.TxManager, pricingRepo repository.PricingRepository, lotRepo repository.LotRepository) *PricingService {
	return &PricingService{
		txManager:   txManager,
		pricingRepo: pricingRepo,
		lotRepo:     lotRepo,
	}
}

// CreateRuleRequest contains the parameters for defining a pricing rule.
type CreateRuleRequest struct {
	OwnerUserID string
	LotID       string
	Name        string
	Rate        float64
	RateType    domain.RateType
	Priority    int
}

// CreateRule defines a new rate for a lot. The rule becomes active
// immediately; whether it applies depends on priority resolution.
func (s *PricingService) CreateRule(ctx context.Context, req CreateRuleRequest) (*domain.PricingRule, error) {
	if req.LotID == "" {
		return nil, ErrInvalidLotID
	}
	if req.Rate <= 0 {
		return nil, ErrInvalidRate
	}
	if req.RateType != domain.RateTypeHourly && req.RateType != domain.RateTypeFlat {
		return nil, ErrInvalidRateType
	}

	lot, err := s.lotRepo.GetByID(ctx, req.LotID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerUserID != req.OwnerUserID {
		return nil, ErrForbidden
	}

	rule := &domain.PricingRule{
		ID:        uuid.New().String(),
		LotID:     req.LotID,
		Name:      req.Name,
		Rate:      req.Rate,
		RateType:  req.RateType,
		IsActive:  true,
		Priority:  req.Priority,
		CreatedAt: time.Now(),
	}

	if err := s.pricingRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// SetLotRateRequest contains the parameters for replacing a lot's rate.
type SetLotRateRequest struct {
	OwnerUserID string
	LotID       string
	Rate        float64
	RateType    domain.RateType
}

// SetLotRate replaces every rule on the lot with a single standard rate.
// Deactivation and creation share one transaction so resolution never sees
// the lot without an active rule.
func (s *PricingService) SetLotRate(ctx context.Context, req SetLotRateRequest) (*domain.PricingRule, error) {
	if req.LotID == "" {
		return nil, ErrInvalidLotID
	}
	if req.Rate <= 0 {
		return nil, ErrInvalidRate
	}
	if req.RateType != domain.RateTypeHourly && req.RateType != domain.RateTypeFlat {
		return nil, ErrInvalidRateType
	}

	lot, err := s.lotRepo.GetByID(ctx, req.LotID)
	if err != nil {
		return nil, err
	}
	if lot.OwnerUserID != req.OwnerUserID {
		return nil, ErrForbidden
	}

	rule := &domain.PricingRule{
		ID:        uuid.New().String(),
		LotID:     req.LotID,
		Name:      "Standard Rate",
		Rate:      req.Rate,
		RateType:  req.RateType,
		IsActive:  true,
		Priority:  0,
		CreatedAt: time.Now(),
	}

	err = s.txManager.WithinTx(ctx, func(tx *repository.Tx) error {
		if err := tx.Pricing.DeactivateAllForLot(ctx, req.LotID); err != nil {
			return err
		}
		return tx.Pricing.Create(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules retrieves all rules for a lot the caller owns.
func (s *PricingService) ListRules(ctx context.Context, ownerUserID, lotID string) ([]*domain.PricingRule, error) {
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

	return s.pricingRepo.ListByLot(ctx, lotID)
}

// DeactivateRule soft-deletes a rule. Historical bookings keep the price
// they were charged; only future resolution changes.
func (s *PricingService) DeactivateRule(ctx context.Context, ownerUserID, ruleID string) error {
	rule, err := s.pricingRepo.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}

	lot, err := s.lotRepo.GetByID(ctx, rule.LotID)
	if err != nil {
		return err
	}
	if lot.OwnerUserID != ownerUserID {
		return ErrForbidden
	}

	return s.pricingRepo.Deactivate(ctx, ruleID)
}

// ResolveRate returns the single rule that applies to a lot right now:
// the active rule with the highest priority, ties broken by recency.
func (s *PricingService) ResolveRate(ctx context.Context, lotID string) (*domain.PricingRule, error) {
	if lotID == "" {
		return nil, ErrInvalidLotID
	}

	rule, err := s.pricingRepo.GetActiveTopRule(ctx, lotID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrNoActiveRate
		}
		return nil, err
	}

	return rule, nil
}

// ComputePrice applies a rule to a booking duration. Hourly rates bill the
// exact fractional duration with a one-hour minimum. Flat rates ignore
// duration entirely.
func ComputePrice(rule *domain.PricingRule, start, end time.Time) float64 {
	if rule.RateType == domain.RateTypeFlat {
		return rule.Rate
	}

	hours := math.Max(1, end.Sub(start).Hours())
	return rule.Rate * hours
}
