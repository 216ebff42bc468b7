package service

import (
	"context"
	"errors"
	"time"

	"github.com/festo/gala/api/internal/config"
	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// TierService classifies suppliers into ranked tiers. Classification is
// computed on read from current metrics and the configured policy tables,
// never persisted, so a tier can move in either direction as metrics change.
type TierService struct {
	standingRepo StandingRepository
	supplierRepo SupplierReader
	policy       config.TierPolicy

	now func() time.Time
}

// NewTierService creates a new tier service
func NewTierService(standingRepo StandingRepository, supplierRepo SupplierReader, policy config.TierPolicy) *TierService {
	return &TierService{
		standingRepo: standingRepo,
		supplierRepo: supplierRepo,
		policy:       policy,
		now:          time.Now,
	}
}

// Classify returns the highest tier whose requirements the metrics satisfy.
// The walk goes strictest first, so a supplier just short of premium lands on
// diamond, not basic. Basic has zero requirements and always matches.
func (s *TierService) Classify(m model.TierMetrics) model.SupplierTier {
	for _, tier := range model.TiersByStrictness() {
		if s.policy.Requirements[tier].Meets(m) {
			return tier
		}
	}
	return model.TierBasic
}

// Benefits returns the benefit table entry for a tier
func (s *TierService) Benefits(tier model.SupplierTier) model.TierBenefits {
	return s.policy.Benefits[tier]
}

// ClassifySupplier loads a supplier's current metrics and classifies them.
// Customers and suppliers without a standing yet classify as basic.
func (s *TierService) ClassifySupplier(ctx context.Context, userID string) (*model.TierClassification, error) {
	supplier, err := s.supplierRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	metrics := model.TierMetrics{
		AccountAgeDays: supplier.AccountAgeDays(s.now()),
		ServiceCount:   supplier.ServiceCount,
	}

	standing, err := s.standingRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if standing != nil {
		metrics.Rating = standing.Metrics.OverallRating
		metrics.ReviewCount = standing.Metrics.TotalReviews
		metrics.ResponseRate = standing.Metrics.ResponseRate
		metrics.CompletionRate = standing.Metrics.CompletionRate
	}

	tier := s.Classify(metrics)
	return &model.TierClassification{
		UserID:   userID,
		Tier:     tier,
		Benefits: s.Benefits(tier),
	}, nil
}
