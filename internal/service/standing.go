package service

import (
	"context"
	"errors"
	"time"

	"github.com/festo/gala/api/internal/config"
	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// StandingRepository defines the interface for standing data access
type StandingRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.Standing, error)
	Create(ctx context.Context, standing *model.Standing) error
	UpdateSnapshot(ctx context.Context, standing *model.Standing) error
	IncrementBookingCompleted(ctx context.Context, userID string) error
	IncrementBookingCancelled(ctx context.Context, userID string) error
	IncrementReview(ctx context.Context, userID string, rating float64) error
	IncrementResponseSample(ctx context.Context, userID string, responded, onTime bool) error
	ResetWarnings(ctx context.Context, userID string) error
	ListExpiredSuspensions(ctx context.Context, now time.Time) ([]*model.Standing, error)
}

// SupplierReader is the slice of supplier access the standing engine needs
// for badge evaluation
type SupplierReader interface {
	GetByUserID(ctx context.Context, userID string) (*model.Supplier, error)
}

// RankingProvider reports whether a supplier is currently a top performer in
// their category. Backed by the search ranking pipeline; the standing engine
// only consumes the verdict.
type RankingProvider interface {
	IsTopPerformer(ctx context.Context, userID string) (bool, error)
}

// Notifier receives standing lifecycle notifications for out-of-band
// delivery (push, email)
type Notifier interface {
	StandingChanged(ctx context.Context, userID string, from, to model.SafetyStatus)
}

// StandingService derives safety scores and statuses from the authoritative
// counters and owns the standing snapshot lifecycle
type StandingService struct {
	standingRepo StandingRepository
	suppliers    SupplierReader
	ranking      RankingProvider
	notifier     Notifier
	eventHub     *EventHub
	policy       config.PolicyConfig

	now func() time.Time
}

// NewStandingService creates a new standing service
func NewStandingService(standingRepo StandingRepository, suppliers SupplierReader, ranking RankingProvider, notifier Notifier, eventHub *EventHub, policy config.PolicyConfig) *StandingService {
	return &StandingService{
		standingRepo: standingRepo,
		suppliers:    suppliers,
		ranking:      ranking,
		notifier:     notifier,
		eventHub:     eventHub,
		policy:       policy,
		now:          time.Now,
	}
}

// GetStanding retrieves a user's standing, creating a neutral record on first
// touch
func (s *StandingService) GetStanding(ctx context.Context, userID string) (*model.Standing, error) {
	standing, err := s.standingRepo.GetByUserID(ctx, userID)
	if err == nil {
		return standing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	standing = &model.Standing{
		UserID:       userID,
		SafetyStatus: model.SafetyStatusSafe,
	}
	standing.SafetyScore = s.Score(standing.Metrics)
	if createErr := s.standingRepo.Create(ctx, standing); createErr != nil {
		// Lost a creation race: the other writer's record is authoritative
		if errors.Is(createErr, database.ErrDuplicate) {
			return s.standingRepo.GetByUserID(ctx, userID)
		}
		return nil, createErr
	}
	return standing, nil
}

// Score computes the safety score for a set of metrics. Pure and monotonic:
// improving any positive metric or shedding a report never lowers the result.
// Metrics with no signal yet count in full, so a brand-new user starts at the
// top of the scale.
func (s *StandingService) Score(m model.StandingMetrics) float64 {
	w := s.policy.Score

	ratingRatio := 1.0
	if m.TotalReviews > 0 {
		ratingRatio = m.OverallRating / 5.0
	}
	completionRatio := 1.0
	cancellationRatio := 0.0
	if m.CompletedBookings+m.CancelledBookings > 0 {
		completionRatio = m.CompletionRate
		cancellationRatio = m.CancellationRate
	}
	responseRatio := 1.0
	onTimeRatio := 1.0
	if m.ResponseSamples > 0 {
		responseRatio = m.ResponseRate
		onTimeRatio = m.OnTimeRate
	}

	score := w.Rating*ratingRatio +
		w.Completion*completionRatio +
		w.Response*responseRatio +
		w.OnTime*onTimeRatio +
		w.Baseline

	score -= w.CriticalReportPenalty * float64(m.CriticalReports)
	score -= w.HighReportPenalty * float64(m.HighReports)
	score -= w.ActiveReportPenalty * float64(m.ActiveReports())
	score -= w.CancellationPenalty * cancellationRatio

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Recompute re-derives a user's standing snapshot from the authoritative
// counters and writes it under optimistic concurrency. Safe to call any
// number of times: with unchanged inputs the derived fields and stamps come
// out identical.
func (s *StandingService) Recompute(ctx context.Context, userID string) (*model.Standing, error) {
	for attempt := 0; attempt < s.policy.SnapshotRetries; attempt++ {
		standing, err := s.GetStanding(ctx, userID)
		if err != nil {
			return nil, err
		}

		previous := standing.SafetyStatus
		now := s.now()

		standing.SafetyScore = s.Score(standing.Metrics)
		target := s.deriveStatus(standing, now)
		s.applyTransition(standing, target, now)

		badges, err := s.evaluateBadges(ctx, standing)
		if err != nil {
			return nil, err
		}
		standing.Badges = badges

		err = s.standingRepo.UpdateSnapshot(ctx, standing)
		if errors.Is(err, database.ErrConflict) {
			continue // another writer advanced the revision, re-read and retry
		}
		if err != nil {
			return nil, err
		}

		s.announce(ctx, standing, previous)
		return standing, nil
	}

	return nil, ErrRecomputeConflict
}

// deriveStatus derives the target safety status for a standing. Pure with
// respect to the standing and clock.
func (s *StandingService) deriveStatus(st *model.Standing, now time.Time) model.SafetyStatus {
	t := s.policy.Status

	// A suspension in force holds until it expires or an admin lifts it
	if st.AdminSuspended {
		return model.SafetyStatusSuspended
	}
	if st.SafetyStatus == model.SafetyStatusSuspended {
		if st.SuspensionEndsOn == nil || now.Before(*st.SuspensionEndsOn) {
			return model.SafetyStatusSuspended
		}
	}

	ratingFloorBreached := st.Metrics.TotalReviews >= t.RatingFloorMinReviews &&
		st.Metrics.OverallRating < t.RatingFloor

	switch {
	case st.SafetyScore < t.SuspensionScore || ratingFloorBreached:
		return model.SafetyStatusSuspended
	case st.SafetyScore < t.ProbationScore || st.WarningCount >= t.MaxWarnings:
		return model.SafetyStatusProbation
	case st.SafetyScore < t.WarningScore || st.HasUnresolvedCritical():
		return model.SafetyStatusWarning
	default:
		return model.SafetyStatusSafe
	}
}

// applyTransition moves a standing to the target status, maintaining stamps.
// Re-deriving the same status is a no-op, which is what makes Recompute
// idempotent; stamps only move on actual transitions.
func (s *StandingService) applyTransition(st *model.Standing, target model.SafetyStatus, now time.Time) {
	if st.SafetyStatus == target {
		return
	}

	entering := model.IsWorseStatus(target, st.SafetyStatus)
	st.SafetyStatus = target

	switch target {
	case model.SafetyStatusSuspended:
		st.SuspensionStartedOn = &now
		if st.SuspensionEndsOn == nil && !st.AdminSuspended {
			ends := now.Add(s.policy.Status.SuspensionDuration)
			st.SuspensionEndsOn = &ends
		}
	case model.SafetyStatusProbation:
		if entering {
			st.ProbationStartedOn = &now
		}
		st.SuspensionStartedOn = nil
		st.SuspensionEndsOn = nil
	case model.SafetyStatusWarning:
		if entering {
			// A fresh warning; the counter is monotonic and only an
			// explicit admin reset may lower it
			st.WarningCount++
			st.LastWarningOn = &now
		}
		st.ProbationStartedOn = nil
		st.SuspensionStartedOn = nil
		st.SuspensionEndsOn = nil
	case model.SafetyStatusSafe:
		st.ProbationStartedOn = nil
		st.SuspensionStartedOn = nil
		st.SuspensionEndsOn = nil
	}
}

// evaluateBadges recomputes the badge set wholesale from current inputs
func (s *StandingService) evaluateBadges(ctx context.Context, st *model.Standing) ([]model.Badge, error) {
	identityVerified := false
	if s.suppliers != nil {
		supplier, err := s.suppliers.GetByUserID(ctx, st.UserID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if supplier != nil {
			identityVerified = supplier.IdentityStatus == model.IdentityStatusVerified
		}
	}

	topPerformer := false
	if s.ranking != nil {
		top, err := s.ranking.IsTopPerformer(ctx, st.UserID)
		if err == nil {
			topPerformer = top
		}
		// Ranking outages degrade to "not a top performer" rather than
		// failing the recompute
	}

	return EvaluateBadges(st.Metrics, identityVerified, topPerformer, s.now()), nil
}

// announce publishes standing change events once a snapshot write has
// succeeded
func (s *StandingService) announce(ctx context.Context, st *model.Standing, previous model.SafetyStatus) {
	if st.SafetyStatus == previous {
		return
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventStandingChanged,
			UserID: st.UserID,
			Data: map[string]interface{}{
				"user_id": st.UserID,
				"from":    previous,
				"to":      st.SafetyStatus,
			},
		})
		switch st.SafetyStatus {
		case model.SafetyStatusSuspended:
			s.eventHub.Publish(&Event{
				Type:   EventStandingSuspended,
				UserID: st.UserID,
				Data: map[string]interface{}{
					"user_id":            st.UserID,
					"suspension_ends_on": st.SuspensionEndsOn,
				},
			})
		default:
			if previous == model.SafetyStatusSuspended {
				s.eventHub.Publish(&Event{
					Type:   EventStandingReinstated,
					UserID: st.UserID,
					Data:   map[string]interface{}{"user_id": st.UserID},
				})
			}
		}
	}

	if s.notifier != nil {
		s.notifier.StandingChanged(ctx, st.UserID, previous, st.SafetyStatus)
	}
}

// ===== Metric ingestion =====

// RecordBookingCompleted folds a completed booking into the metrics and
// recomputes the standing
func (s *StandingService) RecordBookingCompleted(ctx context.Context, userID string) (*model.Standing, error) {
	if _, err := s.GetStanding(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.IncrementBookingCompleted(ctx, userID); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, userID)
}

// RecordBookingCancelled folds a supplier-cancelled booking into the metrics
// and recomputes the standing
func (s *StandingService) RecordBookingCancelled(ctx context.Context, userID string) (*model.Standing, error) {
	if _, err := s.GetStanding(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.IncrementBookingCancelled(ctx, userID); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, userID)
}

// RecordReview folds a review rating into the metrics and recomputes
func (s *StandingService) RecordReview(ctx context.Context, userID string, rating float64) (*model.Standing, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.GetStanding(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.IncrementReview(ctx, userID, rating); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, userID)
}

// RecordResponseSample folds a response-time sample into the metrics and
// recomputes
func (s *StandingService) RecordResponseSample(ctx context.Context, userID string, responded, onTime bool) (*model.Standing, error) {
	if _, err := s.GetStanding(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.IncrementResponseSample(ctx, userID, responded, onTime); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, userID)
}

// ===== Admin actions =====

// ForceSuspend suspends a user by admin decision, overriding the derived
// status until an admin reinstates them
func (s *StandingService) ForceSuspend(ctx context.Context, userID string, req *model.ForceSuspendRequest) (*model.Standing, error) {
	endsOn := req.EndsOn
	for attempt := 0; attempt < s.policy.SnapshotRetries; attempt++ {
		standing, err := s.GetStanding(ctx, userID)
		if err != nil {
			return nil, err
		}

		previous := standing.SafetyStatus
		now := s.now()

		standing.AdminSuspended = true
		standing.SuspensionEndsOn = endsOn
		if standing.SafetyStatus != model.SafetyStatusSuspended {
			standing.SafetyStatus = model.SafetyStatusSuspended
			standing.SuspensionStartedOn = &now
		}

		err = s.standingRepo.UpdateSnapshot(ctx, standing)
		if errors.Is(err, database.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.announce(ctx, standing, previous)
		return standing, nil
	}
	return nil, ErrRecomputeConflict
}

// AdminReinstate lifts a suspension. The standing drops to probation rather
// than re-deriving, so a reinstated user is not immediately re-suspended by
// the same score that suspended them; subsequent recomputes take over from
// there.
func (s *StandingService) AdminReinstate(ctx context.Context, userID string) (*model.Standing, error) {
	for attempt := 0; attempt < s.policy.SnapshotRetries; attempt++ {
		standing, err := s.GetStanding(ctx, userID)
		if err != nil {
			return nil, err
		}
		if standing.SafetyStatus != model.SafetyStatusSuspended {
			return nil, ErrNotSuspended
		}

		previous := standing.SafetyStatus
		now := s.now()

		standing.AdminSuspended = false
		standing.SafetyStatus = model.SafetyStatusProbation
		standing.ProbationStartedOn = &now
		standing.SuspensionStartedOn = nil
		standing.SuspensionEndsOn = nil

		err = s.standingRepo.UpdateSnapshot(ctx, standing)
		if errors.Is(err, database.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.announce(ctx, standing, previous)
		return standing, nil
	}
	return nil, ErrRecomputeConflict
}

// ResetWarnings zeroes a user's warning counter by admin decision and
// recomputes the standing
func (s *StandingService) ResetWarnings(ctx context.Context, userID string) (*model.Standing, error) {
	if _, err := s.GetStanding(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.standingRepo.ResetWarnings(ctx, userID); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, userID)
}

// ReinstateExpired lifts suspensions whose end date has passed. Called by the
// periodic sweep; indefinite and admin suspensions are left alone.
func (s *StandingService) ReinstateExpired(ctx context.Context) (int, error) {
	expired, err := s.standingRepo.ListExpiredSuspensions(ctx, s.now())
	if err != nil {
		return 0, err
	}

	reinstated := 0
	for _, st := range expired {
		if st.AdminSuspended {
			continue
		}
		if _, err := s.Recompute(ctx, st.UserID); err != nil {
			return reinstated, err
		}
		reinstated++
	}
	return reinstated, nil
}
