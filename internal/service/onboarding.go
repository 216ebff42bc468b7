package service

import (
	"context"
	"errors"
	"strings"

	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// SupplierRepository defines the interface for supplier onboarding data access
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	GetByUserID(ctx context.Context, userID string) (*model.Supplier, error)
	GetByID(ctx context.Context, id string) (*model.Supplier, error)
	ListByAccountStatus(ctx context.Context, status model.SupplierAccountStatus, limit, offset int) ([]*model.Supplier, error)
	UpdateAccountStatus(ctx context.Context, id string, status model.SupplierAccountStatus, note *string, adminID *string) error
	UpdateIdentityStatus(ctx context.Context, id string, status model.IdentityVerificationStatus, adminID *string) error
	UpdateIdentityDocuments(ctx context.Context, id string, documentIDs []string) error
	SetServiceCount(ctx context.Context, id string, count int) error
}

// OnboardingService owns the supplier onboarding and identity verification
// state machines. The two axes are independent: an active account with an
// unverified identity exists, and vice versa; booking eligibility is their
// conjunction, computed on read.
type OnboardingService struct {
	supplierRepo SupplierRepository
	standings    StandingRecomputer
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(supplierRepo SupplierRepository, standings StandingRecomputer) *OnboardingService {
	return &OnboardingService{
		supplierRepo: supplierRepo,
		standings:    standings,
	}
}

// Register submits a supplier for onboarding review. The account starts in
// pending review with a pending identity check.
func (s *OnboardingService) Register(ctx context.Context, userID string, req *model.RegisterSupplierRequest) (*model.Supplier, error) {
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, ErrBusinessNameRequired
	}
	if len(name) > model.MaxBusinessNameLength {
		return nil, ErrBusinessNameTooLong
	}
	if req.Description != nil && len(*req.Description) > model.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	supplier := &model.Supplier{
		UserID:              userID,
		BusinessName:        name,
		Description:         req.Description,
		AccountStatus:       model.AccountStatusPendingReview,
		IdentityStatus:      model.IdentityStatusPending,
		IdentityDocumentIDs: req.IdentityDocumentIDs,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrSupplierAlreadyRegistered
		}
		return nil, err
	}

	return supplier, nil
}

// Get retrieves the supplier record for a user
func (s *OnboardingService) Get(ctx context.Context, userID string) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

// ListByAccountStatus lists suppliers in an onboarding state for the admin
// review queue
func (s *OnboardingService) ListByAccountStatus(ctx context.Context, status string, limit, offset int) ([]*model.Supplier, error) {
	if !model.IsValidAccountStatus(status) {
		return nil, ErrInvalidAccountDecision
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.supplierRepo.ListByAccountStatus(ctx, model.SupplierAccountStatus(status), limit, offset)
}

// ReviewAccount records an admin onboarding decision on a pending or
// clarifying account
func (s *OnboardingService) ReviewAccount(ctx context.Context, userID string, adminID string, req *model.ReviewAccountRequest) (*model.Supplier, error) {
	var target model.SupplierAccountStatus
	switch req.Decision {
	case "active":
		target = model.AccountStatusActive
	case "needs_clarification":
		target = model.AccountStatusNeedsClarification
	case "rejected":
		target = model.AccountStatusRejected
	default:
		return nil, ErrInvalidAccountDecision
	}

	if req.Note != nil && len(*req.Note) > model.MaxReviewNoteLength {
		return nil, ErrReviewNoteTooLong
	}

	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionAccount(supplier.AccountStatus, target) {
		return nil, ErrInvalidAccountTransition
	}

	if err := s.supplierRepo.UpdateAccountStatus(ctx, supplier.ID, target, req.Note, &adminID); err != nil {
		return nil, err
	}
	supplier.AccountStatus = target
	supplier.ReviewNote = req.Note
	supplier.ReviewedByID = &adminID
	return supplier, nil
}

// ResubmitClarification moves a needs-clarification account back to pending
// review once the supplier has responded
func (s *OnboardingService) ResubmitClarification(ctx context.Context, userID string) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionAccount(supplier.AccountStatus, model.AccountStatusPendingReview) {
		return nil, ErrInvalidAccountTransition
	}

	if err := s.supplierRepo.UpdateAccountStatus(ctx, supplier.ID, model.AccountStatusPendingReview, nil, nil); err != nil {
		return nil, err
	}
	supplier.AccountStatus = model.AccountStatusPendingReview
	supplier.ReviewNote = nil
	return supplier, nil
}

// ReopenRejected is the explicit admin override for the otherwise terminal
// rejected state, returning the account to pending review
func (s *OnboardingService) ReopenRejected(ctx context.Context, userID string, adminID string, note *string) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if supplier.AccountStatus != model.AccountStatusRejected {
		return nil, ErrAccountNotRejected
	}

	if err := s.supplierRepo.UpdateAccountStatus(ctx, supplier.ID, model.AccountStatusPendingReview, note, &adminID); err != nil {
		return nil, err
	}
	supplier.AccountStatus = model.AccountStatusPendingReview
	supplier.ReviewNote = note
	supplier.ReviewedByID = &adminID
	return supplier, nil
}

// SuspendAccount moves an active supplier account to suspended
func (s *OnboardingService) SuspendAccount(ctx context.Context, userID string, adminID string, note *string) (*model.Supplier, error) {
	return s.moveAccount(ctx, userID, model.AccountStatusSuspended, adminID, note)
}

// ReinstateAccount moves a suspended supplier account back to active
func (s *OnboardingService) ReinstateAccount(ctx context.Context, userID string, adminID string, note *string) (*model.Supplier, error) {
	return s.moveAccount(ctx, userID, model.AccountStatusActive, adminID, note)
}

func (s *OnboardingService) moveAccount(ctx context.Context, userID string, target model.SupplierAccountStatus, adminID string, note *string) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionAccount(supplier.AccountStatus, target) {
		return nil, ErrInvalidAccountTransition
	}

	if err := s.supplierRepo.UpdateAccountStatus(ctx, supplier.ID, target, note, &adminID); err != nil {
		return nil, err
	}
	supplier.AccountStatus = target
	supplier.ReviewNote = note
	supplier.ReviewedByID = &adminID
	return supplier, nil
}

// ReviewIdentity records an admin identity verification decision. A verified
// identity feeds badge evaluation, so the standing is recomputed afterwards.
func (s *OnboardingService) ReviewIdentity(ctx context.Context, userID string, adminID string, req *model.ReviewIdentityRequest) (*model.Supplier, error) {
	var target model.IdentityVerificationStatus
	switch req.Decision {
	case "verified":
		target = model.IdentityStatusVerified
	case "rejected":
		target = model.IdentityStatusRejected
	default:
		return nil, ErrInvalidIdentityDecision
	}

	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionIdentity(supplier.IdentityStatus, target) {
		return nil, ErrInvalidIdentityTransition
	}

	if err := s.supplierRepo.UpdateIdentityStatus(ctx, supplier.ID, target, &adminID); err != nil {
		return nil, err
	}
	supplier.IdentityStatus = target

	if _, err := s.standings.Recompute(ctx, userID); err != nil {
		if !errors.Is(err, ErrRecomputeConflict) {
			return nil, err
		}
	}

	return supplier, nil
}

// ResubmitIdentity lets a rejected identity submit fresh documents and return
// to pending
func (s *OnboardingService) ResubmitIdentity(ctx context.Context, userID string, documentIDs []string) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionIdentity(supplier.IdentityStatus, model.IdentityStatusPending) {
		return nil, ErrInvalidIdentityTransition
	}

	if err := s.supplierRepo.UpdateIdentityDocuments(ctx, supplier.ID, documentIDs); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.UpdateIdentityStatus(ctx, supplier.ID, model.IdentityStatusPending, nil); err != nil {
		return nil, err
	}
	supplier.IdentityStatus = model.IdentityStatusPending
	supplier.IdentityDocumentIDs = documentIDs
	return supplier, nil
}

// RevokeIdentity returns a verified identity to pending by admin decision,
// e.g. after a document expiry. Badges recompute immediately so the verified
// badge drops.
func (s *OnboardingService) RevokeIdentity(ctx context.Context, userID string, adminID string) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if supplier.IdentityStatus != model.IdentityStatusVerified {
		return nil, ErrInvalidIdentityTransition
	}

	if err := s.supplierRepo.UpdateIdentityStatus(ctx, supplier.ID, model.IdentityStatusPending, &adminID); err != nil {
		return nil, err
	}
	supplier.IdentityStatus = model.IdentityStatusPending

	if _, err := s.standings.Recompute(ctx, userID); err != nil {
		if !errors.Is(err, ErrRecomputeConflict) {
			return nil, err
		}
	}

	return supplier, nil
}

// SetServiceCount updates the supplier's published service count, a tier
// classification input maintained by the catalog
func (s *OnboardingService) SetServiceCount(ctx context.Context, userID string, count int) (*model.Supplier, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SetServiceCount(ctx, supplier.ID, count); err != nil {
		return nil, err
	}
	supplier.ServiceCount = count
	return supplier, nil
}

// BookingEligibility computes whether a supplier may take bookings. The
// predicate is the conjunction of both axes plus the safety status; computed
// on read so it can never drift from its inputs.
func (s *OnboardingService) BookingEligibility(ctx context.Context, userID string) (*model.Eligibility, error) {
	supplier, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	eligibility := &model.Eligibility{UserID: userID, Eligible: true}
	deny := func(reason string) {
		eligibility.Eligible = false
		eligibility.Reasons = append(eligibility.Reasons, reason)
	}

	if supplier.AccountStatus != model.AccountStatusActive {
		deny("account_not_active")
	}
	if supplier.IdentityStatus != model.IdentityStatusVerified {
		deny("identity_not_verified")
	}

	standing, err := s.standings.GetStanding(ctx, userID)
	if err != nil {
		return nil, err
	}
	if standing.SafetyStatus == model.SafetyStatusSuspended {
		deny("suspended")
	}

	return eligibility, nil
}
