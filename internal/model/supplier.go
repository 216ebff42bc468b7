package model

import "time"

// SupplierAccountStatus represents the admin-reviewed onboarding state of a
// supplier account
type SupplierAccountStatus string

const (
	AccountStatusPendingReview      SupplierAccountStatus = "pending_review"
	AccountStatusActive             SupplierAccountStatus = "active"
	AccountStatusNeedsClarification SupplierAccountStatus = "needs_clarification"
	AccountStatusRejected           SupplierAccountStatus = "rejected"
	AccountStatusSuspended          SupplierAccountStatus = "suspended"
)

// accountTransitions is the onboarding state machine. Rejected is terminal
// for normal flow; ReopenRejected is the explicit admin override.
var accountTransitions = map[SupplierAccountStatus][]SupplierAccountStatus{
	AccountStatusPendingReview:      {AccountStatusActive, AccountStatusNeedsClarification, AccountStatusRejected},
	AccountStatusNeedsClarification: {AccountStatusPendingReview, AccountStatusRejected},
	AccountStatusActive:             {AccountStatusSuspended},
	AccountStatusSuspended:          {AccountStatusActive},
	AccountStatusRejected:           {},
}

// CanTransitionAccount reports whether the account status may move from one
// state to another through the normal state machine
func CanTransitionAccount(from, to SupplierAccountStatus) bool {
	for _, next := range accountTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid supplier account statuses
func IsValidAccountStatus(status string) bool {
	_, ok := accountTransitions[SupplierAccountStatus(status)]
	return ok
}

// IdentityVerificationStatus represents the separate admin-reviewed identity
// check. Independent axis from the account status.
type IdentityVerificationStatus string

const (
	IdentityStatusPending  IdentityVerificationStatus = "pending"
	IdentityStatusVerified IdentityVerificationStatus = "verified"
	IdentityStatusRejected IdentityVerificationStatus = "rejected"
)

// identityTransitions: rejected identities may resubmit; verified identities
// go back to pending only via admin revocation.
var identityTransitions = map[IdentityVerificationStatus][]IdentityVerificationStatus{
	IdentityStatusPending:  {IdentityStatusVerified, IdentityStatusRejected},
	IdentityStatusRejected: {IdentityStatusPending},
	IdentityStatusVerified: {IdentityStatusPending},
}

// CanTransitionIdentity reports whether the identity status may move from
// one state to another
func CanTransitionIdentity(from, to IdentityVerificationStatus) bool {
	for _, next := range identityTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid identity verification statuses
func IsValidIdentityStatus(status string) bool {
	_, ok := identityTransitions[IdentityVerificationStatus(status)]
	return ok
}

// Supplier is the onboarding/verification record for a supplier account
type Supplier struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	BusinessName string  `json:"business_name"`
	Description  *string `json:"description,omitempty"`
	ServiceCount int     `json:"service_count"`

	AccountStatus  SupplierAccountStatus      `json:"account_status"`
	IdentityStatus IdentityVerificationStatus `json:"identity_status"`

	// Review trail
	ReviewNote        *string    `json:"review_note,omitempty"`
	ReviewedByID      *string    `json:"reviewed_by_id,omitempty"`
	AccountReviewedOn *time.Time `json:"account_reviewed_on,omitempty"`

	IdentityDocumentIDs  []string   `json:"identity_document_ids,omitempty"`
	IdentityReviewedByID *string    `json:"identity_reviewed_by_id,omitempty"`
	IdentityReviewedOn   *time.Time `json:"identity_reviewed_on,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// AccountAgeDays returns full days since the supplier record was created
func (s *Supplier) AccountAgeDays(now time.Time) int {
	if s.CreatedOn.IsZero() || now.Before(s.CreatedOn) {
		return 0
	}
	return int(now.Sub(s.CreatedOn).Hours() / 24)
}

// Eligibility is the booking-eligibility predicate output. Eligibility is
// computed on read from the two independent axes, never persisted, so it
// cannot drift from its inputs.
type Eligibility struct {
	UserID   string   `json:"user_id"`
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"` // present when not eligible
}

// EligibleFor computes the booking-eligibility conjunction
func EligibleFor(account SupplierAccountStatus, identity IdentityVerificationStatus) bool {
	return account == AccountStatusActive && identity == IdentityStatusVerified
}

// ReviewAccountRequest represents an admin onboarding decision
type ReviewAccountRequest struct {
	Decision string  `json:"decision"` // active, needs_clarification, rejected
	Note     *string `json:"note,omitempty"`
}

// ReviewIdentityRequest represents an admin identity decision
type ReviewIdentityRequest struct {
	Decision string `json:"decision"` // verified, rejected
}

// RegisterSupplierRequest represents a supplier onboarding submission
type RegisterSupplierRequest struct {
	BusinessName        string   `json:"business_name"`
	Description         *string  `json:"description,omitempty"`
	IdentityDocumentIDs []string `json:"identity_document_ids,omitempty"`
}

// Constraints
const (
	MaxBusinessNameLength = 120
	MaxDescriptionLength  = 2000
	MaxReviewNoteLength   = 1000
)
