package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Report Errors =====
var (
	ErrReportNotFound           = errors.New("report not found")
	ErrCannotReportSelf         = errors.New("cannot report yourself")
	ErrInvalidCategory          = errors.New("invalid report category")
	ErrInvalidSeverity          = errors.New("invalid report severity")
	ErrReasonRequired           = errors.New("report reason is required")
	ErrReasonTooLong            = errors.New("report reason exceeds maximum length")
	ErrTooManyEvidenceItems     = errors.New("too many evidence items")
	ErrEvidenceURLTooLong       = errors.New("evidence URL exceeds maximum length")
	ErrInvalidReportTransition  = errors.New("report lifecycle does not permit this transition")
	ErrReportAlreadyClosed      = errors.New("report is already resolved or dismissed")
	ErrResolutionNoteTooLong    = errors.New("resolution note exceeds maximum length")
	ErrInvalidResolutionOutcome = errors.New("invalid resolution outcome")
)

// ===== Standing Errors =====
var (
	ErrStandingNotFound  = errors.New("standing not found")
	ErrRecomputeConflict = errors.New("standing recompute lost too many concurrent updates")
	ErrNotSuspended      = errors.New("user is not suspended")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// ===== Supplier / Onboarding Errors =====
var (
	ErrSupplierNotFound          = errors.New("supplier not found")
	ErrSupplierAlreadyRegistered = errors.New("supplier already registered")
	ErrBusinessNameRequired      = errors.New("business name is required")
	ErrBusinessNameTooLong       = errors.New("business name exceeds maximum length")
	ErrDescriptionTooLong        = errors.New("description exceeds maximum length")
	ErrReviewNoteTooLong         = errors.New("review note exceeds maximum length")
	ErrInvalidAccountDecision    = errors.New("invalid onboarding decision")
	ErrInvalidIdentityDecision   = errors.New("invalid identity decision")
	ErrInvalidAccountTransition  = errors.New("account status does not permit this transition")
	ErrInvalidIdentityTransition = errors.New("identity status does not permit this transition")
	ErrAccountNotRejected        = errors.New("account is not rejected")
)

// ===== Appeal Errors =====
var (
	ErrAppealNotFound        = errors.New("appeal not found")
	ErrAppealAlreadyPending  = errors.New("an appeal for this suspension is already pending")
	ErrAppealAlreadyDecided  = errors.New("the appeal for this suspension was already decided")
	ErrAppealMessageTooShort = errors.New("appeal message is too short")
	ErrAppealMessageTooLong  = errors.New("appeal message exceeds maximum length")
	ErrInvalidAppealOutcome  = errors.New("invalid appeal outcome")
)

// ===== User / Auth Errors =====
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password exceeds maximum length")
	ErrInvalidRole        = errors.New("invalid role")
)
