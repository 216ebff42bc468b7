package handler

import (
	"errors"

	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrReportNotFound):
		return model.NewNotFoundError("report")
	case errors.Is(err, service.ErrStandingNotFound):
		return model.NewNotFoundError("standing")
	case errors.Is(err, service.ErrSupplierNotFound):
		return model.NewNotFoundError("supplier")
	case errors.Is(err, service.ErrAppealNotFound):
		return model.NewNotFoundError("appeal")

	// ===== Auth Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrSupplierAlreadyRegistered):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrRecomputeConflict):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrAppealAlreadyPending),
		errors.Is(err, service.ErrAppealAlreadyDecided):
		return model.NewConflictError(err.Error())

	// ===== Policy Violations → 409 =====
	// State machine refusals: the request is well formed but the current
	// lifecycle state does not permit it.
	case errors.Is(err, service.ErrInvalidReportTransition),
		errors.Is(err, service.ErrReportAlreadyClosed),
		errors.Is(err, service.ErrInvalidAccountTransition),
		errors.Is(err, service.ErrInvalidIdentityTransition),
		errors.Is(err, service.ErrAccountNotRejected),
		errors.Is(err, service.ErrNotSuspended):
		return model.NewPolicyViolationError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrCannotReportSelf):
		return model.NewValidationError([]model.FieldError{{Field: "reported_user_id", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidSeverity),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrReasonTooLong),
		errors.Is(err, service.ErrTooManyEvidenceItems),
		errors.Is(err, service.ErrEvidenceURLTooLong),
		errors.Is(err, service.ErrResolutionNoteTooLong),
		errors.Is(err, service.ErrInvalidResolutionOutcome):
		return model.NewValidationError([]model.FieldError{{Field: "report", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidRating):
		return model.NewValidationError([]model.FieldError{{Field: "rating", Message: err.Error()}})

	case errors.Is(err, service.ErrBusinessNameRequired),
		errors.Is(err, service.ErrBusinessNameTooLong),
		errors.Is(err, service.ErrDescriptionTooLong),
		errors.Is(err, service.ErrReviewNoteTooLong),
		errors.Is(err, service.ErrInvalidAccountDecision),
		errors.Is(err, service.ErrInvalidIdentityDecision):
		return model.NewValidationError([]model.FieldError{{Field: "supplier", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrAppealMessageTooShort),
		errors.Is(err, service.ErrAppealMessageTooLong),
		errors.Is(err, service.ErrInvalidAppealOutcome):
		return model.NewValidationError([]model.FieldError{{Field: "appeal", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
