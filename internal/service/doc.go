// Package service implements the business logic layer for the Gala API.
//
// The service package contains the trust & safety domain logic: score and
// status derivation, the violation report lifecycle, supplier onboarding and
// identity verification, tier classification, and the suspension appeal
// workflow. Services are the primary abstraction between HTTP handlers and
// data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrReportNotFound   = errors.New("report not found")
//	    ErrCannotReportSelf = errors.New("cannot report yourself")
//	)
//
// # Example Usage
//
//	standings := NewStandingService(standingRepo, supplierRepo, ranking, notifier, hub, cfg.Policy)
//	reports := NewReportService(reportRepo, standings, hub)
//	report, err := reports.File(ctx, reporterID, model.UserRoleCustomer, &model.FileReportRequest{
//	    ReportedUserID: "user:abc",
//	    Category:       "no_show",
//	    Reason:         "Supplier never arrived",
//	})
package service
