// Package model defines domain entities and data structures for the Gala API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user (customer, supplier, or admin)
//   - Supplier: Supplier onboarding and identity-verification record
//   - Standing: A user's trust & safety record (score, status, badges, metrics)
//   - Report: A filed complaint against a user, owned by the violation ledger
//   - Appeal: A user-submitted request to reverse a suspension
//
// # Closed Enums
//
// Statuses and categories are closed string-typed enums with IsValidX helpers
// and side lookup tables for derived attributes:
//
//	sev := model.SuggestedSeverity(model.ReportCategoryViolence) // SeverityCritical
//
// # JSON Serialization
//
// All models use json struct tags for API serialization; field names are the
// wire contract with the persistence layer:
//
//	type Report struct {
//	    ID       string         `json:"id"`
//	    Category ReportCategory `json:"category"`
//	    Status   ReportStatus   `json:"status"`
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
