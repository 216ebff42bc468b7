// Package handler provides HTTP request handlers for the Gala API.
//
// Handlers translate HTTP requests into service calls and service results
// into JSON envelopes. Each handler owns a resource area and registers its
// own routes on the shared mux:
//
//   - AuthHandler: registration, login, and the /me endpoint
//   - ReportHandler: violation report filing and the admin review queue
//   - StandingHandler: safety standing reads, admin overrides, and metric
//     ingestion from the booking, review and messaging services
//   - SupplierHandler: supplier onboarding, identity verification, and
//     booking eligibility
//   - AppealHandler: suspension appeals and admin adjudication
//   - EventsHandler: server-sent event streams for standing changes
//
// # Response Format
//
// Successful responses use a data envelope:
//
//	{"data": {...}, "links": {...}}
//
// Collections add pagination info:
//
//	{"data": [...], "pagination": {"has_more": true}}
//
// Errors follow RFC 9457 Problem Details:
//
//	{"type": "https://gala-api.festo.app/errors/not-found", "title": "...", "status": 404}
//
// # Error Handling
//
// Service errors are mapped to HTTP responses by MapServiceError, which
// keeps status codes consistent across handlers. State machine refusals
// (closing a closed report, rejecting an active supplier) map to 409,
// malformed input to 422.
//
// # Authorization
//
// Handlers read the authenticated identity from the request context set by
// the auth middleware. Admin-only routes gate on the role claim via
// requireAdmin; internal metric ingestion routes use the same gate because
// upstream services call them with service tokens carrying the admin role.
package handler
