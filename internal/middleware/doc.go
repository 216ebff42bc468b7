// Package middleware provides HTTP middleware for the Gala API.
//
// The middleware package contains reusable middleware components for
// authentication, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - AuthMiddleware: JWT token validation and user extraction
//   - RateLimitMiddleware: Request rate limiting per user/IP
//   - IdempotencyMiddleware: Idempotent request handling for metric ingestion
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information:
//
//	router.Use(authMiddleware.Authenticate)
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r)
//
// # Rate Limiting
//
// Rate limiting protects the report filing and ingestion endpoints:
//
//	router.Use(rateLimiter.Limit)
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(r): Returns authenticated user ID
//   - GetClaims(r): Returns the validated JWT claims
//   - GetRequestID(r): Returns unique request identifier
//
// # Idempotency
//
// Upstream services retry metric ingestion on timeouts. The idempotency
// middleware caches responses by Idempotency-Key header so a retried
// booking-completed event does not double-count.
package middleware
