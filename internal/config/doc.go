// Package config manages application configuration for the Gala API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth,
// including the trust and safety policy tables consumed by the standing engine.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - PolicyConfig: score weights, status thresholds, tier tables
//   - JobsConfig: background job settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT                 - HTTP server port (default: 8080)
//	DB_HOST / DB_PORT           - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE  - Namespace and database names
//	JWT_PRIVATE_KEY_PATH        - RSA signing key
//	STATUS_WARNING_SCORE        - Safety status thresholds
//	SCORE_WEIGHT_RATING         - Score composite weights
//	TIER_GOLD_MIN_RATING        - Per-tier requirement overrides
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
