package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/festo/gala/api/internal/model"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Policy   PolicyConfig
	Ranking  RankingConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// PolicyConfig holds the trust and safety policy tables. Every number the
// standing engine evaluates comes from here so that policy can be tuned
// per environment without touching evaluator code.
type PolicyConfig struct {
	Score  ScoreWeights
	Status StatusThresholds
	Tiers  TierPolicy

	// SnapshotRetries bounds the optimistic-concurrency retry loop for
	// standing snapshot writes.
	SnapshotRetries int
}

// ScoreWeights are the safety score composite weights. Positive components
// are scaled by the corresponding normalized metric; penalty components are
// subtracted per occurrence (or scaled by rate for cancellations). The
// resulting score is clamped to [0,100].
type ScoreWeights struct {
	Rating     float64 // scaled by overall_rating / 5
	Completion float64 // scaled by completion_rate
	Response   float64 // scaled by response_rate
	OnTime     float64 // scaled by on_time_rate
	Baseline   float64 // granted unconditionally

	CriticalReportPenalty float64 // per critical report
	HighReportPenalty     float64 // per high report
	ActiveReportPenalty   float64 // per unresolved report
	CancellationPenalty   float64 // scaled by cancellation_rate
}

// StatusThresholds drive the safety status derivation.
type StatusThresholds struct {
	WarningScore    float64
	ProbationScore  float64
	SuspensionScore float64

	// RatingFloor suspends regardless of score once the supplier has at
	// least RatingFloorMinReviews reviews.
	RatingFloor           float64
	RatingFloorMinReviews int

	// MaxWarnings escalates to probation once warning_count reaches it.
	MaxWarnings int

	// SuspensionDuration is applied to score- and rating-triggered
	// suspensions. Admin suspensions choose their own end date.
	SuspensionDuration time.Duration
}

// TierPolicy holds the supplier tier requirement and benefit tables.
type TierPolicy struct {
	Requirements map[model.SupplierTier]model.TierRequirements
	Benefits     map[model.SupplierTier]model.TierBenefits
}

// RankingConfig bounds the top-performer leaderboard query
type RankingConfig struct {
	WindowSize int // leaderboard size that counts as "top performer"
	MinReviews int // reviews required before a rating ranks
}

// JobsConfig holds background job settings
type JobsConfig struct {
	SuspensionSweepEnabled  bool
	SuspensionSweepInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "gala"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 15),
			Issuer:         getEnv("JWT_ISSUER", "gala.festo.app"),
		},
		Policy: PolicyConfig{
			Score: ScoreWeights{
				Rating:     getFloatEnv("SCORE_WEIGHT_RATING", 40),
				Completion: getFloatEnv("SCORE_WEIGHT_COMPLETION", 20),
				Response:   getFloatEnv("SCORE_WEIGHT_RESPONSE", 15),
				OnTime:     getFloatEnv("SCORE_WEIGHT_ON_TIME", 10),
				Baseline:   getFloatEnv("SCORE_WEIGHT_BASELINE", 15),

				CriticalReportPenalty: getFloatEnv("SCORE_PENALTY_CRITICAL_REPORT", 12),
				HighReportPenalty:     getFloatEnv("SCORE_PENALTY_HIGH_REPORT", 6),
				ActiveReportPenalty:   getFloatEnv("SCORE_PENALTY_ACTIVE_REPORT", 2),
				CancellationPenalty:   getFloatEnv("SCORE_PENALTY_CANCELLATION", 20),
			},
			Status: StatusThresholds{
				WarningScore:          getFloatEnv("STATUS_WARNING_SCORE", 70),
				ProbationScore:        getFloatEnv("STATUS_PROBATION_SCORE", 50),
				SuspensionScore:       getFloatEnv("STATUS_SUSPENSION_SCORE", 30),
				RatingFloor:           getFloatEnv("STATUS_RATING_FLOOR", 2.5),
				RatingFloorMinReviews: getIntEnv("STATUS_RATING_FLOOR_MIN_REVIEWS", 5),
				MaxWarnings:           getIntEnv("STATUS_MAX_WARNINGS", 3),
				SuspensionDuration:    getDurationEnv("STATUS_SUSPENSION_DURATION", 14*24*time.Hour),
			},
			Tiers: TierPolicy{
				Requirements: map[model.SupplierTier]model.TierRequirements{
					model.TierPremium: tierRequirementsEnv("TIER_PREMIUM", model.TierRequirements{
						MinRating:         4.8,
						MinReviews:        100,
						MinAccountAgeDays: 365,
						MinServices:       10,
						MinResponseRate:   0.95,
						MinCompletionRate: 0.98,
					}),
					model.TierDiamond: tierRequirementsEnv("TIER_DIAMOND", model.TierRequirements{
						MinRating:         4.5,
						MinReviews:        50,
						MinAccountAgeDays: 180,
						MinServices:       5,
						MinResponseRate:   0.90,
						MinCompletionRate: 0.95,
					}),
					model.TierGold: tierRequirementsEnv("TIER_GOLD", model.TierRequirements{
						MinRating:         4.0,
						MinReviews:        20,
						MinAccountAgeDays: 90,
						MinServices:       3,
						MinResponseRate:   0.80,
						MinCompletionRate: 0.90,
					}),
					model.TierBasic: {},
				},
				Benefits: map[model.SupplierTier]model.TierBenefits{
					model.TierPremium: {
						SearchPriority:       3,
						VisibilityMultiplier: 2.0,
						FeaturedPlacement:    true,
						InstantBook:          true,
						PrioritySupport:      true,
					},
					model.TierDiamond: {
						SearchPriority:       2,
						VisibilityMultiplier: 1.5,
						FeaturedPlacement:    true,
						PrioritySupport:      true,
					},
					model.TierGold: {
						SearchPriority:       1,
						VisibilityMultiplier: 1.25,
					},
					model.TierBasic: {
						VisibilityMultiplier: 1.0,
					},
				},
			},
			SnapshotRetries: getIntEnv("STANDING_SNAPSHOT_RETRIES", 3),
		},
		Ranking: RankingConfig{
			WindowSize: getIntEnv("RANKING_WINDOW_SIZE", 50),
			MinReviews: getIntEnv("RANKING_MIN_REVIEWS", 10),
		},
		Jobs: JobsConfig{
			SuspensionSweepEnabled:  getBoolEnv("SUSPENSION_SWEEP_ENABLED", true),
			SuspensionSweepInterval: getDurationEnv("SUSPENSION_SWEEP_INTERVAL", 5*time.Minute),
		},
	}, nil
}

func tierRequirementsEnv(prefix string, def model.TierRequirements) model.TierRequirements {
	return model.TierRequirements{
		MinRating:         getFloatEnv(prefix+"_MIN_RATING", def.MinRating),
		MinReviews:        getIntEnv(prefix+"_MIN_REVIEWS", def.MinReviews),
		MinAccountAgeDays: getIntEnv(prefix+"_MIN_ACCOUNT_AGE_DAYS", def.MinAccountAgeDays),
		MinServices:       getIntEnv(prefix+"_MIN_SERVICES", def.MinServices),
		MinResponseRate:   getFloatEnv(prefix+"_MIN_RESPONSE_RATE", def.MinResponseRate),
		MinCompletionRate: getFloatEnv(prefix+"_MIN_COMPLETION_RATE", def.MinCompletionRate),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// JWT validation - critical for production
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	// Policy validation
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}

	// Jobs validation
	if c.Jobs.SuspensionSweepEnabled && c.Jobs.SuspensionSweepInterval <= 0 {
		errs = append(errs, errors.New("SUSPENSION_SWEEP_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the policy tables for internal consistency
func (p PolicyConfig) Validate() error {
	var errs []error

	if p.Status.SuspensionScore >= p.Status.ProbationScore {
		errs = append(errs, errors.New("STATUS_SUSPENSION_SCORE must be below STATUS_PROBATION_SCORE"))
	}
	if p.Status.ProbationScore >= p.Status.WarningScore {
		errs = append(errs, errors.New("STATUS_PROBATION_SCORE must be below STATUS_WARNING_SCORE"))
	}
	if p.Status.RatingFloor < 0 || p.Status.RatingFloor > 5 {
		errs = append(errs, errors.New("STATUS_RATING_FLOOR must be within [0,5]"))
	}
	if p.Status.MaxWarnings <= 0 {
		errs = append(errs, errors.New("STATUS_MAX_WARNINGS must be positive"))
	}
	if p.SnapshotRetries <= 0 {
		errs = append(errs, errors.New("STANDING_SNAPSHOT_RETRIES must be positive"))
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"SCORE_WEIGHT_RATING", p.Score.Rating},
		{"SCORE_WEIGHT_COMPLETION", p.Score.Completion},
		{"SCORE_WEIGHT_RESPONSE", p.Score.Response},
		{"SCORE_WEIGHT_ON_TIME", p.Score.OnTime},
		{"SCORE_WEIGHT_BASELINE", p.Score.Baseline},
		{"SCORE_PENALTY_CRITICAL_REPORT", p.Score.CriticalReportPenalty},
		{"SCORE_PENALTY_HIGH_REPORT", p.Score.HighReportPenalty},
		{"SCORE_PENALTY_ACTIVE_REPORT", p.Score.ActiveReportPenalty},
		{"SCORE_PENALTY_CANCELLATION", p.Score.CancellationPenalty},
	} {
		if w.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", w.name))
		}
	}

	for _, tier := range model.TiersByStrictness() {
		req, ok := p.Tiers.Requirements[tier]
		if !ok {
			errs = append(errs, fmt.Errorf("tier %s has no requirements entry", tier))
			continue
		}
		if req.MinRating < 0 || req.MinRating > 5 {
			errs = append(errs, fmt.Errorf("tier %s MinRating must be within [0,5]", tier))
		}
		if req.MinResponseRate < 0 || req.MinResponseRate > 1 {
			errs = append(errs, fmt.Errorf("tier %s MinResponseRate must be within [0,1]", tier))
		}
		if req.MinCompletionRate < 0 || req.MinCompletionRate > 1 {
			errs = append(errs, fmt.Errorf("tier %s MinCompletionRate must be within [0,1]", tier))
		}
		if _, ok := p.Tiers.Benefits[tier]; !ok {
			errs = append(errs, fmt.Errorf("tier %s has no benefits entry", tier))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
