package model

import "time"

// BadgeType represents an earned supplier badge
type BadgeType string

const (
	BadgeVerified     BadgeType = "verified"     // identity verification passed
	BadgeTopRated     BadgeType = "top_rated"    // rating >= 4.8 and reviews >= 50
	BadgeReliable     BadgeType = "reliable"     // completion rate > 0.95
	BadgeResponsive   BadgeType = "responsive"   // response rate > 0.90
	BadgeProfessional BadgeType = "professional" // zero behavior reports, >= 100 completed
	BadgeExpert       BadgeType = "expert"       // top performer in category (ranking input)
)

// Badge is a derived snapshot of an earned badge. Badges are recomputed
// wholesale on each evaluation, never incrementally patched, because each
// badge's eligibility is a pure predicate over current metrics.
type Badge struct {
	Type      BadgeType `json:"type"`
	AwardedOn time.Time `json:"awarded_on"`
	Category  *string   `json:"category,omitempty"` // service category, for expert
}

// Badge eligibility thresholds
const (
	TopRatedMinRating       = 4.8
	TopRatedMinReviews      = 50
	ReliableMinCompletion   = 0.95
	ResponsiveMinResponse   = 0.90
	ProfessionalMinBookings = 100
)

// Valid badge types
func IsValidBadgeType(t string) bool {
	switch BadgeType(t) {
	case BadgeVerified, BadgeTopRated, BadgeReliable,
		BadgeResponsive, BadgeProfessional, BadgeExpert:
		return true
	}
	return false
}
