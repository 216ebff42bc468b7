package service

import (
	"time"

	"github.com/festo/gala/api/internal/model"
)

// EvaluateBadges computes the full badge set from current inputs. Each badge
// is a pure predicate over the metrics (plus the two external inputs), so the
// set is recomputed wholesale on every standing snapshot rather than patched
// incrementally. A badge whose predicate no longer holds simply drops off.
func EvaluateBadges(m model.StandingMetrics, identityVerified, topPerformer bool, now time.Time) []model.Badge {
	badges := make([]model.Badge, 0, 6)

	award := func(t model.BadgeType) {
		badges = append(badges, model.Badge{Type: t, AwardedOn: now})
	}

	if identityVerified {
		award(model.BadgeVerified)
	}
	if m.OverallRating >= model.TopRatedMinRating && m.TotalReviews >= model.TopRatedMinReviews {
		award(model.BadgeTopRated)
	}
	if m.CompletionRate > model.ReliableMinCompletion {
		award(model.BadgeReliable)
	}
	if m.ResponseRate > model.ResponsiveMinResponse {
		award(model.BadgeResponsive)
	}
	if m.TotalReports == 0 && m.CompletedBookings >= model.ProfessionalMinBookings {
		award(model.BadgeProfessional)
	}
	if topPerformer {
		award(model.BadgeExpert)
	}

	return badges
}

// HasBadge reports whether a badge set contains a badge of the given type
func HasBadge(badges []model.Badge, t model.BadgeType) bool {
	for _, b := range badges {
		if b.Type == t {
			return true
		}
	}
	return false
}
