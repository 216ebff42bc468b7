package service

import (
	"testing"
	"time"

	"github.com/festo/gala/api/internal/model"
)

func badgeClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestEvaluateBadges_NewUserHasNone(t *testing.T) {
	t.Parallel()

	badges := EvaluateBadges(model.StandingMetrics{}, false, false, badgeClock())
	if len(badges) != 0 {
		t.Errorf("expected no badges for a new user, got %v", badges)
	}
}

func TestEvaluateBadges_Verified(t *testing.T) {
	t.Parallel()

	badges := EvaluateBadges(model.StandingMetrics{}, true, false, badgeClock())
	if !HasBadge(badges, model.BadgeVerified) {
		t.Error("expected the verified badge")
	}
	if len(badges) != 1 {
		t.Errorf("expected only the verified badge, got %v", badges)
	}
}

func TestEvaluateBadges_TopRatedThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		rating  float64
		reviews int
		want    bool
	}{
		{"meets both", 4.8, 50, true},
		{"rating short", 4.79, 50, false},
		{"reviews short", 4.9, 49, false},
		{"well above", 5.0, 200, true},
	}

	for _, tc := range cases {
		badges := EvaluateBadges(model.StandingMetrics{
			OverallRating: tc.rating,
			TotalReviews:  tc.reviews,
		}, false, false, badgeClock())

		if HasBadge(badges, model.BadgeTopRated) != tc.want {
			t.Errorf("%s: top_rated = %v, want %v", tc.name, !tc.want, tc.want)
		}
	}
}

func TestEvaluateBadges_ReliableIsStrict(t *testing.T) {
	t.Parallel()

	// The threshold is strictly greater than
	badges := EvaluateBadges(model.StandingMetrics{CompletionRate: 0.95}, false, false, badgeClock())
	if HasBadge(badges, model.BadgeReliable) {
		t.Error("completion rate at exactly the threshold must not earn reliable")
	}

	badges = EvaluateBadges(model.StandingMetrics{CompletionRate: 0.96}, false, false, badgeClock())
	if !HasBadge(badges, model.BadgeReliable) {
		t.Error("expected the reliable badge above the threshold")
	}
}

func TestEvaluateBadges_Professional(t *testing.T) {
	t.Parallel()

	clean := model.StandingMetrics{CompletedBookings: 100}
	badges := EvaluateBadges(clean, false, false, badgeClock())
	if !HasBadge(badges, model.BadgeProfessional) {
		t.Error("expected the professional badge with zero reports and 100 completions")
	}

	// A single report, even a resolved one, disqualifies
	reported := clean
	reported.TotalReports = 1
	reported.ResolvedReports = 1
	badges = EvaluateBadges(reported, false, false, badgeClock())
	if HasBadge(badges, model.BadgeProfessional) {
		t.Error("any report history must disqualify professional")
	}
}

func TestEvaluateBadges_Expert(t *testing.T) {
	t.Parallel()

	badges := EvaluateBadges(model.StandingMetrics{}, false, true, badgeClock())
	if !HasBadge(badges, model.BadgeExpert) {
		t.Error("expected the expert badge for a top performer")
	}
}

func TestEvaluateBadges_NotRetroactive(t *testing.T) {
	t.Parallel()

	earning := model.StandingMetrics{ResponseSamples: 100, ResponseRate: 0.95}
	badges := EvaluateBadges(earning, false, false, badgeClock())
	if !HasBadge(badges, model.BadgeResponsive) {
		t.Fatal("expected the responsive badge")
	}

	// The rate slips; the next wholesale evaluation drops the badge
	slipped := earning
	slipped.ResponseRate = 0.85
	badges = EvaluateBadges(slipped, false, false, badgeClock())
	if HasBadge(badges, model.BadgeResponsive) {
		t.Error("expected the responsive badge to drop when the rate slips")
	}
}
