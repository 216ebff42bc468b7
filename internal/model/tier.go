package model

// SupplierTier is a ranked supplier classification affecting search
// visibility and features. Ordering: basic < gold < diamond < premium.
type SupplierTier string

const (
	TierBasic   SupplierTier = "basic"
	TierGold    SupplierTier = "gold"
	TierDiamond SupplierTier = "diamond"
	TierPremium SupplierTier = "premium"
)

// TiersByStrictness lists tiers from strictest to most lenient; the
// classifier walks this order and returns the first tier whose requirements
// all hold.
func TiersByStrictness() []SupplierTier {
	return []SupplierTier{TierPremium, TierDiamond, TierGold, TierBasic}
}

// tierRank orders tiers from lowest to highest
var tierRank = map[SupplierTier]int{
	TierBasic:   0,
	TierGold:    1,
	TierDiamond: 2,
	TierPremium: 3,
}

// CompareTiers returns -1, 0, or 1 as a sorts below, equal to, or above b
func CompareTiers(a, b SupplierTier) int {
	switch {
	case tierRank[a] < tierRank[b]:
		return -1
	case tierRank[a] > tierRank[b]:
		return 1
	}
	return 0
}

// Valid supplier tiers
func IsValidSupplierTier(t string) bool {
	_, ok := tierRank[SupplierTier(t)]
	return ok
}

// TierRequirements are the thresholds a supplier must meet for a tier.
// Values are policy, loaded from configuration; a zero requirement always
// holds, so the basic tier is the zero value.
type TierRequirements struct {
	MinRating         float64 `json:"min_rating"`
	MinReviews        int     `json:"min_reviews"`
	MinAccountAgeDays int     `json:"min_account_age_days"`
	MinServices       int     `json:"min_services"`
	MinResponseRate   float64 `json:"min_response_rate"`
	MinCompletionRate float64 `json:"min_completion_rate"`
}

// TierMetrics are the supplier metrics the classifier consumes
type TierMetrics struct {
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"review_count"`
	AccountAgeDays int     `json:"account_age_days"`
	ServiceCount   int     `json:"service_count"`
	ResponseRate   float64 `json:"response_rate"`
	CompletionRate float64 `json:"completion_rate"`
}

// Meets reports whether the metrics satisfy every requirement
func (r TierRequirements) Meets(m TierMetrics) bool {
	return m.Rating >= r.MinRating &&
		m.ReviewCount >= r.MinReviews &&
		m.AccountAgeDays >= r.MinAccountAgeDays &&
		m.ServiceCount >= r.MinServices &&
		m.ResponseRate >= r.MinResponseRate &&
		m.CompletionRate >= r.MinCompletionRate
}

// TierBenefits are the perks associated with a tier. A pure lookup keyed by
// tier; no computation.
type TierBenefits struct {
	SearchPriority       int     `json:"search_priority"` // lower sorts first
	VisibilityMultiplier float64 `json:"visibility_multiplier"`
	FeaturedPlacement    bool    `json:"featured_placement"`
	InstantBook          bool    `json:"instant_book"`
	PrioritySupport      bool    `json:"priority_support"`
}

// TierClassification is the classifier output for a supplier
type TierClassification struct {
	UserID   string       `json:"user_id"`
	Tier     SupplierTier `json:"tier"`
	Benefits TierBenefits `json:"benefits"`
}
