package model

import "testing"

// ============================================================================
// Account Status State Machine Tests
// ============================================================================

func TestCanTransitionAccount(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to SupplierAccountStatus }{
		{AccountStatusPendingReview, AccountStatusActive},
		{AccountStatusPendingReview, AccountStatusNeedsClarification},
		{AccountStatusPendingReview, AccountStatusRejected},
		{AccountStatusNeedsClarification, AccountStatusPendingReview},
		{AccountStatusNeedsClarification, AccountStatusRejected},
		{AccountStatusActive, AccountStatusSuspended},
		{AccountStatusSuspended, AccountStatusActive},
	}
	for _, tc := range allowed {
		if !CanTransitionAccount(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to SupplierAccountStatus }{
		{AccountStatusRejected, AccountStatusActive},
		{AccountStatusRejected, AccountStatusPendingReview},
		{AccountStatusActive, AccountStatusPendingReview},
		{AccountStatusActive, AccountStatusRejected},
		{AccountStatusSuspended, AccountStatusRejected},
		{AccountStatusPendingReview, AccountStatusSuspended},
	}
	for _, tc := range denied {
		if CanTransitionAccount(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestCanTransitionIdentity(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to IdentityVerificationStatus }{
		{IdentityStatusPending, IdentityStatusVerified},
		{IdentityStatusPending, IdentityStatusRejected},
		{IdentityStatusRejected, IdentityStatusPending},
		{IdentityStatusVerified, IdentityStatusPending}, // admin revocation
	}
	for _, tc := range allowed {
		if !CanTransitionIdentity(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to IdentityVerificationStatus }{
		{IdentityStatusVerified, IdentityStatusRejected},
		{IdentityStatusRejected, IdentityStatusVerified},
	}
	for _, tc := range denied {
		if CanTransitionIdentity(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

// ============================================================================
// Booking Eligibility Tests
// ============================================================================

// TestEligibleFor_AllCombinations exhaustively covers the 5x3 grid: only
// active+verified is eligible.
func TestEligibleFor_AllCombinations(t *testing.T) {
	t.Parallel()

	accountStatuses := []SupplierAccountStatus{
		AccountStatusPendingReview,
		AccountStatusActive,
		AccountStatusNeedsClarification,
		AccountStatusRejected,
		AccountStatusSuspended,
	}
	identityStatuses := []IdentityVerificationStatus{
		IdentityStatusPending,
		IdentityStatusVerified,
		IdentityStatusRejected,
	}

	combos := 0
	for _, acct := range accountStatuses {
		for _, ident := range identityStatuses {
			combos++
			want := acct == AccountStatusActive && ident == IdentityStatusVerified
			if got := EligibleFor(acct, ident); got != want {
				t.Errorf("EligibleFor(%s, %s) = %v, want %v", acct, ident, got, want)
			}
		}
	}
	if combos != 15 {
		t.Fatalf("expected 15 combinations, covered %d", combos)
	}
}
