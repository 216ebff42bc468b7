package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/festo/gala/api/internal/config"
	"github.com/festo/gala/api/internal/database"
	"github.com/festo/gala/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockStandingRepo struct {
	getByUserIDFunc       func(ctx context.Context, userID string) (*model.Standing, error)
	createFunc            func(ctx context.Context, standing *model.Standing) error
	updateSnapshotFunc    func(ctx context.Context, standing *model.Standing) error
	incrCompletedFunc     func(ctx context.Context, userID string) error
	incrCancelledFunc     func(ctx context.Context, userID string) error
	incrReviewFunc        func(ctx context.Context, userID string, rating float64) error
	incrResponseFunc      func(ctx context.Context, userID string, responded, onTime bool) error
	resetWarningsFunc     func(ctx context.Context, userID string) error
	listExpiredFunc       func(ctx context.Context, now time.Time) ([]*model.Standing, error)
	updateSnapshotCalls   int
	lastSnapshotWritten   *model.Standing
}

func (m *mockStandingRepo) GetByUserID(ctx context.Context, userID string) (*model.Standing, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, database.ErrNotFound
}

func (m *mockStandingRepo) Create(ctx context.Context, standing *model.Standing) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, standing)
	}
	standing.ID = "standing:1"
	return nil
}

func (m *mockStandingRepo) UpdateSnapshot(ctx context.Context, standing *model.Standing) error {
	m.updateSnapshotCalls++
	copied := *standing
	m.lastSnapshotWritten = &copied
	if m.updateSnapshotFunc != nil {
		return m.updateSnapshotFunc(ctx, standing)
	}
	standing.Revision++
	return nil
}

func (m *mockStandingRepo) IncrementBookingCompleted(ctx context.Context, userID string) error {
	if m.incrCompletedFunc != nil {
		return m.incrCompletedFunc(ctx, userID)
	}
	return nil
}

func (m *mockStandingRepo) IncrementBookingCancelled(ctx context.Context, userID string) error {
	if m.incrCancelledFunc != nil {
		return m.incrCancelledFunc(ctx, userID)
	}
	return nil
}

func (m *mockStandingRepo) IncrementReview(ctx context.Context, userID string, rating float64) error {
	if m.incrReviewFunc != nil {
		return m.incrReviewFunc(ctx, userID, rating)
	}
	return nil
}

func (m *mockStandingRepo) IncrementResponseSample(ctx context.Context, userID string, responded, onTime bool) error {
	if m.incrResponseFunc != nil {
		return m.incrResponseFunc(ctx, userID, responded, onTime)
	}
	return nil
}

func (m *mockStandingRepo) ResetWarnings(ctx context.Context, userID string) error {
	if m.resetWarningsFunc != nil {
		return m.resetWarningsFunc(ctx, userID)
	}
	return nil
}

func (m *mockStandingRepo) ListExpiredSuspensions(ctx context.Context, now time.Time) ([]*model.Standing, error) {
	if m.listExpiredFunc != nil {
		return m.listExpiredFunc(ctx, now)
	}
	return nil, nil
}

type mockSupplierReader struct {
	getByUserIDFunc func(ctx context.Context, userID string) (*model.Supplier, error)
}

func (m *mockSupplierReader) GetByUserID(ctx context.Context, userID string) (*model.Supplier, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, database.ErrNotFound
}

type mockRanking struct {
	topPerformer bool
}

func (m *mockRanking) IsTopPerformer(ctx context.Context, userID string) (bool, error) {
	return m.topPerformer, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		Score: config.ScoreWeights{
			Rating:     40,
			Completion: 25,
			Response:   15,
			OnTime:     10,
			Baseline:   10,

			CriticalReportPenalty: 12,
			HighReportPenalty:     6,
			ActiveReportPenalty:   2,
			CancellationPenalty:   20,
		},
		Status: config.StatusThresholds{
			WarningScore:          70,
			ProbationScore:        50,
			SuspensionScore:       30,
			RatingFloor:           2.5,
			RatingFloorMinReviews: 5,
			MaxWarnings:           3,
			SuspensionDuration:    14 * 24 * time.Hour,
		},
		SnapshotRetries: 3,
	}
}

func newTestStandingService(repo *mockStandingRepo) *StandingService {
	svc := NewStandingService(repo, nil, nil, nil, nil, testPolicy())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// storeBacked wires the mock to an in-memory standing so GetByUserID and
// UpdateSnapshot behave like the real store, revision bumps included.
func storeBacked(repo *mockStandingRepo, standing *model.Standing) {
	repo.getByUserIDFunc = func(ctx context.Context, userID string) (*model.Standing, error) {
		copied := *standing
		return &copied, nil
	}
	repo.updateSnapshotFunc = func(ctx context.Context, updated *model.Standing) error {
		if updated.Revision != standing.Revision {
			return database.ErrConflict
		}
		copied := *updated
		copied.Revision++
		*standing = copied
		updated.Revision++
		return nil
	}
}

// ============================================================================
// Score Tests
// ============================================================================

func TestScore_ColdStartIsFull(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	score := svc.Score(model.StandingMetrics{})
	if score != 100 {
		t.Errorf("expected cold-start score 100, got %v", score)
	}
}

func TestScore_PerfectMetrics(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	score := svc.Score(model.StandingMetrics{
		OverallRating:     5.0,
		TotalReviews:      20,
		CompletedBookings: 50,
		CompletionRate:    1.0,
		ResponseSamples:   30,
		ResponseRate:      1.0,
		OnTimeRate:        1.0,
	})
	if score != 100 {
		t.Errorf("expected perfect score 100, got %v", score)
	}
}

func TestScore_ReportsLowerScore(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	clean := svc.Score(model.StandingMetrics{})
	reported := svc.Score(model.StandingMetrics{
		TotalReports:    2,
		CriticalReports: 1,
		HighReports:     1,
	})

	if reported >= clean {
		t.Errorf("expected reports to lower score, clean=%v reported=%v", clean, reported)
	}
	// 1 critical (12) + 1 high (6) + 2 active (4) = 22 off the top
	if reported != 78 {
		t.Errorf("expected score 78, got %v", reported)
	}
}

func TestScore_ResolvedReportsReleaseActivePenalty(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	open := svc.Score(model.StandingMetrics{TotalReports: 3})
	resolved := svc.Score(model.StandingMetrics{TotalReports: 3, ResolvedReports: 2, DismissedReports: 1})

	if resolved <= open {
		t.Errorf("expected resolving reports to raise score, open=%v resolved=%v", open, resolved)
	}
}

func TestScore_Monotonic(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	base := model.StandingMetrics{
		OverallRating:     4.0,
		TotalReviews:      10,
		CompletedBookings: 20,
		CancelledBookings: 5,
		CompletionRate:    0.8,
		CancellationRate:  0.2,
		ResponseSamples:   10,
		ResponseRate:      0.7,
		OnTimeRate:        0.6,
		TotalReports:      2,
		HighReports:       1,
	}

	better := base
	better.OverallRating = 4.5
	if svc.Score(better) < svc.Score(base) {
		t.Error("raising the rating lowered the score")
	}

	better = base
	better.CompletionRate = 0.9
	better.CancellationRate = 0.1
	if svc.Score(better) < svc.Score(base) {
		t.Error("raising the completion rate lowered the score")
	}

	worse := base
	worse.TotalReports = 3
	worse.CriticalReports = 1
	if svc.Score(worse) > svc.Score(base) {
		t.Error("adding a critical report raised the score")
	}
}

func TestScore_ClampedToZero(t *testing.T) {
	t.Parallel()

	svc := newTestStandingService(&mockStandingRepo{})

	score := svc.Score(model.StandingMetrics{
		OverallRating:   1.0,
		TotalReviews:    50,
		TotalReports:    20,
		CriticalReports: 10,
		HighReports:     10,
	})
	if score != 0 {
		t.Errorf("expected score clamped to 0, got %v", score)
	}
}

// ============================================================================
// Recompute Tests
// ============================================================================

func TestRecompute_NewUserIsSafe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:new",
		SafetyScore:  100,
		SafetyStatus: model.SafetyStatusSafe,
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSafe {
		t.Errorf("expected safe, got %s", result.SafetyStatus)
	}
	if result.SafetyScore != 100 {
		t.Errorf("expected score 100, got %v", result.SafetyScore)
	}
}

func TestRecompute_CriticalReportTriggersWarning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			TotalReports:    1,
			CriticalReports: 1,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Score 100 - 12 - 2 = 86, above the warning line, but the unresolved
	// critical forces at least warning.
	if result.SafetyStatus != model.SafetyStatusWarning {
		t.Errorf("expected warning, got %s", result.SafetyStatus)
	}
	if result.WarningCount != 1 {
		t.Errorf("expected warning count 1, got %d", result.WarningCount)
	}
	if result.LastWarningOn == nil {
		t.Error("expected last warning stamp")
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			TotalReports:    1,
			CriticalReports: 1,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	first, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.SafetyStatus != second.SafetyStatus {
		t.Errorf("status changed on identical inputs: %s then %s", first.SafetyStatus, second.SafetyStatus)
	}
	if first.SafetyScore != second.SafetyScore {
		t.Errorf("score changed on identical inputs: %v then %v", first.SafetyScore, second.SafetyScore)
	}
	if second.WarningCount != 1 {
		t.Errorf("warning count moved on re-derivation: got %d", second.WarningCount)
	}
}

func TestRecompute_WarningCountMonotonic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			TotalReports:    1,
			CriticalReports: 1,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	// Enter warning
	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WarningCount != 1 {
		t.Fatalf("expected warning count 1, got %d", result.WarningCount)
	}

	// Recover: the critical report gets resolved
	standing.Metrics.ResolvedReports = 1
	result, err = svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSafe {
		t.Fatalf("expected recovery to safe, got %s", result.SafetyStatus)
	}
	if result.WarningCount != 1 {
		t.Errorf("recovery must not decrement warning count, got %d", result.WarningCount)
	}
	if result.LastWarningOn == nil {
		t.Error("recovery must keep the last warning stamp")
	}

	// A fresh critical report warns again
	standing.Metrics.TotalReports = 2
	standing.Metrics.CriticalReports = 2
	result, err = svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WarningCount != 2 {
		t.Errorf("expected warning count 2 after re-entry, got %d", result.WarningCount)
	}
}

func TestRecompute_MaxWarningsEscalatesToProbation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		WarningCount: 3,
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusProbation {
		t.Errorf("expected probation at max warnings, got %s", result.SafetyStatus)
	}
	if result.ProbationStartedOn == nil {
		t.Error("expected probation stamp")
	}
}

func TestRecompute_LowScoreSuspendsTimeBoxed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusProbation,
		Metrics: model.StandingMetrics{
			OverallRating:   3.0,
			TotalReviews:    10,
			TotalReports:    8,
			CriticalReports: 4,
			HighReports:     4,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSuspended {
		t.Fatalf("expected suspension, got %s (score %v)", result.SafetyStatus, result.SafetyScore)
	}
	if result.SuspensionStartedOn == nil {
		t.Error("expected suspension start stamp")
	}
	if result.SuspensionEndsOn == nil {
		t.Fatal("expected a time-boxed suspension")
	}
	wantEnd := svc.now().Add(14 * 24 * time.Hour)
	if !result.SuspensionEndsOn.Equal(wantEnd) {
		t.Errorf("expected suspension end %v, got %v", wantEnd, result.SuspensionEndsOn)
	}
}

func TestRecompute_RatingFloorSuspends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			OverallRating:     2.0,
			TotalReviews:      6,
			CompletedBookings: 10,
			CompletionRate:    1.0,
			ResponseSamples:   10,
			ResponseRate:      1.0,
			OnTimeRate:        1.0,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSuspended {
		t.Errorf("expected rating floor suspension, got %s", result.SafetyStatus)
	}
}

func TestRecompute_RatingFloorNeedsMinReviews(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			OverallRating: 1.0,
			TotalReviews:  2,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus == model.SafetyStatusSuspended {
		t.Error("rating floor must not trigger below the review minimum")
	}
}

func TestRecompute_SuspensionHoldsUntilExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestStandingService(&mockStandingRepo{})
	now := svc.now()
	future := now.Add(24 * time.Hour)

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:              "user:1",
		SafetyStatus:        model.SafetyStatusSuspended,
		SuspensionStartedOn: &now,
		SuspensionEndsOn:    &future,
		Metrics: model.StandingMetrics{
			CompletedBookings: 10,
			CompletionRate:    1.0,
		},
	}
	storeBacked(repo, standing)

	svc = newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSuspended {
		t.Errorf("unexpired suspension must hold even with a good score, got %s", result.SafetyStatus)
	}
}

func TestRecompute_ExpiredSuspensionLifts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestStandingService(&mockStandingRepo{})
	started := svc.now().Add(-15 * 24 * time.Hour)
	ended := svc.now().Add(-24 * time.Hour)

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:              "user:1",
		SafetyStatus:        model.SafetyStatusSuspended,
		SuspensionStartedOn: &started,
		SuspensionEndsOn:    &ended,
		Metrics: model.StandingMetrics{
			OverallRating:     4.5,
			TotalReviews:      10,
			CompletedBookings: 20,
			CompletionRate:    1.0,
			ResponseSamples:   10,
			ResponseRate:      1.0,
			OnTimeRate:        1.0,
		},
	}
	storeBacked(repo, standing)

	svc = newTestStandingService(repo)

	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSafe {
		t.Errorf("expected expired suspension to lift to safe, got %s", result.SafetyStatus)
	}
	if result.SuspensionStartedOn != nil || result.SuspensionEndsOn != nil {
		t.Error("expected suspension stamps cleared after lift")
	}
}

func TestRecompute_RetriesOnConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	conflicts := 2
	repo := &mockStandingRepo{}
	repo.getByUserIDFunc = func(ctx context.Context, userID string) (*model.Standing, error) {
		return &model.Standing{UserID: userID, SafetyStatus: model.SafetyStatusSafe}, nil
	}
	repo.updateSnapshotFunc = func(ctx context.Context, standing *model.Standing) error {
		if conflicts > 0 {
			conflicts--
			return database.ErrConflict
		}
		standing.Revision++
		return nil
	}

	svc := newTestStandingService(repo)

	_, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updateSnapshotCalls != 3 {
		t.Errorf("expected 3 snapshot attempts, got %d", repo.updateSnapshotCalls)
	}
}

func TestRecompute_ConflictExhaustion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	repo.getByUserIDFunc = func(ctx context.Context, userID string) (*model.Standing, error) {
		return &model.Standing{UserID: userID, SafetyStatus: model.SafetyStatusSafe}, nil
	}
	repo.updateSnapshotFunc = func(ctx context.Context, standing *model.Standing) error {
		return database.ErrConflict
	}

	svc := newTestStandingService(repo)

	_, err := svc.Recompute(ctx, "user:1")
	if !errors.Is(err, ErrRecomputeConflict) {
		t.Errorf("expected ErrRecomputeConflict, got %v", err)
	}
}

// ============================================================================
// GetStanding Tests
// ============================================================================

func TestGetStanding_CreatesOnFirstTouch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	created := false
	repo := &mockStandingRepo{
		createFunc: func(ctx context.Context, standing *model.Standing) error {
			created = true
			standing.ID = "standing:1"
			return nil
		},
	}

	svc := newTestStandingService(repo)

	standing, err := svc.GetStanding(ctx, "user:new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected a standing record to be created")
	}
	if standing.SafetyStatus != model.SafetyStatusSafe {
		t.Errorf("expected new standing to be safe, got %s", standing.SafetyStatus)
	}
	if standing.SafetyScore != 100 {
		t.Errorf("expected new standing score 100, got %v", standing.SafetyScore)
	}
}

func TestGetStanding_CreationRaceReReads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	calls := 0
	repo := &mockStandingRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*model.Standing, error) {
			calls++
			if calls == 1 {
				return nil, database.ErrNotFound
			}
			return &model.Standing{UserID: userID, SafetyStatus: model.SafetyStatusSafe}, nil
		},
		createFunc: func(ctx context.Context, standing *model.Standing) error {
			return database.ErrDuplicate
		},
	}

	svc := newTestStandingService(repo)

	standing, err := svc.GetStanding(ctx, "user:raced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if standing == nil {
		t.Fatal("expected the winner's record")
	}
}

// ============================================================================
// Ingestion Tests
// ============================================================================

func TestRecordReview_InvalidRating(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestStandingService(&mockStandingRepo{})

	for _, rating := range []float64{0, 0.5, 5.5, -1} {
		_, err := svc.RecordReview(ctx, "user:1", rating)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %v: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestRecordBookingCompleted_BumpsAndRecomputes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bumped := false
	repo := &mockStandingRepo{
		incrCompletedFunc: func(ctx context.Context, userID string) error {
			bumped = true
			return nil
		},
	}
	standing := &model.Standing{UserID: "user:1", SafetyStatus: model.SafetyStatusSafe}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.RecordBookingCompleted(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bumped {
		t.Error("expected the completion counter bump")
	}
	if result == nil {
		t.Fatal("expected the recomputed standing")
	}
}

// ============================================================================
// Admin Action Tests
// ============================================================================

func TestForceSuspend_Indefinite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{UserID: "user:1", SafetyStatus: model.SafetyStatusSafe}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.ForceSuspend(ctx, "user:1", &model.ForceSuspendRequest{Reason: "fraud investigation"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSuspended {
		t.Errorf("expected suspended, got %s", result.SafetyStatus)
	}
	if !result.AdminSuspended {
		t.Error("expected admin suspension flag")
	}
	if result.SuspensionEndsOn != nil {
		t.Error("expected an indefinite suspension")
	}
}

func TestForceSuspend_SurvivesRecompute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusSafe,
		Metrics: model.StandingMetrics{
			OverallRating:     5.0,
			TotalReviews:      50,
			CompletedBookings: 100,
			CompletionRate:    1.0,
		},
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	if _, err := svc.ForceSuspend(ctx, "user:1", &model.ForceSuspendRequest{Reason: "investigation"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A perfect score must not lift an admin suspension
	result, err := svc.Recompute(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusSuspended {
		t.Errorf("admin suspension lifted by recompute, got %s", result.SafetyStatus)
	}
}

func TestAdminReinstate_NotSuspended(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := &mockStandingRepo{}
	standing := &model.Standing{UserID: "user:1", SafetyStatus: model.SafetyStatusSafe}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	_, err := svc.AdminReinstate(ctx, "user:1")
	if !errors.Is(err, ErrNotSuspended) {
		t.Errorf("expected ErrNotSuspended, got %v", err)
	}
}

func TestAdminReinstate_DropsToProbation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svcForClock := newTestStandingService(&mockStandingRepo{})
	started := svcForClock.now().Add(-48 * time.Hour)

	repo := &mockStandingRepo{}
	standing := &model.Standing{
		UserID:              "user:1",
		SafetyStatus:        model.SafetyStatusSuspended,
		AdminSuspended:      true,
		SuspensionStartedOn: &started,
	}
	storeBacked(repo, standing)

	svc := newTestStandingService(repo)

	result, err := svc.AdminReinstate(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SafetyStatus != model.SafetyStatusProbation {
		t.Errorf("expected probation after reinstatement, got %s", result.SafetyStatus)
	}
	if result.AdminSuspended {
		t.Error("expected the admin suspension flag cleared")
	}
	if result.SuspensionStartedOn != nil || result.SuspensionEndsOn != nil {
		t.Error("expected suspension stamps cleared")
	}
}

func TestResetWarnings_Recomputes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reset := false
	repo := &mockStandingRepo{
		resetWarningsFunc: func(ctx context.Context, userID string) error {
			reset = true
			return nil
		},
	}
	standing := &model.Standing{
		UserID:       "user:1",
		SafetyStatus: model.SafetyStatusProbation,
		WarningCount: 3,
	}
	storeBacked(repo, standing)
	// Mirror the store-side reset into the backing record
	repo.resetWarningsFunc = func(ctx context.Context, userID string) error {
		reset = true
		standing.WarningCount = 0
		standing.LastWarningOn = nil
		return nil
	}

	svc := newTestStandingService(repo)

	result, err := svc.ResetWarnings(ctx, "user:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reset {
		t.Error("expected the warning reset to hit the store")
	}
	if result.WarningCount != 0 {
		t.Errorf("expected warning count 0, got %d", result.WarningCount)
	}
	if result.SafetyStatus != model.SafetyStatusSafe {
		t.Errorf("expected recovery to safe after reset, got %s", result.SafetyStatus)
	}
}

// ============================================================================
// Suspension Sweep Tests
// ============================================================================

func TestReinstateExpired_SkipsAdminSuspensions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svcForClock := newTestStandingService(&mockStandingRepo{})
	ended := svcForClock.now().Add(-time.Hour)

	adminHeld := &model.Standing{
		UserID:           "user:admin-held",
		SafetyStatus:     model.SafetyStatusSuspended,
		AdminSuspended:   true,
		SuspensionEndsOn: &ended,
	}
	expired := &model.Standing{
		UserID:           "user:expired",
		SafetyStatus:     model.SafetyStatusSuspended,
		SuspensionEndsOn: &ended,
	}

	repo := &mockStandingRepo{
		listExpiredFunc: func(ctx context.Context, now time.Time) ([]*model.Standing, error) {
			return []*model.Standing{adminHeld, expired}, nil
		},
	}
	storeBacked(repo, expired)
	repo.getByUserIDFunc = func(ctx context.Context, userID string) (*model.Standing, error) {
		copied := *expired
		return &copied, nil
	}

	svc := newTestStandingService(repo)

	count, err := svc.ReinstateExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 reinstatement, got %d", count)
	}
}
