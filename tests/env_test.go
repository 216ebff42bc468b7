package tests

import (
	"log/slog"
	"os"
	"testing"

	"github.com/festo/gala/api/internal/config"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/repository"
	"github.com/festo/gala/api/internal/service"
	"github.com/festo/gala/api/internal/testing/fixtures"
	"github.com/festo/gala/api/internal/testing/testdb"
)

// env wires the full service stack against a throwaway test database. Every
// test gets its own namespace, so the suites are independent of each other.
type env struct {
	tdb *testdb.TestDB
	fx  *fixtures.Factory
	cfg *config.Config

	standingRepo *repository.StandingRepository
	reportRepo   *repository.ReportRepository
	supplierRepo *repository.SupplierRepository
	appealRepo   *repository.AppealRepository

	standings  *service.StandingService
	reports    *service.ReportService
	appeals    *service.AppealService
	onboarding *service.OnboardingService
	tiers      *service.TierService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	tdb := testdb.New(t)
	t.Cleanup(tdb.Close)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	standingRepo := repository.NewStandingRepository(tdb.DB)
	reportRepo := repository.NewReportRepository(tdb.DB)
	supplierRepo := repository.NewSupplierRepository(tdb.DB)
	appealRepo := repository.NewAppealRepository(tdb.DB)
	rankingRepo := repository.NewRankingRepository(tdb.DB, cfg.Ranking.WindowSize, cfg.Ranking.MinReviews)

	// Keep job noise out of test output
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	notifier := service.NewLogNotifier(logger)

	hub := service.NewEventHub()
	t.Cleanup(hub.Close)

	standings := service.NewStandingService(standingRepo, supplierRepo, rankingRepo, notifier, hub, cfg.Policy)

	return &env{
		tdb:          tdb,
		fx:           fixtures.New(tdb.DB),
		cfg:          cfg,
		standingRepo: standingRepo,
		reportRepo:   reportRepo,
		supplierRepo: supplierRepo,
		appealRepo:   appealRepo,
		standings:    standings,
		reports:      service.NewReportService(reportRepo, standings, hub),
		appeals:      service.NewAppealService(appealRepo, standings, hub),
		onboarding:   service.NewOnboardingService(supplierRepo, standings),
		tiers:        service.NewTierService(standingRepo, supplierRepo, cfg.Policy.Tiers),
	}
}

// hasBadge reports whether a standing carries a badge of the given type
func hasBadge(badges []model.Badge, badgeType model.BadgeType) bool {
	for _, b := range badges {
		if b.Type == badgeType {
			return true
		}
	}
	return false
}
