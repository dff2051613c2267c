package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/clients/redis"
	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

const (
	dashboardCacheKey = "dashboard:summary:admin"
	dashboardCacheTTL = 30 * time.Second
	dashboardMonths   = 6
)

type DashboardSummary struct {
	TotalProjects    int64                `json:"total_projects"`
	ProjectsByStatus map[string]int64     `json:"projects_by_status"`
	TotalRaised      decimal.Decimal      `json:"total_raised"`
	RaisedThisMonth  decimal.Decimal      `json:"raised_this_month"`
	SuccessRate      float64              `json:"success_rate"`
	MonthlyTotals    []repos.MonthlyTotal `json:"monthly_totals"`
	GeneratedAt      time.Time            `json:"generated_at"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	donationRepo repos.DonationRepo
	cache        *redis.Cache
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	donationRepo repos.DonationRepo,
	cache *redis.Cache,
) DashboardService {
	return &dashboardService{
		db:           db,
		log:          log.With("service", "DashboardService"),
		projectRepo:  projectRepo,
		donationRepo: donationRepo,
		cache:        cache,
	}
}

// Summary fans the dashboard queries out concurrently and assembles one
// snapshot. Volunteers get numbers computed over their projects only; the
// administrator snapshot is identical for every admin and is cached
// briefly in redis when available.
func (ds *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	const op = "dashboard.summary"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}

	cacheable := scope.IsAdministrator()
	if cacheable {
		if raw, ok := ds.cache.Get(ctx, dashboardCacheKey); ok {
			var cached DashboardSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := ds.compute(ctx, scope)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if raw, err := json.Marshal(summary); err == nil {
			ds.cache.Set(ctx, dashboardCacheKey, string(raw), dashboardCacheTTL)
		}
	}
	return summary, nil
}

func (ds *dashboardService) compute(ctx context.Context, scope access.Scope) (*DashboardSummary, error) {
	const op = "dashboard.summary"

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	seriesStart := monthStart.AddDate(0, -(dashboardMonths - 1), 0)

	summary := &DashboardSummary{
		ProjectsByStatus: make(map[string]int64, 4),
		GeneratedAt:      now,
	}

	statuses := []domain.ProjectStatus{
		domain.ProjectDraft,
		domain.ProjectActive,
		domain.ProjectCompleted,
		domain.ProjectCancelled,
	}
	statusCounts := make([]int64, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	dbc := func() dbctx.Context { return dbctx.Context{Ctx: gctx} }

	g.Go(func() error {
		total, err := ds.projectRepo.Count(dbc(), scope)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		summary.TotalProjects = total
		return nil
	})
	for i, status := range statuses {
		i, status := i, status
		g.Go(func() error {
			n, err := ds.projectRepo.CountByStatus(dbc(), scope, status)
			if err != nil {
				return aggregates.MapError(op, err)
			}
			statusCounts[i] = n
			return nil
		})
	}
	g.Go(func() error {
		total, err := ds.donationRepo.SumAmounts(dbc(), scope, nil)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		summary.TotalRaised = total
		return nil
	})
	g.Go(func() error {
		total, err := ds.donationRepo.SumAmounts(dbc(), scope, &monthStart)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		summary.RaisedThisMonth = total
		return nil
	})
	g.Go(func() error {
		series, err := ds.donationRepo.MonthlyTotals(dbc(), scope, seriesStart)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		summary.MonthlyTotals = series
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, status := range statuses {
		summary.ProjectsByStatus[string(status)] = statusCounts[i]
	}
	summary.SuccessRate = successRate(statusCounts[2], summary.TotalProjects)
	if summary.MonthlyTotals == nil {
		summary.MonthlyTotals = []repos.MonthlyTotal{}
	}
	return summary, nil
}

// successRate is the share of all projects that reached Completed, as a
// percentage rounded to two decimal places.
func successRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := decimal.NewFromInt(completed).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	out, _ := rate.Float64()
	return out
}
