package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/models"
)

const statsCacheKey = "stats:dashboard"

// DashboardStats is the read-only rollup behind the public dashboard.
type DashboardStats struct {
	TotalReports     int64 `json:"totalReports"`
	ResolvedReports  int64 `json:"resolvedReports"`
	ActiveWorkers    int64 `json:"activeWorkers"`
	TotalDepartments int   `json:"totalDepartments"`
}

// StatsService aggregates counters over the two collections. Results are
// cached in Redis so the dashboard does not hammer the store; the cache
// client may be nil, in which case every call recomputes.
type StatsService struct {
	reports  ReportStore
	users    UserStore
	cache    *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewStatsService(reports ReportStore, users UserStore, cache *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *StatsService {
	return &StatsService{
		reports:  reports,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the counters and rewrites the cache entry. The cron
// scheduler calls it periodically so the cache stays warm.
func (s *StatsService) Refresh(ctx context.Context) (DashboardStats, error) {
	totalReports, err := s.reports.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	resolvedReports, err := s.reports.CountByStatus(ctx, models.StatusCompleted)
	if err != nil {
		return DashboardStats{}, err
	}
	activeWorkers, err := s.users.CountByRoleAndActive(ctx, models.RoleWorker, true)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalReports:     totalReports,
		ResolvedReports:  resolvedReports,
		ActiveWorkers:    activeWorkers,
		TotalDepartments: len(models.Departments),
	}

	if s.cache != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("stats cache write failed")
			}
		}
	}

	return stats, nil
}
