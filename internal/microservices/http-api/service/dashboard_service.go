package service

import (
	"context"
	"log/slog"
	"time"

	"libraryhub/internal/cache"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/reports"
)

type DashboardService interface {
	Dashboard(ctx context.Context, today time.Time) (*reports.Dashboard, error)
	Invalidate(ctx context.Context)
}

type dashboardService struct {
	reader *reports.Reader
	cache  *cache.DashboardCache
	log    *slog.Logger
}

// NewDashboardService serves dashboard figures from reader, through dashboardCache when one
// is configured. Cache failures are logged and never fail a request.
func NewDashboardService(reader *reports.Reader, dashboardCache *cache.DashboardCache, log *slog.Logger) DashboardService {
	return &dashboardService{reader: reader, cache: dashboardCache, log: log}
}

func (s *dashboardService) Dashboard(ctx context.Context, today time.Time) (*reports.Dashboard, error) {
	day := models.DateOf(today)
	if cached, err := s.cache.Get(ctx, day); err != nil {
		s.log.Warn("dashboard_cache_read_failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	d, err := s.reader.Dashboard(ctx, day)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, day, d); err != nil {
		s.log.Warn("dashboard_cache_write_failed", "error", err)
	}
	return d, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("dashboard_cache_invalidate_failed", "error", err)
	}
}
