package service

import (
	"context"

	"github.com/channelpulse/backend-go/internal/analytics"
	"github.com/channelpulse/backend-go/internal/cache"
	"github.com/channelpulse/backend-go/internal/config"
	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/repository"
	"github.com/channelpulse/backend-go/pkg/logger"
)

// AnalyticsService serves the dashboard views over the stored document.
// Analysis results are cached per filter fingerprint; cache failures
// degrade to recomputation, never to request failure.
type AnalyticsService struct {
	repo     *repository.DashboardRepository
	cache    cache.AnalysisCache
	defaults config.AnalyticsConfig
}

func NewAnalyticsService(repo *repository.DashboardRepository, analysisCache cache.AnalysisCache, defaults config.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{repo: repo, cache: analysisCache, defaults: defaults}
}

func (s *AnalyticsService) applyDefaults(filter *domain.RecordFilter) {
	if filter.WindowWeeks <= 0 {
		filter.WindowWeeks = s.defaults.WindowWeeks
	}
	if filter.WindowWeeks <= 0 {
		filter.WindowWeeks = analytics.DefaultWindowWeeks
	}
	if filter.TargetWeeks <= 0 {
		filter.TargetWeeks = s.defaults.TargetWeeks
	}
	if filter.TargetWeeks <= 0 {
		filter.TargetWeeks = analytics.DefaultTargetWeeks
	}
}

// Analysis computes the run-rate view for the given filter.
func (s *AnalyticsService) Analysis(ctx context.Context, filter domain.RecordFilter) (*domain.AnalysisView, error) {
	s.applyDefaults(&filter)

	if cached, hit, err := s.cache.GetAnalysis(ctx, &filter); err != nil {
		logger.Log.Warn().Err(err).Msg("analysis cache read failed")
	} else if hit {
		return cached, nil
	}

	doc, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}

	result := analytics.RunRate(doc.WeeklyData, doc.CurrentSnapshot, filter)
	view := &domain.AnalysisView{
		ReferenceWeek: result.ReferenceWeek,
		WindowStart:   result.WindowStart,
		WindowEnd:     result.WindowEnd,
		WindowWeeks:   result.WindowWeeks,
		TargetWeeks:   filter.TargetWeeks,
		Rows:          result.Rows,
		Models:        analytics.AggregateByModel(result.Rows, filter.TargetWeeks),
	}

	if err := s.cache.SetAnalysis(ctx, &filter, view); err != nil {
		logger.Log.Warn().Err(err).Msg("analysis cache write failed")
	}
	return view, nil
}

// Trend returns the time-bucketed sales chart data.
func (s *AnalyticsService) Trend(ctx context.Context, filter domain.RecordFilter, compare []string, mode string) ([]domain.TrendPoint, error) {
	doc, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	return analytics.SalesTrend(doc.WeeklyData, filter, compare, mode), nil
}

// Totals returns the grouped sales table.
func (s *AnalyticsService) Totals(ctx context.Context, filter domain.RecordFilter, groupBy string) ([]domain.GroupTotal, error) {
	doc, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	return analytics.GroupTotals(doc.WeeklyData, filter, groupBy), nil
}

// Options lists the distinct dimension values for filter dropdowns.
func (s *AnalyticsService) Options(ctx context.Context) (domain.FilterOptions, error) {
	doc, err := s.repo.Load(ctx, false)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return analytics.Options(doc.WeeklyData), nil
}

// Document exposes the raw stored document, optionally bypassing the
// in-process cache.
func (s *AnalyticsService) Document(ctx context.Context, forceRefresh bool) (*domain.DashboardDocument, error) {
	return s.repo.Load(ctx, forceRefresh)
}
