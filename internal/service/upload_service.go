package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/channelpulse/backend-go/internal/cache"
	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/excel"
	"github.com/channelpulse/backend-go/internal/reconcile"
	"github.com/channelpulse/backend-go/internal/repository"
	"github.com/channelpulse/backend-go/pkg/logger"
)

// maxParallelParses bounds concurrent workbook parsing during a market
// upload batch.
const maxParallelParses = 4

// MarketFile is one uploaded market price workbook.
type MarketFile struct {
	Name string
	Data []byte
}

// UploadService ingests uploaded workbooks into the stored documents.
type UploadService struct {
	dashboards *repository.DashboardRepository
	markets    *repository.MarketRepository
	cache      cache.AnalysisCache
}

func NewUploadService(dashboards *repository.DashboardRepository, markets *repository.MarketRepository, analysisCache cache.AnalysisCache) *UploadService {
	return &UploadService{dashboards: dashboards, markets: markets, cache: analysisCache}
}

// IngestWorkbook parses a dashboard workbook, merges its weekly records
// into the stored history, replaces the snapshot when the workbook
// carries one, and persists the result.
func (s *UploadService) IngestWorkbook(ctx context.Context, filename string, data []byte) (*domain.IngestSummary, error) {
	parsed, err := excel.ParseWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	for _, w := range parsed.Warnings {
		logger.Log.Warn().Str("file", filename).Msg(w)
	}
	if len(parsed.Weekly) == 0 && len(parsed.Snapshot) == 0 {
		return nil, fmt.Errorf("%s: no recognizable sales, inventory or backlog sheets", filename)
	}

	doc, err := s.dashboards.Load(ctx, true)
	if err != nil {
		return nil, err
	}

	merged := reconcile.MergeWeekly(doc.WeeklyData, parsed.Weekly)
	next := &domain.DashboardDocument{
		WeeklyData:      merged,
		CurrentSnapshot: doc.CurrentSnapshot,
		AnalysisResult:  doc.AnalysisResult,
		ReferenceWeek:   doc.ReferenceWeek,
		UpdatedAt:       time.Now().Format(time.RFC3339),
	}
	if next.AnalysisResult == nil {
		next.AnalysisResult = []any{}
	}
	if len(parsed.Snapshot) > 0 {
		// Snapshots describe current state, so the old one is replaced,
		// never merged.
		next.CurrentSnapshot = parsed.Snapshot
		next.ReferenceWeek = parsed.ReferenceWeek
	}

	if err := s.dashboards.Save(ctx, next); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Log.Warn().Err(err).Msg("analysis cache invalidation failed")
	}

	return &domain.IngestSummary{
		SalesRows:     len(parsed.Weekly),
		SnapshotRows:  len(parsed.Snapshot),
		MergedRows:    len(merged),
		ReferenceWeek: next.ReferenceWeek,
	}, nil
}

// IngestMarketFiles parses a batch of market price workbooks in parallel,
// groups the items per upload date and writes each date back into the
// stored history. Files that cannot be handled produce per-file error
// results; the rest of the batch still lands.
func (s *UploadService) IngestMarketFiles(ctx context.Context, files []MarketFile, fallbackDate string) ([]domain.UploadResult, error) {
	fallback := time.Time{}
	if fallbackDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", fallbackDate, time.Local); err == nil {
			fallback = t
		}
	}

	var (
		mu      sync.Mutex
		results = make([]domain.UploadResult, 0, len(files))
		batches = make(map[string][]domain.MarketItem)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			category := excel.DetectCategory(f.Name)
			if category == "UNKNOWN" {
				mu.Lock()
				results = append(results, domain.UploadResult{Name: f.Name, Status: "error", Msg: "unrecognized category"})
				mu.Unlock()
				return nil
			}
			date := excel.DateFromFilename(f.Name, fallback)
			items, err := excel.ParseMarketSheet(f.Data, category)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results = append(results, domain.UploadResult{Name: f.Name, Status: "error", Msg: err.Error()})
				return nil
			}
			batches[date] = append(batches[date], items...)
			results = append(results, domain.UploadResult{
				Name:   f.Name,
				Status: "success",
				Msg:    fmt.Sprintf("%s: %d items for %s", category, len(items), date),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if len(batches) == 0 {
		return results, nil
	}

	history, err := s.markets.Load(ctx, true)
	if err != nil {
		return results, err
	}
	dates := make([]string, 0, len(batches))
	for d := range batches {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		history = reconcile.MergeMarket(history, d, batches[d])
	}
	if err := s.markets.Save(ctx, history); err != nil {
		return results, err
	}

	logger.Log.Info().
		Int("files", len(files)).
		Str("dates", strings.Join(dates, ",")).
		Msg("market upload ingested")
	return results, nil
}
