// Package repository persists the dashboard and market documents as whole
// JSON objects in blob storage, with a small in-process read cache.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/storage"
	"github.com/channelpulse/backend-go/pkg/logger"
)

const dashboardObjectKey = "dashboard_data.json"

// DashboardRepository loads and saves the single dashboard document. Reads
// are served from memory once loaded; Save writes through and refreshes
// the cached copy.
type DashboardRepository struct {
	store storage.ObjectStorage

	mu     sync.Mutex
	cached *domain.DashboardDocument
}

func NewDashboardRepository(store storage.ObjectStorage) *DashboardRepository {
	return &DashboardRepository{store: store}
}

// Load returns the current document. A missing object yields an empty
// document, not an error, so first upload works against a fresh bucket.
func (r *DashboardRepository) Load(ctx context.Context, forceRefresh bool) (*domain.DashboardDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && !forceRefresh {
		return r.cached, nil
	}

	data, err := r.store.GetObject(ctx, dashboardObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			logger.Log.Info().Str("key", dashboardObjectKey).Msg("no stored dashboard document, starting empty")
			r.cached = domain.EmptyDashboardDocument()
			return r.cached, nil
		}
		return nil, fmt.Errorf("load dashboard document: %w", err)
	}

	var doc domain.DashboardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode dashboard document: %w", err)
	}
	if doc.ReferenceWeek == "" {
		doc.ReferenceWeek = "N/A"
	}
	r.cached = &doc
	return r.cached, nil
}

// Save replaces the stored document.
func (r *DashboardRepository) Save(ctx context.Context, doc *domain.DashboardDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode dashboard document: %w", err)
	}
	if err := r.store.PutObject(ctx, dashboardObjectKey, data, "application/json"); err != nil {
		return fmt.Errorf("save dashboard document: %w", err)
	}

	r.mu.Lock()
	r.cached = doc
	r.mu.Unlock()

	logger.Log.Info().
		Int("weekly_records", len(doc.WeeklyData)).
		Int("snapshot_rows", len(doc.CurrentSnapshot)).
		Str("reference_week", doc.ReferenceWeek).
		Msg("dashboard document saved")
	return nil
}
