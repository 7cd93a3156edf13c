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

const marketObjectKey = "market_price_history.json"

// MarketRepository persists the market price history, one entry per crawl
// date, as a single JSON array.
type MarketRepository struct {
	store storage.ObjectStorage

	mu     sync.Mutex
	cached []domain.MarketHistory
	loaded bool
}

func NewMarketRepository(store storage.ObjectStorage) *MarketRepository {
	return &MarketRepository{store: store}
}

// Load returns the stored history, empty when nothing has been uploaded.
func (r *MarketRepository) Load(ctx context.Context, forceRefresh bool) ([]domain.MarketHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded && !forceRefresh {
		return r.cached, nil
	}

	data, err := r.store.GetObject(ctx, marketObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			logger.Log.Info().Str("key", marketObjectKey).Msg("no stored market history, starting empty")
			r.cached = []domain.MarketHistory{}
			r.loaded = true
			return r.cached, nil
		}
		return nil, fmt.Errorf("load market history: %w", err)
	}

	var history []domain.MarketHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode market history: %w", err)
	}
	r.cached = history
	r.loaded = true
	return r.cached, nil
}

// Save replaces the stored history.
func (r *MarketRepository) Save(ctx context.Context, history []domain.MarketHistory) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode market history: %w", err)
	}
	if err := r.store.PutObject(ctx, marketObjectKey, data, "application/json"); err != nil {
		return fmt.Errorf("save market history: %w", err)
	}

	r.mu.Lock()
	r.cached = history
	r.loaded = true
	r.mu.Unlock()

	logger.Log.Info().Int("dates", len(history)).Msg("market history saved")
	return nil
}
