package service

import (
	"context"

	"github.com/channelpulse/backend-go/internal/analytics"
	"github.com/channelpulse/backend-go/internal/domain"
	"github.com/channelpulse/backend-go/internal/repository"
)

// MarketService serves the market price views.
type MarketService struct {
	repo *repository.MarketRepository
}

func NewMarketService(repo *repository.MarketRepository) *MarketService {
	return &MarketService{repo: repo}
}

// History returns the stored history with the filter applied per item.
// Dates whose items are all filtered out are dropped.
func (s *MarketService) History(ctx context.Context, filter domain.MarketFilter) ([]domain.MarketHistory, error) {
	history, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]domain.MarketHistory, 0, len(history))
	for _, h := range history {
		items := make([]domain.MarketItem, 0, len(h.Items))
		for _, item := range h.Items {
			if filter.Match(item) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, domain.MarketHistory{Date: h.Date, Items: items})
		}
	}
	return out, nil
}

func (s *MarketService) LatestPrices(ctx context.Context, filter domain.MarketFilter) ([]domain.LatestPrice, error) {
	history, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	return analytics.LatestPrices(history, filter), nil
}

func (s *MarketService) Movers(ctx context.Context, filter domain.MarketFilter) (domain.PriceMovers, error) {
	history, err := s.repo.Load(ctx, false)
	if err != nil {
		return domain.PriceMovers{}, err
	}
	return analytics.PriceMovers(history, filter), nil
}

func (s *MarketService) BrandAverages(ctx context.Context, filter domain.MarketFilter) ([]domain.BrandAverage, error) {
	history, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	return analytics.BrandAverages(history, filter), nil
}

func (s *MarketService) BrandTrend(ctx context.Context, filter domain.MarketFilter) ([]domain.BrandTrendPoint, error) {
	history, err := s.repo.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	return analytics.BrandTrend(history, filter), nil
}
