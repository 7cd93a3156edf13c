package analytics

import (
	"math"
	"sort"

	"github.com/channelpulse/backend-go/internal/domain"
)

// topMovers is the cutoff for each side of the movers table.
const topMovers = 10

func productKey(i domain.MarketItem) string {
	return i.Brand + "|" + i.Model
}

// LatestPrices returns the most recent known price per (brand, model)
// across the whole history, newest observation date first.
func LatestPrices(history []domain.MarketHistory, filter domain.MarketFilter) []domain.LatestPrice {
	latest := make(map[string]domain.LatestPrice)
	for _, h := range sortedHistory(history) {
		for _, item := range h.Items {
			if !filter.Match(item) {
				continue
			}
			latest[productKey(item)] = domain.LatestPrice{MarketItem: item, Date: h.Date}
		}
	}

	out := make([]domain.LatestPrice, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// PriceMovers compares each product's price on the globally latest date
// against its own previous observation, whatever date that was. Products
// not quoted on the latest date are stale and excluded, as are unchanged
// prices. Both sides are capped at the top ten by percentage.
func PriceMovers(history []domain.MarketHistory, filter domain.MarketFilter) domain.PriceMovers {
	ordered := sortedHistory(history)
	if len(ordered) < 2 {
		return domain.PriceMovers{Gainers: []domain.PriceMove{}, Losers: []domain.PriceMove{}}
	}
	latestDate := ordered[len(ordered)-1].Date

	type track struct {
		item      domain.MarketItem
		lastDate  string
		lastPrice float64
		prevPrice float64
		hasPrev   bool
	}
	tracks := make(map[string]*track)
	for _, h := range ordered {
		for _, item := range h.Items {
			if !filter.Match(item) {
				continue
			}
			key := productKey(item)
			tr, ok := tracks[key]
			if !ok {
				tracks[key] = &track{item: item, lastDate: h.Date, lastPrice: item.Price}
				continue
			}
			if h.Date != tr.lastDate {
				tr.prevPrice = tr.lastPrice
				tr.hasPrev = true
			}
			tr.item = item
			tr.lastDate = h.Date
			tr.lastPrice = item.Price
		}
	}

	var moves []domain.PriceMove
	for _, tr := range tracks {
		if tr.lastDate != latestDate || !tr.hasPrev || tr.prevPrice == 0 {
			continue
		}
		diff := tr.lastPrice - tr.prevPrice
		if diff == 0 {
			continue
		}
		moves = append(moves, domain.PriceMove{
			Brand:    tr.item.Brand,
			Model:    tr.item.Model,
			OldPrice: tr.prevPrice,
			NewPrice: tr.lastPrice,
			Diff:     diff,
			Pct:      diff / tr.prevPrice * 100,
		})
	}

	sort.Slice(moves, func(i, j int) bool {
		if moves[i].Pct != moves[j].Pct {
			return moves[i].Pct > moves[j].Pct
		}
		return moves[i].Model < moves[j].Model
	})

	gainers := make([]domain.PriceMove, 0, topMovers)
	for _, m := range moves {
		if m.Pct > 0 && len(gainers) < topMovers {
			gainers = append(gainers, m)
		}
	}
	losers := make([]domain.PriceMove, 0, topMovers)
	for i := len(moves) - 1; i >= 0 && len(losers) < topMovers; i-- {
		if moves[i].Pct < 0 {
			losers = append(losers, moves[i])
		}
	}
	return domain.PriceMovers{Gainers: gainers, Losers: losers}
}

// BrandAverages computes the mean price per brand on the latest history
// date, highest average first. Items without a brand are skipped.
func BrandAverages(history []domain.MarketHistory, filter domain.MarketFilter) []domain.BrandAverage {
	ordered := sortedHistory(history)
	if len(ordered) == 0 {
		return []domain.BrandAverage{}
	}
	latest := ordered[len(ordered)-1]

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, item := range latest.Items {
		if item.Brand == "" || !filter.Match(item) {
			continue
		}
		sums[item.Brand] += item.Price
		counts[item.Brand]++
	}

	out := make([]domain.BrandAverage, 0, len(sums))
	for brand, sum := range sums {
		out = append(out, domain.BrandAverage{
			Brand:    brand,
			AvgPrice: math.Round(sum / float64(counts[brand])),
			Count:    counts[brand],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgPrice != out[j].AvgPrice {
			return out[i].AvgPrice > out[j].AvgPrice
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// BrandTrend returns per-brand mean prices for every history date,
// ascending, for the price trend chart.
func BrandTrend(history []domain.MarketHistory, filter domain.MarketFilter) []domain.BrandTrendPoint {
	out := make([]domain.BrandTrendPoint, 0, len(history))
	for _, h := range sortedHistory(history) {
		sums := make(map[string]float64)
		counts := make(map[string]int)
		for _, item := range h.Items {
			if item.Brand == "" || !filter.Match(item) {
				continue
			}
			sums[item.Brand] += item.Price
			counts[item.Brand]++
		}
		if len(sums) == 0 {
			continue
		}
		point := domain.BrandTrendPoint{Date: h.Date, Averages: make(map[string]float64, len(sums))}
		for brand, sum := range sums {
			point.Averages[brand] = math.Round(sum / float64(counts[brand]))
		}
		out = append(out, point)
	}
	return out
}

// sortedHistory returns the history ordered by date ascending without
// mutating the stored slice.
func sortedHistory(history []domain.MarketHistory) []domain.MarketHistory {
	out := make([]domain.MarketHistory, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
