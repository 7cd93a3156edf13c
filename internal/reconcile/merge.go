// Package reconcile implements the upsert semantics for stored documents:
// weekly records merge by identity key, market history replaces per date.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/channelpulse/backend-go/internal/domain"
)

// RecordKey returns the merge identity of a weekly record. Records built
// from dated rows carry an explicit ID; records without one fall back to a
// composite of their dimension fields, so re-uploading the same export
// overwrites instead of duplicating.
func RecordKey(r domain.WeeklyRecord) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%d_%d_%s_%s_%s_%s_%s_%s_%d",
		r.Year, r.Week, r.Distributor, r.ModelName, r.DealerName,
		r.Type, r.Product, r.Date, r.RowIndex)
}

// MergeWeekly upserts incoming records into existing ones. Incoming wins
// on key collision; nothing is ever deleted. The result is ordered by key
// so merge output is deterministic regardless of input order.
func MergeWeekly(existing, incoming []domain.WeeklyRecord) []domain.WeeklyRecord {
	merged := make(map[string]domain.WeeklyRecord, len(existing)+len(incoming))
	for _, r := range existing {
		merged[RecordKey(r)] = r
	}
	for _, r := range incoming {
		merged[RecordKey(r)] = r
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.WeeklyRecord, 0, len(merged))
	for _, k := range keys {
		out = append(out, merged[k])
	}
	return out
}

// MergeMarket replaces the history entry for date (if any) with the given
// items and keeps the history sorted by date ascending. Other dates are
// untouched.
func MergeMarket(history []domain.MarketHistory, date string, items []domain.MarketItem) []domain.MarketHistory {
	out := make([]domain.MarketHistory, 0, len(history)+1)
	for _, h := range history {
		if h.Date != date {
			out = append(out, h)
		}
	}
	out = append(out, domain.MarketHistory{Date: date, Items: items})
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
