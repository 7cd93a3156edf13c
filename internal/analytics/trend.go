package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/channelpulse/backend-go/internal/calendar"
	"github.com/channelpulse/backend-go/internal/domain"
)

// Trend bucket modes.
const (
	TrendByMonth = "month"
	TrendByWeek  = "week"
)

// SalesTrend buckets sales quantities over time. Primary sums records
// passing the full filter, Comparison sums the compare distributor set
// under the same remaining filters, and Total ignores dimensions
// entirely. Records that cannot be placed in a bucket are skipped.
func SalesTrend(records []domain.WeeklyRecord, filter domain.RecordFilter, compare []string, mode string) []domain.TrendPoint {
	if mode != TrendByWeek {
		mode = TrendByMonth
	}

	compareFilter := filter
	compareFilter.Distributors = compare

	buckets := make(map[string]*domain.TrendPoint)
	for _, r := range records {
		if r.Type != domain.RecordTypeSales || !filter.MatchDate(r) {
			continue
		}
		key, ok := bucketKey(r, mode)
		if !ok {
			continue
		}
		p, exists := buckets[key]
		if !exists {
			p = &domain.TrendPoint{TimeKey: key}
			buckets[key] = p
		}
		p.Total += r.Qty
		if filter.MatchDimensions(r) {
			p.Primary += r.Qty
		}
		if len(compare) > 0 && compareFilter.MatchDimensions(r) {
			p.Comparison += r.Qty
		}
	}

	out := make([]domain.TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeKey < out[j].TimeKey })
	return out
}

func bucketKey(r domain.WeeklyRecord, mode string) (string, bool) {
	if r.Year == 0 {
		return "", false
	}
	if mode == TrendByWeek {
		if r.Week == 0 {
			return "", false
		}
		return fmt.Sprintf("%02d.W%02d", r.Year%100, r.Week), true
	}
	month := r.Month
	if month == 0 {
		month = calendar.MonthFromWeek(r.Week)
	}
	if month == 0 {
		return "", false
	}
	return fmt.Sprintf("%02d.%02d", r.Year%100, month), true
}

// Grouping dimensions for GroupTotals.
const (
	GroupByModel       = "model"
	GroupByDistributor = "distributor"
	GroupByDealer      = "dealer"
)

// GroupTotals sums filtered sales by the chosen dimension, largest first.
func GroupTotals(records []domain.WeeklyRecord, filter domain.RecordFilter, groupBy string) []domain.GroupTotal {
	totals := make(map[string]*domain.GroupTotal)
	for _, r := range records {
		if r.Type != domain.RecordTypeSales || !filter.MatchDimensions(r) || !filter.MatchDate(r) {
			continue
		}
		var key string
		switch groupBy {
		case GroupByDistributor:
			key = r.Distributor
		case GroupByDealer:
			key = orUnknown(r.DealerName)
		default:
			key = r.ModelName
		}
		g, ok := totals[key]
		if !ok {
			g = &domain.GroupTotal{Key: key}
			totals[key] = g
		}
		g.Sales += r.Qty
		if groupBy == GroupByModel || groupBy == "" {
			if g.Chipset == "" && r.Chipset != domain.UnknownValue {
				g.Chipset = r.Chipset
			}
		}
	}

	out := make([]domain.GroupTotal, 0, len(totals))
	for _, g := range totals {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Options collects the distinct dimension values present in the records,
// sorted case-insensitively, for filter dropdowns.
func Options(records []domain.WeeklyRecord) domain.FilterOptions {
	sets := map[string]map[string]struct{}{
		"distributor": {},
		"model":       {},
		"chipset":     {},
		"category":    {},
		"dealer":      {},
		"product":     {},
	}
	add := func(set map[string]struct{}, v string) {
		if v != "" && v != domain.UnknownValue {
			set[v] = struct{}{}
		}
	}
	for _, r := range records {
		add(sets["distributor"], r.Distributor)
		add(sets["model"], r.ModelName)
		add(sets["chipset"], r.Chipset)
		add(sets["category"], r.CategoryType)
		add(sets["dealer"], r.DealerName)
		add(sets["product"], r.Product)
	}
	return domain.FilterOptions{
		Distributors:  sortedValues(sets["distributor"]),
		Models:        sortedValues(sets["model"]),
		Chipsets:      sortedValues(sets["chipset"]),
		CategoryTypes: sortedValues(sets["category"]),
		Dealers:       sortedValues(sets["dealer"]),
		Products:      sortedValues(sets["product"]),
	}
}

func sortedValues(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
