// Package analytics computes the derived views over the merged record set:
// trailing-window run rates, coverage metrics, sales trends, grouped
// totals and the market price aggregates. Everything here is pure and
// side-effect free, so queries can run repeatedly and in parallel over
// one loaded document.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/channelpulse/backend-go/internal/calendar"
	"github.com/channelpulse/backend-go/internal/domain"
)

const (
	// DefaultWindowWeeks is the trailing run-rate window W.
	DefaultWindowWeeks = 4
	// DefaultTargetWeeks is the coverage target T for order suggestions.
	DefaultTargetWeeks = 8
)

type groupKey struct {
	distributor string
	model       string
}

func validDate(d string) bool {
	return d != "" && d != domain.MissingDateSentinel
}

// dimensionSource backfills chipset/product/type/dealer for snapshot-only
// rows from whatever the sales history knows about the model.
type dimensionSource struct {
	chipset  string
	product  string
	category string
	dealer   string
}

// RunRate runs the trailing-window analysis over sales records and the
// current snapshot. The window ends at the latest sale date passing the
// dimension filters; snapshot-only models still produce rows so dead
// stock stays visible.
func RunRate(records []domain.WeeklyRecord, snapshot []domain.SnapshotEntry, filter domain.RecordFilter) domain.RunRateAnalysis {
	windowWeeks := filter.WindowWeeks
	if windowWeeks <= 0 {
		windowWeeks = DefaultWindowWeeks
	}

	maxDate := ""
	for _, r := range records {
		if r.Type != domain.RecordTypeSales || !validDate(r.Date) || !filter.MatchDimensions(r) {
			continue
		}
		if r.Date > maxDate {
			maxDate = r.Date
		}
	}
	if maxDate == "" {
		return domain.RunRateAnalysis{ReferenceWeek: "N/A", WindowWeeks: windowWeeks}
	}

	latest, err := time.ParseInLocation("2006-01-02", maxDate, time.Local)
	if err != nil {
		return domain.RunRateAnalysis{ReferenceWeek: "N/A", WindowWeeks: windowWeeks}
	}
	ref := calendar.ISOWeek(latest)
	weeks := calendar.TrailingWeeks(ref.Year, ref.Week, windowWeeks)
	oldest := weeks[len(weeks)-1]
	windowStart := calendar.DateKey(calendar.MondayOfISOWeek(oldest.Year, oldest.Week))
	windowEnd := maxDate

	sales := make(map[groupKey]float64)
	dims := make(map[string]dimensionSource)
	for _, r := range records {
		if r.Type != domain.RecordTypeSales || !filter.MatchDimensions(r) {
			continue
		}
		// Dimension enrichment uses the full history, not just the window.
		modelKey := r.ModelName
		d := dims[modelKey]
		if d.chipset == "" && r.Chipset != domain.UnknownValue {
			d.chipset = r.Chipset
		}
		if d.product == "" && r.Product != "" && r.Product != domain.UnknownValue {
			d.product = r.Product
		}
		if d.category == "" && r.CategoryType != "" && r.CategoryType != domain.UnknownValue {
			d.category = r.CategoryType
		}
		if d.dealer == "" && r.DealerName != "" && r.DealerName != domain.UnknownValue {
			d.dealer = r.DealerName
		}
		dims[modelKey] = d

		if !validDate(r.Date) || r.Date < windowStart || r.Date > windowEnd {
			continue
		}
		sales[groupKey{r.Distributor, r.ModelName}] += r.Qty
	}

	stock := make(map[groupKey]domain.SnapshotEntry)
	for _, s := range snapshot {
		if !snapshotMatches(filter, s) {
			continue
		}
		key := groupKey{orUnknown(s.Distributor), s.ModelName}
		entry := stock[key]
		entry.ModelName = s.ModelName
		entry.Distributor = key.distributor
		entry.Chipset = firstKnown(entry.Chipset, s.Chipset)
		entry.Product = firstKnown(entry.Product, s.Product)
		entry.AvailableStock += s.AvailableStock
		entry.POQty += s.POQty
		entry.OTWQty += s.OTWQty
		stock[key] = entry
	}

	keys := make(map[groupKey]struct{}, len(sales)+len(stock))
	for k := range sales {
		keys[k] = struct{}{}
	}
	for k := range stock {
		keys[k] = struct{}{}
	}

	rows := make([]domain.RunRateRow, 0, len(keys))
	for k := range keys {
		windowSales := sales[k]
		runRate := windowSales / float64(windowWeeks)
		snap := stock[k]

		if snap.AvailableStock == 0 && snap.POQty == 0 && snap.OTWQty == 0 && runRate == 0 {
			continue
		}

		d := dims[k.model]
		rows = append(rows, domain.RunRateRow{
			Distributor:  k.distributor,
			ModelName:    k.model,
			Chipset:      orUnknown(firstKnown(snap.Chipset, d.chipset)),
			Product:      firstKnown(snap.Product, d.product),
			CategoryType: d.category,
			DealerName:   d.dealer,
			RunRate:      runRate,
			WindowSales:  windowSales,
			Stock:        snap.AvailableStock,
			PO:           snap.POQty,
			OTW:          snap.OTWQty,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RunRate != rows[j].RunRate {
			return rows[i].RunRate > rows[j].RunRate
		}
		if rows[i].ModelName != rows[j].ModelName {
			return rows[i].ModelName < rows[j].ModelName
		}
		return rows[i].Distributor < rows[j].Distributor
	})

	return domain.RunRateAnalysis{
		Rows:          rows,
		ReferenceWeek: fmt.Sprintf("%d년 %d주차", ref.Year, ref.Week),
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		WindowWeeks:   windowWeeks,
	}
}

// Coverage derives weeks-of-supply and the suggested order from a run
// rate and total availability. Stock with no consumption reports the 999
// sentinel instead of infinity so results stay sortable.
func Coverage(runRate, totalAvailable float64, targetWeeks int) (wos, suggested float64) {
	if targetWeeks <= 0 {
		targetWeeks = DefaultTargetWeeks
	}
	switch {
	case runRate > 0:
		wos = totalAvailable / runRate
	case totalAvailable > 0:
		wos = domain.WOSInfinite
	default:
		wos = 0
	}
	suggested = math.Ceil(runRate*float64(targetWeeks) - totalAvailable)
	if suggested < 0 {
		suggested = 0
	}
	return wos, suggested
}

// AggregateByModel collapses per-distributor rows to model level. Numeric
// fields sum; coverage metrics are recomputed from the summed totals
// rather than averaged across distributors.
func AggregateByModel(rows []domain.RunRateRow, targetWeeks int) []domain.ModelRunRateRow {
	byModel := make(map[string]*domain.ModelRunRateRow)
	for _, r := range rows {
		m, ok := byModel[r.ModelName]
		if !ok {
			m = &domain.ModelRunRateRow{ModelName: r.ModelName, Chipset: r.Chipset, Product: r.Product}
			byModel[r.ModelName] = m
		}
		if m.Chipset == domain.UnknownValue {
			m.Chipset = r.Chipset
		}
		if m.Product == "" {
			m.Product = r.Product
		}
		m.RunRate += r.RunRate
		m.Stock += r.Stock
		m.PO += r.PO
		m.OTW += r.OTW
	}

	out := make([]domain.ModelRunRateRow, 0, len(byModel))
	for _, m := range byModel {
		if m.RunRate == 0 && m.Stock == 0 && m.PO == 0 && m.OTW == 0 {
			continue
		}
		m.WeeksOfSupply, m.SuggestedOrder = Coverage(m.RunRate, m.Stock+m.PO+m.OTW, targetWeeks)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RunRate != out[j].RunRate {
			return out[i].RunRate > out[j].RunRate
		}
		return out[i].ModelName < out[j].ModelName
	})
	return out
}

func snapshotMatches(f domain.RecordFilter, s domain.SnapshotEntry) bool {
	return matchOrEmpty(f.Models, s.ModelName) &&
		matchOrEmpty(f.Chipsets, orUnknown(s.Chipset)) &&
		matchOrEmpty(f.Distributors, orUnknown(s.Distributor))
}

func matchOrEmpty(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func orUnknown(v string) string {
	if v == "" {
		return domain.UnknownValue
	}
	return v
}

func firstKnown(values ...string) string {
	for _, v := range values {
		if v != "" && v != domain.UnknownValue {
			return v
		}
	}
	return ""
}
