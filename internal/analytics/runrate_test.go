package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelpulse/backend-go/internal/domain"
)

func salesRecord(date, dist, model string, qty float64) domain.WeeklyRecord {
	return domain.WeeklyRecord{
		Type:        domain.RecordTypeSales,
		Date:        date,
		Distributor: dist,
		ModelName:   model,
		Chipset:     domain.UnknownValue,
		Qty:         qty,
	}
}

func TestRunRateTrailingWindow(t *testing.T) {
	records := []domain.WeeklyRecord{
		salesRecord("2024-01-01", "A", "RTX4070", 100),
		salesRecord("2024-01-08", "A", "RTX4070", 100),
		salesRecord("2024-01-15", "A", "RTX4070", 100),
		salesRecord("2024-01-28", "A", "RTX4070", 100),
	}

	result := RunRate(records, nil, domain.RecordFilter{WindowWeeks: 4})
	require.Len(t, result.Rows, 1)

	assert.Equal(t, 100.0, result.Rows[0].RunRate)
	assert.Equal(t, 400.0, result.Rows[0].WindowSales)
	assert.Equal(t, "2024-01-01", result.WindowStart)
	assert.Equal(t, "2024-01-28", result.WindowEnd)
	assert.Equal(t, "2024년 4주차", result.ReferenceWeek)
}

func TestRunRateWindowExcludesOlderSales(t *testing.T) {
	records := []domain.WeeklyRecord{
		salesRecord("2023-12-01", "A", "RTX4070", 500), // outside the window
		salesRecord("2024-01-22", "A", "RTX4070", 40),
		salesRecord("2024-01-28", "A", "RTX4070", 40),
	}

	result := RunRate(records, nil, domain.RecordFilter{WindowWeeks: 4})
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 80.0, result.Rows[0].WindowSales)
	assert.Equal(t, 20.0, result.Rows[0].RunRate)
}

func TestRunRateWindowCrossesYearBoundary(t *testing.T) {
	// Latest sale in 2024-W01; a 4-week window must reach back into
	// 2023-W50 rather than going to a negative week number.
	records := []domain.WeeklyRecord{
		salesRecord("2023-12-15", "A", "RTX4070", 30), // 2023-W50
		salesRecord("2024-01-03", "A", "RTX4070", 10), // 2024-W01
	}

	result := RunRate(records, nil, domain.RecordFilter{WindowWeeks: 4})
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 40.0, result.Rows[0].WindowSales)
	assert.Equal(t, "2023-12-11", result.WindowStart)
}

func TestRunRateEmptyWhenNoDatedSales(t *testing.T) {
	records := []domain.WeeklyRecord{
		salesRecord(domain.MissingDateSentinel, "A", "RTX4070", 10),
	}
	result := RunRate(records, nil, domain.RecordFilter{})
	assert.Empty(t, result.Rows)
	assert.Equal(t, "N/A", result.ReferenceWeek)
}

func TestRunRateIncludesSnapshotOnlyModels(t *testing.T) {
	records := []domain.WeeklyRecord{
		salesRecord("2024-01-28", "A", "RTX4070", 10),
	}
	snapshot := []domain.SnapshotEntry{
		{ModelName: "DEADSTOCK", Distributor: "A", AvailableStock: 50},
		{ModelName: "NOTHING", Distributor: "A"}, // all zero: dropped
	}

	result := RunRate(records, snapshot, domain.RecordFilter{})
	require.Len(t, result.Rows, 2)

	var dead *domain.RunRateRow
	for i := range result.Rows {
		if result.Rows[i].ModelName == "DEADSTOCK" {
			dead = &result.Rows[i]
		}
	}
	require.NotNil(t, dead)
	assert.Equal(t, 0.0, dead.RunRate)
	assert.Equal(t, 50.0, dead.Stock)
}

func TestRunRateDimensionFilter(t *testing.T) {
	records := []domain.WeeklyRecord{
		salesRecord("2024-01-28", "A", "RTX4070", 10),
		salesRecord("2024-01-28", "B", "RTX4070", 20),
	}

	result := RunRate(records, nil, domain.RecordFilter{Distributors: []string{"B"}})
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "B", result.Rows[0].Distributor)
	assert.Equal(t, 20.0, result.Rows[0].WindowSales)
}

func TestRunRateEnrichesFromHistory(t *testing.T) {
	rich := salesRecord("2023-11-01", "A", "RTX4070", 5)
	rich.Chipset = "RTX 4070"
	rich.Product = "VGA"
	records := []domain.WeeklyRecord{
		rich,
		salesRecord("2024-01-28", "A", "RTX4070", 10),
	}

	result := RunRate(records, nil, domain.RecordFilter{})
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "RTX 4070", result.Rows[0].Chipset)
	assert.Equal(t, "VGA", result.Rows[0].Product)
}

func TestCoverageSentinels(t *testing.T) {
	wos, _ := Coverage(0, 50, 8)
	assert.Equal(t, domain.WOSInfinite, wos)

	wos, suggested := Coverage(0, 0, 8)
	assert.Equal(t, 0.0, wos)
	assert.Equal(t, 0.0, suggested)

	wos, _ = Coverage(10, 40, 8)
	assert.Equal(t, 4.0, wos)
}

func TestCoverageSuggestionFloorsAtZero(t *testing.T) {
	_, suggested := Coverage(10, 200, 8)
	assert.Equal(t, 0.0, suggested)

	_, suggested = Coverage(10, 75, 8)
	assert.Equal(t, 5.0, suggested) // ceil(80 - 75)

	_, suggested = Coverage(10.5, 0, 8)
	assert.Equal(t, 84.0, suggested)
}

func TestAggregateByModel(t *testing.T) {
	rows := []domain.RunRateRow{
		{Distributor: "A", ModelName: "RTX4070", RunRate: 10, Stock: 30, PO: 5},
		{Distributor: "B", ModelName: "RTX4070", RunRate: 10, Stock: 10, OTW: 5},
		{Distributor: "A", ModelName: "GTX1650", RunRate: 2, Stock: 100},
	}

	models := AggregateByModel(rows, 8)
	require.Len(t, models, 2)

	top := models[0]
	assert.Equal(t, "RTX4070", top.ModelName)
	assert.Equal(t, 20.0, top.RunRate)
	assert.Equal(t, 40.0, top.Stock)
	assert.Equal(t, 5.0, top.PO)
	assert.Equal(t, 5.0, top.OTW)
	// Recomputed from totals: 50 available / 20 per week.
	assert.Equal(t, 2.5, top.WeeksOfSupply)
	assert.Equal(t, 110.0, top.SuggestedOrder) // ceil(20*8 - 50)

	assert.Equal(t, "GTX1650", models[1].ModelName)
	assert.Equal(t, 50.0, models[1].WeeksOfSupply)
}
