package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelpulse/backend-go/internal/domain"
)

func TestRecordKey(t *testing.T) {
	withID := domain.WeeklyRecord{ID: "ROW_3_2024-01-05_RTX4070"}
	assert.Equal(t, "ROW_3_2024-01-05_RTX4070", RecordKey(withID))

	noID := domain.WeeklyRecord{
		Year: 2024, Week: 5, Distributor: "A", ModelName: "RTX4070",
		Type: domain.RecordTypeSales, RowIndex: 7,
	}
	key := RecordKey(noID)
	assert.Contains(t, key, "2024_5_A_RTX4070")

	other := noID
	other.RowIndex = 8
	assert.NotEqual(t, key, RecordKey(other))
}

func TestMergeWeeklyUpsert(t *testing.T) {
	existing := []domain.WeeklyRecord{
		{ID: "a", Qty: 1},
		{ID: "b", Qty: 2},
	}
	incoming := []domain.WeeklyRecord{
		{ID: "b", Qty: 20}, // collides: incoming wins
		{ID: "c", Qty: 3},
	}

	merged := MergeWeekly(existing, incoming)
	require.Len(t, merged, 3)

	byID := map[string]float64{}
	for _, r := range merged {
		byID[r.ID] = r.Qty
	}
	assert.Equal(t, 1.0, byID["a"])
	assert.Equal(t, 20.0, byID["b"])
	assert.Equal(t, 3.0, byID["c"])
}

func TestMergeWeeklyDeterministicOrder(t *testing.T) {
	a := []domain.WeeklyRecord{{ID: "x"}, {ID: "m"}}
	b := []domain.WeeklyRecord{{ID: "a"}}

	first := MergeWeekly(a, b)
	second := MergeWeekly(b, a)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, "a", first[0].ID)
}

func TestMergeMarketReplacesDate(t *testing.T) {
	history := []domain.MarketHistory{
		{Date: "2024-05-01", Items: []domain.MarketItem{{Model: "old"}}},
		{Date: "2024-05-08", Items: []domain.MarketItem{{Model: "keep"}}},
	}

	merged := MergeMarket(history, "2024-05-01", []domain.MarketItem{{Model: "new"}})
	require.Len(t, merged, 2)
	assert.Equal(t, "2024-05-01", merged[0].Date)
	assert.Equal(t, "new", merged[0].Items[0].Model)
	assert.Equal(t, "keep", merged[1].Items[0].Model)
}

func TestMergeMarketInsertsSorted(t *testing.T) {
	history := []domain.MarketHistory{
		{Date: "2024-05-01"},
		{Date: "2024-05-15"},
	}
	merged := MergeMarket(history, "2024-05-08", []domain.MarketItem{{Model: "m"}})
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"2024-05-01", "2024-05-08", "2024-05-15"},
		[]string{merged[0].Date, merged[1].Date, merged[2].Date})
}

func TestMergeMarketEmptyHistory(t *testing.T) {
	merged := MergeMarket(nil, "2024-05-01", nil)
	require.Len(t, merged, 1)
	assert.Equal(t, "2024-05-01", merged[0].Date)
}
