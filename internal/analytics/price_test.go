package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/channelpulse/backend-go/internal/domain"
)

func marketItem(brand, model string, price float64) domain.MarketItem {
	return domain.MarketItem{Brand: brand, Model: model, Price: price, Category: "VGA"}
}

func twoDayHistory() []domain.MarketHistory {
	return []domain.MarketHistory{
		{Date: "2024-05-01", Items: []domain.MarketItem{
			marketItem("MSI", "4070 Ventus", 1000),
			marketItem("ASUS", "4070 TUF", 1200),
			marketItem("GIGA", "4060 Eagle", 500), // stale: absent on 05-08
			marketItem("ZOTAC", "4070 Twin", 900),
		}},
		{Date: "2024-05-08", Items: []domain.MarketItem{
			marketItem("MSI", "4070 Ventus", 1100),
			marketItem("ASUS", "4070 TUF", 1080),
			marketItem("ZOTAC", "4070 Twin", 900), // unchanged
			marketItem("PALIT", "4070 Dual", 950), // new: no previous price
		}},
	}
}

func TestLatestPrices(t *testing.T) {
	prices := LatestPrices(twoDayHistory(), domain.MarketFilter{})
	require.Len(t, prices, 5)

	// Latest date first; GIGA's last sighting is the older date.
	assert.Equal(t, "2024-05-08", prices[0].Date)
	byModel := map[string]domain.LatestPrice{}
	for _, p := range prices {
		byModel[p.Model] = p
	}
	assert.Equal(t, 1100.0, byModel["4070 Ventus"].Price)
	assert.Equal(t, "2024-05-01", byModel["4060 Eagle"].Date)
}

func TestPriceMovers(t *testing.T) {
	movers := PriceMovers(twoDayHistory(), domain.MarketFilter{})

	require.Len(t, movers.Gainers, 1)
	assert.Equal(t, "4070 Ventus", movers.Gainers[0].Model)
	assert.Equal(t, 100.0, movers.Gainers[0].Diff)
	assert.InDelta(t, 10.0, movers.Gainers[0].Pct, 0.001)

	require.Len(t, movers.Losers, 1)
	assert.Equal(t, "4070 TUF", movers.Losers[0].Model)
	assert.InDelta(t, -10.0, movers.Losers[0].Pct, 0.001)
}

func TestPriceMoversExcludesStaleAndNew(t *testing.T) {
	movers := PriceMovers(twoDayHistory(), domain.MarketFilter{})
	for _, side := range [][]domain.PriceMove{movers.Gainers, movers.Losers} {
		for _, m := range side {
			assert.NotEqual(t, "4060 Eagle", m.Model, "stale product must be excluded")
			assert.NotEqual(t, "4070 Dual", m.Model, "first-seen product has no baseline")
			assert.NotEqual(t, "4070 Twin", m.Model, "unchanged price must be excluded")
		}
	}
}

func TestPriceMoversSingleDate(t *testing.T) {
	history := twoDayHistory()[:1]
	movers := PriceMovers(history, domain.MarketFilter{})
	assert.Empty(t, movers.Gainers)
	assert.Empty(t, movers.Losers)
}

func TestPriceMoversSkipsGapDates(t *testing.T) {
	// A product quoted on day 1 and day 3 but not day 2 still compares
	// its own two observations.
	history := []domain.MarketHistory{
		{Date: "2024-05-01", Items: []domain.MarketItem{marketItem("MSI", "4070", 1000)}},
		{Date: "2024-05-04", Items: []domain.MarketItem{marketItem("ASUS", "4080", 2000)}},
		{Date: "2024-05-08", Items: []domain.MarketItem{marketItem("MSI", "4070", 1200)}},
	}
	movers := PriceMovers(history, domain.MarketFilter{})
	require.Len(t, movers.Gainers, 1)
	assert.Equal(t, 1000.0, movers.Gainers[0].OldPrice)
	assert.InDelta(t, 20.0, movers.Gainers[0].Pct, 0.001)
}

func TestBrandAverages(t *testing.T) {
	averages := BrandAverages(twoDayHistory(), domain.MarketFilter{})
	require.Len(t, averages, 4)

	assert.Equal(t, "MSI", averages[0].Brand)
	assert.Equal(t, 1100.0, averages[0].AvgPrice)
	assert.Equal(t, 1, averages[0].Count)
}

func TestBrandTrend(t *testing.T) {
	trend := BrandTrend(twoDayHistory(), domain.MarketFilter{})
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-05-01", trend[0].Date)
	assert.Equal(t, 1000.0, trend[0].Averages["MSI"])
	assert.Equal(t, 1100.0, trend[1].Averages["MSI"])
}

func TestPriceFunctionsApplyFilter(t *testing.T) {
	filter := domain.MarketFilter{Brands: []string{"MSI"}}

	prices := LatestPrices(twoDayHistory(), filter)
	require.Len(t, prices, 1)
	assert.Equal(t, "MSI", prices[0].Brand)

	averages := BrandAverages(twoDayHistory(), filter)
	require.Len(t, averages, 1)
	assert.Equal(t, "MSI", averages[0].Brand)
}
