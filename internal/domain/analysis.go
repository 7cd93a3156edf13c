package domain

// RunRateRow is the per-(distributor, model) analysis output. WOS and the
// order suggestion are only computed after the caller decides the final
// aggregation level, so this row carries the raw components.
type RunRateRow struct {
	Distributor  string  `json:"distributor"`
	ModelName    string  `json:"modelName"`
	Chipset      string  `json:"chipset"`
	Product      string  `json:"product"`
	CategoryType string  `json:"categoryType"`
	DealerName   string  `json:"dealerName"`
	RunRate      float64 `json:"runRate"`
	WindowSales  float64 `json:"windowSales"`
	Stock        float64 `json:"stock"`
	PO           float64 `json:"po"`
	OTW          float64 `json:"otw"`
}

// ModelRunRateRow is the model-level re-aggregation with coverage metrics
// recomputed from the summed totals.
type ModelRunRateRow struct {
	ModelName      string  `json:"modelName"`
	Chipset        string  `json:"chipset"`
	Product        string  `json:"product"`
	RunRate        float64 `json:"runRate"`
	Stock          float64 `json:"stock"`
	PO             float64 `json:"po"`
	OTW            float64 `json:"otw"`
	WeeksOfSupply  float64 `json:"weeksOfSupply"`
	SuggestedOrder float64 `json:"suggestedOrder"`
}

// RunRateAnalysis bundles one analysis pass over the merged record set.
type RunRateAnalysis struct {
	Rows          []RunRateRow `json:"rows"`
	ReferenceWeek string       `json:"referenceWeek"` // e.g. "2024년 4주차"
	WindowStart   string       `json:"windowStart"`   // YYYY-MM-DD
	WindowEnd     string       `json:"windowEnd"`     // YYYY-MM-DD
	WindowWeeks   int          `json:"windowWeeks"`
}

// AnalysisView is the run-rate analysis as served to clients: the raw
// per-distributor rows plus the model-level aggregation, under one window.
type AnalysisView struct {
	ReferenceWeek string            `json:"referenceWeek"`
	WindowStart   string            `json:"windowStart"`
	WindowEnd     string            `json:"windowEnd"`
	WindowWeeks   int               `json:"windowWeeks"`
	TargetWeeks   int               `json:"targetWeeks"`
	Rows          []RunRateRow      `json:"rows"`
	Models        []ModelRunRateRow `json:"models"`
}

// TrendPoint is one time bucket of the sales trend chart.
type TrendPoint struct {
	TimeKey    string  `json:"timeKey"` // "YY.MM" or "YY.Www"
	Primary    float64 `json:"primary"`
	Comparison float64 `json:"comparison"`
	Total      float64 `json:"total"`
}

// GroupTotal is one row of the grouped sales table.
type GroupTotal struct {
	Key     string  `json:"key"`
	Chipset string  `json:"chipset,omitempty"`
	Sales   float64 `json:"sales"`
}

// FilterOptions lists the distinct dimension values present in the data,
// for populating UI filter dropdowns.
type FilterOptions struct {
	Distributors  []string `json:"distributors"`
	Models        []string `json:"models"`
	Chipsets      []string `json:"chipsets"`
	CategoryTypes []string `json:"categoryTypes"`
	Dealers       []string `json:"dealers"`
	Products      []string `json:"products"`
}

// LatestPrice is the most recent known price for one (brand, model).
type LatestPrice struct {
	MarketItem
	Date string `json:"date"`
}

// PriceMove is one day-over-day price change.
type PriceMove struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	OldPrice float64 `json:"oldPrice"`
	NewPrice float64 `json:"newPrice"`
	Diff     float64 `json:"diff"`
	Pct      float64 `json:"pct"`
}

// PriceMovers holds the top day-over-day gainers and losers.
type PriceMovers struct {
	Gainers []PriceMove `json:"gainers"`
	Losers  []PriceMove `json:"losers"`
}

// BrandAverage is the mean price of a brand's items on the latest date.
type BrandAverage struct {
	Brand    string  `json:"brand"`
	AvgPrice float64 `json:"avgPrice"`
	Count    int     `json:"count"`
}

// BrandTrendPoint carries per-brand average prices for one date.
type BrandTrendPoint struct {
	Date     string             `json:"date"`
	Averages map[string]float64 `json:"averages"`
}
