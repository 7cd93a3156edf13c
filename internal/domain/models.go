package domain

// Record types for weekly channel data.
const (
	RecordTypeSales     = "sales"
	RecordTypeInventory = "inventory"
)

// Sentinels used across parsing and analytics.
const (
	UnknownValue        = "Unknown"
	MissingDateSentinel = "MISSING_DATE"

	// WOSInfinite marks "supply with no consumption": stock exists but the
	// trailing run-rate is zero. Kept finite so rows stay sortable.
	WOSInfinite = 999.0
)

// StatusValid is the diagnostic status of a cleanly parsed row. Rows that
// fail a check keep a reason string instead; they are never dropped.
const StatusValid = "정상 (Valid)"

// WeeklyRecord is one sales or inventory-flow observation from an upload.
// Records are immutable once built; a later upload supersedes a record by
// writing a new one with the same ID.
type WeeklyRecord struct {
	ID           string  `json:"id,omitempty"`
	Distributor  string  `json:"distributor"`
	ModelName    string  `json:"modelName"`
	Chipset      string  `json:"chipset"`
	Qty          float64 `json:"qty"`
	Year         int     `json:"year"`
	Month        int     `json:"month,omitempty"`
	Week         int     `json:"week"`
	Type         string  `json:"type"`
	DealerName   string  `json:"dealerName,omitempty"`
	CategoryType string  `json:"categoryType,omitempty"`
	Product      string  `json:"product,omitempty"`
	Date         string  `json:"date,omitempty"`
	Status       string  `json:"status,omitempty"`
	RowIndex     int     `json:"rowIndex,omitempty"`
	RawDate      string  `json:"rawDate,omitempty"`
}

// SnapshotEntry is the point-in-time stock/backlog state for one model,
// optionally per distributor. A new upload replaces the whole snapshot.
type SnapshotEntry struct {
	ModelName      string  `json:"modelName"`
	Chipset        string  `json:"chipset"`
	Product        string  `json:"product,omitempty"`
	Distributor    string  `json:"distributor,omitempty"`
	AvailableStock float64 `json:"availableStock"`
	TotalStock     float64 `json:"totalStock"`
	IncomingQty    float64 `json:"incomingQty"`
	IncomingAmount float64 `json:"incomingAmount"`
	POQty          float64 `json:"poQty"`
	OTWQty         float64 `json:"otwQty"`
}

// DashboardDocument is the whole persisted sales/inventory document. It is
// always read and written as a single JSON blob (last writer wins).
type DashboardDocument struct {
	WeeklyData      []WeeklyRecord  `json:"weeklyData"`
	CurrentSnapshot []SnapshotEntry `json:"currentSnapshot"`
	// AnalysisResult is reserved for compatibility with documents written
	// by earlier versions; it is persisted but never populated here.
	AnalysisResult []any  `json:"analysisResult"`
	ReferenceWeek  string `json:"referenceWeek"`
	UpdatedAt      string `json:"updatedAt"`
}

func EmptyDashboardDocument() *DashboardDocument {
	return &DashboardDocument{
		WeeklyData:      []WeeklyRecord{},
		CurrentSnapshot: []SnapshotEntry{},
		AnalysisResult:  []any{},
		ReferenceWeek:   "N/A",
	}
}

// MarketItem is one market price observation for a product.
type MarketItem struct {
	Category   string  `json:"category"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	Spec       string  `json:"spec"`
	Price      float64 `json:"price"`
	ProductURL string  `json:"productUrl,omitempty"`
}

// MarketHistory groups one calendar date's price list. History is keyed
// uniquely by Date; re-uploading a date replaces that entry only.
type MarketHistory struct {
	Date  string       `json:"date"`
	Items []MarketItem `json:"items"`
}

// UploadResult reports the outcome of one uploaded file.
type UploadResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "success" | "error"
	Msg    string `json:"msg"`
}

// IngestSummary describes a completed dashboard workbook ingest.
type IngestSummary struct {
	SalesRows     int    `json:"sales_rows"`
	SnapshotRows  int    `json:"snapshot_rows"`
	MergedRows    int    `json:"merged_rows"`
	ReferenceWeek string `json:"reference_week"`
}
