package domain

// RecordFilter narrows weekly records for analytics queries. Empty slices
// and empty strings match everything.
type RecordFilter struct {
	DateFrom      string   `json:"date_from,omitempty"` // YYYY-MM-DD inclusive
	DateTo        string   `json:"date_to,omitempty"`   // YYYY-MM-DD inclusive
	Distributors  []string `json:"distributors,omitempty"`
	Models        []string `json:"models,omitempty"`
	Chipsets      []string `json:"chipsets,omitempty"`
	CategoryTypes []string `json:"category_types,omitempty"`
	Dealers       []string `json:"dealers,omitempty"`
	Products      []string `json:"products,omitempty"`

	// WindowWeeks is the trailing run-rate window W; TargetWeeks is the
	// coverage target T for order suggestions. Zero means "use default".
	WindowWeeks int `json:"window_weeks,omitempty"`
	TargetWeeks int `json:"target_weeks,omitempty"`
}

func matchSet(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownValue
	}
	return v
}

// MatchDimensions reports whether a record passes every set-membership
// filter. The date range is checked separately because run-rate windows
// override it.
func (f RecordFilter) MatchDimensions(r WeeklyRecord) bool {
	return matchSet(f.Distributors, r.Distributor) &&
		matchSet(f.Models, r.ModelName) &&
		matchSet(f.Chipsets, r.Chipset) &&
		matchSet(f.CategoryTypes, orUnknown(r.CategoryType)) &&
		matchSet(f.Dealers, orUnknown(r.DealerName)) &&
		matchSet(f.Products, orUnknown(r.Product))
}

// MatchDate reports whether the record's date falls inside the filter's
// range. Records carrying the missing-date sentinel never match a bounded
// range; an unbounded filter matches everything.
func (f RecordFilter) MatchDate(r WeeklyRecord) bool {
	if f.DateFrom == "" && f.DateTo == "" {
		return true
	}
	if r.Date == "" || r.Date == MissingDateSentinel {
		return false
	}
	if f.DateFrom != "" && r.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && r.Date > f.DateTo {
		return false
	}
	return true
}

// MarketFilter narrows market price history queries.
type MarketFilter struct {
	Category string   `json:"category,omitempty"`
	Brands   []string `json:"brands,omitempty"`
	Chipsets []string `json:"chipsets,omitempty"`
	Models   []string `json:"models,omitempty"`
}

// Match reports whether a market item passes the filter.
func (f MarketFilter) Match(i MarketItem) bool {
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	if !matchSet(f.Brands, i.Brand) {
		return false
	}
	if len(f.Chipsets) > 0 && (i.Spec == "" || !matchSet(f.Chipsets, i.Spec)) {
		return false
	}
	return matchSet(f.Models, i.Model)
}
