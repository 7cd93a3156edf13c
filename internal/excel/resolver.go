// Package excel turns loosely structured spreadsheet exports into canonical
// domain records. Header names in the source files are bilingual
// (Korean/English), whitespace-variant and inconsistently cased, so every
// semantic field is located through one fuzzy resolver driven by declarative
// candidate-keyword tables instead of ad hoc matching at each call site.
package excel

import "strings"

// normalizeHeader upper-cases a header and strips all whitespace so that
// "변환 Model Name", "변환Model name" and "변환 MODEL NAME" compare equal.
func normalizeHeader(h string) string {
	return strings.ToUpper(strings.Join(strings.Fields(h), ""))
}

// ResolveColumn returns the first header whose normalized form contains any
// of the candidate keywords as a substring. Candidate order does not matter
// within one call; precedence between keyword sets is expressed by calling
// ResolveColumns with ordered groups.
func ResolveColumn(headers []string, candidates []string) (string, bool) {
	norm := make([]string, len(candidates))
	for i, c := range candidates {
		norm[i] = normalizeHeader(c)
	}
	for _, h := range headers {
		nh := normalizeHeader(h)
		if nh == "" {
			continue
		}
		for _, c := range norm {
			if c != "" && strings.Contains(nh, c) {
				return h, true
			}
		}
	}
	return "", false
}

// ResolveColumns tries candidate groups in priority order and returns the
// first hit. First successful group wins; there is no scoring.
func ResolveColumns(headers []string, groups ...[]string) (string, bool) {
	for _, g := range groups {
		if h, ok := ResolveColumn(headers, g); ok {
			return h, true
		}
	}
	return "", false
}

// Candidate keyword tables for the weekly (sales/inventory) sheets. The
// "변환" (converted) columns are normalized model/dealer names produced
// upstream and take precedence over the raw ones.
var (
	candInvoiceDate = []string{"INVOICE DATE", "INVOICEDATE"}
	candModelPrim   = []string{"변환 MODEL", "변환MODEL"}
	candModelFall   = []string{"모델명", "ITEM", "MODEL"}
	candQty         = []string{"QTY", "수량", "QUANTITY", "SALES"}
	candDistributor = []string{"업체명", "DISTISUBNAME", "총판", "PARTNER"}
	candChipset     = []string{"칩셋", "CHIPSET"}
	candChipsetFall = []string{"ITEM GROUP", "ITEMGROUP"}
	candType        = []string{"구분", "TYPE", "타입"}
	candDealer      = []string{"변환 DEALER", "변환DEALER"}
	candDealerFall  = []string{"판매처", "DEALER"}
	candProduct     = []string{"제품", "품목", "PRODUCT"}
	candYear        = []string{"YEAR", "연도"}
	candWeek        = []string{"주차", "WEEK"}
)

// Candidate tables for backlog sheets.
var (
	candBacklogStatus = []string{"상태", "STATUS"}
	candBacklogModel  = []string{"MODEL NAME", "모델명", "MODEL"}
)

// Candidate tables for market price lists. For the spec column, chipset
// headers outrank the generic spec header; WATT/VERSION are the PSU and
// OS fallbacks.
var (
	candBrand      = []string{"BRAND", "제조사"}
	candMarketName = []string{"MODEL", "제품명"}
	candPrice      = []string{"PRICE", "가격", "최저가"}
	candSpecChip   = []string{"CHIPSET", "칩셋"}
	candSpecPlain  = []string{"SPEC", "규격"}
	candSpecWatt   = []string{"WATT"}
	candSpecVer    = []string{"VERSION"}
	candURL        = []string{"URL", "LINK", "링크"}
)
