package excel

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/channelpulse/backend-go/internal/calendar"
	"github.com/channelpulse/backend-go/internal/domain"
)

// ParsedWorkbook is the structured result of one dashboard workbook upload.
type ParsedWorkbook struct {
	Weekly        []domain.WeeklyRecord
	Snapshot      []domain.SnapshotEntry
	ReferenceWeek string
	// Warnings lists sheets that were recognized but could not be parsed
	// (missing required columns). They never abort the upload.
	Warnings []string
}

func isSalesSheet(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "sell") || strings.Contains(n, "sales")
}

func isInventoryRawSheet(name string) bool {
	return strings.Contains(strings.ToLower(name), "inventory raw")
}

func isInventorySnapshotSheet(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "inventory") && !strings.Contains(n, "sell") && !strings.Contains(n, "raw")
}

func isBacklogSheet(name string) bool {
	return strings.Contains(strings.ToLower(name), "backlog")
}

// ParseWorkbook classifies every sheet of an uploaded workbook and builds
// canonical records. All matching sales sheets are parsed and concatenated;
// the inventory snapshot comes from the first snapshot sheet; backlog
// quantities are folded into the snapshot by normalized model name.
func ParseWorkbook(data []byte) (*ParsedWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	result := &ParsedWorkbook{ReferenceWeek: domain.UnknownValue}
	rowSeq := 0

	for _, sheet := range f.GetSheetList() {
		switch {
		case isSalesSheet(sheet):
			rows, err := f.GetRows(sheet)
			if err != nil || len(rows) < 2 {
				continue
			}
			records, n, warn := buildSalesRecords(sheet, rows, rowSeq)
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
				continue
			}
			result.Weekly = append(result.Weekly, records...)
			rowSeq = n
		case isInventoryRawSheet(sheet):
			rows, err := f.GetRows(sheet)
			if err != nil || len(rows) < 2 {
				continue
			}
			result.Weekly = append(result.Weekly, buildWeeklyFlowRecords(rows, domain.RecordTypeInventory)...)
		}
	}

	for _, sheet := range f.GetSheetList() {
		if !isInventorySnapshotSheet(sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		snapshot, refWeek, warn := buildSnapshot(sheet, rows)
		if warn != "" {
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		result.Snapshot = snapshot
		result.ReferenceWeek = refWeek
		break
	}

	for _, sheet := range f.GetSheetList() {
		if !isBacklogSheet(sheet) {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		result.Snapshot = mergeBacklog(result.Snapshot, buildBacklog(rows))
		break
	}

	return result, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// columnIndex resolves a semantic field against the header row and returns
// its position, or -1 when no candidate group matches.
func columnIndex(headers []string, groups ...[]string) int {
	name, ok := ResolveColumns(headers, groups...)
	if !ok {
		return -1
	}
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// buildSalesRecords converts one sales sheet into weekly records. Columns
// are resolved once per sheet, not per row. Rows with problems are kept
// with a diagnostic status so discrepancies stay visible downstream.
func buildSalesRecords(sheet string, rows [][]string, rowSeq int) ([]domain.WeeklyRecord, int, string) {
	headers := rows[0]

	dateIdx := columnIndex(headers, candInvoiceDate)
	modelIdx := columnIndex(headers, candModelPrim, candModelFall)
	qtyIdx := columnIndex(headers, candQty)
	if dateIdx < 0 || modelIdx < 0 || qtyIdx < 0 {
		if modelIdx >= 0 && qtyIdx >= 0 && columnIndex(headers, candWeek) >= 0 {
			// Date-less export with year/week columns instead.
			return buildWeeklyFlowRecords(rows, domain.RecordTypeSales), rowSeq, ""
		}
		return nil, rowSeq, fmt.Sprintf("%s: missing required columns (Invoice Date / Model / QTY)", sheet)
	}

	distIdx := columnIndex(headers, candDistributor)
	chipsetIdx := columnIndex(headers, candChipset, candChipsetFall)
	typeIdx := columnIndex(headers, candType)
	dealerIdx := columnIndex(headers, candDealer, candDealerFall)
	productIdx := columnIndex(headers, candProduct)

	records := make([]domain.WeeklyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rawDate := cell(row, dateIdx)
		dateVal, dateOK := ParseCellDate(rawDate)
		qty := ParseNumber(cell(row, qtyIdx))
		model := strings.TrimSpace(cell(row, modelIdx))

		status := domain.StatusValid
		switch {
		case !dateOK:
			status = fmt.Sprintf("날짜 변환 실패 (Raw: %s)", rawDate)
		case qty == 0:
			status = "수량 0 (Zero Qty)"
		case model == "":
			status = "모델명 없음"
		}

		dateStr := domain.MissingDateSentinel
		var year, week, month int
		if dateOK {
			dateStr = calendar.DateKey(dateVal)
			yw := calendar.ISOWeek(dateVal)
			year, week = yw.Year, yw.Week
			month = int(dateVal.Month())
		}

		records = append(records, domain.WeeklyRecord{
			ID:           fmt.Sprintf("ROW_%d_%s_%s", rowSeq, dateStr, NormalizeModelKey(model)),
			RowIndex:     i + 2, // spreadsheet row number, header excluded
			Date:         dateStr,
			Year:         year,
			Month:        month,
			Week:         week,
			Distributor:  fieldOrUnknown(row, distIdx),
			ModelName:    model,
			Chipset:      fieldOrUnknown(row, chipsetIdx),
			Qty:          qty,
			CategoryType: fieldOrUnknown(row, typeIdx),
			DealerName:   fieldOrUnknown(row, dealerIdx),
			Product:      fieldOrUnknown(row, productIdx),
			Type:         domain.RecordTypeSales,
			Status:       status,
			RawDate:      rawDate,
		})
		rowSeq++
	}
	return records, rowSeq, ""
}

// buildWeeklyFlowRecords handles the year/week-column layout used by
// "raw" flow sheets that carry no invoice dates. These records have no ID;
// the merge engine falls back to the composite key for them.
func buildWeeklyFlowRecords(rows [][]string, recordType string) []domain.WeeklyRecord {
	headers := rows[0]

	modelIdx := columnIndex(headers, candModelPrim, candModelFall)
	qtyIdx := columnIndex(headers, candQty)
	if modelIdx < 0 || qtyIdx < 0 {
		return nil
	}
	yearIdx := columnIndex(headers, candYear)
	weekIdx := columnIndex(headers, candWeek)
	distIdx := columnIndex(headers, candDistributor)
	chipsetIdx := columnIndex(headers, candChipset, candChipsetFall)
	typeIdx := columnIndex(headers, candType)
	dealerIdx := columnIndex(headers, candDealer, candDealerFall)
	productIdx := columnIndex(headers, candProduct)

	records := make([]domain.WeeklyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		model := strings.TrimSpace(cell(row, modelIdx))
		if model == "" {
			continue
		}
		year := int(ParseNumber(cell(row, yearIdx)))
		if year == 0 {
			year = time.Now().Year()
		}
		week := ParseWeekNumber(cell(row, weekIdx))
		month := 0
		if week > 0 {
			month = calendar.MonthFromWeek(week)
		}
		records = append(records, domain.WeeklyRecord{
			RowIndex:     i + 2,
			Year:         year,
			Month:        month,
			Week:         week,
			Distributor:  fieldOrUnknown(row, distIdx),
			ModelName:    model,
			Chipset:      fieldOrUnknown(row, chipsetIdx),
			Qty:          ParseNumber(cell(row, qtyIdx)),
			CategoryType: fieldOrUnknown(row, typeIdx),
			DealerName:   fieldOrUnknown(row, dealerIdx),
			Product:      fieldOrUnknown(row, productIdx),
			Type:         recordType,
			Status:       domain.StatusValid,
		})
	}
	return records
}

// buildSnapshot reduces an inventory sheet to its latest (year, week) rows.
// Pass one finds the newest week; pass two keeps only its rows, one entry
// per source row so per-distributor granularity survives.
func buildSnapshot(sheet string, rows [][]string) ([]domain.SnapshotEntry, string, string) {
	headers := rows[0]

	yearIdx := columnIndex(headers, candYear)
	weekIdx := columnIndex(headers, candWeek)
	modelIdx := columnIndex(headers, candModelPrim, candModelFall)
	qtyIdx := columnIndex(headers, candQty)
	if yearIdx < 0 || weekIdx < 0 || modelIdx < 0 || qtyIdx < 0 {
		return nil, "", fmt.Sprintf("%s: missing required columns (YEAR / WEEK / Model / QTY)", sheet)
	}
	distIdx := columnIndex(headers, candDistributor)
	chipsetIdx := columnIndex(headers, candChipset, candChipsetFall)

	maxYear, maxWeek := 0, 0
	for _, row := range rows[1:] {
		y := ParseWeekNumber(cell(row, yearIdx))
		w := ParseWeekNumber(cell(row, weekIdx))
		if y > maxYear || (y == maxYear && w > maxWeek) {
			maxYear, maxWeek = y, w
		}
	}
	if maxYear == 0 {
		return nil, "", fmt.Sprintf("%s: no usable year/week values", sheet)
	}
	refWeek := fmt.Sprintf("%d-W%02d", maxYear, maxWeek)

	var snapshot []domain.SnapshotEntry
	for _, row := range rows[1:] {
		if ParseWeekNumber(cell(row, yearIdx)) != maxYear || ParseWeekNumber(cell(row, weekIdx)) != maxWeek {
			continue
		}
		model := strings.TrimSpace(cell(row, modelIdx))
		if model == "" {
			continue
		}
		qty := ParseNumber(cell(row, qtyIdx))
		snapshot = append(snapshot, domain.SnapshotEntry{
			ModelName:      model,
			Distributor:    fieldOrUnknown(row, distIdx),
			Chipset:        fieldOrUnknown(row, chipsetIdx),
			AvailableStock: qty,
			TotalStock:     qty,
		})
	}
	return snapshot, refWeek, ""
}

// backlogTotals accumulates PO and on-the-water units per normalized model.
type backlogTotals struct {
	modelName string // first non-empty display name seen for the key
	po        float64
	otw       float64
}

// otwStatuses are the backlog states counted as in transit: shipped,
// customs-cleared, import-declared.
var otwStatuses = map[string]bool{
	"선적":   true,
	"통관":   true,
	"수입신고": true,
}

// buildBacklog folds a backlog sheet into per-model PO/OTW totals. The
// model-name column uses merged cells, so blanks inherit the value above
// them. Statuses outside the two buckets are ignored.
func buildBacklog(rows [][]string) map[string]*backlogTotals {
	headers := rows[0]

	statusIdx := columnIndex(headers, candBacklogStatus)
	modelIdx := columnIndex(headers, candBacklogModel)
	qtyIdx := columnIndex(headers, candQty)
	if statusIdx < 0 || modelIdx < 0 || qtyIdx < 0 {
		return nil
	}

	names := make([]string, len(rows)-1)
	for i, row := range rows[1:] {
		names[i] = cell(row, modelIdx)
	}
	names = ForwardFill(names)

	totals := make(map[string]*backlogTotals)
	for i, row := range rows[1:] {
		model := strings.TrimSuffix(names[i], "_A")
		qty := ParseNumber(cell(row, qtyIdx))
		if model == "" || qty <= 0 {
			continue
		}
		status := strings.TrimSpace(cell(row, statusIdx))

		key := NormalizeModelKey(model)
		entry, ok := totals[key]
		if !ok {
			entry = &backlogTotals{modelName: model}
			totals[key] = entry
		}
		switch {
		case strings.EqualFold(status, "PO"):
			entry.po += qty
		case otwStatuses[status]:
			entry.otw += qty
		}
	}
	return totals
}

// mergeBacklog joins backlog totals onto snapshot entries by normalized
// model key. Backlog models absent from the snapshot are appended with
// zero stock so their inbound units still count toward availability.
func mergeBacklog(snapshot []domain.SnapshotEntry, totals map[string]*backlogTotals) []domain.SnapshotEntry {
	if totals == nil {
		return snapshot
	}
	for i := range snapshot {
		key := NormalizeModelKey(snapshot[i].ModelName)
		if entry, ok := totals[key]; ok {
			snapshot[i].POQty = entry.po
			snapshot[i].OTWQty = entry.otw
			delete(totals, key)
		}
	}
	for _, entry := range totals {
		if entry.po == 0 && entry.otw == 0 {
			continue
		}
		snapshot = append(snapshot, domain.SnapshotEntry{
			ModelName:   entry.modelName,
			Distributor: domain.UnknownValue,
			Chipset:     domain.UnknownValue,
			POQty:       entry.po,
			OTWQty:      entry.otw,
		})
	}
	return snapshot
}

func fieldOrUnknown(row []string, idx int) string {
	v := strings.TrimSpace(cell(row, idx))
	if v == "" {
		return domain.UnknownValue
	}
	return v
}
