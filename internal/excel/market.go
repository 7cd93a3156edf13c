package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/channelpulse/backend-go/internal/domain"
)

var errNoMarketRows = errors.New("no usable market rows")

// ParseMarketSheet reads a market price crawl workbook. Only the first
// sheet is consulted. Model and price columns are mandatory; the spec
// column is picked by precedence chipset > spec > wattage > version since
// crawls for different categories label it differently.
func ParseMarketSheet(data []byte, category string) ([]domain.MarketItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, errNoMarketRows
	}

	headers := rows[0]
	modelIdx := columnIndex(headers, candMarketName)
	priceIdx := columnIndex(headers, candPrice)
	if modelIdx < 0 || priceIdx < 0 {
		return nil, errors.New("missing required columns (Model / Price)")
	}
	brandIdx := columnIndex(headers, candBrand)
	specIdx := columnIndex(headers, candSpecChip, candSpecPlain, candSpecWatt, candSpecVer)
	urlIdx := columnIndex(headers, candURL)

	items := make([]domain.MarketItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		model := strings.TrimSpace(cell(row, modelIdx))
		if model == "" {
			continue
		}
		items = append(items, domain.MarketItem{
			Brand:      strings.TrimSpace(cell(row, brandIdx)),
			Model:      model,
			Price:      ParseNumber(cell(row, priceIdx)),
			Spec:       strings.TrimSpace(cell(row, specIdx)),
			ProductURL: strings.TrimSpace(cell(row, urlIdx)),
			Category:   category,
		})
	}
	if len(items) == 0 {
		return nil, errNoMarketRows
	}
	return items, nil
}
