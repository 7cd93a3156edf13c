package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketSheet(t *testing.T) {
	data := buildWorkbook(t, []testSheet{{
		name: "가격표",
		rows: [][]any{
			{"Brand", "Model", "최저가", "Chipset", "URL"},
			{"MSI", "RTX 4070 Ventus", "850,000", "RTX4070", "https://example.com/1"},
			{"", "", "", "", ""},
			{"ASUS", "TUF 4070", "0", "RTX4070", ""},
		},
	}})

	items, err := ParseMarketSheet(data, "VGA")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "MSI", items[0].Brand)
	assert.Equal(t, "RTX 4070 Ventus", items[0].Model)
	assert.Equal(t, 850000.0, items[0].Price)
	assert.Equal(t, "RTX4070", items[0].Spec)
	assert.Equal(t, "https://example.com/1", items[0].ProductURL)
	assert.Equal(t, "VGA", items[0].Category)

	assert.Equal(t, 0.0, items[1].Price)
}

func TestParseMarketSheetSpecPrecedence(t *testing.T) {
	// Chipset outranks the plain spec column when both exist.
	data := buildWorkbook(t, []testSheet{{
		name: "Sheet",
		rows: [][]any{
			{"Model", "Price", "Spec", "Chipset"},
			{"X", "100", "generic", "B650"},
		},
	}})
	items, err := ParseMarketSheet(data, "MB")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B650", items[0].Spec)

	// PSU crawls label the spec column by wattage.
	data = buildWorkbook(t, []testSheet{{
		name: "Sheet",
		rows: [][]any{
			{"제품명", "가격", "Watt"},
			{"P1000", "150,000", "1000W"},
		},
	}})
	items, err = ParseMarketSheet(data, "PSU")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1000W", items[0].Spec)
}

func TestParseMarketSheetMissingColumns(t *testing.T) {
	data := buildWorkbook(t, []testSheet{{
		name: "Sheet",
		rows: [][]any{
			{"Brand", "Something"},
			{"MSI", "x"},
		},
	}})
	_, err := ParseMarketSheet(data, "VGA")
	assert.Error(t, err)
}

func TestParseMarketSheetNoRows(t *testing.T) {
	data := buildWorkbook(t, []testSheet{{
		name: "Sheet",
		rows: [][]any{{"Model", "Price"}},
	}})
	_, err := ParseMarketSheet(data, "VGA")
	assert.ErrorIs(t, err, errNoMarketRows)
}
