package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumn(t *testing.T) {
	headers := []string{"No", "Invoice Date", "변환 Model Name", "QTY", "업체명"}

	h, ok := ResolveColumn(headers, candInvoiceDate)
	require.True(t, ok)
	assert.Equal(t, "Invoice Date", h)

	h, ok = ResolveColumn(headers, candQty)
	require.True(t, ok)
	assert.Equal(t, "QTY", h)

	_, ok = ResolveColumn(headers, candChipset)
	assert.False(t, ok)
}

func TestResolveColumnIgnoresCaseAndSpacing(t *testing.T) {
	headers := []string{"invoice  date", "변환model NAME"}

	h, ok := ResolveColumn(headers, candInvoiceDate)
	require.True(t, ok)
	assert.Equal(t, "invoice  date", h)

	h, ok = ResolveColumn(headers, candModelPrim)
	require.True(t, ok)
	assert.Equal(t, "변환model NAME", h)
}

func TestResolveColumnsPrecedence(t *testing.T) {
	// Both the converted and the raw model column are present; the
	// converted one must win regardless of position.
	headers := []string{"모델명", "변환 Model"}

	h, ok := ResolveColumns(headers, candModelPrim, candModelFall)
	require.True(t, ok)
	assert.Equal(t, "변환 Model", h)

	// Without the converted column, the fallback group resolves.
	h, ok = ResolveColumns([]string{"모델명", "QTY"}, candModelPrim, candModelFall)
	require.True(t, ok)
	assert.Equal(t, "모델명", h)
}

func TestResolveColumnFirstHeaderWins(t *testing.T) {
	headers := []string{"Model Name", "Old Model"}

	h, ok := ResolveColumn(headers, candModelFall)
	require.True(t, ok)
	assert.Equal(t, "Model Name", h)
}
