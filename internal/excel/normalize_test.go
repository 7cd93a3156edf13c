package excel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 1234.0, ParseNumber("1,234"))
	assert.Equal(t, 12.5, ParseNumber(" 12.5 "))
	assert.Equal(t, 0.0, ParseNumber("abc"))
	assert.Equal(t, 0.0, ParseNumber(""))
	assert.Equal(t, -3.0, ParseNumber("-3"))
}

func TestParseWeekNumber(t *testing.T) {
	assert.Equal(t, 1, ParseWeekNumber("W01"))
	assert.Equal(t, 3, ParseWeekNumber("3주"))
	assert.Equal(t, 12, ParseWeekNumber("12"))
	assert.Equal(t, 0, ParseWeekNumber("주차"))
	assert.Equal(t, 0, ParseWeekNumber(""))
}

func TestParseCellDateSerial(t *testing.T) {
	// Serial 45292 is 2024-01-01.
	d, ok := ParseCellDate("45292")
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 1, d.Day())
}

func TestParseCellDateLayouts(t *testing.T) {
	for _, raw := range []string{"2024-01-05", "2024/01/05", "2024.01.05", "1/5/2024"} {
		d, ok := ParseCellDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2024-01-05", d.Format("2006-01-02"), raw)
	}

	_, ok := ParseCellDate("not a date")
	assert.False(t, ok)
	_, ok = ParseCellDate("")
	assert.False(t, ok)
	_, ok = ParseCellDate("0")
	assert.False(t, ok)
}

func TestDateFromFilename(t *testing.T) {
	fallback := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)

	assert.Equal(t, "2024-05-13", DateFromFilename("market_cpu_20240513.xlsx", fallback))

	short := DateFromFilename("market_vga_0513.xlsx", fallback)
	assert.Regexp(t, `^\d{4}-05-13$`, short)

	assert.Equal(t, "2024-03-01", DateFromFilename("market_cpu.xlsx", fallback))
}

func TestDetectCategory(t *testing.T) {
	assert.Equal(t, "CPU", DetectCategory("다나와_CPU_0513.xlsx"))
	assert.Equal(t, "VGA", DetectCategory("graphic_cards.xlsx"))
	assert.Equal(t, "PSU", DetectCategory("Power_list.xlsx"))
	assert.Equal(t, "OS", DetectCategory("windows11.xlsx"))
	assert.Equal(t, "UNKNOWN", DetectCategory("monitor.xlsx"))
}

func TestNormalizeModelKey(t *testing.T) {
	assert.Equal(t, "RTX4070SUPER", NormalizeModelKey("RTX 4070-Super"))
	assert.Equal(t, "RTX4070SUPER", NormalizeModelKey("rtx4070 super"))
	assert.Equal(t, "UNKNOWN", NormalizeModelKey("  "))
	assert.Equal(t, "UNKNOWN", NormalizeModelKey("한글만"))
}

func TestForwardFill(t *testing.T) {
	got := ForwardFill([]string{"A", "", " ", "B", ""})
	assert.Equal(t, []string{"A", "A", "A", "B", "B"}, got)

	got = ForwardFill([]string{"", "C"})
	assert.Equal(t, []string{"", "C"}, got)
}
