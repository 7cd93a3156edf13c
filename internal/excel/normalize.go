package excel

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/channelpulse/backend-go/internal/calendar"
)

// ParseNumber coerces a raw cell value to a number. Thousands separators
// and surrounding whitespace are stripped; anything unparseable is 0. It
// never fails: upload rows must survive bad cells with a diagnostic status
// rather than abort the sheet.
func ParseNumber(v string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

var nonDigitRe = regexp.MustCompile(`\D`)

// ParseWeekNumber extracts the week number from values like "W01", "3주"
// or plain "12" by dropping every non-digit character. Invalid input is 0.
func ParseWeekNumber(v string) int {
	s := nonDigitRe.ReplaceAllString(v, "")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// excelEpochOffset is the day count between the spreadsheet serial epoch
// and 1970-01-01, including the documented 1900 leap-year artifact.
const excelEpochOffset = 25569

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	time.RFC3339,
}

// ParseCellDate converts a raw date cell to a time. Numeric cells are
// spreadsheet date serials; string cells are tried against the known
// layouts. The bool is false when nothing matches.
func ParseCellDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		secs := (serial - excelEpochOffset) * 86400
		return time.Unix(int64(secs+0.5), 0).In(time.Local), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	filenameDateFullRe  = regexp.MustCompile(`_(\d{4})(\d{2})(\d{2})`)
	filenameDateShortRe = regexp.MustCompile(`_(\d{2})(\d{2})`)
)

// DateFromFilename extracts an upload date key from a filename token:
// _YYYYMMDD, or _MMDD assuming the current year. Without a token it falls
// back to the supplied date, and with a zero fallback to today.
func DateFromFilename(name string, fallback time.Time) string {
	if m := filenameDateFullRe.FindStringSubmatch(name); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := filenameDateShortRe.FindStringSubmatch(name); m != nil {
		return strconv.Itoa(time.Now().Year()) + "-" + m[1] + "-" + m[2]
	}
	if fallback.IsZero() {
		fallback = time.Now()
	}
	return calendar.DateKey(fallback)
}

// DetectCategory maps a market price-list filename to its product category.
// Unrecognized files are reported per-file and skipped by the caller.
func DetectCategory(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "cpu"):
		return "CPU"
	case strings.Contains(lower, "psu"), strings.Contains(lower, "power"):
		return "PSU"
	case strings.Contains(lower, "mb"), strings.Contains(lower, "mainboard"):
		return "MB"
	case strings.Contains(lower, "vga"), strings.Contains(lower, "gpu"), strings.Contains(lower, "graphic"):
		return "VGA"
	case strings.Contains(lower, "ram"), strings.Contains(lower, "memory"):
		return "RAM"
	case strings.Contains(lower, "ssd"), strings.Contains(lower, "hdd"):
		return "SSD"
	case strings.Contains(lower, "os"), strings.Contains(lower, "win"):
		return "OS"
	default:
		return "UNKNOWN"
	}
}

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// NormalizeModelKey builds the matching key for model names: every
// non-alphanumeric character dropped, upper-cased. Distinct models that
// normalize identically will collide; that risk is accepted because stored
// history is keyed the same way.
func NormalizeModelKey(name string) string {
	key := strings.ToUpper(nonAlnumRe.ReplaceAllString(name, ""))
	if key == "" {
		return "UNKNOWN"
	}
	return key
}

// ForwardFill returns a copy of values where each blank entry inherits the
// most recent non-blank value above it, in slice order. Backlog sheets use
// merged model-name cells, which read back as one value followed by blanks.
func ForwardFill(values []string) []string {
	out := make([]string, len(values))
	last := ""
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			last = v
		}
		out[i] = last
	}
	return out
}
