package core

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is the sentinel rendered for missing data.
const NotAvailable = "N/A"

// numericRegex validates a plain decimal literal after currency stripping.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseDecimal parses a price string. Leading "$", "€", "£" and thousands
// separators are stripped. Empty or non-numeric input yields an invalid Price.
func ParseDecimal(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return Price{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}
	}
	return Price{Decimal: d, Valid: true}
}

// ParseCatalogPrice converts an optional catalog price string.
func ParseCatalogPrice(s *string) Price {
	if s == nil {
		return Price{}
	}
	return ParseDecimal(*s)
}

// FormatUSD renders a decimal as "$x.xx".
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatPrice renders a nullable price, or N/A when unknown.
func FormatPrice(p Price) string {
	if !p.Valid {
		return NotAvailable
	}
	return FormatUSD(p.Decimal)
}

// NewPrice builds a valid Price from a string literal. It panics on bad
// input and is meant for constants and tests.
func NewPrice(s string) Price {
	return Price{Decimal: decimal.RequireFromString(s), Valid: true}
}

// CollectorNumberValue returns the numeric portion of a collector number
// with non-digit characters stripped, or 0 if none remain.
func CollectorNumberValue(num string) int {
	var b strings.Builder
	for _, r := range num {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ParseQuantity parses a count cell. Anything that is not a positive
// integer yields def.
func ParseQuantity(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Has reports whether any of the names is a column.
func (h HeaderIndex) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := h[strings.ToLower(n)]; ok {
			return true
		}
	}
	return false
}

// Cell returns the cleaned value of the first named column present in the
// header, or "" when none is present or the row is short.
func (h HeaderIndex) Cell(row []string, names ...string) string {
	for _, n := range names {
		i, ok := h[strings.ToLower(n)]
		if !ok {
			continue
		}
		if i >= len(row) {
			return ""
		}
		return CleanCell(row[i])
	}
	return ""
}

// CleanCell trims whitespace, spreadsheet formula wrappers and quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// FirstLine returns the first physical line of content, trimmed.
func FirstLine(content []byte) string {
	line, _, _ := bytes.Cut(content, []byte{'\n'})
	return strings.TrimSpace(string(line))
}

// MaxLineLength is the longest text-list line a parser will read.
const MaxLineLength = 1024 * 1024

// ContentLine is a non-blank, non-comment line of a text list.
type ContentLine struct {
	Number  int // 1-based physical line number
	Text    string
	TooLong bool // Text is only a prefix; the line exceeds MaxLineLength
}

// ContentLines returns the trimmed non-blank lines of content that do not
// start with '#'. A line over MaxLineLength is returned with TooLong set so
// the parser can report it and move on.
func ContentLines(content []byte) []ContentLine {
	var lines []ContentLine
	for i, raw := range bytes.Split(content, []byte{'\n'}) {
		if len(raw) > MaxLineLength {
			lines = append(lines, ContentLine{Number: i + 1, Text: linePrefix(raw), TooLong: true})
			continue
		}
		text := strings.TrimSpace(string(raw))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, ContentLine{Number: i + 1, Text: text})
	}
	return lines
}

// FirstContentLine returns the first non-blank, non-comment line, or "".
// Over-long lines are skipped.
func FirstContentLine(content []byte) string {
	for _, line := range ContentLines(content) {
		if !line.TooLong {
			return line.Text
		}
	}
	return ""
}

func linePrefix(raw []byte) string {
	const n = 64
	if len(raw) > n {
		raw = raw[:n]
	}
	return strings.TrimSpace(string(raw)) + "..."
}
