package core

import (
	"bytes"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// ParseDecimal Tests
// ----------------------------------------------------------------------------

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{name: "integer", input: "12", wantValid: true, wantValue: "12"},
		{name: "zero is a real price", input: "0", wantValid: true, wantValue: "0"},
		{name: "catalog format", input: "0.25", wantValid: true, wantValue: "0.25"},
		{name: "leading decimal point", input: ".99", wantValid: true, wantValue: "0.99"},
		{name: "dollar sign", input: "$1,234.56", wantValid: true, wantValue: "1234.56"},
		{name: "euro sign", input: "€12.50", wantValid: true, wantValue: "12.5"},
		{name: "pound sign", input: "£12.50", wantValid: true, wantValue: "12.5"},
		{name: "surrounding whitespace", input: "  3.10 ", wantValid: true, wantValue: "3.1"},
		{name: "empty", input: "", wantValid: false},
		{name: "whitespace only", input: "   ", wantValid: false},
		{name: "sentinel", input: "N/A", wantValid: false},
		{name: "letters", input: "abc", wantValid: false},
		{name: "two points", input: "1.2.3", wantValid: false},
		{name: "bare dollar", input: "$", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ParseDecimal(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.Decimal.String() != tt.wantValue {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, got.Decimal.String(), tt.wantValue)
			}
		})
	}
}

func TestParseCatalogPrice(t *testing.T) {
	if got := ParseCatalogPrice(nil); got.Valid {
		t.Errorf("ParseCatalogPrice(nil).Valid = true, want false")
	}

	s := "1.00"
	if got := ParseCatalogPrice(&s); !got.Valid || got.Decimal.String() != "1" {
		t.Errorf("ParseCatalogPrice(%q) = %v, want 1", s, got)
	}

	bad := "n/a"
	if got := ParseCatalogPrice(&bad); got.Valid {
		t.Errorf("ParseCatalogPrice(%q).Valid = true, want false", bad)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		input Price
		want  string
	}{
		{name: "unknown", input: Price{}, want: "N/A"},
		{name: "zero", input: NewPrice("0"), want: "$0.00"},
		{name: "pads cents", input: NewPrice("2.5"), want: "$2.50"},
		{name: "rounds half up", input: NewPrice("1.005"), want: "$1.01"},
		{name: "large", input: NewPrice("1234.5"), want: "$1234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.input); got != tt.want {
				t.Errorf("FormatPrice(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollectorNumberValue(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"9", 9},
		{"10", 10},
		{"2a", 2},
		{"★12", 12},
		{"A-3", 3},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := CollectorNumberValue(tt.input); got != tt.want {
			t.Errorf("CollectorNumberValue(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input string
		def   int
		want  int
	}{
		{"4", 1, 4},
		{" 2 ", 1, 2},
		{"abc", 1, 1},
		{"", 1, 1},
		{"0", 1, 1},
		{"-3", 0, 0},
	}

	for _, tt := range tests {
		if got := ParseQuantity(tt.input, tt.def); got != tt.want {
			t.Errorf("ParseQuantity(%q, %d) = %d, want %d", tt.input, tt.def, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Header and cell helpers
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`  Sol Ring  `, "Sol Ring"},
		{`="263"`, "263"},
		{`=263`, "263"},
		{`"Edition"`, "Edition"},
		{`'c21'`, "c21"},
		{``, ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHeaderIndex_Cell(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Count", " Card Name ", "\"Edition\"", "Count"})
	row := []string{"2", "Sol Ring", "c21"}

	if got := idx.Cell(row, "card name"); got != "Sol Ring" {
		t.Errorf("Cell(card name) = %q, want %q", got, "Sol Ring")
	}
	if got := idx.Cell(row, "Name", "Card Name"); got != "Sol Ring" {
		t.Errorf("Cell(Name, Card Name) = %q, want alias match", got)
	}
	if got := idx.Cell(row, "Edition"); got != "c21" {
		t.Errorf("Cell(Edition) = %q, want %q", got, "c21")
	}
	if got := idx.Cell(row, "Foil"); got != "" {
		t.Errorf("Cell(Foil) = %q, want empty", got)
	}
	if got := idx.Cell(row, "Count"); got != "2" {
		t.Errorf("Cell(Count) = %q, want first occurrence", got)
	}
	if !idx.Has("foil", "edition") {
		t.Error("Has(foil, edition) = false, want true")
	}

	short := MakeHeaderIndex([]string{"a", "b", "c"})
	if got := short.Cell([]string{"x"}, "c"); got != "" {
		t.Errorf("Cell on short row = %q, want empty", got)
	}
}

func TestContentLines(t *testing.T) {
	content := []byte("# header\n\n  Sol Ring  \r\n#skip\nOpt\n")
	got := ContentLines(content)

	want := []ContentLine{{Number: 3, Text: "Sol Ring"}, {Number: 5, Text: "Opt"}}
	if len(got) != len(want) {
		t.Fatalf("ContentLines() returned %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if first := FirstContentLine(content); first != "Sol Ring" {
		t.Errorf("FirstContentLine() = %q, want %q", first, "Sol Ring")
	}
	if first := FirstLine(content); first != "# header" {
		t.Errorf("FirstLine() = %q, want %q", first, "# header")
	}
}

func TestContentLines_TooLong(t *testing.T) {
	content := []byte("Sol Ring\n" + strings.Repeat("a", MaxLineLength+1) + "\nOpt\n")
	got := ContentLines(content)

	if len(got) != 3 {
		t.Fatalf("ContentLines() returned %d lines, want 3", len(got))
	}
	if !got[1].TooLong || got[1].Number != 2 {
		t.Errorf("line 2 = {Number: %d, TooLong: %v}, want {2, true}", got[1].Number, got[1].TooLong)
	}
	if len(got[1].Text) > 80 {
		t.Errorf("too-long line text has %d bytes, want a short prefix", len(got[1].Text))
	}
	if got[2].Text != "Opt" || got[2].Number != 3 {
		t.Errorf("line after the long one = %+v, want Opt on line 3", got[2])
	}

	exact := bytes.Repeat([]byte("b"), MaxLineLength)
	if lines := ContentLines(exact); len(lines) != 1 || lines[0].TooLong {
		t.Error("a line of exactly MaxLineLength bytes should be read normally")
	}
	if first := FirstContentLine(append(bytes.Repeat([]byte("c"), MaxLineLength+1), []byte("\nOpt")...)); first != "Opt" {
		t.Errorf("FirstContentLine() = %q, want the first readable line", first)
	}
}
