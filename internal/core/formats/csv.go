package formats

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// csvRow is one record with the physical line it started on.
type csvRow struct {
	line   int
	fields []string
}

// readCSV reads every record it can. Malformed records are reported and
// skipped; reading stops only at EOF or an I/O error.
func readCSV(content []byte, warn core.WarnFunc) []csvRow {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows []csvRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				warn(pe.StartLine, "malformed CSV row", pe.Err.Error())
				continue
			}
			warn(0, "CSV read failed", err.Error())
			break
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, csvRow{line: line, fields: rec})
	}
	return rows
}

// headerLine returns the lowercased first physical line, for detectors.
func headerLine(content []byte) string {
	return strings.ToLower(core.FirstLine(content))
}

// rowQuantity reads a count cell. Empty means 1. A non-numeric value is
// reported and defaults to 1; an explicit zero or negative count drops the row.
func rowQuantity(cell string, line int, data string, warn core.WarnFunc) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 1, true
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		warn(line, fmt.Sprintf("invalid count %q, using 1", cell), data)
		return 1, true
	}
	if n < 1 {
		warn(line, fmt.Sprintf("count %d, skipping", n), data)
		return 0, false
	}
	return n, true
}
