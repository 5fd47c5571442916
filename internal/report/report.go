// Package report writes tabular run output as CSV or XLSX.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" (case-insensitive); anything else is csv.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatXLSX)) {
		return FormatXLSX
	}
	return FormatCSV
}

// FormatForPath picks the format from the file extension, falling back to def.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".csv", ".txt":
		return FormatCSV
	}
	if def == "" {
		return FormatCSV
	}
	return def
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table is a header plus display-ready string rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Write encodes t in the given format.
func Write(w io.Writer, f Format, t Table) error {
	if f == FormatXLSX {
		return WriteXLSX(w, t)
	}
	return WriteCSV(w, t)
}

// WriteCSV writes t as CSV with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if t.Name != "" {
		if err := f.SetSheetName(sheet, t.Name); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
		sheet = t.Name
	}

	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	return nil
}

// WriteFile encodes t to path, choosing the format from its extension.
// Any failure wraps core.ErrUnwritableOutput. The file is only created
// once encoding has succeeded.
func WriteFile(path string, def Format, t Table) error {
	var buf bytes.Buffer
	if err := Write(&buf, FormatForPath(path, def), t); err != nil {
		return fmt.Errorf("%w: %s: %v", core.ErrUnwritableOutput, path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", core.ErrUnwritableOutput, err)
	}
	return nil
}
