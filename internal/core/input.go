package core

// input.go normalizes raw list files before detection:
//
//   - UTF-8 BOMs are dropped and UTF-16 files (BOM-marked) are transcoded
//   - invalid UTF-8 sequences become U+FFFD
//   - XLSX workbooks are flattened to CSV using their first sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnreadableInput is returned when an input file cannot be read.
	ErrUnreadableInput = errors.New("unreadable input file")

	// ErrUnwritableOutput is returned when an output file cannot be written.
	ErrUnwritableOutput = errors.New("unwritable output file")

	// ErrNoCards is returned when a list yields no card requests.
	ErrNoCards = errors.New("no cards found in input")
)

// zipMagic prefixes every XLSX workbook.
var zipMagic = []byte("PK\x03\x04")

// ReadInputFile reads and normalizes a list file.
func ReadInputFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableInput, filepath.Base(path), err)
	}
	defer f.Close()

	return ReadInput(f)
}

// ReadInput reads all of r and returns UTF-8 text ready for detection.
func ReadInput(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
	}

	if bytes.HasPrefix(raw, zipMagic) {
		out, err := WorkbookToCSV(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableInput, err)
		}
		return out, nil
	}

	return DecodeText(raw)
}

// DecodeText strips a byte order mark and replaces invalid UTF-8.
func DecodeText(raw []byte) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnreadableInput, err)
	}
	return out, nil
}

// WorkbookToCSV renders the first sheet of an XLSX workbook as CSV.
func WorkbookToCSV(data []byte) ([]byte, error) {
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
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("flatten sheet %q: %w", sheets[0], err)
	}
	return buf.Bytes(), nil
}
