package pricing

import (
	"bytes"
	"encoding/csv"
	"errors"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// readTable reads header-led CSV written by this tool (or edited in a
// spreadsheet). Ragged rows are tolerated. A nil header means there was no
// usable header row.
func readTable(content []byte) (core.HeaderIndex, [][]string) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, nil
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				continue
			}
			break
		}
		rows = append(rows, row)
	}
	return core.MakeHeaderIndex(header), rows
}
