package formats

import (
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// vendorColumns names the header columns a vendor CSV export uses. Each
// field lists accepted header names, first match wins.
type vendorColumns struct {
	Count  []string
	Name   []string
	Set    []string
	Number []string
	Foil   []string

	// Finish interprets the foil column. Vendors disagree on its vocabulary.
	Finish func(string) core.Finish
}

// parseVendorCSV builds a header-driven parser for a vendor dialect.
func parseVendorCSV(cols vendorColumns) core.ParseFunc {
	return func(content []byte, warn core.WarnFunc) []core.CardRequest {
		rows := readCSV(content, warn)
		if len(rows) == 0 {
			return nil
		}

		idx := core.MakeHeaderIndex(rows[0].fields)
		var reqs []core.CardRequest
		for _, row := range rows[1:] {
			name := idx.Cell(row.fields, cols.Name...)
			if name == "" {
				continue
			}

			data := strings.Join(row.fields, ",")
			qty, ok := rowQuantity(idx.Cell(row.fields, cols.Count...), row.line, data, warn)
			if !ok {
				continue
			}

			reqs = append(reqs, core.CardRequest{
				Name:            name,
				SetCode:         strings.ToUpper(idx.Cell(row.fields, cols.Set...)),
				CollectorNumber: idx.Cell(row.fields, cols.Number...),
				Finish:          cols.Finish(idx.Cell(row.fields, cols.Foil...)),
				Quantity:        qty,
			})
		}
		return reqs
	}
}
