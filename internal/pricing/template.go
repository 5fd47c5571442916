package pricing

import (
	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/report"
)

// TemplateHeader is the inventory-template column set. The quantity column
// is left empty for the collector to fill in.
var TemplateHeader = []string{
	"card_name", "set", "collector_number", "rarity", "finish", "unit_price", "quantity",
}

// TemplateRow is one printing/finish line of an inventory template.
type TemplateRow struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Rarity          string
	Finish          core.Finish
	UnitPrice       core.Price
}

// Record renders the row in TemplateHeader order.
func (r TemplateRow) Record() []string {
	return []string{
		r.CardName, r.SetCode, r.CollectorNumber, r.Rarity,
		string(r.Finish), core.FormatPrice(r.UnitPrice), "",
	}
}

// BuildTemplate emits one row per finish each printing is available in,
// with that finish's current price.
func BuildTemplate(printings []core.Printing) []TemplateRow {
	var rows []TemplateRow
	for _, p := range printings {
		for _, f := range p.Finishes {
			rows = append(rows, TemplateRow{
				CardName:        p.Name,
				SetCode:         p.SetCode,
				CollectorNumber: p.CollectorNumber,
				Rarity:          p.Rarity,
				Finish:          f,
				UnitPrice:       p.PriceFor(f),
			})
		}
	}
	return rows
}

// TemplateResult is the outcome of a template run.
type TemplateResult struct {
	RunID string
	Sets  []string
	Rows  []TemplateRow
}

// Table renders the result for the report writers.
func (r *TemplateResult) Table() report.Table {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Record()
	}
	return report.Table{Name: "inventory", Header: TemplateHeader, Rows: rows}
}
