package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/report"
)

// ValueHeader is the inventory-value column set.
var ValueHeader = []string{
	"card_name", "set", "collector_number", "rarity", "finish", "quantity", "unit_price", "total_price",
}

// InventoryItem is one owned row of a filled-in template.
type InventoryItem struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Rarity          string
	Finish          string
	Quantity        int
	UnitPrice       string // as written in the template, e.g. "$2.50" or "N/A"
}

// ValueStatus classifies how a row's unit price was read.
type ValueStatus int

const (
	ValuePriced ValueStatus = iota
	ValueNoPrice
	ValueInvalidPrice
)

// ValueRow is one inventory-value output row.
type ValueRow struct {
	Item   InventoryItem
	Status ValueStatus
	Unit   decimal.Decimal
	Total  decimal.Decimal
}

// Record renders the row in ValueHeader order.
func (r ValueRow) Record() []string {
	unit, total := NoPriceData, core.NotAvailable
	switch r.Status {
	case ValuePriced:
		unit, total = core.FormatUSD(r.Unit), core.FormatUSD(r.Total)
	case ValueInvalidPrice:
		unit = InvalidPrice
	}
	return []string{
		r.Item.CardName, r.Item.SetCode, r.Item.CollectorNumber, r.Item.Rarity, r.Item.Finish,
		strconv.Itoa(r.Item.Quantity), unit, total,
	}
}

// ValuationResult holds every valued row and the running totals.
type ValuationResult struct {
	RunID      string
	Rows       []ValueRow
	TotalCards int
	TotalValue decimal.Decimal
}

// Table renders the result for the report writers.
func (r *ValuationResult) Table() report.Table {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Record()
	}
	return report.Table{Name: "value", Header: ValueHeader, Rows: rows}
}

// ParseInventory reads a filled-in template and keeps only rows whose
// quantity is a positive integer. Rows left blank are not owned.
func ParseInventory(content []byte) []InventoryItem {
	header, rows := readTable(content)
	if header == nil {
		return nil
	}

	var items []InventoryItem
	for _, row := range rows {
		qty, ok := ownedQuantity(header.Cell(row, "quantity"))
		if !ok {
			continue
		}
		items = append(items, InventoryItem{
			CardName:        header.Cell(row, "card_name"),
			SetCode:         header.Cell(row, "set"),
			CollectorNumber: header.Cell(row, "collector_number"),
			Rarity:          orNA(header.Cell(row, "rarity")),
			Finish:          orDefault(header.Cell(row, "finish"), string(core.FinishNonfoil)),
			Quantity:        qty,
			UnitPrice:       orNA(header.Cell(row, "unit_price")),
		})
	}
	return items
}

// ownedQuantity accepts only a string of digits greater than zero.
func ownedQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Valuate multiplies each item's unit price by its quantity.
//
// A unit price must carry a leading "$" to be read. "N/A" or an unmarked
// value is No Price Data; a marked value that does not parse is Invalid
// Price. Neither contributes to TotalValue.
func Valuate(items []InventoryItem) *ValuationResult {
	res := &ValuationResult{TotalValue: decimal.Zero}
	for _, item := range items {
		row := ValueRow{Item: item, Status: ValueNoPrice}
		res.TotalCards += item.Quantity

		raw := strings.TrimSpace(item.UnitPrice)
		if raw != core.NotAvailable && strings.HasPrefix(raw, "$") {
			unit, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(raw, "$", "")))
			if err != nil {
				row.Status = ValueInvalidPrice
			} else {
				row.Status = ValuePriced
				row.Unit = unit
				row.Total = unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
				res.TotalValue = res.TotalValue.Add(row.Total)
			}
		}

		res.Rows = append(res.Rows, row)
	}
	return res
}
