package pricing

import (
	"strconv"

	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/report"
)

// Row sentinels.
const (
	NotFound     = "Not Found"
	NoPriceData  = "No Price Data"
	InvalidPrice = "Invalid Price"
	Multiple     = "Multiple"
)

// PriceListHeader is the price-list column set.
var PriceListHeader = []string{
	"card_name", "set", "collector_number", "finish",
	"price", "min_price", "max_price", "min_printing", "max_printing",
	"quantity",
}

// PriceRow is one price-list output row. Exact requests fill Price;
// searches fill the min/max columns.
type PriceRow struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Finish          string
	Price           string
	MinPrice        string
	MaxPrice        string
	MinPrinting     string
	MaxPrinting     string
	Quantity        int
}

// Record renders the row in PriceListHeader order.
func (r PriceRow) Record() []string {
	return []string{
		r.CardName, r.SetCode, r.CollectorNumber, r.Finish,
		r.Price, r.MinPrice, r.MaxPrice, r.MinPrinting, r.MaxPrinting,
		strconv.Itoa(r.Quantity),
	}
}

// Summarize reduces the resolved prices for one request to a row.
func Summarize(req core.CardRequest, prices []core.PrintingPrice) PriceRow {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	if len(prices) == 0 {
		return PriceRow{
			CardName:        req.Name,
			SetCode:         orNA(req.SetCode),
			CollectorNumber: orNA(req.CollectorNumber),
			Finish:          orNA(string(req.Finish)),
			MinPrice:        NotFound,
			MaxPrice:        NotFound,
			MinPrinting:     core.NotAvailable,
			MaxPrinting:     core.NotAvailable,
			Quantity:        qty,
		}
	}

	if req.Exact() {
		p := prices[0]
		return PriceRow{
			CardName:        p.CardName,
			SetCode:         p.SetCode,
			CollectorNumber: p.CollectorNumber,
			Finish:          string(p.Finish),
			Price:           core.FormatPrice(p.Price),
			Quantity:        qty,
		}
	}

	lo, hi, ok := MinMax(prices)
	if !ok {
		return PriceRow{
			CardName:        req.Name,
			SetCode:         orNA(req.SetCode),
			CollectorNumber: orNA(req.CollectorNumber),
			Finish:          string(req.Finish.OrDefault()),
			Price:           NoPriceData,
			Quantity:        qty,
		}
	}

	return PriceRow{
		CardName:        lo.CardName,
		SetCode:         orDefault(req.SetCode, Multiple),
		CollectorNumber: orDefault(req.CollectorNumber, Multiple),
		Finish:          string(req.Finish.OrDefault()),
		MinPrice:        core.FormatPrice(lo.Price),
		MaxPrice:        core.FormatPrice(hi.Price),
		MinPrinting:     lo.Descriptor(),
		MaxPrinting:     hi.Descriptor(),
		Quantity:        qty,
	}
}

// MinMax returns the cheapest and most expensive priced entries. Null
// prices are skipped; ties keep the first entry seen. ok is false when
// nothing is priced.
func MinMax(prices []core.PrintingPrice) (lo, hi core.PrintingPrice, ok bool) {
	for _, p := range prices {
		if !p.Price.Valid {
			continue
		}
		if !ok {
			lo, hi, ok = p, p, true
			continue
		}
		if p.Price.Decimal.LessThan(lo.Price.Decimal) {
			lo = p
		}
		if p.Price.Decimal.GreaterThan(hi.Price.Decimal) {
			hi = p
		}
	}
	return lo, hi, ok
}

// PriceListResult is the outcome of pricing one list.
type PriceListResult struct {
	RunID      string
	Format     core.FormatInfo
	Rows       []PriceRow
	Warnings   []core.Warning
	TotalCards int
	NotFound   int
}

// Table renders the result for the report writers.
func (r *PriceListResult) Table() report.Table {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Record()
	}
	return report.Table{Name: "prices", Header: PriceListHeader, Rows: rows}
}

func orNA(s string) string {
	return orDefault(s, core.NotAvailable)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
