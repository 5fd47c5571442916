package pricing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/report"
)

// TargetCopies is how many of each printing/finish a complete set holds.
const TargetCopies = 1

// BuylistHeader is the buylist column set.
var BuylistHeader = []string{
	"card_name", "set", "collector_number", "rarity", "finish", "owned", "needed", "unit_price", "total_price",
}

// Ownership counts owned copies per printing/finish.
type Ownership map[core.OwnershipKey]int

// Key normalizes the parts of an ownership key: set upper-cased, number
// trimmed, finish defaulting to nonfoil.
func Key(setCode, number string, finish core.Finish) core.OwnershipKey {
	return core.OwnershipKey{
		SetCode:         strings.ToUpper(strings.TrimSpace(setCode)),
		CollectorNumber: strings.TrimSpace(number),
		Finish:          finish.OrDefault(),
	}
}

// Add records qty more copies of key.
func (o Ownership) Add(key core.OwnershipKey, qty int) {
	if qty > 0 {
		o[key] += qty
	}
}

// Total returns the number of owned copies across every key.
func (o Ownership) Total() int {
	n := 0
	for _, q := range o {
		n += q
	}
	return n
}

// ParseOwnership builds an ownership table from an inventory file.
//
// Inventory templates and value reports are read by their set,
// collector_number, finish and quantity columns. Any other content goes
// through the card-list parsers, and only requests naming an exact printing
// count toward ownership.
func ParseOwnership(fileName string, content []byte) (Ownership, []core.Warning) {
	owned := Ownership{}

	if header, rows := readTable(content); header != nil &&
		header.Has("set") && header.Has("collector_number") && header.Has("quantity") {
		for _, row := range rows {
			qty, ok := ownedQuantity(header.Cell(row, "quantity"))
			if !ok {
				continue
			}
			finish := core.NormalizeFinish(header.Cell(row, "finish"))
			owned.Add(Key(header.Cell(row, "set"), header.Cell(row, "collector_number"), finish), qty)
		}
		return owned, nil
	}

	parsed := core.Parse(fileName, content)
	warnings := parsed.Warnings
	for _, req := range parsed.Requests {
		if !req.Exact() {
			warnings = append(warnings, core.Warning{
				FileName: fileName,
				Reason:   "ownership needs a set and collector number",
				Data:     req.String(),
			})
			continue
		}
		owned.Add(Key(req.SetCode, req.CollectorNumber, req.Finish), req.Quantity)
	}
	return owned, warnings
}

// BuylistRow is one printing/finish still needed.
type BuylistRow struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Rarity          string
	Finish          core.Finish
	Owned           int
	Needed          int
	UnitPrice       core.Price
}

// LineTotal is UnitPrice times Needed, null when the price is unknown.
func (r BuylistRow) LineTotal() core.Price {
	if !r.UnitPrice.Valid {
		return core.Price{}
	}
	return core.Price{Decimal: r.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(r.Needed))), Valid: true}
}

// Record renders the row in BuylistHeader order.
func (r BuylistRow) Record() []string {
	return []string{
		r.CardName, r.SetCode, r.CollectorNumber, orNA(r.Rarity), string(r.Finish),
		strconv.Itoa(r.Owned), strconv.Itoa(r.Needed),
		core.FormatPrice(r.UnitPrice), core.FormatPrice(r.LineTotal()),
	}
}

// BuylistResult is the outcome of a buylist run.
type BuylistResult struct {
	RunID           string
	Sets            []string
	Rows            []BuylistRow
	TotalCost       decimal.Decimal
	MissingByRarity map[string]int
	Owned           int
}

// Table renders the result for the report writers.
func (r *BuylistResult) Table() report.Table {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Record()
	}
	return report.Table{Name: "buylist", Header: BuylistHeader, Rows: rows}
}

// Missing returns the total number of copies still needed.
func (r *BuylistResult) Missing() int {
	n := 0
	for _, row := range r.Rows {
		n += row.Needed
	}
	return n
}

// Diff compares every printing/finish in printings against owned and lists
// what is still needed to hold TargetCopies of each. Unpriced rows count
// as zero toward TotalCost. Rows are ordered by set, numeric collector
// number, then finish.
func Diff(printings []core.Printing, owned Ownership) *BuylistResult {
	res := &BuylistResult{
		TotalCost:       decimal.Zero,
		MissingByRarity: map[string]int{},
	}

	for _, p := range printings {
		for _, f := range p.Finishes {
			have := owned[Key(p.SetCode, p.CollectorNumber, f)]
			needed := TargetCopies - have
			if needed <= 0 {
				continue
			}

			row := BuylistRow{
				CardName:        p.Name,
				SetCode:         strings.ToUpper(p.SetCode),
				CollectorNumber: p.CollectorNumber,
				Rarity:          p.Rarity,
				Finish:          f,
				Owned:           have,
				Needed:          needed,
				UnitPrice:       p.PriceFor(f),
			}
			if total := row.LineTotal(); total.Valid {
				res.TotalCost = res.TotalCost.Add(total.Decimal)
			}
			res.MissingByRarity[orNA(p.Rarity)] += needed
			res.Rows = append(res.Rows, row)
		}
	}

	SortBuylist(res.Rows)
	return res
}

// SortBuylist orders rows by set code, numeric collector number (non-digits
// ignored), then finish name.
func SortBuylist(rows []BuylistRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.SetCode != b.SetCode {
			return a.SetCode < b.SetCode
		}
		na, nb := core.CollectorNumberValue(a.CollectorNumber), core.CollectorNumberValue(b.CollectorNumber)
		if na != nb {
			return na < nb
		}
		return a.Finish < b.Finish
	})
}
