// Package core provides the domain model for card-list pricing.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Finish is the physical treatment of a printing.
// The zero value means the list did not assert a finish.
type Finish string

const (
	FinishUnset   Finish = ""
	FinishNonfoil Finish = "nonfoil"
	FinishFoil    Finish = "foil"
	FinishEtched  Finish = "etched"
)

// Finishes lists the canonical finishes in catalog order.
var Finishes = []Finish{FinishNonfoil, FinishFoil, FinishEtched}

// OrDefault returns the finish, or nonfoil when unset.
func (f Finish) OrDefault() Finish {
	if f == FinishUnset {
		return FinishNonfoil
	}
	return f
}

// CardRequest is one line of intent from a list file.
type CardRequest struct {
	Name            string // Required, trimmed
	SetCode         string // Upper-cased, empty when absent
	CollectorNumber string // Preserved as given ("123a"), empty when absent
	Finish          Finish // FinishUnset when the list is silent
	Quantity        int    // Always >= 1
}

// Exact reports whether the request names a single printing.
// Exact requests are resolved by (set, number); everything else is a search.
func (r CardRequest) Exact() bool {
	return r.SetCode != "" && r.CollectorNumber != ""
}

// Price is a nullable decimal price. A zero Price with Valid=false means
// "unknown" and must never be treated as $0.00.
type Price = decimal.NullDecimal

// PrintingPrice is one finish's price for one physical printing.
type PrintingPrice struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Finish          Finish
	Price           Price
}

// Descriptor renders the printing as "SET #number (finish)".
func (p PrintingPrice) Descriptor() string {
	return fmt.Sprintf("%s #%s (%s)", p.SetCode, p.CollectorNumber, p.Finish)
}

// OwnershipKey identifies a printing/finish for ownership reconciliation.
// Name is deliberately excluded.
type OwnershipKey struct {
	SetCode         string
	CollectorNumber string
	Finish          Finish
}

// Printing is a catalog entry for one set/collector-number version of a card.
type Printing struct {
	Name            string
	SetCode         string
	CollectorNumber string
	Rarity          string
	Finishes        []Finish
	Prices          map[Finish]Price
}

// PriceFor returns the printing's price for a finish.
func (p Printing) PriceFor(f Finish) Price {
	if p.Prices == nil {
		return Price{}
	}
	return p.Prices[f]
}

// Catalog is the external card catalog consumed by the pricing engines.
// Not-found lookups return empty results, not errors.
type Catalog interface {
	SearchByName(ctx context.Context, name, setCode string) ([]Printing, error)
	GetByPrinting(ctx context.Context, setCode, collectorNumber string) (*Printing, error)
	AllPrintingsInSet(ctx context.Context, setCode string) ([]Printing, error)
}

// Warning describes a row or line that was skipped during parsing.
type Warning struct {
	FileName   string
	LineNumber int
	Reason     string
	Data       string
}

// ParseResult is the outcome of parsing one list file.
type ParseResult struct {
	Format   FormatInfo
	FileName string
	Requests []CardRequest
	Warnings []Warning
}

// TotalQuantity sums the quantity of every request.
func (r ParseResult) TotalQuantity() int {
	n := 0
	for _, req := range r.Requests {
		n += req.Quantity
	}
	return n
}
