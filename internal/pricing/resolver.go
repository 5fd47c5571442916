package pricing

import (
	"context"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// exactFallback is the finish order tried when an exact-printing request
// does not name a finish.
var exactFallback = []core.Finish{core.FinishNonfoil, core.FinishFoil, core.FinishEtched}

// Resolve looks up req and returns the priced printings that apply to it.
//
// Exact requests (set and number present) fetch one printing and return at
// most one entry. When no finish is requested the first priced finish in
// nonfoil, foil, etched order is used and the entry is labeled with it.
//
// Search requests return one entry per priced finish per printing, filtered
// to the requested finish, or to nonfoil when none was requested.
//
// An empty result means the catalog had nothing for the request.
func Resolve(ctx context.Context, cat core.Catalog, req core.CardRequest) ([]core.PrintingPrice, error) {
	if req.Exact() {
		return resolveExact(ctx, cat, req)
	}
	return resolveSearch(ctx, cat, req)
}

func resolveExact(ctx context.Context, cat core.Catalog, req core.CardRequest) ([]core.PrintingPrice, error) {
	p, err := cat.GetByPrinting(ctx, req.SetCode, req.CollectorNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []core.PrintingPrice{}, nil
	}

	finish, price := exactPrice(*p, req.Finish)
	return []core.PrintingPrice{priced(*p, finish, price)}, nil
}

// exactPrice picks the finish and price for an exact-printing request.
// A printing with no price at all is labeled nonfoil with a null price.
func exactPrice(p core.Printing, want core.Finish) (core.Finish, core.Price) {
	if want != core.FinishUnset {
		return want, p.PriceFor(want)
	}
	for _, f := range exactFallback {
		if price := p.PriceFor(f); price.Valid {
			return f, price
		}
	}
	return core.FinishNonfoil, core.Price{}
}

func resolveSearch(ctx context.Context, cat core.Catalog, req core.CardRequest) ([]core.PrintingPrice, error) {
	printings, err := cat.SearchByName(ctx, req.Name, req.SetCode)
	if err != nil {
		return nil, err
	}

	want := req.Finish.OrDefault()
	out := make([]core.PrintingPrice, 0, len(printings))
	for _, p := range printings {
		if price := p.PriceFor(want); price.Valid {
			out = append(out, priced(p, want, price))
		}
	}
	return out, nil
}

func priced(p core.Printing, f core.Finish, price core.Price) core.PrintingPrice {
	return core.PrintingPrice{
		CardName:        p.Name,
		SetCode:         p.SetCode,
		CollectorNumber: p.CollectorNumber,
		Finish:          f,
		Price:           price,
	}
}
