package pricing

import (
	"context"
	"errors"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// fakeCatalog is an in-memory core.Catalog keyed the way the real
// catalog answers.
type fakeCatalog struct {
	byName map[string][]core.Printing
	bySet  map[string][]core.Printing
	fail   map[string]error

	calls []string
}

func newFakeCatalog(printings ...core.Printing) *fakeCatalog {
	f := &fakeCatalog{
		byName: map[string][]core.Printing{},
		bySet:  map[string][]core.Printing{},
		fail:   map[string]error{},
	}
	for _, p := range printings {
		f.byName[strings.ToLower(p.Name)] = append(f.byName[strings.ToLower(p.Name)], p)
		f.bySet[p.SetCode] = append(f.bySet[p.SetCode], p)
	}
	return f
}

func (f *fakeCatalog) SearchByName(_ context.Context, name, setCode string) ([]core.Printing, error) {
	f.calls = append(f.calls, "search:"+name+":"+setCode)
	if err := f.fail[name]; err != nil {
		return nil, err
	}
	var out []core.Printing
	for _, p := range f.byName[strings.ToLower(name)] {
		if setCode == "" || strings.EqualFold(p.SetCode, setCode) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetByPrinting(_ context.Context, setCode, number string) (*core.Printing, error) {
	f.calls = append(f.calls, "printing:"+setCode+":"+number)
	for _, p := range f.bySet[strings.ToUpper(setCode)] {
		if p.CollectorNumber == number {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) AllPrintingsInSet(_ context.Context, setCode string) ([]core.Printing, error) {
	f.calls = append(f.calls, "set:"+setCode)
	if err := f.fail[setCode]; err != nil {
		return nil, err
	}
	return f.bySet[setCode], nil
}

var errCatalogDown = errors.New("catalog api error 503: Service Unavailable")

// printing builds a catalog printing; prices maps finish to a decimal
// string and finishes defaults to the priced ones.
func printing(name, set, number, rarity string, prices map[core.Finish]string, finishes ...core.Finish) core.Printing {
	p := core.Printing{
		Name:            name,
		SetCode:         set,
		CollectorNumber: number,
		Rarity:          rarity,
		Prices:          map[core.Finish]core.Price{},
	}
	for _, f := range core.Finishes {
		if s, ok := prices[f]; ok {
			p.Prices[f] = core.NewPrice(s)
			if len(finishes) == 0 {
				p.Finishes = append(p.Finishes, f)
			}
		}
	}
	if len(finishes) > 0 {
		p.Finishes = finishes
	}
	return p
}
