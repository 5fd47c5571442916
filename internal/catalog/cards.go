package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// Compile-time check that Client satisfies the lookup contract.
var _ core.Catalog = (*Client)(nil)

// cardPrices holds the catalog's USD price strings; absent means unknown.
type cardPrices struct {
	USD       *string `json:"usd"`
	USDFoil   *string `json:"usd_foil"`
	USDEtched *string `json:"usd_etched"`
}

// cardObject is the subset of a catalog card used here.
type cardObject struct {
	Name            string     `json:"name"`
	Set             string     `json:"set"`
	CollectorNumber string     `json:"collector_number"`
	Rarity          string     `json:"rarity"`
	Finishes        []string   `json:"finishes"`
	Prices          cardPrices `json:"prices"`
}

// cardList is one page of a search.
type cardList struct {
	Data     []cardObject `json:"data"`
	HasMore  bool         `json:"has_more"`
	NextPage string       `json:"next_page"`
}

// toPrinting converts a catalog card into the domain Printing.
func (o cardObject) toPrinting() core.Printing {
	p := core.Printing{
		Name:            o.Name,
		SetCode:         strings.ToUpper(o.Set),
		CollectorNumber: o.CollectorNumber,
		Rarity:          o.Rarity,
		Prices: map[core.Finish]core.Price{
			core.FinishNonfoil: core.ParseCatalogPrice(o.Prices.USD),
			core.FinishFoil:    core.ParseCatalogPrice(o.Prices.USDFoil),
			core.FinishEtched:  core.ParseCatalogPrice(o.Prices.USDEtched),
		},
	}
	for _, f := range o.Finishes {
		switch nf := core.Finish(strings.ToLower(f)); nf {
		case core.FinishNonfoil, core.FinishFoil, core.FinishEtched:
			p.Finishes = append(p.Finishes, nf)
		}
	}
	return p
}

// searchQuery builds the exact-name query, optionally restricted to one set.
func searchQuery(name, setCode string) string {
	q := fmt.Sprintf("!%q", name)
	if setCode != "" {
		q += " set:" + strings.ToLower(setCode)
	}
	return q
}

// SearchByName returns every printing whose name matches exactly, oldest
// first. No match returns an empty slice and no error.
func (c *Client) SearchByName(ctx context.Context, name, setCode string) ([]core.Printing, error) {
	query := url.Values{}
	query.Set("q", searchQuery(name, setCode))
	query.Set("unique", "prints")
	query.Set("order", "released")

	printings, err := c.searchAll(ctx, "search", "/cards/search", query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}
	return printings, nil
}

// GetByPrinting fetches one printing. Returns nil, nil when it does not exist.
func (c *Client) GetByPrinting(ctx context.Context, setCode, number string) (*core.Printing, error) {
	path := fmt.Sprintf("/cards/%s/%s",
		url.PathEscape(strings.ToLower(setCode)),
		url.PathEscape(number),
	)

	var card cardObject
	if err := c.get(ctx, "printing", path, nil, &card); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s #%s: %w", setCode, number, err)
	}

	p := card.toPrinting()
	return &p, nil
}

// AllPrintingsInSet returns every printing in a set, following pagination.
func (c *Client) AllPrintingsInSet(ctx context.Context, setCode string) ([]core.Printing, error) {
	query := url.Values{}
	query.Set("q", "set:"+strings.ToLower(setCode))
	query.Set("unique", "prints")
	query.Set("order", "set")

	printings, err := c.searchAll(ctx, "set", "/cards/search", query)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", setCode, err)
	}
	return printings, nil
}

// searchAll walks every page of a search. A 404 on the first page is the
// catalog's way of saying nothing matched.
func (c *Client) searchAll(ctx context.Context, op, path string, query url.Values) ([]core.Printing, error) {
	var page cardList
	if err := c.get(ctx, op, path, query, &page); err != nil {
		if isNotFound(err) {
			return []core.Printing{}, nil
		}
		return nil, err
	}

	printings := make([]core.Printing, 0, len(page.Data))
	for pageNum := 1; ; pageNum++ {
		for _, card := range page.Data {
			printings = append(printings, card.toPrinting())
		}

		if !page.HasMore || page.NextPage == "" {
			break
		}

		c.logger.Debug("fetching next catalog page",
			"op", op,
			"page", pageNum+1,
			"fetched", len(printings),
		)

		next := page.NextPage
		page = cardList{}
		if err := c.getURL(ctx, op, next, &page); err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum+1, err)
		}
	}

	return printings, nil
}
