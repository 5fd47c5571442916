package pricing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/logging"
)

// Service runs pricing jobs against a catalog.
type Service struct {
	catalog core.Catalog
}

// NewService creates a new Service instance.
func NewService(cat core.Catalog) *Service {
	return &Service{catalog: cat}
}

// startRun assigns a run id and returns the derived context and logger.
func startRun(ctx context.Context, mode string, args ...any) (context.Context, string) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logging.WithFields(ctx, append([]any{"mode", mode}, args...)...).Info("run started")
	return ctx, runID
}

// NormalizeSets upper-cases set codes and drops blanks and duplicates.
func NormalizeSets(sets []string) []string {
	seen := make(map[string]bool, len(sets))
	var out []string
	for _, s := range sets {
		for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
			code := strings.ToUpper(part)
			if !seen[code] {
				seen[code] = true
				out = append(out, code)
			}
		}
	}
	return out
}

// PriceList parses a card list and prices every request in order. Requests
// without a set take setFilter when it is non-empty.
//
// Lookup failures on a single card are logged and reported as Not Found
// rows. Only cancellation of ctx stops the run early.
func (s *Service) PriceList(ctx context.Context, fileName string, content []byte, setFilter string) (*PriceListResult, error) {
	setFilter = strings.ToUpper(strings.TrimSpace(setFilter))
	ctx, runID := startRun(ctx, "price", "file", fileName, "set_filter", setFilter)
	logger := logging.FromContext(ctx)

	parsed := core.Parse(fileName, content)
	logger.Info("detected format", "format", parsed.Format.Label, "requests", len(parsed.Requests))
	logWarnings(ctx, parsed)

	if len(parsed.Requests) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, core.ErrNoCards)
	}

	res := &PriceListResult{
		RunID:    runID,
		Format:   parsed.Format,
		Warnings: parsed.Warnings,
		Rows:     make([]PriceRow, 0, len(parsed.Requests)),
	}

	total := len(parsed.Requests)
	for i, req := range parsed.Requests {
		if setFilter != "" && req.SetCode == "" {
			req.SetCode = setFilter
		}
		logger.Debug(fmt.Sprintf("processing %d/%d", i+1, total), "card", req.String())

		prices, err := Resolve(ctx, s.catalog, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("card lookup failed", "card", req.String(), "error", err)
			prices = nil
		}

		row := Summarize(req, prices)
		if len(prices) == 0 {
			res.NotFound++
		}
		res.TotalCards += row.Quantity
		res.Rows = append(res.Rows, row)
	}

	logger.Info("run finished", "rows", len(res.Rows), "cards", res.TotalCards, "not_found", res.NotFound)
	return res, nil
}

// Template fetches every printing of each set and lists one row per finish
// with its price filled in. A set that cannot be fetched is logged and
// skipped.
func (s *Service) Template(ctx context.Context, sets []string) (*TemplateResult, error) {
	sets = NormalizeSets(sets)
	if len(sets) == 0 {
		return nil, core.ErrNoSets
	}
	ctx, runID := startRun(ctx, "template", "sets", sets)
	logger := logging.FromContext(ctx)

	printings, err := s.fetchSets(ctx, sets)
	if err != nil {
		return nil, err
	}

	res := &TemplateResult{RunID: runID, Sets: sets, Rows: BuildTemplate(printings)}
	logger.Info("run finished", "printings", len(printings), "rows", len(res.Rows))
	return res, nil
}

// Value reads a filled-in template and totals it. It makes no catalog calls.
func (s *Service) Value(ctx context.Context, fileName string, content []byte) (*ValuationResult, error) {
	ctx, runID := startRun(ctx, "value", "file", fileName)
	logger := logging.FromContext(ctx)

	items := ParseInventory(content)
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, core.ErrNoInventoryRows)
	}

	res := Valuate(items)
	res.RunID = runID

	for _, row := range res.Rows {
		if row.Status == ValueInvalidPrice {
			logger.Warn("invalid unit price", "card", row.Item.CardName, "unit_price", row.Item.UnitPrice)
		}
	}
	logger.Info("run finished",
		"total_cards", res.TotalCards,
		"total_value", core.FormatUSD(res.TotalValue),
	)
	return res, nil
}

// Buylist lists every printing/finish in sets that owned does not cover.
func (s *Service) Buylist(ctx context.Context, sets []string, owned Ownership) (*BuylistResult, error) {
	sets = NormalizeSets(sets)
	if len(sets) == 0 {
		return nil, core.ErrNoSets
	}
	if owned == nil {
		owned = Ownership{}
	}
	ctx, runID := startRun(ctx, "buylist", "sets", sets, "owned", owned.Total())
	logger := logging.FromContext(ctx)

	printings, err := s.fetchSets(ctx, sets)
	if err != nil {
		return nil, err
	}

	res := Diff(printings, owned)
	res.RunID = runID
	res.Sets = sets
	res.Owned = owned.Total()

	logger.Info("run finished",
		"missing", res.Missing(),
		"total_cost", core.FormatUSD(res.TotalCost),
		"by_rarity", res.MissingByRarity,
	)
	return res, nil
}

// LoadOwnership reads an inventory file for Buylist. An empty path, or a
// file that is missing or unreadable, gives an empty table and a warning.
func LoadOwnership(ctx context.Context, path string) Ownership {
	logger := logging.FromContext(ctx)
	if path == "" {
		return Ownership{}
	}

	content, err := core.ReadInputFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("inventory file not found, assuming nothing owned", "path", path)
		} else {
			logger.Warn("inventory file unreadable, assuming nothing owned", "path", path, "error", err)
		}
		return Ownership{}
	}

	owned, warnings := ParseOwnership(path, content)
	for _, w := range warnings {
		logger.Warn("inventory row skipped", "line", w.LineNumber, "reason", w.Reason, "data", w.Data)
	}
	return owned
}

func (s *Service) fetchSets(ctx context.Context, sets []string) ([]core.Printing, error) {
	logger := logging.FromContext(ctx)

	var all []core.Printing
	for _, set := range sets {
		logger.Info("fetching set", "set", set)
		printings, err := s.catalog.AllPrintingsInSet(ctx, set)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("set fetch failed", "set", set, "error", err)
			continue
		}
		if len(printings) == 0 {
			logger.Warn("set has no printings", "set", set)
		}
		all = append(all, printings...)
	}
	return all, nil
}

func logWarnings(ctx context.Context, parsed core.ParseResult) {
	logger := logging.FromContext(ctx)
	for _, w := range parsed.Warnings {
		logger.Warn("row skipped",
			"format", parsed.Format.Key,
			"line", w.LineNumber,
			"reason", w.Reason,
			"data", w.Data,
		)
	}
}
