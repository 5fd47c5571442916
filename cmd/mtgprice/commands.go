package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/mtgprice/internal/catalog"
	"github.com/JonMunkholm/mtgprice/internal/config"
	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/pricing"
	"github.com/JonMunkholm/mtgprice/internal/report"
	"github.com/JonMunkholm/mtgprice/internal/web"
)

// Flags are built per command so no two commands share flag state.

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "card list or filled template (.txt, .csv or .xlsx)",
		Required: true,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "report path; .xlsx writes a workbook, empty writes CSV to stdout",
	}
}

func setsFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "sets",
		Aliases:  []string{"s"},
		Usage:    "set codes, comma separated or repeated (e.g. --sets MH3,LCI)",
		Required: true,
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "price every card in a list",
		Flags: []cli.Flag{
			inputFlag(),
			outputFlag(),
			&cli.StringFlag{Name: "set", Usage: "set code for cards that do not name one"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			path := c.String("input")

			content, err := core.ReadInputFile(path)
			if err != nil {
				return err
			}

			svc := pricing.NewService(newCatalog(cfg, nil))
			res, err := svc.PriceList(c.Context, path, content, c.String("set"))
			if err != nil {
				return err
			}

			if err := writeTable(c, cfg, res.Table()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "Priced %d cards (%d rows, %s format, %d not found)\n",
				res.TotalCards, len(res.Rows), res.Format.Label, res.NotFound)
			return nil
		},
	}
}

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "list every printing of the given sets with current prices",
		Flags: []cli.Flag{setsFlag(), outputFlag()},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)

			svc := pricing.NewService(newCatalog(cfg, nil))
			res, err := svc.Template(c.Context, c.StringSlice("sets"))
			if err != nil {
				return err
			}

			if err := writeTable(c, cfg, res.Table()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "Wrote %d template rows for %v\n", len(res.Rows), res.Sets)
			return nil
		},
	}
}

func valueCommand() *cli.Command {
	return &cli.Command{
		Name:  "value",
		Usage: "total a filled-in inventory template",
		Flags: []cli.Flag{inputFlag(), outputFlag()},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			path := c.String("input")

			content, err := core.ReadInputFile(path)
			if err != nil {
				return err
			}

			// Valuation reads prices from the template itself.
			svc := pricing.NewService(nil)
			res, err := svc.Value(c.Context, path, content)
			if err != nil {
				return err
			}

			if err := writeTable(c, cfg, res.Table()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "Total cards: %d\nTotal value: %s\n",
				res.TotalCards, core.FormatUSD(res.TotalValue))
			return nil
		},
	}
}

func buylistCommand() *cli.Command {
	return &cli.Command{
		Name:  "buylist",
		Usage: "list the printings of the given sets not yet owned",
		Flags: []cli.Flag{
			setsFlag(),
			outputFlag(),
			&cli.StringFlag{
				Name:  "inventory",
				Usage: "owned cards: a filled template, value report or any card list",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)

			owned := pricing.LoadOwnership(c.Context, c.String("inventory"))

			svc := pricing.NewService(newCatalog(cfg, nil))
			res, err := svc.Buylist(c.Context, c.StringSlice("sets"), owned)
			if err != nil {
				return err
			}

			if err := writeTable(c, cfg, res.Table()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "Missing %d cards, total cost %s\n",
				res.Missing(), core.FormatUSD(res.TotalCost))
			writeRarityCounts(c.App.ErrWriter, res.MissingByRarity)
			return nil
		},
	}
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "list the card list formats in detection order",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRIORITY\tKEY\tLABEL")
			for _, def := range core.All() {
				f := def.Info
				label := f.Label
				if f.Fallback {
					label += " (fallback)"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Priority, f.Key, label)
			}
			return tw.Flush()
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the pricing runs over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default from SERVER_HOST and SERVER_PORT)"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			addr := c.String("addr")
			if addr == "" {
				addr = cfg.Server.Addr()
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			svc := pricing.NewService(newCatalog(cfg, reg))
			server := web.NewServer(svc, cfg, reg)

			slog.Info("configuration loaded",
				"addr", addr,
				"catalog", cfg.Catalog.BaseURL,
				"max_concurrent_runs", cfg.Server.MaxConcurrentRuns,
				"rate_limit_enabled", cfg.Rate.Enabled,
				"formats", core.FormatCount(),
			)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-c.Context.Done():
			}

			slog.Info("shutting down...", "active_runs", server.Jobs().Active())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			slog.Info("server stopped")
			return nil
		},
	}
}

// writeRarityCounts prints every non-zero rarity count, sorted by rarity.
func writeRarityCounts(w io.Writer, counts map[string]int) {
	rarities := make([]string, 0, len(counts))
	for rarity, n := range counts {
		if n > 0 {
			rarities = append(rarities, rarity)
		}
	}
	sort.Strings(rarities)
	for _, rarity := range rarities {
		fmt.Fprintf(w, "  %s: %d\n", rarity, counts[rarity])
	}
}

// newCatalog builds the catalog client from config. reg may be nil.
func newCatalog(cfg *config.Config, reg prometheus.Registerer) *catalog.Client {
	opts := []catalog.ClientOption{
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithRetries(cfg.Catalog.MaxRetries, cfg.Catalog.RetryBackoff),
		catalog.WithMinDelay(cfg.Catalog.MinDelay),
		catalog.WithUserAgent(cfg.Catalog.UserAgent),
		catalog.WithLogger(slog.Default()),
	}
	if reg != nil {
		opts = append(opts, catalog.WithMetrics(reg))
	}
	return catalog.NewClient(cfg.Catalog.BaseURL, opts...)
}

// writeTable writes t to --output, or as CSV to stdout when no path is given.
func writeTable(c *cli.Context, cfg *config.Config, t report.Table) error {
	path := c.String("output")
	def := report.ParseFormat(cfg.Output.Format)

	start := time.Now()
	if path == "" {
		if err := report.WriteCSV(c.App.Writer, t); err != nil {
			return fmt.Errorf("%w: stdout: %w", core.ErrUnwritableOutput, err)
		}
		return nil
	}
	if err := report.WriteFile(path, def, t); err != nil {
		return err
	}
	slog.Info("report written", "path", path, "rows", len(t.Rows), "duration_ms", time.Since(start).Milliseconds())
	return nil
}
