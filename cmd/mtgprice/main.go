// Command mtgprice prices Magic: The Gathering card lists against the
// Scryfall catalog, builds set inventory templates, values filled templates
// and lists the cards still missing from a set. "serve" exposes the same
// runs over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/JonMunkholm/mtgprice/internal/config"
	"github.com/JonMunkholm/mtgprice/internal/core"
	_ "github.com/JonMunkholm/mtgprice/internal/core/formats" // Register all list grammars
	"github.com/JonMunkholm/mtgprice/internal/logging"
)

func main() {
	// Overload so a project .env wins over a stale shell export.
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.Debug("run failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", errorLine(err))
		os.Exit(1)
	}
}

// newApp builds the command tree. The loaded *config.Config is stored in
// App.Metadata by Before.
func newApp() *cli.App {
	return &cli.App{
		Name:  "mtgprice",
		Usage: "price Magic: The Gathering card lists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{config.FileEnv},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if c.Bool("verbose") {
				level = "debug"
			}
			logging.Setup(c.App.ErrWriter, level, cfg.Logging.Format)
			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata["config"] = cfg
			return nil
		},
		Commands: []*cli.Command{
			priceCommand(),
			templateCommand(),
			valueCommand(),
			buylistCommand(),
			formatsCommand(),
			serveCommand(),
		},
	}
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

// errorLine prefers the mapped user message and falls back to the raw
// error for anything unmapped, such as a config validation failure.
func errorLine(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
