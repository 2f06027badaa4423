package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/sbc-prices/internal/db"
	"github.com/dtnitsch/sbc-prices/internal/fetch"
	"github.com/dtnitsch/sbc-prices/internal/notify"
	"github.com/dtnitsch/sbc-prices/internal/serve"
	"github.com/dtnitsch/sbc-prices/pkg/help"
	"github.com/dtnitsch/sbc-prices/pkg/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "format", Usage: "output format: table or yaml", Value: "table"}
	}
	limitFlag := func() cli.Flag {
		return &cli.IntFlag{Name: "limit", Usage: "maximum rows to show", Value: 10}
	}
	resultsFlag := &cli.StringFlag{
		Name:  "results-file",
		Usage: "JSON file holding the last scraped prices",
	}

	return &cli.App{
		Name:  "sbc-prices",
		Usage: "Track the cheapest FUTBIN SBC player prices by rating",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Value:   "config.yaml",
				EnvVars: []string{"SBC_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (overrides storage settings)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors and skip the printed summary",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "scrape",
				Aliases: []string{"fetch"},
				Usage:   "Fetch the page, calculate prices, save them and notify",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "every",
						Usage: "keep running, one scrape per interval (e.g. 1h)",
					},
					&cli.BoolFlag{
						Name:  "no-save",
						Usage: "do not write to the database",
					},
					&cli.BoolFlag{
						Name:  "no-notify",
						Usage: "do not send notifications",
					},
					&cli.StringFlag{
						Name:  resultsFlag.Name,
						Usage: resultsFlag.Usage + " (written after each scrape)",
					},
				},
				Action: fetch.ScrapeAction,
			},
			{
				Name:   "latest",
				Usage:  "Show the most recent prices",
				Flags:  []cli.Flag{formatFlag()},
				Action: db.LatestAction,
			},
			{
				Name:      "history",
				Usage:     "Show stored prices for one rating, newest first",
				ArgsUsage: "<rating>",
				Flags: []cli.Flag{
					formatFlag(),
					limitFlag(),
					&cli.StringFlag{
						Name:  "export",
						Usage: "write the rows to an .xlsx file instead of printing",
					},
				},
				Action: db.HistoryAction,
			},
			{
				Name:   "runs",
				Usage:  "List recent scrape runs",
				Flags:  []cli.Flag{formatFlag(), limitFlag()},
				Action: db.RunsAction,
			},
			{
				Name:  "notify",
				Usage: "Send the prices from the results file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  resultsFlag.Name,
						Usage: resultsFlag.Usage,
						Value: storage.DefaultResultsFile,
					},
				},
				Action: notify.NotifyAction,
			},
			{
				Name:   "ping",
				Usage:  "Send the scheduled-job heartbeat notification",
				Action: notify.PingAction,
			},
			{
				Name:   "quickstart",
				Usage:  "Print example commands and a sample config",
				Action: quickstartAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the price history over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (overrides server.addr)",
					},
				},
				Action: serve.ServeAction,
			},
		},
	}
}

func quickstartAction(c *cli.Context) error {
	fmt.Print(help.QuickStartYAML)
	return nil
}
