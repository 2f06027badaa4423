package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/sbc-prices/internal/common"
	"github.com/dtnitsch/sbc-prices/internal/pipeline"
	"github.com/dtnitsch/sbc-prices/pkg/fetcher"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/dtnitsch/sbc-prices/pkg/parser"
	"github.com/dtnitsch/sbc-prices/pkg/price"
	"github.com/dtnitsch/sbc-prices/pkg/storage"
	"github.com/urfave/cli/v2"
)

// ScrapeAction runs the pipeline once, or on a ticker with --every.
func ScrapeAction(c *cli.Context) error {
	cfg, log, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	src, err := fetcher.NewSource(cfg.Fetch, log)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to set up fetcher: %v", err), common.ExitSetup)
	}

	p := &pipeline.Pipeline{
		Source:    src,
		Parser:    parser.NewParser(log),
		Processor: price.NewProcessor(logger.NewPriceObserver(log)),
		Log:       log,
	}

	if !c.Bool("no-save") {
		store, err := common.OpenStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		p.Store = store
	}

	if !c.Bool("no-notify") {
		notifier, err := notify.New(cfg.Notify, log)
		if err != nil {
			return cli.Exit(fmt.Sprintf("%v (set NTFY_TOPIC or SMTP settings, or pass --no-notify)", err), common.ExitSetup)
		}
		p.Notifier = notifier
	}

	if path := c.String("results-file"); path != "" {
		p.Results = &storage.ResultsFile{Path: path}
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	every := c.Duration("every")
	if every <= 0 {
		return runOnce(ctx, p, c.Bool("quiet"))
	}
	return runEvery(ctx, p, every, log, c.Bool("quiet"))
}

func runOnce(ctx context.Context, p *pipeline.Pipeline, quiet bool) error {
	res, err := p.Run(ctx)
	if !quiet && len(res.Snapshot.Prices) > 0 {
		printSummary(res)
	}
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	return nil
}

// runEvery runs the pipeline immediately and then once per interval until the
// context is cancelled. Failed runs are logged and do not stop the loop.
func runEvery(ctx context.Context, p *pipeline.Pipeline, every time.Duration, log *logger.Log, quiet bool) error {
	entry := log.WithComponent("scheduler").WithFields(logger.Fields{"every": every.String()})
	entry.Info("scheduled scraping started")

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		res, err := p.Run(ctx)
		switch {
		case errors.Is(err, context.Canceled):
		case err != nil:
			entry.WithError(err).Error("scheduled run failed")
		case !quiet:
			printSummary(res)
		}

		select {
		case <-ctx.Done():
			entry.Info("scheduled scraping stopped")
			return nil
		case <-ticker.C:
		}
	}
}
