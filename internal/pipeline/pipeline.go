// Package pipeline runs one scrape: fetch the page, read the price texts,
// derive one price per rating, persist, then notify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/fetcher"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/dtnitsch/sbc-prices/pkg/price"
	"github.com/dtnitsch/sbc-prices/pkg/storage"
	"github.com/google/uuid"
)

var (
	// ErrScrape marks failures that leave the run without prices.
	ErrScrape = errors.New("scrape failed")
	// ErrNotify marks a failed notification.
	ErrNotify = errors.New("notification failed")
	// ErrNoPrices means every rating came back unknown.
	ErrNoPrices = errors.New("no rating produced a price")
)

type Parser interface {
	PriceTexts(doc *goquery.Document) (map[models.Rating][]*string, error)
}

type Saver interface {
	SaveSnapshot(snap models.Snapshot) (int, error)
}

// Pipeline wires the collaborators of one run. Store, Notifier and Results
// are optional; a nil one skips its step.
type Pipeline struct {
	Source    fetcher.Source
	Parser    Parser
	Processor *price.Processor
	Store     Saver
	Notifier  notify.Notifier
	Results   *storage.ResultsFile
	Log       *logger.Log
	Now       func() time.Time
}

// Result reports what a run did. SaveErr is set when persistence failed; the
// run still counts as successful.
type Result struct {
	RunID    string
	Snapshot models.Snapshot
	Saved    int
	SaveErr  error
	Notified bool
}

// Run executes the steps in order. Scrape and notification failures are
// returned wrapped in ErrScrape and ErrNotify; persistence failures are logged.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := p.Log.WithComponent("pipeline").WithFields(logger.Fields{"run": res.RunID})
	start := time.Now()
	defer logger.LogDuration(log, "pipeline run", start)

	doc, err := fetcher.Document(ctx, p.Source)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrScrape, err)
	}
	texts, err := p.Parser.PriceTexts(doc)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrScrape, err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	res.Snapshot = p.Processor.Snapshot(now().UTC(), texts)
	if res.Snapshot.KnownCount() == 0 {
		return res, fmt.Errorf("%w: %w", ErrScrape, ErrNoPrices)
	}
	log.WithFields(logger.Fields{
		"known":   res.Snapshot.KnownCount(),
		"ratings": len(res.Snapshot.Prices),
	}).Info("prices calculated")

	if p.Results != nil {
		if err := p.Results.Save(res.Snapshot); err != nil {
			log.WithError(err).WithFields(logger.Fields{"path": p.Results.Path}).Warn("failed to write results file")
		}
	}

	if p.Store != nil {
		res.Saved, res.SaveErr = p.Store.SaveSnapshot(res.Snapshot)
		if res.SaveErr != nil {
			log.WithError(res.SaveErr).Warn("failed to save prices, continuing")
		} else {
			log.WithFields(logger.Fields{"records": res.Saved}).Info("prices saved")
		}
	}

	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, notify.PriceMessage(res.Snapshot)); err != nil {
			return res, fmt.Errorf("%w: %w", ErrNotify, err)
		}
		res.Notified = true
		log.Info("notification sent")
	}

	return res, nil
}
