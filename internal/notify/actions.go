package notify

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/sbc-prices/internal/common"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
	notifypkg "github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/dtnitsch/sbc-prices/pkg/storage"
	"github.com/urfave/cli/v2"
)

// NotifyAction re-sends the prices left in the results file by the last
// scrape. A missing file is not an error.
func NotifyAction(c *cli.Context) error {
	cfg, log, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	entry := log.WithComponent("notify")

	results := storage.ResultsFile{Path: c.String("results-file")}
	snap, err := results.Load()
	if errors.Is(err, storage.ErrNoResults) {
		entry.WithFields(logger.Fields{"path": results.Path}).Warn("results file not found, run scrape with --results-file first")
		return nil
	}
	if err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	if stats, err := results.Stats(); err == nil {
		entry.WithFields(logger.Fields{
			"path": results.Path,
			"age":  time.Since(stats.ModTime).Round(time.Second).String(),
		}).Debug("results file loaded")
	}

	notifier, err := notifypkg.New(cfg.Notify, log)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitSetup)
	}
	if err := notifier.Notify(c.Context, notifypkg.PriceMessage(snap)); err != nil {
		return cli.Exit(fmt.Sprintf("failed to send notification: %v", err), common.ExitFailure)
	}
	entry.Info("notification sent")
	return nil
}

// PingAction sends the scheduled-job heartbeat.
func PingAction(c *cli.Context) error {
	cfg, log, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	notifier, err := notifypkg.New(cfg.Notify, log)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitSetup)
	}

	msg := notifypkg.HeartbeatMessage(time.Now(), notifypkg.BuildInfoFromEnv(os.Getenv))
	if err := notifier.Notify(c.Context, msg); err != nil {
		return cli.Exit(fmt.Sprintf("failed to send heartbeat: %v", err), common.ExitFailure)
	}
	log.WithComponent("notify").Info("heartbeat sent")
	return nil
}
