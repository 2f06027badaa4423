package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/sbc-prices/internal/common"
	"github.com/dtnitsch/sbc-prices/pkg/api"
	"github.com/urfave/cli/v2"
)

// ServeAction exposes the price history over HTTP until interrupted.
func ServeAction(c *cli.Context) error {
	cfg, log, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	store, err := common.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg.Server, store, log).Run(ctx); err != nil {
		return cli.Exit(err.Error(), common.ExitFailure)
	}
	return nil
}
