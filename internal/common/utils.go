// Package common holds the setup shared by every command: config, logger and
// the history store, plus output helpers.
package common

import (
	"fmt"
	"os"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/history"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Exit codes: 1 for a failed run, 2 for bad setup.
const (
	ExitFailure = 1
	ExitSetup   = 2
)

// LoadRuntime reads the config named by --config, applies --db and builds
// the logger. --quiet limits logging to errors.
func LoadRuntime(c *cli.Context) (*models.Config, *logger.Log, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("failed to load config: %v", err), ExitSetup)
	}
	if path := c.String("db"); path != "" {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.Path = path
	}

	log := logger.New()
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("failed to configure logger: %v", err), ExitSetup)
	}
	if c.Bool("quiet") {
		log.SetLevel(logrus.ErrorLevel)
	}
	return cfg, log, nil
}

// OpenStore opens the configured history backend.
func OpenStore(cfg *models.Config) (history.Store, error) {
	store, err := history.Open(cfg.Storage)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to open database: %v", err), ExitSetup)
	}
	return store, nil
}

// RatingArg parses the first positional argument as a rating.
func RatingArg(c *cli.Context) (models.Rating, error) {
	if c.NArg() == 0 {
		return 0, cli.Exit(fmt.Sprintf("missing rating argument (%d-%d)", models.MinRating, models.MaxRating), ExitSetup)
	}
	r, err := models.ParseRating(c.Args().First())
	if err != nil {
		return 0, cli.Exit(err.Error(), ExitSetup)
	}
	return r, nil
}

// PrintYAML writes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// NewTable returns a table writer that renders to stdout.
func NewTable(header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row(header))
	t.SetStyle(table.StyleRounded)
	return t
}
