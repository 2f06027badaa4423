package db

import (
	"errors"
	"fmt"
	"os"

	"github.com/dtnitsch/sbc-prices/internal/common"
	"github.com/dtnitsch/sbc-prices/models"
	dbpkg "github.com/dtnitsch/sbc-prices/pkg/db"
	"github.com/dtnitsch/sbc-prices/pkg/export"
	"github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// LatestAction prints the most recent snapshot.
func LatestAction(c *cli.Context) error {
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	store, err := common.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.LatestSnapshot()
	if errors.Is(err, dbpkg.ErrNoHistory) {
		fmt.Println("No prices stored yet")
		fmt.Printf("\nTip: Run 'sbc-prices scrape' first\n")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load latest prices: %w", err)
	}

	if isYAML(c) {
		return common.PrintYAML(latestView(snap))
	}

	fmt.Printf("Latest prices (%s)\n", snap.Timestamp.Format("2006-01-02 15:04:05 UTC"))
	t := common.NewTable("Rating", "Price")
	for _, r := range models.Ratings {
		if coins, ok := snap.Price(r).Get(); ok {
			t.AppendRow(table.Row{int(r), notify.FormatCoins(coins)})
		} else {
			t.AppendRow(table.Row{int(r), "N/A"})
		}
	}
	t.Render()
	return nil
}

// HistoryAction prints or exports the stored prices of one rating.
func HistoryAction(c *cli.Context) error {
	rating, err := common.RatingArg(c)
	if err != nil {
		return err
	}
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	store, err := common.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.PriceHistory(rating, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to load price history: %w", err)
	}

	if path := c.String("export"); path != "" {
		return exportHistory(path, records)
	}

	if len(records) == 0 {
		fmt.Printf("No history for rating %d\n", rating)
		return nil
	}

	if isYAML(c) {
		return common.PrintYAML(records)
	}

	t := common.NewTable("Timestamp", "Rating", "Price")
	for _, rec := range records {
		t.AppendRow(table.Row{rec.Timestamp.Format("2006-01-02 15:04:05"), int(rec.Rating), notify.FormatCoins(rec.Price)})
	}
	t.Render()
	fmt.Printf("\nTotal: %d records\n", len(records))
	return nil
}

// RunsAction lists recent runs.
func RunsAction(c *cli.Context) error {
	cfg, _, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	store, err := common.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	if isYAML(c) {
		return common.PrintYAML(runs)
	}

	t := common.NewTable("ID", "Timestamp", "Ratings")
	for _, r := range runs {
		t.AppendRow(table.Row{r.RunID, r.Timestamp.Format("2006-01-02 15:04:05"), r.RatingCount})
	}
	t.Render()
	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'sbc-prices history <rating>' to see prices over time\n")
	return nil
}

func exportHistory(path string, records []models.HistoryRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteHistory(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	fmt.Printf("Exported %d records to %s\n", len(records), path)
	return nil
}
