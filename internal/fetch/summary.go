package fetch

import (
	"fmt"

	"github.com/dtnitsch/sbc-prices/internal/common"
	"github.com/dtnitsch/sbc-prices/internal/pipeline"
	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/jedib0t/go-pretty/v6/table"
)

func printSummary(res pipeline.Result) {
	fmt.Printf("Prices at %s\n", res.Snapshot.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	t := common.NewTable("Rating", "Price")
	for _, r := range models.Ratings {
		if coins, ok := res.Snapshot.Price(r).Get(); ok {
			t.AppendRow(table.Row{int(r), notify.FormatCoins(coins) + " coins"})
		} else {
			t.AppendRow(table.Row{int(r), "no data"})
		}
	}

	switch {
	case res.SaveErr != nil:
		t.AppendFooter(table.Row{"Saved", fmt.Sprintf("no (%v)", res.SaveErr)})
	case res.Saved > 0:
		t.AppendFooter(table.Row{"Saved", fmt.Sprintf("%d records", res.Saved)})
	}
	if res.Notified {
		t.AppendFooter(table.Row{"Notified", "yes"})
	}
	t.Render()
}
