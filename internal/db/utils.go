package db

import (
	"strings"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/urfave/cli/v2"
)

type latestPrice struct {
	Rating models.Rating `yaml:"rating"`
	Price  *int64        `yaml:"price"`
}

type latestOutput struct {
	Timestamp string        `yaml:"timestamp"`
	Prices    []latestPrice `yaml:"prices"`
}

func latestView(snap models.Snapshot) latestOutput {
	out := latestOutput{Timestamp: snap.Timestamp.Format("2006-01-02T15:04:05Z07:00")}
	for _, r := range models.Ratings {
		lp := latestPrice{Rating: r}
		if coins, ok := snap.Price(r).Get(); ok {
			lp.Price = &coins
		}
		out.Prices = append(out.Prices, lp)
	}
	return out
}

func isYAML(c *cli.Context) bool {
	return strings.ToLower(c.String("format")) == "yaml"
}
