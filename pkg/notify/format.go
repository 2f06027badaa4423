package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dustin/go-humanize"
)

const (
	PricesTitle    = "FUTBIN - Prices updated"
	HeartbeatTitle = "Cron job executed"
	priceTags      = "soccer,soccer_ball"
	heartbeatTags  = "white_check_mark"
	timeLayout     = "2006-01-02 15:04:05 UTC"
)

// FormatCoins groups thousands with dots: 1234567 -> "1.234.567".
func FormatCoins(coins int64) string {
	return strings.ReplaceAll(humanize.Comma(coins), ",", ".")
}

// FormatPrices renders one line per tracked rating, ascending, with N/A for
// unknown prices.
func FormatPrices(snap models.Snapshot) string {
	if snap.KnownCount() == 0 {
		return "Could not fetch prices"
	}

	var b strings.Builder
	b.WriteString("FUTBIN prices:\n\n")
	for _, r := range models.Ratings {
		if coins, ok := snap.Price(r).Get(); ok {
			fmt.Fprintf(&b, "Rating %d: %s coins\n", r, FormatCoins(coins))
		} else {
			fmt.Fprintf(&b, "Rating %d: N/A\n", r)
		}
	}
	return b.String()
}

// PriceMessage wraps FormatPrices with the run time.
func PriceMessage(snap models.Snapshot) Message {
	body := fmt.Sprintf("%s\n\n%s\nScraper finished", snap.Timestamp.UTC().Format(timeLayout), FormatPrices(snap))
	return Message{Title: PricesTitle, Body: body, Tags: priceTags}
}

// BuildInfo identifies the CI run behind a heartbeat.
type BuildInfo struct {
	Repository string
	Actor      string
	SHA        string
}

// BuildInfoFromEnv reads the GitHub Actions variables through getenv.
func BuildInfoFromEnv(getenv func(string) string) BuildInfo {
	or := func(key string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return "N/A"
	}
	info := BuildInfo{
		Repository: or("GITHUB_REPOSITORY"),
		Actor:      or("GITHUB_ACTOR"),
		SHA:        or("GITHUB_SHA"),
	}
	if len(info.SHA) > 8 {
		info.SHA = info.SHA[:8]
	}
	return info
}

// HeartbeatMessage confirms the scheduled job ran.
func HeartbeatMessage(now time.Time, info BuildInfo) Message {
	body := fmt.Sprintf("%s\nRepository: %s\nActor: %s\nCommit: %s\n\nThe cron job ran successfully",
		now.UTC().Format(timeLayout), info.Repository, info.Actor, info.SHA)
	return Message{Title: HeartbeatTitle, Body: body, Tags: heartbeatTags}
}
