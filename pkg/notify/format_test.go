package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/stretchr/testify/require"
)

func TestFormatCoins(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{15500, "15.500"},
		{1234567, "1.234.567"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatCoins(tt.in), "FormatCoins(%d)", tt.in)
	}
}

func TestFormatPrices(t *testing.T) {
	snap := models.NewSnapshot(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	snap.Prices[90] = models.Known(1234567)
	snap.Prices[83] = models.Known(1000)
	snap.Prices[85] = models.Unknown()

	got := FormatPrices(snap)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Equal(t, []string{
		"FUTBIN prices:",
		"",
		"Rating 83: 1.000 coins",
		"Rating 84: N/A",
		"Rating 85: N/A",
		"Rating 86: N/A",
		"Rating 87: N/A",
		"Rating 88: N/A",
		"Rating 89: N/A",
		"Rating 90: 1.234.567 coins",
	}, lines)
}

func TestFormatPrices_Empty(t *testing.T) {
	snap := models.NewSnapshot(time.Now())
	snap.Prices[83] = models.Unknown()
	require.Equal(t, "Could not fetch prices", FormatPrices(snap))
}

func TestPriceMessage(t *testing.T) {
	snap := models.NewSnapshot(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	snap.Prices[88] = models.Known(20000)

	msg := PriceMessage(snap)
	require.Equal(t, PricesTitle, msg.Title)
	require.Equal(t, "soccer,soccer_ball", msg.Tags)
	require.True(t, strings.HasPrefix(msg.Body, "2025-01-02 03:04:05 UTC"))
	require.Contains(t, msg.Body, "Rating 88: 20.000 coins")
}

func TestHeartbeatMessage(t *testing.T) {
	env := map[string]string{
		"GITHUB_REPOSITORY": "someone/sbc-prices",
		"GITHUB_SHA":        "0123456789abcdef",
	}
	info := BuildInfoFromEnv(func(k string) string { return env[k] })
	require.Equal(t, BuildInfo{Repository: "someone/sbc-prices", Actor: "N/A", SHA: "01234567"}, info)

	msg := HeartbeatMessage(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), info)
	require.Equal(t, HeartbeatTitle, msg.Title)
	require.Equal(t, "white_check_mark", msg.Tags)
	require.Contains(t, msg.Body, "Commit: 01234567")
	require.Contains(t, msg.Body, "Actor: N/A")
}
