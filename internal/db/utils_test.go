package db

import (
	"testing"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLatestView(t *testing.T) {
	snap := models.NewSnapshot(time.Date(2025, 8, 9, 10, 11, 12, 0, time.UTC))
	snap.Prices[84] = models.Known(2100)

	view := latestView(snap)
	require.Equal(t, "2025-08-09T10:11:12Z", view.Timestamp)
	require.Len(t, view.Prices, len(models.Ratings))
	require.Nil(t, view.Prices[0].Price)
	require.Equal(t, int64(2100), *view.Prices[1].Price)

	out, err := yaml.Marshal(view)
	require.NoError(t, err)
	require.Contains(t, string(out), "rating: 84\n      price: 2100")
}
