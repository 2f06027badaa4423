package fetcher

import (
	"fmt"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/caching"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
)

// NewSource builds the page source selected by cfg.Mode, wrapped in the page
// cache when a TTL is configured.
func NewSource(cfg models.FetchConfig, log *logger.Log) (Source, error) {
	opts := Options{
		BaseURL:         cfg.BaseURL,
		PageURL:         cfg.CheapestURL,
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout,
		FallbackTimeout: cfg.FallbackTimeout,
	}

	var src Source
	switch cfg.Mode {
	case "http", "":
		src = NewFetcher(opts, log)
	case "browser":
		src = NewBrowser(BrowserOptions{Options: opts, Bin: cfg.BrowserBin, SettleDelay: cfg.SettleDelay}, log)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", cfg.Mode)
	}

	if cfg.CacheTTL <= 0 {
		return src, nil
	}
	cache, err := caching.NewPageCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}
	return Cached{Source: src, Cache: cache, Key: cfg.CheapestURL, Log: log}, nil
}
