package fetcher

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/sbc-prices/pkg/caching"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
)

// Cached serves a Source from the page cache while the entry is fresh.
type Cached struct {
	Source Source
	Cache  *caching.PageCache
	Key    string
	Log    *logger.Log
}

func (c Cached) FetchHTML(ctx context.Context) ([]byte, error) {
	if html, ok := c.Cache.Get(c.Key); ok {
		c.Log.WithComponent("fetcher").WithFields(logger.Fields{"url": c.Key}).Debug("page served from cache")
		return html, nil
	}
	html, err := c.Source.FetchHTML(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Put(c.Key, html); err != nil {
		c.Log.WithComponent("fetcher").WithError(err).Warn("failed to cache page")
	}
	return html, nil
}

// Document fetches from src and parses the result.
func Document(ctx context.Context, src Source) (*goquery.Document, error) {
	html, err := src.FetchHTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
