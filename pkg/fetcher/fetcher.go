package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// Source returns the raw HTML of the cheapest-by-rating page.
type Source interface {
	FetchHTML(ctx context.Context) ([]byte, error)
}

// Options configures the HTTP fetcher.
type Options struct {
	BaseURL         string // visited first, best effort
	PageURL         string
	UserAgent       string
	Timeout         time.Duration
	FallbackTimeout time.Duration
}

// Fetcher loads pages over plain HTTP. Every navigation gets one retry with
// the shorter fallback timeout; there is no other retry policy.
type Fetcher struct {
	client *resty.Client
	opts   Options
	log    *logger.Entry
}

func NewFetcher(opts Options, log *logger.Log) *Fetcher {
	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Fetcher{
		client: client,
		opts:   opts,
		log:    log.WithComponent("fetcher"),
	}
}

// FetchHTML visits the base URL, then returns the body of the page URL.
func (f *Fetcher) FetchHTML(ctx context.Context) ([]byte, error) {
	if f.opts.BaseURL != "" {
		if _, err := f.Navigate(ctx, f.opts.BaseURL); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.log.WithError(err).WithFields(logger.Fields{"url": f.opts.BaseURL}).Warn("warm-up navigation failed, continuing")
		}
	}
	return f.Navigate(ctx, f.opts.PageURL)
}

// Navigate GETs url with the main timeout and, if that fails, once more with
// the fallback timeout.
func (f *Fetcher) Navigate(ctx context.Context, url string) ([]byte, error) {
	body, err := f.get(ctx, url, f.opts.Timeout)
	if err == nil {
		return body, nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, err
	}

	f.log.WithError(err).WithFields(logger.Fields{
		"url":     url,
		"timeout": f.opts.FallbackTimeout.String(),
	}).Warn("navigation failed, retrying with fallback timeout")

	body, err = f.get(ctx, url, f.opts.FallbackTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
