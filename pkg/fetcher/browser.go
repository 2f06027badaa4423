package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserOptions configures the headless Chromium source.
type BrowserOptions struct {
	Options
	Bin         string        // empty: let rod find or download Chromium
	SettleDelay time.Duration // wait after load for client-side rendering
}

// Browser renders the page in headless Chromium, for when the prices are
// filled in by JavaScript.
type Browser struct {
	opts BrowserOptions
	log  *logger.Entry
}

func NewBrowser(opts BrowserOptions, log *logger.Log) *Browser {
	return &Browser{opts: opts, log: log.WithComponent("browser")}
}

func (b *Browser) FetchHTML(ctx context.Context) ([]byte, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Set(flags.Flag("disable-dev-shm-usage")).
		Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	if b.opts.Bin != "" {
		l = l.Bin(b.opts.Bin)
	}
	defer l.Cleanup()

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.opts.UserAgent}); err != nil {
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080, DeviceScaleFactor: 1}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if b.opts.BaseURL != "" {
		if err := b.navigate(ctx, page, b.opts.BaseURL); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.log.WithError(err).WithFields(logger.Fields{"url": b.opts.BaseURL}).Warn("warm-up navigation failed, continuing")
		}
	}
	if err := b.navigate(ctx, page, b.opts.PageURL); err != nil {
		return nil, err
	}

	if err := sleep(ctx, b.opts.SettleDelay); err != nil {
		return nil, err
	}

	title := ""
	if info, err := page.Info(); err == nil {
		title = info.Title
	}
	b.log.WithFields(logger.Fields{"url": b.opts.PageURL, "title": title}).Info("page rendered")

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}
	return []byte(html), nil
}

// navigate loads url with the main timeout, then once more with the fallback.
func (b *Browser) navigate(ctx context.Context, page *rod.Page, url string) error {
	err := load(page.Context(ctx).Timeout(b.opts.Timeout), url)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	b.log.WithError(err).WithFields(logger.Fields{
		"url":     url,
		"timeout": b.opts.FallbackTimeout.String(),
	}).Warn("navigation failed, retrying with fallback timeout")

	if err := load(page.Context(ctx).Timeout(b.opts.FallbackTimeout), url); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

func load(page *rod.Page, url string) error {
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
