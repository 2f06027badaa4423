// Package caching keeps fetched page HTML on disk for a short while so that
// repeated local runs do not hit the site.
package caching

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const pageExt = ".html"

// PageCache is a file-based HTML cache with a TTL. A zero TTL disables it.
type PageCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewPageCache creates dir if needed.
func NewPageCache(dir string, ttl time.Duration) (*PageCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &PageCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *PageCache) file(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+pageExt)
}

// Get returns the cached page for url if it is younger than the TTL.
func (c *PageCache) Get(url string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	path := c.file(url)
	info, err := os.Stat(path)
	if err != nil || c.expired(info) {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores html for url.
func (c *PageCache) Put(url string, html []byte) error {
	if c.ttl <= 0 {
		return nil
	}
	if err := os.WriteFile(c.file(url), html, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Purge removes expired pages and returns how many were deleted.
func (c *PageCache) Purge() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), pageExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !c.expired(info) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (c *PageCache) expired(info os.FileInfo) bool {
	return c.now().Sub(info.ModTime()) > c.ttl
}
