// Package storage reads and writes the results file a scrape leaves behind
// for the notify command.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
)

const DefaultResultsFile = "scraping_results.json"

// ErrNoResults means the results file does not exist yet.
var ErrNoResults = errors.New("results file not found")

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// results is the on-disk shape; unknown prices are null.
type results struct {
	Timestamp time.Time         `json:"timestamp"`
	Prices    map[string]*int64 `json:"prices"`
}

type ResultsFile struct {
	Path string
}

// Save writes snap, replacing any previous file.
func (f ResultsFile) Save(snap models.Snapshot) error {
	out := results{Timestamp: snap.Timestamp, Prices: make(map[string]*int64, len(snap.Prices))}
	for r, p := range snap.Prices {
		key := strconv.Itoa(int(r))
		if coins, ok := p.Get(); ok {
			out.Prices[key] = &coins
		} else {
			out.Prices[key] = nil
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".results-*.json")
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

// Load reads the snapshot back. Keys outside the tracked ratings are skipped.
func (f ResultsFile) Load() (models.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Snapshot{}, ErrNoResults
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("error reading file: %w", err)
	}

	var in results
	if err := json.Unmarshal(data, &in); err != nil {
		return models.Snapshot{}, fmt.Errorf("error decoding %s: %w", f.Path, err)
	}

	snap := models.NewSnapshot(in.Timestamp)
	for key, coins := range in.Prices {
		r, err := models.ParseRating(key)
		if err != nil {
			continue
		}
		if coins == nil {
			snap.Prices[r] = models.Unknown()
		} else {
			snap.Prices[r] = models.Known(*coins)
		}
	}
	return snap, nil
}

// Stats returns metadata about the file using os.Stat.
func (f ResultsFile) Stats() (*FileStats, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}
	return &FileStats{SizeBytes: info.Size(), ModTime: info.ModTime()}, nil
}
