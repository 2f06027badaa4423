package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Rating identifies a tier of player item on the cheapest-by-rating page.
type Rating int

const (
	MinRating Rating = 83
	MaxRating Rating = 90

	// MaxSampleSize caps how many price wrappers are read per rating block.
	MaxSampleSize = 5
)

// Ratings lists every tracked rating in ascending order.
var Ratings = []Rating{83, 84, 85, 86, 87, 88, 89, 90}

// Valid reports whether r is one of the tracked ratings.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// ParseRating parses a CLI or URL argument into a tracked rating.
func ParseRating(s string) (Rating, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q: %w", s, err)
	}
	r := Rating(n)
	if !r.Valid() {
		return 0, fmt.Errorf("rating %d out of range %d-%d", n, MinRating, MaxRating)
	}
	return r, nil
}

// PriceValue is a coin amount that may be unknown. The zero value is unknown,
// so callers must go through Get to read the amount.
type PriceValue struct {
	coins int64
	known bool
}

// Known wraps a coin amount.
func Known(coins int64) PriceValue {
	return PriceValue{coins: coins, known: true}
}

// Unknown is the absent price.
func Unknown() PriceValue {
	return PriceValue{}
}

// Get returns the coin amount and whether it is known.
func (p PriceValue) Get() (int64, bool) {
	return p.coins, p.known
}

func (p PriceValue) IsKnown() bool {
	return p.known
}

func (p PriceValue) String() string {
	if !p.known {
		return "unknown"
	}
	return strconv.FormatInt(p.coins, 10)
}

// RatingSample holds the extracted prices of one rating block in page order.
type RatingSample []PriceValue

// At returns the value at position i, treating out-of-range positions as unknown.
func (s RatingSample) At(i int) PriceValue {
	if i < 0 || i >= len(s) {
		return Unknown()
	}
	return s[i]
}

// Snapshot is the result of one run: one price per rating, all stamped with
// the same time.
type Snapshot struct {
	Timestamp time.Time
	Prices    map[Rating]PriceValue
}

// NewSnapshot returns an empty snapshot stamped at ts.
func NewSnapshot(ts time.Time) Snapshot {
	return Snapshot{Timestamp: ts, Prices: make(map[Rating]PriceValue, len(Ratings))}
}

// Price returns the price for r, unknown when the rating is missing.
func (s Snapshot) Price(r Rating) PriceValue {
	return s.Prices[r]
}

// KnownCount returns how many ratings have a known price.
func (s Snapshot) KnownCount() int {
	n := 0
	for _, p := range s.Prices {
		if p.IsKnown() {
			n++
		}
	}
	return n
}

// Coins flattens the snapshot into rating -> coins, dropping unknown entries.
func (s Snapshot) Coins() map[Rating]int64 {
	out := make(map[Rating]int64, len(s.Prices))
	for r, p := range s.Prices {
		if coins, ok := p.Get(); ok {
			out[r] = coins
		}
	}
	return out
}

// SortedRatings returns the ratings present in the snapshot, ascending.
func (s Snapshot) SortedRatings() []Rating {
	out := make([]Rating, 0, len(s.Prices))
	for r := range s.Prices {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HistoryRecord is one persisted (timestamp, rating, price) row.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Rating    Rating    `json:"rating" yaml:"rating"`
	Price     int64     `json:"price" yaml:"price"`
}

// Run summarises one persisted snapshot.
type Run struct {
	RunID       int64     `json:"run_id" yaml:"run_id"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	RatingCount int       `json:"rating_count" yaml:"rating_count"`
}
