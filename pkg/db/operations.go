package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
)

// DefaultHistoryLimit is used when a non-positive limit is requested.
const DefaultHistoryLimit = 10

var (
	ErrNoHistory      = errors.New("no price history stored")
	ErrEmptySnapshot  = errors.New("snapshot has no known prices")
	ErrStaleTimestamp = errors.New("snapshot timestamp is not after the latest stored run")
)

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// SaveSnapshot appends one history record per known rating price, all stamped
// with the snapshot timestamp, and returns how many were written. Unknown
// prices are skipped. The timestamp must be later than every stored run.
func (db *DB) SaveSnapshot(snap models.Snapshot) (int, error) {
	coins := snap.Coins()
	if len(coins) == 0 {
		return 0, ErrEmptySnapshot
	}
	ts := toNanos(snap.Timestamp)

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	var latest sql.NullInt64
	if err := tx.QueryRow("SELECT MAX(timestamp) FROM runs").Scan(&latest); err != nil {
		return 0, fmt.Errorf("failed to read latest run: %w", err)
	}
	if latest.Valid && ts <= latest.Int64 {
		return 0, fmt.Errorf("%w: %s <= %s", ErrStaleTimestamp,
			fromNanos(ts).Format(time.RFC3339Nano), fromNanos(latest.Int64).Format(time.RFC3339Nano))
	}

	result, err := tx.Exec("INSERT INTO runs (timestamp, rating_count) VALUES (?, ?)", ts, len(coins))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, rating := range snap.SortedRatings() {
		price, ok := coins[rating]
		if !ok {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO price_history (run_id, rating, timestamp, price)
			VALUES (?, ?, ?, ?)
		`, runID, int(rating), ts, price)
		if err != nil {
			return 0, fmt.Errorf("failed to insert price for rating %d: %w", rating, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return len(coins), nil
}

// LatestSnapshot returns every record sharing the most recent timestamp.
func (db *DB) LatestSnapshot() (models.Snapshot, error) {
	var latest sql.NullInt64
	if err := db.QueryRow("SELECT MAX(timestamp) FROM price_history").Scan(&latest); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read latest timestamp: %w", err)
	}
	if !latest.Valid {
		return models.Snapshot{}, ErrNoHistory
	}

	rows, err := db.Query(`
		SELECT rating, price FROM price_history
		WHERE timestamp = ?
		ORDER BY rating
	`, latest.Int64)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query latest prices: %w", err)
	}
	defer rows.Close()

	snap := models.NewSnapshot(fromNanos(latest.Int64))
	for rows.Next() {
		var rating int
		var price int64
		if err := rows.Scan(&rating, &price); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to scan price: %w", err)
		}
		snap.Prices[models.Rating(rating)] = models.Known(price)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to iterate prices: %w", err)
	}
	return snap, nil
}

// PriceHistory returns up to limit records for rating, newest first.
func (db *DB) PriceHistory(rating models.Rating, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.Query(`
		SELECT timestamp, price FROM price_history
		WHERE rating = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, int(rating), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var history []models.HistoryRecord
	for rows.Next() {
		var ts, price int64
		if err := rows.Scan(&ts, &price); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, models.HistoryRecord{
			Timestamp: fromNanos(ts),
			Rating:    rating,
			Price:     price,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return history, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.Query(`
		SELECT run_id, timestamp, rating_count FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var r models.Run
		var ts int64
		if err := rows.Scan(&r.RunID, &ts, &r.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Timestamp = fromNanos(ts)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
