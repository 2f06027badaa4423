// Package gormstore keeps price history in MySQL through GORM. It mirrors the
// SQLite store in pkg/db, including its sentinel errors.
package gormstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/db"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RunRow is one persisted snapshot.
type RunRow struct {
	RunID       int64     `gorm:"primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"uniqueIndex;not null;precision:6"`
	RatingCount int       `gorm:"not null"`
	CreatedAt   time.Time
}

func (RunRow) TableName() string { return "runs" }

// PriceRow is one (timestamp, rating, price) history record.
type PriceRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	RunID     int64     `gorm:"index;not null"`
	Rating    int       `gorm:"uniqueIndex:idx_ts_rating,priority:2;index:idx_rating_ts,priority:1;not null"`
	Timestamp time.Time `gorm:"uniqueIndex:idx_ts_rating,priority:1;index:idx_rating_ts,priority:2;not null;precision:6"`
	Price     int64     `gorm:"not null"`
}

func (PriceRow) TableName() string { return "price_history" }

type Store struct {
	db *gorm.DB
}

// Open connects to MySQL and migrates the history tables.
func Open(dsn string) (*Store, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return New(gdb)
}

// New wraps an existing GORM handle and migrates the history tables.
func New(gdb *gorm.DB) (*Store, error) {
	if err := gdb.AutoMigrate(&RunRow{}, &PriceRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history tables: %w", err)
	}
	return &Store{db: gdb}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSnapshot follows db.DB.SaveSnapshot: known prices only, one transaction,
// timestamps strictly after the latest run.
func (s *Store) SaveSnapshot(snap models.Snapshot) (int, error) {
	coins := snap.Coins()
	if len(coins) == 0 {
		return 0, db.ErrEmptySnapshot
	}
	ts := snap.Timestamp.UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var latest RunRow
		err := tx.Order("timestamp DESC").Take(&latest).Error
		switch {
		case err == nil:
			if !ts.After(latest.Timestamp) {
				return fmt.Errorf("%w: %s <= %s", db.ErrStaleTimestamp,
					ts.Format(time.RFC3339Nano), latest.Timestamp.Format(time.RFC3339Nano))
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to read latest run: %w", err)
		}

		run := RunRow{Timestamp: ts, RatingCount: len(coins)}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		rows := make([]PriceRow, 0, len(coins))
		for _, rating := range snap.SortedRatings() {
			if price, ok := coins[rating]; ok {
				rows = append(rows, PriceRow{RunID: run.RunID, Rating: int(rating), Timestamp: ts, Price: price})
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert prices: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(coins), nil
}

func (s *Store) LatestSnapshot() (models.Snapshot, error) {
	var newest PriceRow
	err := s.db.Order("timestamp DESC").Take(&newest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Snapshot{}, db.ErrNoHistory
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read latest timestamp: %w", err)
	}

	var rows []PriceRow
	if err := s.db.Where("timestamp = ?", newest.Timestamp).Order("rating").Find(&rows).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query latest prices: %w", err)
	}

	snap := models.NewSnapshot(newest.Timestamp.UTC())
	for _, row := range rows {
		snap.Prices[models.Rating(row.Rating)] = models.Known(row.Price)
	}
	return snap, nil
}

func (s *Store) PriceHistory(rating models.Rating, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 {
		limit = db.DefaultHistoryLimit
	}

	var rows []PriceRow
	err := s.db.Where("rating = ?", int(rating)).Order("timestamp DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}

	history := make([]models.HistoryRecord, len(rows))
	for i, row := range rows {
		history[i] = models.HistoryRecord{Timestamp: row.Timestamp.UTC(), Rating: rating, Price: row.Price}
	}
	return history, nil
}

func (s *Store) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = db.DefaultHistoryLimit
	}

	var rows []RunRow
	if err := s.db.Order("timestamp DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]models.Run, len(rows))
	for i, row := range rows {
		runs[i] = models.Run{RunID: row.RunID, Timestamp: row.Timestamp.UTC(), RatingCount: row.RatingCount}
	}
	return runs, nil
}
