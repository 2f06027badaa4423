// Package history picks the price history backend named in the config.
package history

import (
	"fmt"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/db"
	"github.com/dtnitsch/sbc-prices/pkg/db/gormstore"
)

// Store is the append-only price history.
type Store interface {
	SaveSnapshot(snap models.Snapshot) (int, error)
	LatestSnapshot() (models.Snapshot, error)
	PriceHistory(rating models.Rating, limit int) ([]models.HistoryRecord, error)
	ListRuns(limit int) ([]models.Run, error)
	Close() error
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*gormstore.Store)(nil)
)

// Open opens the configured backend.
func Open(cfg models.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		store, err := db.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mysql":
		store, err := gormstore.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
