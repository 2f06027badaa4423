// Package api serves the stored price history over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/db"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
	"github.com/dtnitsch/sbc-prices/pkg/notify"
	"github.com/gin-gonic/gin"
)

// Reader is the read side of the price history.
type Reader interface {
	LatestSnapshot() (models.Snapshot, error)
	PriceHistory(rating models.Rating, limit int) ([]models.HistoryRecord, error)
}

type Server struct {
	cfg        models.ServerConfig
	store      Reader
	log        *logger.Entry
	httpServer *http.Server
}

func NewServer(cfg models.ServerConfig, store Reader, log *logger.Log) *Server {
	return &Server{cfg: cfg, store: store, log: log.WithComponent("api")}
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.WithFields(logger.Fields{"addr": s.cfg.Addr}).Info("api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Router builds the gin engine; exposed for tests.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/prices")
	api.GET("/latest", s.latest)
	api.GET("/:rating/history", s.history)
	return router
}

func (s *Server) latest(c *gin.Context) {
	snap, err := s.store.LatestSnapshot()
	if errors.Is(err, db.ErrNoHistory) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("failed to load latest snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load latest snapshot"})
		return
	}

	prices := make([]gin.H, 0, len(models.Ratings))
	for _, r := range models.Ratings {
		entry := gin.H{"rating": int(r), "price": nil, "formatted": "N/A"}
		if coins, ok := snap.Price(r).Get(); ok {
			entry["price"] = coins
			entry["formatted"] = notify.FormatCoins(coins)
		}
		prices = append(prices, entry)
	}
	c.JSON(http.StatusOK, gin.H{
		"timestamp": snap.Timestamp.Format(time.RFC3339Nano),
		"prices":    prices,
	})
}

func (s *Server) history(c *gin.Context) {
	rating, err := models.ParseRating(c.Param("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := db.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
	}

	records, err := s.store.PriceHistory(rating, limit)
	if err != nil {
		s.log.WithError(err).WithFields(logger.Fields{"rating": int(rating)}).Error("failed to load price history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load price history"})
		return
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"rating": int(rating), "records": records})
}
