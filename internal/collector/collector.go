// Package collector populates the historical occupancy repository from
// periodic live-feed snapshots.
package collector

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parking-status-backend/config"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/service"
	"parking-status-backend/internal/store"
	"parking-status-backend/internal/timegrid"
)

// Collector folds live availability observations into the weekly
// occupancy grid and writes them through the persistent repository.
type Collector struct {
	cfg     *config.CollectorConfig
	fetcher service.ParkingFetcher
	repo    *store.ParkingDataRepository
	bucket  int
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a collector. bucketMinutes must match the grid resolution
// the stats engine queries with.
func New(cfg *config.CollectorConfig, fetcher service.ParkingFetcher,
	repo *store.ParkingDataRepository, bucketMinutes int, logger *zap.Logger) *Collector {
	return &Collector{
		cfg:     cfg,
		fetcher: fetcher,
		repo:    repo,
		bucket:  bucketMinutes,
		logger:  logger,
		now:     time.Now,
	}
}

// Run starts the collection loop: one immediate cycle, then one per
// configured interval until the context is cancelled.
func (c *Collector) Run(ctx context.Context) {
	if !c.cfg.Enabled {
		c.logger.Info("collector is disabled, not starting")
		return
	}
	c.logger.Info("starting occupancy collector",
		zap.Duration("interval", c.cfg.Interval))

	c.CollectOnce(ctx)

	timer := time.NewTimer(c.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("occupancy collector shutting down")
			return
		case <-timer.C:
			c.CollectOnce(ctx)
			timer.Reset(c.cfg.Interval)
		}
	}
}

// CollectOnce performs a single collection cycle: fetch the live
// snapshot list, round the observation time onto the grid, and fold each
// facility's availability into its bucket.
func (c *Collector) CollectOnce(ctx context.Context) {
	parkings, err := c.fetcher.FetchParkings(ctx)
	if err != nil {
		c.logger.Error("collection cycle aborted, fetch failed", zap.Error(err))
		return
	}

	slot := timegrid.RoundTimestamp(c.now(), c.bucket)
	day, tm := slot.Weekday(), model.ClockTimeOf(slot)

	updated := 0
	for _, p := range parkings {
		if p.TotalSpots <= 0 {
			c.logger.Warn("skipping facility with no capacity", zap.Int("id", p.ParkingID))
			continue
		}

		// The fold runs under the repository's write lock so stats
		// readers never see a record mid-mutation.
		availability := float64(p.FreeSpots) / float64(p.TotalSpots)
		err := c.repo.Update(p.ParkingID, func(data model.ParkingData, ok bool) model.ParkingData {
			if !ok {
				data = model.ParkingData{ParkingID: p.ParkingID}
			}
			data.TotalSpots = p.TotalSpots
			data.Observe(day, tm, availability)
			return data
		})
		if err != nil {
			// The in-memory grid already holds the observation; only the
			// snapshot write failed.
			c.logger.Error("failed to persist occupancy record",
				zap.Int("id", p.ParkingID), zap.Error(err))
			continue
		}
		updated++
	}

	c.logger.Info("collection cycle finished",
		zap.Int("facilities", len(parkings)),
		zap.Int("updated", updated),
		zap.Stringer("day", day),
		zap.Stringer("slot", tm))
}
