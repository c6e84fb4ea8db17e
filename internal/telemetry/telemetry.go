package telemetry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"parking-status-backend/internal/model"
)

// Store defines the persistence operations for request telemetry.
type Store interface {
	Record(ctx context.Context, rec model.RequestRecord) error
	RecordsBetween(ctx context.Context, start, end time.Time) ([]model.RequestRecord, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed telemetry store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Record(ctx context.Context, rec model.RequestRecord) error {
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to insert request record: %w", err)
	}
	return nil
}

func (s *gormStore) RecordsBetween(ctx context.Context, start, end time.Time) ([]model.RequestRecord, error) {
	var records []model.RequestRecord
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query request records: %w", err)
	}
	return records, nil
}

// RequestStats summarizes request traffic over a time window.
type RequestStats struct {
	TotalRequests       int64            `json:"totalRequests"`
	SuccessRate         float64          `json:"successRate"`
	AverageDurationMS   float64          `json:"averageDurationMs"`
	RequestsPerEndpoint map[string]int64 `json:"requestsPerEndpoint"`
}

// PeakWindow is one time-of-day slot and its share of the total traffic.
type PeakWindow struct {
	Window string  `json:"window"`
	Count  int64   `json:"count"`
	Share  float64 `json:"share"`
}

// Service computes traffic summaries on top of the telemetry store.
type Service struct {
	store Store
}

// NewService creates a telemetry query service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// BasicStats returns the aggregate traffic summary for [start, end).
func (s *Service) BasicStats(ctx context.Context, start, end time.Time) (RequestStats, error) {
	records, err := s.store.RecordsBetween(ctx, start, end)
	if err != nil {
		return RequestStats{}, err
	}
	return computeStats(records), nil
}

// PeakTimes buckets requests in [start, end) into time-of-day windows of
// the given length and returns the windows ordered by traffic share,
// busiest first. Windows with no traffic are omitted.
func (s *Service) PeakTimes(ctx context.Context, start, end time.Time, windowMinutes int) ([]PeakWindow, error) {
	if windowMinutes <= 0 || windowMinutes > 24*60 {
		return nil, fmt.Errorf("invalid window length: %d minutes", windowMinutes)
	}
	records, err := s.store.RecordsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return computePeakWindows(records, windowMinutes), nil
}

func computeStats(records []model.RequestRecord) RequestStats {
	stats := RequestStats{
		TotalRequests:       int64(len(records)),
		RequestsPerEndpoint: make(map[string]int64),
	}
	if len(records) == 0 {
		return stats
	}

	var succeeded int64
	var totalDuration int64
	for _, rec := range records {
		if rec.StatusCode < 400 {
			succeeded++
		}
		totalDuration += rec.DurationMS
		stats.RequestsPerEndpoint[rec.Endpoint]++
	}
	stats.SuccessRate = float64(succeeded) / float64(stats.TotalRequests)
	stats.AverageDurationMS = float64(totalDuration) / float64(stats.TotalRequests)
	return stats
}

func computePeakWindows(records []model.RequestRecord, windowMinutes int) []PeakWindow {
	if len(records) == 0 {
		return nil
	}

	counts := make(map[int]int64)
	for _, rec := range records {
		minuteOfDay := rec.Timestamp.Hour()*60 + rec.Timestamp.Minute()
		counts[minuteOfDay/windowMinutes*windowMinutes]++
	}

	total := float64(len(records))
	windows := make([]PeakWindow, 0, len(counts))
	for startMinute, count := range counts {
		endMinute := (startMinute + windowMinutes) % (24 * 60)
		windows = append(windows, PeakWindow{
			Window: fmt.Sprintf("%s - %s", model.ClockTime(startMinute), model.ClockTime(endMinute)),
			Count:  count,
			Share:  float64(count) / total,
		})
	}

	// Busiest windows first, earlier windows winning ties.
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Count != windows[j].Count {
			return windows[i].Count > windows[j].Count
		}
		return windows[i].Window < windows[j].Window
	})
	return windows
}
