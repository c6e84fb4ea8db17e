package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
)

// statsHistory seeds two facilities:
//
//	1 (100 spots): Monday 10:00 -> 0.8, Monday 12:00 -> 0.5, Tuesday 10:00 -> 0.7
//	2 (200 spots): Monday 10:00 -> 0.6, Wednesday 14:00 -> 0.9
func statsHistory() fakeHistory {
	return fakeHistory{data: map[int]model.ParkingData{
		1: {
			ParkingID:  1,
			TotalSpots: 100,
			FreeSpotsHistory: map[time.Weekday]map[model.ClockTime]model.AvailabilityData{
				time.Monday: {
					model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.8},
					model.NewClockTime(12, 0): {SampleCount: 1, AverageAvailability: 0.5},
				},
				time.Tuesday: {
					model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.7},
				},
			},
		},
		2: {
			ParkingID:  2,
			TotalSpots: 200,
			FreeSpotsHistory: map[time.Weekday]map[model.ClockTime]model.AvailabilityData{
				time.Monday: {
					model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.6},
				},
				time.Wednesday: {
					model.NewClockTime(14, 0): {SampleCount: 1, AverageAvailability: 0.9},
				},
			},
		},
	}}
}

func newStatsService(history fakeHistory, live []model.Parking) (*ParkingService, *fakeFetcher) {
	fetcher := &fakeFetcher{parkings: live}
	svc := newTestService(fetcher, &fakeGeocoder{}, history)
	return svc, fetcher
}

func weekdayPtr(d time.Weekday) *time.Weekday { return &d }

func TestGetParkingStats_WithDayAndTime(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	// 10:04 rounds down onto the 10:00 bucket.
	results := svc.GetParkingStats(nil, weekdayPtr(time.Monday), model.NewClockTime(10, 4))

	require.Len(t, results, 2)
	assert.Equal(t, model.ParkingInfo{ParkingID: 1, TotalSpots: 100}, results[0].ParkingInfo)
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.8, AverageFreeSpots: 80}, results[0].Stats)
	assert.Equal(t, model.ParkingInfo{ParkingID: 2, TotalSpots: 200}, results[1].ParkingInfo)
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.6, AverageFreeSpots: 120}, results[1].Stats)
}

func TestGetParkingStats_RoundsHalfUpOntoTheGrid(t *testing.T) {
	history := fakeHistory{data: map[int]model.ParkingData{
		1: {
			ParkingID:  1,
			TotalSpots: 100,
			FreeSpotsHistory: map[time.Weekday]map[model.ClockTime]model.AvailabilityData{
				time.Monday: {
					model.NewClockTime(10, 0):  {SampleCount: 1, AverageAvailability: 0.3},
					model.NewClockTime(10, 10): {SampleCount: 1, AverageAvailability: 0.9},
				},
			},
		},
	}}
	svc, _ := newStatsService(history, nil)

	// 10:07 is past the midpoint, so it resolves to 10:10, not 10:00.
	results := svc.GetParkingStats(nil, weekdayPtr(time.Monday), model.NewClockTime(10, 7))
	require.Len(t, results, 1)
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.9, AverageFreeSpots: 90}, results[0].Stats)

	// 10:05 ties, and ties round up.
	results = svc.GetParkingStats(nil, weekdayPtr(time.Monday), model.NewClockTime(10, 5))
	require.Len(t, results, 1)
	assert.Equal(t, 0.9, results[0].Stats.AverageAvailability)
}

func TestGetParkingStats_WithoutDayAveragesAcrossWeek(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	// Unknown and out-of-range ids are silently dropped.
	results := svc.GetParkingStats([]int{1, 2, 3}, nil, model.NewClockTime(10, 4))

	require.Len(t, results, 2)
	// Facility 1 averages Monday 0.8 and Tuesday 0.7 at the 10:00 slot.
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.75, AverageFreeSpots: 75}, results[0].Stats)
	// Facility 2 only has Monday at that slot.
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.6, AverageFreeSpots: 120}, results[1].Stats)
}

func TestGetParkingStats_ExactThreeDecimalRounding(t *testing.T) {
	history := fakeHistory{data: map[int]model.ParkingData{
		1: {
			ParkingID:  1,
			TotalSpots: 100,
			FreeSpotsHistory: map[time.Weekday]map[model.ClockTime]model.AvailabilityData{
				time.Monday:  {model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.8}},
				time.Tuesday: {model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.6}},
			},
		},
	}}
	svc, _ := newStatsService(history, nil)

	results := svc.GetParkingStats(nil, nil, model.NewClockTime(10, 0))
	require.Len(t, results, 1)
	// The mean of 0.8 and 0.6 must come out as exactly 0.700.
	assert.Equal(t, 0.7, results[0].Stats.AverageAvailability)
	assert.Equal(t, 70, results[0].Stats.AverageFreeSpots)
}

func TestGetParkingStats_EmptyRepository(t *testing.T) {
	svc, _ := newStatsService(fakeHistory{}, nil)

	results := svc.GetParkingStats([]int{1, 2}, weekdayPtr(time.Monday), model.NewClockTime(10, 4))
	assert.Empty(t, results)
}

func TestGetDailyParkingStats(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	results := svc.GetDailyParkingStats([]int{1}, time.Monday)

	require.Len(t, results, 1)
	stats := results[0]
	assert.Equal(t, model.ParkingInfo{ParkingID: 1, TotalSpots: 100}, stats.ParkingInfo)
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.65, AverageFreeSpots: 65}, stats.Stats)
	// Lowest availability marks the occupancy peak.
	assert.Equal(t, model.NewClockTime(12, 0), stats.MaxOccupancyAt)
	assert.Equal(t, model.NewClockTime(10, 0), stats.MinOccupancyAt)
}

func TestGetDailyParkingStats_TieBreaksOnEarliestTime(t *testing.T) {
	history := fakeHistory{data: map[int]model.ParkingData{
		1: {
			ParkingID:  1,
			TotalSpots: 50,
			FreeSpotsHistory: map[time.Weekday]map[model.ClockTime]model.AvailabilityData{
				time.Monday: {
					model.NewClockTime(12, 0): {SampleCount: 1, AverageAvailability: 0.5},
					model.NewClockTime(10, 0): {SampleCount: 1, AverageAvailability: 0.5},
					model.NewClockTime(14, 0): {SampleCount: 1, AverageAvailability: 0.5},
				},
			},
		},
	}}
	svc, _ := newStatsService(history, nil)

	results := svc.GetDailyParkingStats(nil, time.Monday)
	require.Len(t, results, 1)
	assert.Equal(t, model.NewClockTime(10, 0), results[0].MaxOccupancyAt)
	assert.Equal(t, model.NewClockTime(10, 0), results[0].MinOccupancyAt)
}

func TestGetWeeklyParkingStats(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	// An empty id list means all known facilities.
	results := svc.GetWeeklyParkingStats([]int{})

	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, model.ParkingInfo{ParkingID: 1, TotalSpots: 100}, first.ParkingInfo)
	// (0.8 + 0.5 + 0.7) / 3 rounds half-up to 0.667; free spots truncate
	// from the unrounded mean.
	assert.Equal(t, 0.667, first.Stats.AverageAvailability)
	assert.Equal(t, 66, first.Stats.AverageFreeSpots)
	assert.Equal(t, model.OccupancyInfo{DayOfWeek: time.Monday, Time: model.NewClockTime(12, 0)}, first.MaxOccupancyInfo)
	assert.Equal(t, model.OccupancyInfo{DayOfWeek: time.Monday, Time: model.NewClockTime(10, 0)}, first.MinOccupancyInfo)

	second := results[1]
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.75, AverageFreeSpots: 150}, second.Stats)
	assert.Equal(t, model.OccupancyInfo{DayOfWeek: time.Monday, Time: model.NewClockTime(10, 0)}, second.MaxOccupancyInfo)
	assert.Equal(t, model.OccupancyInfo{DayOfWeek: time.Wednesday, Time: model.NewClockTime(14, 0)}, second.MinOccupancyInfo)
}

func TestGetCollectiveDailyParkingStats(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	results := svc.GetCollectiveDailyParkingStats([]int{-7, 1, 100}, time.Monday)

	require.Len(t, results, 1)
	stats := results[0]
	assert.Equal(t, model.ParkingInfo{ParkingID: 1, TotalSpots: 100}, stats.ParkingInfo)
	assert.Equal(t, map[model.ClockTime]model.ParkingStats{
		model.NewClockTime(10, 0): {AverageAvailability: 0.8, AverageFreeSpots: 80},
		model.NewClockTime(12, 0): {AverageAvailability: 0.5, AverageFreeSpots: 50},
	}, stats.StatsMap)
}

func TestGetCollectiveWeeklyParkingStats(t *testing.T) {
	svc, _ := newStatsService(statsHistory(), nil)

	results := svc.GetCollectiveWeeklyParkingStats(nil)

	require.Len(t, results, 2)
	assert.Equal(t, map[time.Weekday]map[model.ClockTime]model.ParkingStats{
		time.Monday: {
			model.NewClockTime(10, 0): {AverageAvailability: 0.8, AverageFreeSpots: 80},
			model.NewClockTime(12, 0): {AverageAvailability: 0.5, AverageFreeSpots: 50},
		},
		time.Tuesday: {
			model.NewClockTime(10, 0): {AverageAvailability: 0.7, AverageFreeSpots: 70},
		},
	}, results[0].StatsMap)
	assert.Equal(t, map[time.Weekday]map[model.ClockTime]model.ParkingStats{
		time.Monday: {
			model.NewClockTime(10, 0): {AverageAvailability: 0.6, AverageFreeSpots: 120},
		},
		time.Wednesday: {
			model.NewClockTime(14, 0): {AverageAvailability: 0.9, AverageFreeSpots: 180},
		},
	}, results[1].StatsMap)
}

func TestGetParkingStatsByID_ChecksLiveFeed(t *testing.T) {
	live := []model.Parking{{ParkingID: 1, Name: "Parking 1", Symbol: "P1"}}
	svc, fetcher := newStatsService(statsHistory(), live)
	ctx := context.Background()

	got, err := svc.GetParkingStatsByID(ctx, 1, weekdayPtr(time.Monday), model.NewClockTime(10, 4))
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.Stats.AverageAvailability)

	// Facility 2 has history but is gone from the live feed: not found.
	_, err = svc.GetParkingStatsByID(ctx, 2, weekdayPtr(time.Monday), model.NewClockTime(10, 4))
	var notFound *apperrors.NotFoundByIDError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 2, notFound.ID)

	assert.Equal(t, 2, fetcher.calls)
}

func TestGetDailyParkingStatsByID_NoHistory(t *testing.T) {
	// Facility 9 is live but has no historical record.
	live := []model.Parking{{ParkingID: 9, Name: "Parking 9", Symbol: "P9"}}
	svc, _ := newStatsService(statsHistory(), live)

	_, err := svc.GetDailyParkingStatsByID(context.Background(), 9, time.Monday)
	var notFound *apperrors.NotFoundByIDError
	require.ErrorAs(t, err, &notFound)
}

func TestGetWeeklyParkingStatsByID(t *testing.T) {
	live := []model.Parking{{ParkingID: 2, Name: "Parking 2", Symbol: "P2"}}
	svc, _ := newStatsService(statsHistory(), live)

	got, err := svc.GetWeeklyParkingStatsByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, model.ParkingStats{AverageAvailability: 0.75, AverageFreeSpots: 150}, got.Stats)
}
