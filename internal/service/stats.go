package service

import (
	"context"
	"math"
	"sort"
	"time"

	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
	"parking-status-backend/internal/timegrid"
)

// weekOrder fixes the scan order of the weekly grid: Monday first, as in
// the upstream feed's week. Combined with ascending time order inside a
// day this makes peak/trough selection deterministic; the earliest
// bucket wins ties.
var weekOrder = [...]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// GetParkingStats computes point-in-time stats at the grid slot nearest
// to t. With a day of week the exact (day, slot) bucket is used; without
// one the slot is averaged across all seven days. Facilities without a
// matching bucket are skipped. A nil or empty id list means all known
// facilities; unknown ids are silently dropped.
func (s *ParkingService) GetParkingStats(ids []int, day *time.Weekday, t model.ClockTime) []model.ParkingStatsResponse {
	weekday, slot := timegrid.Resolve(s.now(), day, t, s.bucketMinutes)

	results := make([]model.ParkingStatsResponse, 0)
	for _, d := range s.historyRecords(ids) {
		var sum float64
		var n int
		if day != nil {
			if sample, ok := d.At(weekday, slot); ok {
				sum, n = sample.AverageAvailability, 1
			}
		} else {
			for _, wd := range weekOrder {
				if sample, ok := d.At(wd, slot); ok {
					sum += sample.AverageAvailability
					n++
				}
			}
		}
		if n == 0 {
			continue
		}
		results = append(results, model.ParkingStatsResponse{
			ParkingInfo: model.ParkingInfoOf(d),
			Stats:       deriveStats(sum/float64(n), d.TotalSpots),
		})
	}
	sortByID(results, func(r model.ParkingStatsResponse) int { return r.ParkingInfo.ParkingID })
	return results
}

// GetDailyParkingStats folds one day's buckets per facility into an
// overall average plus the peak (lowest availability) and trough (highest
// availability) time of day.
func (s *ParkingService) GetDailyParkingStats(ids []int, day time.Weekday) []model.DailyParkingStatsResponse {
	results := make([]model.DailyParkingStatsResponse, 0)
	for _, d := range s.historyRecords(ids) {
		dayMap := d.FreeSpotsHistory[day]
		if len(dayMap) == 0 {
			continue
		}

		var sum float64
		var maxOccupancyAt, minOccupancyAt model.ClockTime
		minAvailability, maxAvailability := math.Inf(1), math.Inf(-1)
		for _, tm := range sortedTimes(dayMap) {
			avg := dayMap[tm].AverageAvailability
			sum += avg
			if avg < minAvailability {
				minAvailability, maxOccupancyAt = avg, tm
			}
			if avg > maxAvailability {
				maxAvailability, minOccupancyAt = avg, tm
			}
		}

		results = append(results, model.DailyParkingStatsResponse{
			ParkingInfo:    model.ParkingInfoOf(d),
			Stats:          deriveStats(sum/float64(len(dayMap)), d.TotalSpots),
			MaxOccupancyAt: maxOccupancyAt,
			MinOccupancyAt: minOccupancyAt,
		})
	}
	sortByID(results, func(r model.DailyParkingStatsResponse) int { return r.ParkingInfo.ParkingID })
	return results
}

// GetWeeklyParkingStats folds every bucket of the week per facility;
// peak and trough are reported as (day, time) pairs.
func (s *ParkingService) GetWeeklyParkingStats(ids []int) []model.WeeklyParkingStatsResponse {
	results := make([]model.WeeklyParkingStatsResponse, 0)
	for _, d := range s.historyRecords(ids) {
		var sum float64
		var n int
		var maxOccupancy, minOccupancy model.OccupancyInfo
		minAvailability, maxAvailability := math.Inf(1), math.Inf(-1)
		for _, wd := range weekOrder {
			dayMap := d.FreeSpotsHistory[wd]
			for _, tm := range sortedTimes(dayMap) {
				avg := dayMap[tm].AverageAvailability
				sum += avg
				n++
				if avg < minAvailability {
					minAvailability = avg
					maxOccupancy = model.OccupancyInfo{DayOfWeek: wd, Time: tm}
				}
				if avg > maxAvailability {
					maxAvailability = avg
					minOccupancy = model.OccupancyInfo{DayOfWeek: wd, Time: tm}
				}
			}
		}
		if n == 0 {
			continue
		}

		results = append(results, model.WeeklyParkingStatsResponse{
			ParkingInfo:      model.ParkingInfoOf(d),
			Stats:            deriveStats(sum/float64(n), d.TotalSpots),
			MaxOccupancyInfo: maxOccupancy,
			MinOccupancyInfo: minOccupancy,
		})
	}
	sortByID(results, func(r model.WeeklyParkingStatsResponse) int { return r.ParkingInfo.ParkingID })
	return results
}

// GetCollectiveDailyParkingStats returns the raw per-bucket grid of one
// day per facility, without collapsing to a summary.
func (s *ParkingService) GetCollectiveDailyParkingStats(ids []int, day time.Weekday) []model.CollectiveDailyParkingStats {
	results := make([]model.CollectiveDailyParkingStats, 0)
	for _, d := range s.historyRecords(ids) {
		dayMap := d.FreeSpotsHistory[day]
		if len(dayMap) == 0 {
			continue
		}
		statsMap := make(map[model.ClockTime]model.ParkingStats, len(dayMap))
		for tm, sample := range dayMap {
			statsMap[tm] = deriveStats(sample.AverageAvailability, d.TotalSpots)
		}
		results = append(results, model.CollectiveDailyParkingStats{
			ParkingInfo: model.ParkingInfoOf(d),
			StatsMap:    statsMap,
		})
	}
	sortByID(results, func(r model.CollectiveDailyParkingStats) int { return r.ParkingInfo.ParkingID })
	return results
}

// GetCollectiveWeeklyParkingStats returns the raw per-bucket grid of the
// whole week per facility.
func (s *ParkingService) GetCollectiveWeeklyParkingStats(ids []int) []model.CollectiveWeeklyParkingStats {
	results := make([]model.CollectiveWeeklyParkingStats, 0)
	for _, d := range s.historyRecords(ids) {
		statsMap := make(map[time.Weekday]map[model.ClockTime]model.ParkingStats)
		for wd, dayMap := range d.FreeSpotsHistory {
			if len(dayMap) == 0 {
				continue
			}
			perDay := make(map[model.ClockTime]model.ParkingStats, len(dayMap))
			for tm, sample := range dayMap {
				perDay[tm] = deriveStats(sample.AverageAvailability, d.TotalSpots)
			}
			statsMap[wd] = perDay
		}
		if len(statsMap) == 0 {
			continue
		}
		results = append(results, model.CollectiveWeeklyParkingStats{
			ParkingInfo: model.ParkingInfoOf(d),
			StatsMap:    statsMap,
		})
	}
	sortByID(results, func(r model.CollectiveWeeklyParkingStats) int { return r.ParkingInfo.ParkingID })
	return results
}

// GetParkingStatsByID is the strict single-facility variant: the id must
// exist in the live feed and have at least one matching bucket, otherwise
// a NotFoundByIDError is returned.
func (s *ParkingService) GetParkingStatsByID(ctx context.Context, id int, day *time.Weekday, t model.ClockTime) (model.ParkingStatsResponse, error) {
	if err := s.ensureLive(ctx, id); err != nil {
		return model.ParkingStatsResponse{}, err
	}
	results := s.GetParkingStats([]int{id}, day, t)
	if len(results) == 0 {
		return model.ParkingStatsResponse{}, &apperrors.NotFoundByIDError{ID: id}
	}
	return results[0], nil
}

// GetDailyParkingStatsByID is the strict single-facility daily variant.
func (s *ParkingService) GetDailyParkingStatsByID(ctx context.Context, id int, day time.Weekday) (model.DailyParkingStatsResponse, error) {
	if err := s.ensureLive(ctx, id); err != nil {
		return model.DailyParkingStatsResponse{}, err
	}
	results := s.GetDailyParkingStats([]int{id}, day)
	if len(results) == 0 {
		return model.DailyParkingStatsResponse{}, &apperrors.NotFoundByIDError{ID: id}
	}
	return results[0], nil
}

// GetWeeklyParkingStatsByID is the strict single-facility weekly variant.
func (s *ParkingService) GetWeeklyParkingStatsByID(ctx context.Context, id int) (model.WeeklyParkingStatsResponse, error) {
	if err := s.ensureLive(ctx, id); err != nil {
		return model.WeeklyParkingStatsResponse{}, err
	}
	results := s.GetWeeklyParkingStats([]int{id})
	if len(results) == 0 {
		return model.WeeklyParkingStatsResponse{}, &apperrors.NotFoundByIDError{ID: id}
	}
	return results[0], nil
}

// ensureLive checks a single-facility id against the live feed. An id
// that only exists historically is reported as not found.
func (s *ParkingService) ensureLive(ctx context.Context, id int) error {
	parkings, err := s.fetcher.FetchParkings(ctx)
	if err != nil {
		return err
	}
	for _, p := range parkings {
		if p.ParkingID == id {
			return nil
		}
	}
	return &apperrors.NotFoundByIDError{ID: id}
}

// historyRecords resolves an id list against the repository. A nil or
// empty list means every known facility; requested ids without a record
// are dropped without error, duplicates are collapsed.
func (s *ParkingService) historyRecords(ids []int) []model.ParkingData {
	if len(ids) == 0 {
		return s.history.Values()
	}
	known := make(map[int]struct{})
	for _, id := range s.history.Keys() {
		known[id] = struct{}{}
	}
	seen := make(map[int]struct{}, len(ids))
	records := make([]model.ParkingData, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := known[id]; !ok {
			continue
		}
		if d, ok := s.history.Get(id); ok {
			records = append(records, d)
		}
	}
	return records
}

// deriveStats turns a mean availability into the reported stats pair:
// availability rounded half-up to 3 decimals, free spots truncated from
// the unrounded mean times the total.
func deriveStats(meanAvailability float64, totalSpots int) model.ParkingStats {
	return model.ParkingStats{
		AverageAvailability: roundHalfUp3(meanAvailability),
		AverageFreeSpots:    int(meanAvailability * float64(totalSpots)),
	}
}

func roundHalfUp3(x float64) float64 {
	return math.Floor(x*1000+0.5) / 1000
}

func sortedTimes(dayMap map[model.ClockTime]model.AvailabilityData) []model.ClockTime {
	times := make([]model.ClockTime, 0, len(dayMap))
	for tm := range dayMap {
		times = append(times, tm)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

func sortByID[T any](items []T, id func(T) int) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
