package model

import "time"

// ParkingInfo is the static facility information attached to every stats
// response.
type ParkingInfo struct {
	ParkingID  int `json:"parkingId"`
	TotalSpots int `json:"totalSpots"`
}

// ParkingInfoOf extracts the static info from a historical record.
func ParkingInfoOf(d ParkingData) ParkingInfo {
	return ParkingInfo{ParkingID: d.ParkingID, TotalSpots: d.TotalSpots}
}

// ParkingStats is a derived availability summary: mean availability
// rounded half-up to 3 decimals, and the free-spot count truncated from
// mean availability times total spots. Never persisted.
type ParkingStats struct {
	AverageAvailability float64 `json:"averageAvailability"`
	AverageFreeSpots    int     `json:"averageFreeSpots"`
}

// ParkingStatsResponse is a point-in-time stats result for one facility.
type ParkingStatsResponse struct {
	ParkingInfo ParkingInfo  `json:"parkingInfo"`
	Stats       ParkingStats `json:"stats"`
}

// DailyParkingStatsResponse summarizes one day of week for one facility.
// Max occupancy is the bucket with the lowest availability.
type DailyParkingStatsResponse struct {
	ParkingInfo    ParkingInfo  `json:"parkingInfo"`
	Stats          ParkingStats `json:"stats"`
	MaxOccupancyAt ClockTime    `json:"maxOccupancyAt"`
	MinOccupancyAt ClockTime    `json:"minOccupancyAt"`
}

// WeeklyParkingStatsResponse summarizes the whole week for one facility.
type WeeklyParkingStatsResponse struct {
	ParkingInfo      ParkingInfo   `json:"parkingInfo"`
	Stats            ParkingStats  `json:"stats"`
	MaxOccupancyInfo OccupancyInfo `json:"maxOccupancyInfo"`
	MinOccupancyInfo OccupancyInfo `json:"minOccupancyInfo"`
}

// CollectiveDailyParkingStats carries the uncollapsed per-bucket stats of
// one day for one facility.
type CollectiveDailyParkingStats struct {
	ParkingInfo ParkingInfo                `json:"parkingInfo"`
	StatsMap    map[ClockTime]ParkingStats `json:"statsMap"`
}

// CollectiveWeeklyParkingStats carries the uncollapsed per-bucket stats of
// the whole week for one facility.
type CollectiveWeeklyParkingStats struct {
	ParkingInfo ParkingInfo                                 `json:"parkingInfo"`
	StatsMap    map[time.Weekday]map[ClockTime]ParkingStats `json:"statsMap"`
}
