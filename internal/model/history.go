package model

import "time"

// AvailabilityData is one bucket of the weekly occupancy grid: how many
// raw observations were folded into it and their mean availability
// (free spots / total spots, in [0,1]).
type AvailabilityData struct {
	SampleCount         int     `json:"sampleCount"`
	AverageAvailability float64 `json:"averageAvailability"`
}

// ParkingData is the historical occupancy record for one facility. The
// history maps day-of-week to time-of-day to the availability observed in
// that bucket. Records are owned by the historical repository and live for
// the process lifetime.
type ParkingData struct {
	ParkingID        int                                             `json:"parkingId"`
	TotalSpots       int                                             `json:"totalSpots"`
	FreeSpotsHistory map[time.Weekday]map[ClockTime]AvailabilityData `json:"freeSpotsHistory"`
}

// Clone returns a deep copy of the record. The nested history maps are
// copied so the clone shares no mutable state with the original.
func (d ParkingData) Clone() ParkingData {
	out := d
	if d.FreeSpotsHistory == nil {
		return out
	}
	out.FreeSpotsHistory = make(map[time.Weekday]map[ClockTime]AvailabilityData, len(d.FreeSpotsHistory))
	for day, buckets := range d.FreeSpotsHistory {
		dayCopy := make(map[ClockTime]AvailabilityData, len(buckets))
		for t, sample := range buckets {
			dayCopy[t] = sample
		}
		out.FreeSpotsHistory[day] = dayCopy
	}
	return out
}

// OccupancyInfo identifies one bucket of the weekly grid.
type OccupancyInfo struct {
	DayOfWeek time.Weekday `json:"dayOfWeek"`
	Time      ClockTime    `json:"time"`
}

// At returns the availability bucket for the given day and time, if one
// has been observed.
func (d ParkingData) At(day time.Weekday, t ClockTime) (AvailabilityData, bool) {
	sample, ok := d.FreeSpotsHistory[day][t]
	return sample, ok
}

// Observe folds one availability observation into the (day, t) bucket as a
// running mean. The mean is recomputed incrementally so it is never
// overwritten with a raw single observation once the bucket holds samples.
func (d *ParkingData) Observe(day time.Weekday, t ClockTime, availability float64) {
	if d.FreeSpotsHistory == nil {
		d.FreeSpotsHistory = make(map[time.Weekday]map[ClockTime]AvailabilityData)
	}
	if d.FreeSpotsHistory[day] == nil {
		d.FreeSpotsHistory[day] = make(map[ClockTime]AvailabilityData)
	}
	sample := d.FreeSpotsHistory[day][t]
	sample.SampleCount++
	sample.AverageAvailability += (availability - sample.AverageAvailability) / float64(sample.SampleCount)
	d.FreeSpotsHistory[day][t] = sample
}
