package model

import "time"

// Address locates a parking facility.
type Address struct {
	Street    string  `json:"street"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Parking is a live snapshot of one facility as reported by the upstream
// feed. Snapshots are fetched fresh on every query and never persisted.
type Parking struct {
	ParkingID    int        `json:"parkingId"`
	FreeSpots    int        `json:"freeSpots"`
	TotalSpots   int        `json:"totalSpots"`
	Name         string     `json:"name"`
	Symbol       string     `json:"symbol"`
	OpeningHours *ClockTime `json:"openingHours"`
	ClosingHours *ClockTime `json:"closingHours"`
	Address      Address    `json:"address"`
}

// IsOpened reports whether the facility is open at the given instant.
// Facilities with no published hours are treated as always open. An
// opening hour equal to the closing hour is an empty interval, i.e.
// permanently closed; a closing hour before the opening hour wraps past
// midnight.
func (p Parking) IsOpened(at time.Time) bool {
	if p.OpeningHours == nil || p.ClosingHours == nil {
		return true
	}
	open, close := *p.OpeningHours, *p.ClosingHours
	now := ClockTimeOf(at)
	if open <= close {
		return now >= open && now < close
	}
	return now >= open || now < close
}
