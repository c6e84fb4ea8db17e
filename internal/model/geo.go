package model

// GeoLocation is a geocoded coordinate in floating-point degrees.
// Produced transiently by the geocoder, never persisted.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
