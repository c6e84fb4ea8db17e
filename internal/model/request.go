package model

import "time"

// RequestRecord is one observed API request, kept for telemetry queries.
type RequestRecord struct {
	ID         int64     `gorm:"autoIncrement;primaryKey" json:"id"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	Method     string    `gorm:"size:8;not null" json:"method"`
	Endpoint   string    `gorm:"size:256;not null;index" json:"endpoint"`
	StatusCode int       `gorm:"not null" json:"statusCode"`
	DurationMS int64     `gorm:"not null" json:"durationMs"`
}
