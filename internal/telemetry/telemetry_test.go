package telemetry

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parking-status-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a sqlmock argument matcher that accepts any value.
type Any struct{}

// Match satisfies the sqlmock.Argument interface.
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_Record(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "request_records"`)).
		WithArgs(Any{}, "GET", "/api/parkings", 200, int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := store.Record(context.Background(), model.RequestRecord{
		Timestamp:  time.Now(),
		Method:     "GET",
		Endpoint:   "/api/parkings",
		StatusCode: 200,
		DurationMS: 12,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_RecordsBetween(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "request_records" WHERE timestamp >= $1 AND timestamp < $2`)).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "method", "endpoint", "status_code", "duration_ms"}).
			AddRow(1, start.Add(time.Hour), "GET", "/api/parkings", 200, 8).
			AddRow(2, start.Add(2*time.Hour), "GET", "/api/parkings/stats", 404, 3))

	records, err := store.RecordsBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/api/parkings", records[0].Endpoint)
	assert.Equal(t, 404, records[1].StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func record(at time.Time, endpoint string, status int, durationMS int64) model.RequestRecord {
	return model.RequestRecord{
		Timestamp:  at,
		Method:     "GET",
		Endpoint:   endpoint,
		StatusCode: status,
		DurationMS: durationMS,
	}
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	records := []model.RequestRecord{
		record(base, "/api/parkings", 200, 10),
		record(base.Add(time.Minute), "/api/parkings", 200, 20),
		record(base.Add(2*time.Minute), "/api/parkings/stats", 500, 30),
		record(base.Add(3*time.Minute), "/api/parkings/stats", 404, 20),
	}

	stats := computeStats(records)

	assert.Equal(t, int64(4), stats.TotalRequests)
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Equal(t, 20.0, stats.AverageDurationMS)
	assert.Equal(t, map[string]int64{
		"/api/parkings":       2,
		"/api/parkings/stats": 2,
	}, stats.RequestsPerEndpoint)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := computeStats(nil)

	assert.Equal(t, int64(0), stats.TotalRequests)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.Empty(t, stats.RequestsPerEndpoint)
}

func TestComputePeakWindows(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	records := []model.RequestRecord{
		record(at(10, 2), "/api/parkings", 200, 5),
		record(at(10, 14), "/api/parkings", 200, 5),
		record(at(10, 29), "/api/parkings", 200, 5),
		record(at(12, 40), "/api/parkings", 200, 5),
	}

	windows := computePeakWindows(records, 30)

	require.Len(t, windows, 2)
	assert.Equal(t, PeakWindow{Window: "10:00 - 10:30", Count: 3, Share: 0.75}, windows[0])
	assert.Equal(t, PeakWindow{Window: "12:30 - 13:00", Count: 1, Share: 0.25}, windows[1])
}

func TestComputePeakWindows_TieBreaksOnEarlierWindow(t *testing.T) {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	records := []model.RequestRecord{
		record(day.Add(15*time.Hour), "/api/parkings", 200, 5),
		record(day.Add(9*time.Hour), "/api/parkings", 200, 5),
	}

	windows := computePeakWindows(records, 60)

	require.Len(t, windows, 2)
	assert.Equal(t, "09:00 - 10:00", windows[0].Window)
	assert.Equal(t, "15:00 - 16:00", windows[1].Window)
}

func TestComputePeakWindows_WrapsAtMidnight(t *testing.T) {
	day := time.Date(2025, 1, 6, 23, 45, 0, 0, time.UTC)
	windows := computePeakWindows([]model.RequestRecord{record(day, "/api/parkings", 200, 5)}, 30)

	require.Len(t, windows, 1)
	assert.Equal(t, "23:30 - 00:00", windows[0].Window)
}

func TestService_PeakTimes_RejectsInvalidWindow(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.PeakTimes(context.Background(), time.Now().Add(-time.Hour), time.Now(), 0)
	assert.Error(t, err)
}
