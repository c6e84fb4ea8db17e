package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parking-status-backend/config"
	apperrors "parking-status-backend/internal/errors"
)

func newTestClient(url string) *Client {
	return NewClient(&config.NominatimConfig{URL: url, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestSearch_FirstResultWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wybrzeze wyspianskiego 27", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Write([]byte(`[
			{"lat": "51.107", "lon": "17.059", "display_name": "first"},
			{"lat": "50.000", "lon": "16.000", "display_name": "second"}
		]`))
	}))
	defer server.Close()

	loc, err := newTestClient(server.URL).Search(context.Background(), "wybrzeze wyspianskiego 27")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, 51.107, loc.Latitude, 1e-9)
	assert.InDelta(t, 17.059, loc.Longitude, 1e-9)
}

func TestSearch_NoResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	loc, err := newTestClient(server.URL).Search(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestSearch_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "anywhere")
	require.Error(t, err)

	var upstreamErr *apperrors.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}
