// Package nominatim resolves free-text addresses to coordinates through a
// Nominatim (OpenStreetMap) instance.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"parking-status-backend/config"
	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
)

// Client is a forward-geocoding client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a geocoder client from the Nominatim configuration.
func NewClient(cfg *config.NominatimConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// searchResult is one Nominatim hit. Coordinates arrive as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search geocodes an address. A genuinely unknown address yields
// (nil, nil); only transport or payload failures are errors. When the
// service returns several hits the first one wins.
func (c *Client) Search(ctx context.Context, address string) (*model.GeoLocation, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "geocoder", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "geocoder", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.UpstreamError{
			Source: "geocoder",
			Err:    fmt.Errorf("received non-200 status code: %d", resp.StatusCode),
		}
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, &apperrors.UpstreamError{Source: "geocoder", Err: err}
	}
	if len(results) == 0 {
		c.logger.Debug("geocoder found no results", zap.String("address", address))
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "geocoder", Err: err}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "geocoder", Err: err}
	}

	c.logger.Debug("geocoded address",
		zap.String("address", address),
		zap.String("resolved", results[0].DisplayName),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))
	return &model.GeoLocation{Latitude: lat, Longitude: lon}, nil
}
