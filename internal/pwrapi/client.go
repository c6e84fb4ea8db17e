// Package pwrapi fetches live facility snapshots from the iparking feed.
package pwrapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"parking-status-backend/config"
	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
)

// defaultHeaders mirror what the iparking site expects from its own
// frontend; config headers override them.
var defaultHeaders = map[string]string{
	"Accept":           "application/json",
	"Accept-Encoding":  "gzip",
	"Accept-Language":  "pl",
	"Referer":          "https://iparking.pwr.edu.pl",
	"X-Requested-With": "XMLHttpRequest",
	"Connection":       "keep-alive",
}

// Client talks to the live parking feed. Every call fetches a fresh
// snapshot list; the client holds no state beyond the HTTP client.
type Client struct {
	cfg    *config.UpstreamConfig
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a live-feed client from the upstream configuration.
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type apiResponse struct {
	Success  int          `json:"success"`
	Parkings []apiParking `json:"parkings"`
}

type apiParking struct {
	ID           int     `json:"id"`
	FreeSpots    int     `json:"free_spots"`
	TotalSpots   int     `json:"total_spots"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	OpeningHours *string `json:"opening_hours"`
	ClosingHours *string `json:"closing_hours"`
	Address      struct {
		Street    string  `json:"street"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"address"`
}

// FetchParkings POSTs the configured operation payload and decodes the
// returned facility snapshots. Any transport, status, or payload failure
// is wrapped as an UpstreamError.
func (c *Client) FetchParkings(ctx context.Context) ([]model.Parking, error) {
	payload := map[string]any{"o": "get_parks"}
	for k, v := range c.cfg.Payload {
		payload[k] = v
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "parking api", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "parking api", Err: err}
	}
	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "parking api", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.UpstreamError{
			Source: "parking api",
			Err:    fmt.Errorf("received non-200 status code: %d", resp.StatusCode),
		}
	}

	// Setting Accept-Encoding ourselves disables the transport's
	// transparent decompression, so a gzip body arrives as-is.
	var reader io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, &apperrors.UpstreamError{
				Source: "parking api",
				Err:    fmt.Errorf("failed to decode gzip response: %w", err),
			}
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &apperrors.UpstreamError{Source: "parking api", Err: err}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &apperrors.UpstreamError{
			Source: "parking api",
			Err:    fmt.Errorf("failed to unmarshal api response: %w", err),
		}
	}
	if apiResp.Success != 1 {
		return nil, &apperrors.UpstreamError{
			Source: "parking api",
			Err:    fmt.Errorf("API reported failure code %d", apiResp.Success),
		}
	}

	parkings := make([]model.Parking, 0, len(apiResp.Parkings))
	for _, p := range apiResp.Parkings {
		converted, err := toParking(p)
		if err != nil {
			c.logger.Warn("skipping malformed parking entry",
				zap.Int("id", p.ID), zap.Error(err))
			continue
		}
		parkings = append(parkings, converted)
	}

	c.logger.Debug("fetched live parking snapshot",
		zap.Int("count", len(parkings)),
		zap.Duration("elapsed", time.Since(start)))
	return parkings, nil
}

func toParking(p apiParking) (model.Parking, error) {
	parking := model.Parking{
		ParkingID:  p.ID,
		FreeSpots:  p.FreeSpots,
		TotalSpots: p.TotalSpots,
		Name:       p.Name,
		Symbol:     p.Symbol,
		Address: model.Address{
			Street:    p.Address.Street,
			Latitude:  p.Address.Latitude,
			Longitude: p.Address.Longitude,
		},
	}
	var err error
	if parking.OpeningHours, err = parseHours(p.OpeningHours); err != nil {
		return model.Parking{}, err
	}
	if parking.ClosingHours, err = parseHours(p.ClosingHours); err != nil {
		return model.Parking{}, err
	}
	return parking, nil
}

func parseHours(s *string) (*model.ClockTime, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := model.ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
