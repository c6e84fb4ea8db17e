// Package service implements the parking facade: live-snapshot filtering
// and lookups, nearest-facility search, and historical occupancy
// statistics.
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "parking-status-backend/internal/errors"
	"parking-status-backend/internal/model"
)

// ParkingFetcher is the live facility source. Every call returns a fresh
// snapshot list.
type ParkingFetcher interface {
	FetchParkings(ctx context.Context) ([]model.Parking, error)
}

// Geocoder resolves a free-text address to at most one coordinate;
// (nil, nil) means the address is unknown.
type Geocoder interface {
	Search(ctx context.Context, address string) (*model.GeoLocation, error)
}

// HistoryRepository is the read side of the historical occupancy store.
type HistoryRepository interface {
	Get(id int) (model.ParkingData, bool)
	Keys() []int
	Values() []model.ParkingData
}

// ParkingService answers all public parking queries.
type ParkingService struct {
	fetcher       ParkingFetcher
	geocoder      Geocoder
	history       HistoryRepository
	bucketMinutes int
	logger        *zap.Logger
	now           func() time.Time
}

// NewParkingService wires the service. bucketMinutes is the resolution of
// the historical occupancy grid.
func NewParkingService(fetcher ParkingFetcher, geocoder Geocoder, history HistoryRepository,
	bucketMinutes int, logger *zap.Logger) *ParkingService {
	return &ParkingService{
		fetcher:       fetcher,
		geocoder:      geocoder,
		history:       history,
		bucketMinutes: bucketMinutes,
		logger:        logger,
		now:           time.Now,
	}
}

// Filters are the independently optional facility filters; all supplied
// fields are ANDed, absent fields impose no constraint.
type Filters struct {
	Symbol       *string
	ID           *int
	Name         *string
	Opened       *bool
	HasFreeSpots *bool
}

// matches evaluates every present filter in one pass. Note the polarity
// of the text filters: the query string must contain the facility's
// symbol or name, not the other way around.
func (f Filters) matches(p model.Parking, at time.Time) bool {
	if f.Symbol != nil && !strings.Contains(strings.ToLower(*f.Symbol), strings.ToLower(p.Symbol)) {
		return false
	}
	if f.ID != nil && *f.ID != p.ParkingID {
		return false
	}
	if f.Name != nil && !strings.Contains(strings.ToLower(*f.Name), strings.ToLower(p.Name)) {
		return false
	}
	if f.Opened != nil && *f.Opened != p.IsOpened(at) {
		return false
	}
	if f.HasFreeSpots != nil && *f.HasFreeSpots != (p.FreeSpots > 0) {
		return false
	}
	return true
}

// GetByParams returns every facility in the live feed matching the
// filters, in feed order.
func (s *ParkingService) GetByParams(ctx context.Context, f Filters) ([]model.Parking, error) {
	parkings, err := s.fetcher.FetchParkings(ctx)
	if err != nil {
		return nil, err
	}
	at := s.now()
	matched := make([]model.Parking, 0, len(parkings))
	for _, p := range parkings {
		if f.matches(p, at) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// findParking returns the first live facility matching the filters, or
// nil if none does.
func (s *ParkingService) findParking(ctx context.Context, f Filters) (*model.Parking, error) {
	parkings, err := s.fetcher.FetchParkings(ctx)
	if err != nil {
		return nil, err
	}
	at := s.now()
	for _, p := range parkings {
		if f.matches(p, at) {
			return &p, nil
		}
	}
	return nil, nil
}

// GetByName returns the first live facility whose name matches, or a
// NotFoundByNameError.
func (s *ParkingService) GetByName(ctx context.Context, name string, opened *bool) (model.Parking, error) {
	found, err := s.findParking(ctx, Filters{Name: &name, Opened: opened})
	if err != nil {
		return model.Parking{}, err
	}
	if found == nil {
		return model.Parking{}, &apperrors.NotFoundByNameError{Name: name}
	}
	s.logger.Debug("parking found", zap.String("name", found.Name))
	return *found, nil
}

// GetByID returns the live facility with the given id, or a
// NotFoundByIDError.
func (s *ParkingService) GetByID(ctx context.Context, id int, opened *bool) (model.Parking, error) {
	found, err := s.findParking(ctx, Filters{ID: &id, Opened: opened})
	if err != nil {
		return model.Parking{}, err
	}
	if found == nil {
		return model.Parking{}, &apperrors.NotFoundByIDError{ID: id}
	}
	s.logger.Debug("parking found", zap.Int("id", found.ParkingID))
	return *found, nil
}

// GetBySymbol returns the first live facility whose symbol matches, or a
// NotFoundBySymbolError.
func (s *ParkingService) GetBySymbol(ctx context.Context, symbol string, opened *bool) (model.Parking, error) {
	found, err := s.findParking(ctx, Filters{Symbol: &symbol, Opened: opened})
	if err != nil {
		return model.Parking{}, err
	}
	if found == nil {
		return model.Parking{}, &apperrors.NotFoundBySymbolError{Symbol: symbol}
	}
	s.logger.Debug("parking found", zap.String("symbol", found.Symbol))
	return *found, nil
}

// GetAllWithFreeSpots returns the live facilities with at least one free
// spot, optionally restricted by opened state.
func (s *ParkingService) GetAllWithFreeSpots(ctx context.Context, opened *bool) ([]model.Parking, error) {
	hasFree := true
	return s.GetByParams(ctx, Filters{Opened: opened, HasFreeSpots: &hasFree})
}

// GetWithTheMostFreeSpots returns the facility with the highest free-spot
// count among those with free spots, or ErrNoFreeSpots if the candidate
// set is empty. The first-encountered maximum wins.
func (s *ParkingService) GetWithTheMostFreeSpots(ctx context.Context, opened *bool) (model.Parking, error) {
	candidates, err := s.GetAllWithFreeSpots(ctx, opened)
	if err != nil {
		return model.Parking{}, err
	}
	if len(candidates) == 0 {
		return model.Parking{}, apperrors.ErrNoFreeSpots
	}
	best := candidates[0]
	for _, p := range candidates[1:] {
		if p.FreeSpots > best.FreeSpots {
			best = p
		}
	}
	return best, nil
}

// GetClosestParking geocodes the address and returns the live facility
// with the smallest great-circle distance to it. An unknown address and
// an empty facility list both yield a NotFoundByAddressError.
func (s *ParkingService) GetClosestParking(ctx context.Context, address string) (model.Parking, error) {
	location, err := s.geocoder.Search(ctx, address)
	if err != nil {
		return model.Parking{}, err
	}
	if location == nil {
		return model.Parking{}, &apperrors.NotFoundByAddressError{Address: address}
	}

	parkings, err := s.fetcher.FetchParkings(ctx)
	if err != nil {
		return model.Parking{}, err
	}
	if len(parkings) == 0 {
		return model.Parking{}, &apperrors.NotFoundByAddressError{Address: address}
	}

	best := parkings[0]
	bestDistance := haversineKm(location.Latitude, location.Longitude,
		best.Address.Latitude, best.Address.Longitude)
	for _, p := range parkings[1:] {
		d := haversineKm(location.Latitude, location.Longitude,
			p.Address.Latitude, p.Address.Longitude)
		if d < bestDistance {
			best, bestDistance = p, d
		}
	}
	s.logger.Debug("closest parking resolved",
		zap.String("address", address),
		zap.String("symbol", best.Symbol),
		zap.Float64("distance_km", bestDistance))
	return best, nil
}

const earthRadiusKm = 6371

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := degreesToRadians(lat1)
	rlat2 := degreesToRadians(lat2)
	dlat := rlat2 - rlat1
	dlon := degreesToRadians(lon2) - degreesToRadians(lon1)

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
