// Package errors defines the error kinds surfaced by the parking service
// and their mapping to HTTP status codes. Lookup misses are ordinary
// results, not panics; the API layer turns them into response codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundByIDError reports a single-facility lookup that matched nothing
// in the live feed.
type NotFoundByIDError struct {
	ID int
}

func (e *NotFoundByIDError) Error() string {
	return fmt.Sprintf("no parking found with id %d", e.ID)
}

// NotFoundByNameError reports a lookup by name that matched nothing.
type NotFoundByNameError struct {
	Name string
}

func (e *NotFoundByNameError) Error() string {
	return fmt.Sprintf("no parking found with name %q", e.Name)
}

// NotFoundBySymbolError reports a lookup by symbol that matched nothing.
type NotFoundBySymbolError struct {
	Symbol string
}

func (e *NotFoundBySymbolError) Error() string {
	return fmt.Sprintf("no parking found with symbol %q", e.Symbol)
}

// NotFoundByAddressError reports a nearest-facility search that produced
// no result, either because the geocoder found nothing or because no
// facilities were available.
type NotFoundByAddressError struct {
	Address string
}

func (e *NotFoundByAddressError) Error() string {
	return fmt.Sprintf("no parking found near %q", e.Address)
}

// ErrNoFreeSpots reports a most-free-spots query whose filtered candidate
// set was empty.
var ErrNoFreeSpots = errors.New("no parkings with free spots available")

// UpstreamError wraps a failure of the live facility source or the
// geocoder. Propagated, never retried here.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StorageError wraps a failure to read or write a persisted snapshot.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// StatusCode maps an error to the HTTP status the API layer should
// respond with.
func StatusCode(err error) int {
	var (
		byID      *NotFoundByIDError
		byName    *NotFoundByNameError
		bySymbol  *NotFoundBySymbolError
		byAddress *NotFoundByAddressError
		upstream  *UpstreamError
		storage   *StorageError
	)
	switch {
	case errors.As(err, &byID), errors.As(err, &byName),
		errors.As(err, &bySymbol), errors.As(err, &byAddress),
		errors.Is(err, ErrNoFreeSpots):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &storage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
