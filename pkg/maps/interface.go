package maps

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("maps: provider not configured")
	ErrNoResults     = errors.New("maps: no results")
)

type MapsProvider interface {
	Geocode(ctx context.Context, address string) ([]GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeResult, error)
	// Distance returns the driving distance between two places. Each place is
	// either an address or a "lat,lng" pair.
	Distance(ctx context.Context, origin, destination string) (*DistanceResult, error)
}

type GeocodeResult struct {
	PlaceID  string   `json:"placeId"`
	Address  string   `json:"direccion"`
	Location Location `json:"ubicacion"`
	Comuna   string   `json:"comuna,omitempty"`
	Ciudad   string   `json:"ciudad,omitempty"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DistanceResult struct {
	DistanciaKm     float64 `json:"distanciaKm"`
	DuracionMinutos float64 `json:"duracionMinutos"`
	Origen          string  `json:"origen"`
	Destino         string  `json:"destino"`
	Fuente          string  `json:"fuente"`
}

// Disabled is used when no maps API key is configured.
type Disabled struct{}

func (Disabled) Geocode(context.Context, string) ([]GeocodeResult, error) {
	return nil, ErrNotConfigured
}

func (Disabled) ReverseGeocode(context.Context, float64, float64) ([]GeocodeResult, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Distance(context.Context, string, string) (*DistanceResult, error) {
	return nil, ErrNotConfigured
}
