package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client   *maps.Client
	region   string
	language string
}

func NewGoogleMapsProvider(apiKey, region, language string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client:   client,
		region:   region,
		language: language,
	}, nil
}

func (g *GoogleMapsProvider) Geocode(ctx context.Context, address string) ([]GeocodeResult, error) {
	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Region:   g.region,
		Language: g.language,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrNoResults
	}

	return toResults(resp), nil
}

func (g *GoogleMapsProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeResult, error) {
	resp, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: g.language,
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, ErrNoResults
	}

	return toResults(resp), nil
}

func (g *GoogleMapsProvider) Distance(ctx context.Context, origin, destination string) (*DistanceResult, error) {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
		Language:     g.language,
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, ErrNoResults
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("%w: %s", ErrNoResults, element.Status)
	}

	result := &DistanceResult{
		DistanciaKm:     float64(element.Distance.Meters) / 1000,
		DuracionMinutos: element.Duration.Minutes(),
		Fuente:          "google",
	}
	if len(resp.OriginAddresses) > 0 {
		result.Origen = resp.OriginAddresses[0]
	}
	if len(resp.DestinationAddresses) > 0 {
		result.Destino = resp.DestinationAddresses[0]
	}

	return result, nil
}

func toResults(resp []maps.GeocodingResult) []GeocodeResult {
	results := make([]GeocodeResult, len(resp))
	for i, r := range resp {
		results[i] = GeocodeResult{
			PlaceID: r.PlaceID,
			Address: r.FormattedAddress,
			Location: Location{
				Lat: r.Geometry.Location.Lat,
				Lng: r.Geometry.Location.Lng,
			},
		}
		for _, c := range r.AddressComponents {
			for _, t := range c.Types {
				switch t {
				case "administrative_area_level_3", "locality":
					if results[i].Comuna == "" {
						results[i].Comuna = c.LongName
					}
				case "administrative_area_level_2":
					results[i].Ciudad = c.LongName
				}
			}
		}
	}
	return results
}
