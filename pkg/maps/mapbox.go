package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MapboxProvider talks to the Mapbox geocoding and directions REST APIs.
type MapboxProvider struct {
	accessToken string
	language    string
	country     string
	httpClient  *http.Client
	baseURL     string
}

func NewMapboxProvider(accessToken, country, language string, timeout time.Duration) *MapboxProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MapboxProvider{
		accessToken: accessToken,
		language:    language,
		country:     country,
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     "https://api.mapbox.com",
	}
}

type mapboxFeature struct {
	ID        string    `json:"id"`
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"`
	Context   []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"context"`
}

func (m *MapboxProvider) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	query.Set("access_token", m.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mapbox API error %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (m *MapboxProvider) geocode(ctx context.Context, search string) ([]GeocodeResult, error) {
	query := url.Values{}
	if m.language != "" {
		query.Set("language", m.language)
	}
	if m.country != "" {
		query.Set("country", m.country)
	}

	var resp struct {
		Features []mapboxFeature `json:"features"`
	}
	if err := m.get(ctx, "/geocoding/v5/mapbox.places/"+url.PathEscape(search)+".json", query, &resp); err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp.Features) == 0 {
		return nil, ErrNoResults
	}

	results := make([]GeocodeResult, 0, len(resp.Features))
	for _, f := range resp.Features {
		if len(f.Center) < 2 {
			continue
		}
		r := GeocodeResult{
			PlaceID:  f.ID,
			Address:  f.PlaceName,
			Location: Location{Lat: f.Center[1], Lng: f.Center[0]},
		}
		for _, c := range f.Context {
			switch {
			case strings.HasPrefix(c.ID, "place."):
				r.Comuna = c.Text
			case strings.HasPrefix(c.ID, "region."):
				r.Ciudad = c.Text
			}
		}
		results = append(results, r)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

func (m *MapboxProvider) Geocode(ctx context.Context, address string) ([]GeocodeResult, error) {
	return m.geocode(ctx, address)
}

func (m *MapboxProvider) ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeResult, error) {
	return m.geocode(ctx, fmt.Sprintf("%f,%f", lng, lat))
}

// Distance resolves addresses to coordinates first; the directions API only
// takes coordinates.
func (m *MapboxProvider) Distance(ctx context.Context, origin, destination string) (*DistanceResult, error) {
	from, fromLabel, err := m.resolve(ctx, origin)
	if err != nil {
		return nil, err
	}
	to, toLabel, err := m.resolve(ctx, destination)
	if err != nil {
		return nil, err
	}

	coords := fmt.Sprintf("%f,%f;%f,%f", from.Lng, from.Lat, to.Lng, to.Lat)
	var resp struct {
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"routes"`
	}
	if err := m.get(ctx, "/directions/v5/mapbox/driving/"+coords, url.Values{"overview": {"false"}}, &resp); err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoResults
	}

	return &DistanceResult{
		DistanciaKm:     resp.Routes[0].Distance / 1000,
		DuracionMinutos: resp.Routes[0].Duration / 60,
		Origen:          fromLabel,
		Destino:         toLabel,
		Fuente:          "mapbox",
	}, nil
}

func (m *MapboxProvider) resolve(ctx context.Context, place string) (Location, string, error) {
	if loc, ok := ParseLatLng(place); ok {
		return loc, place, nil
	}
	results, err := m.geocode(ctx, place)
	if err != nil {
		return Location{}, "", err
	}
	return results[0].Location, results[0].Address, nil
}

// ParseLatLng reads a "lat,lng" pair.
func ParseLatLng(s string) (Location, bool) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return Location{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Location{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil || lng < -180 || lng > 180 {
		return Location{}, false
	}
	return Location{Lat: lat, Lng: lng}, true
}
