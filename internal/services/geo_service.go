package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/pkg/logger"
	"fletes/pkg/maps"
)

const fuenteHaversine = "haversine"

type GeoService interface {
	Geocode(ctx context.Context, direccion string) ([]maps.GeocodeResult, error)
	// Distancia accepts addresses or "lat,lng" pairs.
	Distancia(ctx context.Context, origen, destino string) (*maps.DistanceResult, error)
	// DistanciaEntre returns 0 when neither the provider nor coordinates can tell.
	DistanciaEntre(ctx context.Context, origen, destino models.Punto) (float64, error)
}

type geoService struct {
	provider  maps.MapsProvider
	velocidad float64
	logger    *logger.Logger
}

// NewGeoService uses velocidadKmH for durations when the provider cannot answer.
func NewGeoService(provider maps.MapsProvider, velocidadKmH float64, logger *logger.Logger) GeoService {
	if provider == nil {
		provider = maps.Disabled{}
	}
	return &geoService{provider: provider, velocidad: velocidadKmH, logger: logger}
}

func (s *geoService) Geocode(ctx context.Context, direccion string) ([]maps.GeocodeResult, error) {
	direccion = strings.TrimSpace(direccion)
	if direccion == "" {
		return nil, utils.BadRequest("Debe indicar una dirección")
	}

	results, err := s.provider.Geocode(ctx, direccion)
	switch {
	case errors.Is(err, maps.ErrNotConfigured):
		return nil, utils.Unavailable("Servicio de mapas no configurado")
	case errors.Is(err, maps.ErrNoResults):
		return nil, utils.NotFound("Dirección")
	case err != nil:
		return nil, fmt.Errorf("geocode: %w", err)
	}
	return results, nil
}

func (s *geoService) Distancia(ctx context.Context, origen, destino string) (*maps.DistanceResult, error) {
	origen, destino = strings.TrimSpace(origen), strings.TrimSpace(destino)
	if origen == "" || destino == "" {
		return nil, utils.BadRequest("Debe indicar origen y destino")
	}

	result, err := s.provider.Distance(ctx, origen, destino)
	if err == nil {
		return result, nil
	}

	from, ok1 := maps.ParseLatLng(origen)
	to, ok2 := maps.ParseLatLng(destino)
	if ok1 && ok2 {
		if !errors.Is(err, maps.ErrNotConfigured) {
			s.logger.WithError(err).Warn("Maps distance failed, using haversine")
		}
		return haversineResult(origen, destino, from, to, s.velocidad), nil
	}

	switch {
	case errors.Is(err, maps.ErrNotConfigured):
		return nil, utils.Unavailable("Servicio de mapas no configurado")
	case errors.Is(err, maps.ErrNoResults):
		return nil, utils.NotFound("Ruta")
	}
	return nil, fmt.Errorf("distance: %w", err)
}

func (s *geoService) DistanciaEntre(ctx context.Context, origen, destino models.Punto) (float64, error) {
	q1, q2 := puntoQuery(origen), puntoQuery(destino)
	if q1 != "" && q2 != "" {
		result, err := s.provider.Distance(ctx, q1, q2)
		if err == nil {
			return utils.RoundTo(result.DistanciaKm, 1), nil
		}
		if !errors.Is(err, maps.ErrNotConfigured) {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"origen":  q1,
				"destino": q2,
			}).Warn("Maps distance failed")
		}
	}

	if origen.TieneCoordenadas() && destino.TieneCoordenadas() {
		km := utils.CalculateDistance(origen.Lat, origen.Lng, destino.Lat, destino.Lng)
		return utils.RoundTo(km, 1), nil
	}
	return 0, nil
}

func puntoQuery(p models.Punto) string {
	if p.TieneCoordenadas() {
		return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
	}
	return p.Query()
}

func haversineResult(origen, destino string, from, to maps.Location, velocidad float64) *maps.DistanceResult {
	km := utils.RoundTo(utils.CalculateDistance(from.Lat, from.Lng, to.Lat, to.Lng), 1)
	return &maps.DistanceResult{
		DistanciaKm:     km,
		DuracionMinutos: utils.EstimateDuration(km, velocidad).Minutes(),
		Origen:          origen,
		Destino:         destino,
		Fuente:          fuenteHaversine,
	}
}
