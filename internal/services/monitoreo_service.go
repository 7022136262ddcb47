package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/pkg/logger"
)

type Resumen struct {
	Camiones     map[string]int64 `json:"camiones"`
	Motoristas   map[string]int64 `json:"motoristas"`
	Cotizaciones map[string]int64 `json:"cotizaciones"`
	Viajes       map[string]int64 `json:"viajes"`
}

type MonitoreoService interface {
	Resumen(ctx context.Context) (*Resumen, error)
	Activos(ctx context.Context) ([]*models.Viaje, error)
}

type monitoreoService struct {
	camionRepo     interfaces.CamionRepository
	motoristaRepo  interfaces.MotoristaRepository
	cotizacionRepo interfaces.CotizacionRepository
	viajeRepo      interfaces.ViajeRepository
	logger         *logger.Logger
}

func NewMonitoreoService(
	camionRepo interfaces.CamionRepository,
	motoristaRepo interfaces.MotoristaRepository,
	cotizacionRepo interfaces.CotizacionRepository,
	viajeRepo interfaces.ViajeRepository,
	logger *logger.Logger,
) MonitoreoService {
	return &monitoreoService{
		camionRepo:     camionRepo,
		motoristaRepo:  motoristaRepo,
		cotizacionRepo: cotizacionRepo,
		viajeRepo:      viajeRepo,
		logger:         logger,
	}
}

// Resumen counts every entity by estado. The four counts run concurrently.
func (s *monitoreoService) Resumen(ctx context.Context) (*Resumen, error) {
	r := &Resumen{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.Camiones, err = s.camionRepo.CountByEstado(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.Motoristas, err = s.motoristaRepo.CountByEstado(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.Cotizaciones, err = s.cotizacionRepo.CountByEstado(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.Viajes, err = s.viajeRepo.CountByEstado(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *monitoreoService) Activos(ctx context.Context) ([]*models.Viaje, error) {
	return s.viajeRepo.Activos(ctx)
}
