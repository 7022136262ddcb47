package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/pkg/logger"
)

const autoUpdateLock = "auto-update"

// AutoUpdateService runs the periodic housekeeping: quote expiry, scheduled
// trip starts, time-based progress and maintenance flags.
type AutoUpdateService interface {
	Run(ctx context.Context) error
	// Tick runs one pass. It returns false when another instance holds the lock.
	Tick(ctx context.Context) (bool, error)
}

type autoUpdateService struct {
	cotizaciones CotizacionService
	viajes       ViajeService
	camionRepo   interfaces.CamionRepository
	cache        CacheService
	cfg          config.SchedulerConfig
	audit        *auditTrail
	logger       *logger.Logger
	owner        string
	now          func() time.Time
}

func NewAutoUpdateService(
	cotizaciones CotizacionService,
	viajes ViajeService,
	camionRepo interfaces.CamionRepository,
	auditLogRepo interfaces.AuditLogRepository,
	cache CacheService,
	cfg *config.SchedulerConfig,
	logger *logger.Logger,
) AutoUpdateService {
	c := *cfg
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.LockTTL <= 0 {
		c.LockTTL = c.Interval
	}
	if c.GPSStaleAfter <= 0 {
		c.GPSStaleAfter = 10 * time.Minute
	}
	return &autoUpdateService{
		cotizaciones: cotizaciones,
		viajes:       viajes,
		camionRepo:   camionRepo,
		cache:        cache,
		cfg:          c,
		audit:        newAuditTrail(auditLogRepo, logger),
		logger:       logger.WithField("component", "auto_update"),
		owner:        uuid.NewString(),
		now:          time.Now,
	}
}

func (s *autoUpdateService) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("Auto-update disabled")
		return nil
	}
	s.logger.Infof("Auto-update running every %s", s.cfg.Interval)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.logger.WithError(err).Error("Auto-update tick failed")
			}
		}
	}
}

func (s *autoUpdateService) Tick(ctx context.Context) (bool, error) {
	if s.cache != nil {
		ok, err := s.cache.AcquireLock(ctx, autoUpdateLock, s.owner, s.cfg.LockTTL)
		if err != nil {
			return false, err
		}
		if !ok {
			s.logger.Debug("Auto-update lock held elsewhere, skipping tick")
			return false, nil
		}
		defer func() {
			if err := s.cache.ReleaseLock(context.Background(), autoUpdateLock, s.owner); err != nil {
				s.logger.WithError(err).Warn("Failed to release auto-update lock")
			}
		}()
	}

	start := s.now()
	now := start.UTC()
	counts := map[string]int{}

	if n, err := s.cotizaciones.Expirar(ctx, now); err != nil {
		s.logger.WithError(err).Error("Quote expiry failed")
	} else {
		counts["cotizaciones_vencidas"] = n
	}

	if s.cfg.AutoIniciarViajes {
		if n, err := s.viajes.IniciarProgramados(ctx, now); err != nil {
			s.logger.WithError(err).Error("Scheduled trip start failed")
		} else {
			counts["viajes_iniciados"] = n
		}
	}

	if n, err := s.viajes.EstimarProgreso(ctx, now, s.cfg.GPSStaleAfter); err != nil {
		s.logger.WithError(err).Error("Progress estimate failed")
	} else {
		counts["viajes_estimados"] = n
	}

	if n, err := s.mantencion(ctx, now); err != nil {
		s.logger.WithError(err).Error("Maintenance check failed")
	} else {
		counts["camiones_mantencion"] = n
	}

	s.logger.LogSchedulerRun(s.now().Sub(start), counts)
	return true, nil
}

func (s *autoUpdateService) mantencion(ctx context.Context, now time.Time) (int, error) {
	camiones, err := s.camionRepo.DueForMaintenance(ctx, now)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range camiones {
		if err := s.camionRepo.SetEstado(ctx, c.ID, models.CamionMantenimiento, models.CamionDisponible); err != nil {
			s.logger.WithError(err).WithField("patente", c.Patente).Warn("Failed to flag truck for maintenance")
			continue
		}
		s.audit.record(ctx, models.SystemActor, models.AuditActionTransition, entityCamion, c.ID,
			string(models.CamionDisponible), string(models.CamionMantenimiento), nil)
		n++
	}
	return n, nil
}
