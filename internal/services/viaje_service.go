package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/events"
	"fletes/pkg/logger"
)

const (
	entityViaje = "viaje"
	prefixViaje = "VJ"
)

type ViajeService interface {
	Create(ctx context.Context, request *validators.ViajeCreateRequest, actor models.Actor) (*models.Viaje, error)
	GetByID(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Viaje, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.ViajeUpdateRequest, actor models.Actor) (*models.Viaje, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.ViajeFilter, params *utils.PaginationParams, actor models.Actor) ([]*models.Viaje, int64, error)
	CambiarEstado(ctx context.Context, id primitive.ObjectID, request *validators.EstadoViajeRequest, actor models.Actor) (*models.Viaje, error)
	ActualizarUbicacion(ctx context.Context, id primitive.ObjectID, request *validators.UbicacionRequest, actor models.Actor) (*models.ProgresoViaje, error)
	Progreso(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.ProgresoViaje, error)
	Activos(ctx context.Context) ([]*models.Viaje, error)

	// IniciarProgramados starts every programado trip whose departure time
	// has passed. Failures are logged and skipped.
	IniciarProgramados(ctx context.Context, now time.Time) (int, error)
	// EstimarProgreso sets a time-based progreso on en_curso trips whose last
	// GPS fix is older than staleAfter.
	EstimarProgreso(ctx context.Context, now time.Time, staleAfter time.Duration) (int, error)
}

type viajeService struct {
	viajeRepo      interfaces.ViajeRepository
	cotizacionRepo interfaces.CotizacionRepository
	clienteRepo    interfaces.ClienteRepository
	camionRepo     interfaces.CamionRepository
	motoristaRepo  interfaces.MotoristaRepository
	sequencer      interfaces.Sequencer
	geo            GeoService
	pricing        PricingService
	audit          *auditTrail
	notify         *notifier
	logger         *logger.Logger
	progresoMaximo int
	now            func() time.Time
}

func NewViajeService(
	viajeRepo interfaces.ViajeRepository,
	cotizacionRepo interfaces.CotizacionRepository,
	clienteRepo interfaces.ClienteRepository,
	camionRepo interfaces.CamionRepository,
	motoristaRepo interfaces.MotoristaRepository,
	auditLogRepo interfaces.AuditLogRepository,
	sequencer interfaces.Sequencer,
	geo GeoService,
	pricing PricingService,
	publisher events.Publisher,
	hub Broadcaster,
	progresoMaximo int,
	logger *logger.Logger,
) ViajeService {
	if progresoMaximo <= 0 || progresoMaximo > 99 {
		progresoMaximo = 99
	}
	return &viajeService{
		viajeRepo:      viajeRepo,
		cotizacionRepo: cotizacionRepo,
		clienteRepo:    clienteRepo,
		camionRepo:     camionRepo,
		motoristaRepo:  motoristaRepo,
		sequencer:      sequencer,
		geo:            geo,
		pricing:        pricing,
		audit:          newAuditTrail(auditLogRepo, logger),
		notify:         newNotifier(publisher, hub, logger),
		logger:         logger,
		progresoMaximo: progresoMaximo,
		now:            time.Now,
	}
}

func authorizeViaje(actor models.Actor, v *models.Viaje) error {
	switch actor.Role {
	case models.RoleMotorista:
		if v.ConductorID != actor.ID {
			return utils.Forbidden()
		}
	case models.RoleCliente:
		if v.ClientID != actor.ID {
			return utils.Forbidden()
		}
	}
	return nil
}

func (s *viajeService) Create(ctx context.Context, request *validators.ViajeCreateRequest, actor models.Actor) (*models.Viaje, error) {
	v := request.ToModel()

	var cotizacion *models.Cotizacion
	if v.CotizacionID != nil {
		c, err := s.cotizacionRepo.GetByID(ctx, *v.CotizacionID)
		if err != nil {
			return nil, err
		}
		if c.Estado != models.CotizacionAceptada {
			return nil, utils.BadRequest("La cotización debe estar aceptada para generar un viaje")
		}
		if c.ViajeID != nil {
			return nil, utils.BadRequest("La cotización ya tiene un viaje asociado")
		}
		fromCotizacion(v, c)
		cotizacion = c
	} else if _, err := s.clienteRepo.GetByID(ctx, v.ClientID); err != nil {
		return nil, err
	}

	if !tienePunto(v.Origen) || !tienePunto(v.Destino) {
		return nil, utils.Validation(map[string]string{"origen": "Debe indicar origen y destino"})
	}
	if v.DistanciaKm == 0 {
		km, err := s.geo.DistanciaEntre(ctx, v.Origen, v.Destino)
		if err != nil {
			return nil, err
		}
		v.DistanciaKm = km
	}

	if err := s.checkAsignacion(ctx, v, primitive.NilObjectID); err != nil {
		return nil, err
	}

	codigo, err := s.sequencer.Next(ctx, prefixViaje)
	if err != nil {
		return nil, fmt.Errorf("failed to generate codigo: %w", err)
	}
	v.Codigo = codigo
	v.Estado = models.ViajeProgramado
	v.Progreso = 0
	v.FechaLlegadaEstimada = s.pricing.LlegadaEstimada(v.FechaSalida, v.DistanciaKm)

	if err := s.viajeRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	if cotizacion != nil {
		if err := s.cotizacionRepo.LinkViaje(ctx, cotizacion.ID, &v.ID); err != nil {
			// the quote changed under us; the trip must not exist without it
			if delErr := s.viajeRepo.Delete(ctx, v.ID); delErr != nil {
				s.logger.WithViajeID(v.ID).WithError(delErr).Error("Failed to remove orphan viaje")
			}
			return nil, err
		}
	}

	s.audit.record(ctx, actor, models.AuditActionCreate, entityViaje, v.ID, "", string(v.Estado), map[string]interface{}{"codigo": v.Codigo})
	s.logger.LogDomainEvent(entityViaje, v.ID, events.ViajeAsignado, map[string]interface{}{
		"codigo":       v.Codigo,
		"truck_id":     v.TruckID.Hex(),
		"conductor_id": v.ConductorID.Hex(),
	})
	s.notify.publish(ctx, viajeEvent(events.ViajeAsignado, v))

	return s.viajeRepo.GetByID(ctx, v.ID)
}

// fromCotizacion fills what the request left empty from the source quote.
func fromCotizacion(v *models.Viaje, c *models.Cotizacion) {
	v.ClientID = c.ClientID
	if !tienePunto(v.Origen) {
		v.Origen = c.Origen
	}
	if !tienePunto(v.Destino) {
		v.Destino = c.Destino
	}
	if v.Carga == (models.Carga{}) {
		v.Carga = c.Carga
	}
	if v.DistanciaKm == 0 {
		v.DistanciaKm = c.DistanciaKm
	}
	if v.CostoTotal == 0 {
		v.CostoTotal = c.Costos.Total
	}
	if v.Observaciones == "" {
		v.Observaciones = c.Observaciones
	}
}

func tienePunto(p models.Punto) bool {
	return p.Direccion != "" || p.TieneCoordenadas()
}

// checkAsignacion validates truck and driver for a trip. exclude is the trip
// being edited, so it does not count against itself.
func (s *viajeService) checkAsignacion(ctx context.Context, v *models.Viaje, exclude primitive.ObjectID) error {
	camion, err := s.camionRepo.GetByID(ctx, v.TruckID)
	if err != nil {
		return badReference(err, "truckId", "Camión no encontrado")
	}
	if camion.Estado != models.CamionDisponible {
		return utils.BadRequest(fmt.Sprintf("El camión %s no está disponible (%s)", camion.Patente, camion.Estado))
	}
	if !camion.SoportaCarga(v.Carga.PesoKg) {
		return utils.BadRequest(fmt.Sprintf("La carga excede la capacidad del camión %s (%.1f t)", camion.Patente, camion.CapacidadToneladas))
	}
	busy, err := s.viajeRepo.HasActiveForTruck(ctx, v.TruckID, exclude)
	if err != nil {
		return err
	}
	if busy {
		return utils.BadRequest(fmt.Sprintf("El camión %s ya tiene un viaje activo", camion.Patente))
	}

	motorista, err := s.motoristaRepo.GetByID(ctx, v.ConductorID)
	if err != nil {
		return badReference(err, "conductorId", "Motorista no encontrado")
	}
	if motorista.Estado != models.MotoristaDisponible {
		return utils.BadRequest(fmt.Sprintf("El motorista %s no está disponible", motorista.NombreCompleto()))
	}
	vigencia := v.FechaSalida
	if vigencia.IsZero() {
		vigencia = s.now()
	}
	if !motorista.Licencia.Vigente(vigencia) {
		return utils.BadRequest(fmt.Sprintf("La licencia de %s está vencida", motorista.NombreCompleto()))
	}
	busy, err = s.viajeRepo.HasActiveForConductor(ctx, v.ConductorID, exclude)
	if err != nil {
		return err
	}
	if busy {
		return utils.BadRequest(fmt.Sprintf("El motorista %s ya tiene un viaje activo", motorista.NombreCompleto()))
	}
	return nil
}

func badReference(err error, field, message string) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.Validation(map[string]string{field: message})
	}
	return err
}

func (s *viajeService) GetByID(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Viaje, error) {
	v, err := s.viajeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeViaje(actor, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *viajeService) Update(ctx context.Context, id primitive.ObjectID, request *validators.ViajeUpdateRequest, actor models.Actor) (*models.Viaje, error) {
	v, err := s.viajeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Estado != models.ViajeProgramado {
		return nil, utils.BadRequest("Solo se pueden modificar viajes programados")
	}

	request.Apply(v)
	if v.DistanciaKm == 0 {
		km, err := s.geo.DistanciaEntre(ctx, v.Origen, v.Destino)
		if err != nil {
			return nil, err
		}
		v.DistanciaKm = km
	}
	if err := s.checkAsignacion(ctx, v, v.ID); err != nil {
		return nil, err
	}
	v.FechaLlegadaEstimada = s.pricing.LlegadaEstimada(v.FechaSalida, v.DistanciaKm)

	if err := s.viajeRepo.Save(ctx, v, models.ViajeProgramado); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityViaje, v.ID, "", "", nil)
	return s.viajeRepo.GetByID(ctx, v.ID)
}

// Delete removes trips that never ran or were cancelled.
func (s *viajeService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	v, err := s.viajeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.Estado != models.ViajeProgramado && v.Estado != models.ViajeCancelado {
		return utils.BadRequest(fmt.Sprintf("No se puede eliminar un viaje %s", v.Estado))
	}

	if err := s.viajeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if v.Estado == models.ViajeProgramado {
		s.unlinkCotizacion(ctx, v)
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityViaje, id, "", "", map[string]interface{}{"codigo": v.Codigo})
	return nil
}

func (s *viajeService) List(ctx context.Context, filter interfaces.ViajeFilter, params *utils.PaginationParams, actor models.Actor) ([]*models.Viaje, int64, error) {
	switch actor.Role {
	case models.RoleMotorista:
		filter.ConductorID = &actor.ID
	case models.RoleCliente:
		filter.ClientID = &actor.ID
	}
	return s.viajeRepo.List(ctx, filter, params)
}

func (s *viajeService) CambiarEstado(ctx context.Context, id primitive.ObjectID, request *validators.EstadoViajeRequest, actor models.Actor) (*models.Viaje, error) {
	v, err := s.viajeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeViaje(actor, v); err != nil {
		return nil, err
	}

	to := models.EstadoViaje(request.Estado)
	if !v.Estado.CanTransitionTo(to) {
		return nil, utils.InvalidTransition(string(v.Estado), string(to))
	}

	switch to {
	case models.ViajeEnCurso:
		err = s.iniciar(ctx, v, actor)
	case models.ViajeCompletado:
		err = s.completar(ctx, v, actor)
	case models.ViajeCancelado:
		if actor.Role == models.RoleMotorista {
			return nil, utils.Forbidden()
		}
		err = s.cancelar(ctx, v, request.MotivoCancelacion, actor)
	}
	if err != nil {
		return nil, err
	}
	return s.viajeRepo.GetByID(ctx, id)
}

func (s *viajeService) iniciar(ctx context.Context, v *models.Viaje, actor models.Actor) error {
	camion, err := s.camionRepo.GetByID(ctx, v.TruckID)
	if err != nil {
		return err
	}
	if camion.Estado != models.CamionDisponible {
		return utils.BadRequest(fmt.Sprintf("El camión %s no está disponible (%s)", camion.Patente, camion.Estado))
	}
	motorista, err := s.motoristaRepo.GetByID(ctx, v.ConductorID)
	if err != nil {
		return err
	}
	if motorista.Estado != models.MotoristaDisponible {
		return utils.BadRequest(fmt.Sprintf("El motorista %s no está disponible", motorista.NombreCompleto()))
	}
	now := s.now().UTC()
	if !motorista.Licencia.Vigente(now) {
		return utils.BadRequest(fmt.Sprintf("La licencia de %s está vencida", motorista.NombreCompleto()))
	}

	updates := interfaces.Updates{"fechaInicio": now}
	if llegada := s.pricing.LlegadaEstimada(now, v.DistanciaKm); llegada != nil {
		updates["fechaLlegadaEstimada"] = *llegada
		v.FechaLlegadaEstimada = llegada
	}
	if err := s.viajeRepo.UpdateStatus(ctx, v.ID, models.ViajeProgramado, models.ViajeEnCurso, updates); err != nil {
		return err
	}

	if err := s.camionRepo.SetEstado(ctx, v.TruckID, models.CamionEnUso, models.CamionDisponible); err != nil {
		s.revertInicio(ctx, v)
		return err
	}
	if err := s.motoristaRepo.SetEstado(ctx, v.ConductorID, models.MotoristaEnViaje, models.MotoristaDisponible); err != nil {
		if relErr := s.camionRepo.SetEstado(ctx, v.TruckID, models.CamionDisponible, models.CamionEnUso); relErr != nil {
			s.logger.WithViajeID(v.ID).WithError(relErr).Error("Failed to release camion after failed start")
		}
		s.revertInicio(ctx, v)
		return err
	}

	v.Estado = models.ViajeEnCurso
	v.FechaInicio = &now
	s.afterTransition(ctx, v, models.ViajeProgramado, actor, events.ViajeIniciado)
	return nil
}

func (s *viajeService) revertInicio(ctx context.Context, v *models.Viaje) {
	err := s.viajeRepo.UpdateStatus(ctx, v.ID, models.ViajeEnCurso, models.ViajeProgramado, nil)
	if err != nil {
		s.logger.WithViajeID(v.ID).WithError(err).Error("Failed to revert viaje start")
	}
}

func (s *viajeService) completar(ctx context.Context, v *models.Viaje, actor models.Actor) error {
	now := s.now().UTC()
	err := s.viajeRepo.UpdateStatus(ctx, v.ID, models.ViajeEnCurso, models.ViajeCompletado, interfaces.Updates{
		"fechaFin": now,
		"progreso": 100,
	})
	if err != nil {
		return err
	}
	s.liberarRecursos(ctx, v)

	if v.CotizacionID != nil {
		err := s.cotizacionRepo.UpdateStatus(ctx, *v.CotizacionID, models.CotizacionAceptada, models.CotizacionEjecutada,
			interfaces.Updates{"fechaEjecucion": now})
		if err != nil {
			s.logger.WithViajeID(v.ID).WithError(err).Warn("Failed to mark cotizacion as ejecutada")
		} else {
			s.audit.record(ctx, actor, models.AuditActionTransition, entityCotizacion, *v.CotizacionID,
				string(models.CotizacionAceptada), string(models.CotizacionEjecutada), map[string]interface{}{"viaje": v.Codigo})
		}
	}

	v.Estado = models.ViajeCompletado
	v.Progreso = 100
	v.FechaFin = &now
	s.afterTransition(ctx, v, models.ViajeEnCurso, actor, events.ViajeCompletado)
	return nil
}

func (s *viajeService) cancelar(ctx context.Context, v *models.Viaje, motivo string, actor models.Actor) error {
	from := v.Estado
	now := s.now().UTC()
	updates := interfaces.Updates{"fechaFin": now}
	if motivo != "" {
		updates["motivoCancelacion"] = motivo
	}
	if err := s.viajeRepo.UpdateStatus(ctx, v.ID, from, models.ViajeCancelado, updates); err != nil {
		return err
	}
	if from == models.ViajeEnCurso {
		s.liberarRecursos(ctx, v)
	}
	s.unlinkCotizacion(ctx, v)

	v.Estado = models.ViajeCancelado
	v.MotivoCancelacion = motivo
	v.FechaFin = &now
	s.afterTransition(ctx, v, from, actor, events.ViajeCancelado)
	return nil
}

// liberarRecursos returns truck and driver to disponible. Either may have been
// changed by hand meanwhile; that is logged, not fatal.
func (s *viajeService) liberarRecursos(ctx context.Context, v *models.Viaje) {
	if err := s.camionRepo.SetEstado(ctx, v.TruckID, models.CamionDisponible, models.CamionEnUso); err != nil {
		s.logger.WithViajeID(v.ID).WithError(err).Warn("Failed to release camion")
	}
	if err := s.motoristaRepo.SetEstado(ctx, v.ConductorID, models.MotoristaDisponible, models.MotoristaEnViaje); err != nil {
		s.logger.WithViajeID(v.ID).WithError(err).Warn("Failed to release motorista")
	}
}

// unlinkCotizacion frees the source quote so another trip can be generated.
func (s *viajeService) unlinkCotizacion(ctx context.Context, v *models.Viaje) {
	if v.CotizacionID == nil {
		return
	}
	err := s.cotizacionRepo.LinkViaje(ctx, *v.CotizacionID, nil)
	if err != nil && !errors.Is(err, utils.ErrConflict) {
		s.logger.WithViajeID(v.ID).WithError(err).Warn("Failed to unlink cotizacion")
	}
}

func (s *viajeService) afterTransition(ctx context.Context, v *models.Viaje, from models.EstadoViaje, actor models.Actor, eventType string) {
	s.audit.record(ctx, actor, models.AuditActionTransition, entityViaje, v.ID, string(from), string(v.Estado), nil)
	s.logger.LogDomainEvent(entityViaje, v.ID, eventType, map[string]interface{}{
		"codigo": v.Codigo,
		"from":   from,
		"to":     v.Estado,
	})
	s.notify.publish(ctx, viajeEvent(eventType, v))
	s.notify.viajeEstado(v)
}

func (s *viajeService) ActualizarUbicacion(ctx context.Context, id primitive.ObjectID, request *validators.UbicacionRequest, actor models.Actor) (*models.ProgresoViaje, error) {
	v, err := s.viajeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleCliente {
		return nil, utils.Forbidden()
	}
	if err := authorizeViaje(actor, v); err != nil {
		return nil, err
	}
	if v.Estado != models.ViajeEnCurso {
		return nil, utils.BadRequest("El viaje no está en curso")
	}

	ubicacion := models.Ubicacion{Lat: request.Lat, Lng: request.Lng, ActualizadoEn: s.now().UTC()}
	progreso := v.Progreso
	if p, ok := progresoPorDistancia(v, ubicacion, s.progresoMaximo); ok {
		progreso = p
	}

	if err := s.viajeRepo.UpdatePosition(ctx, id, ubicacion, progreso); err != nil {
		return nil, err
	}
	if err := s.motoristaRepo.UpdateUbicacion(ctx, v.ConductorID, ubicacion); err != nil {
		s.logger.WithViajeID(id).WithError(err).Warn("Failed to store motorista position")
	}

	v.UbicacionActual = &ubicacion
	v.Progreso = progreso
	result := progresoDe(v)
	s.notify.viajeProgreso(v, result)
	return result, nil
}

// progresoPorDistancia is 100 * (1 - remaining/total) using straight-line
// distances. It needs coordinates on both ends of the trip.
func progresoPorDistancia(v *models.Viaje, u models.Ubicacion, max int) (int, bool) {
	if !v.Origen.TieneCoordenadas() || !v.Destino.TieneCoordenadas() {
		return 0, false
	}
	total := utils.CalculateDistance(v.Origen.Lat, v.Origen.Lng, v.Destino.Lat, v.Destino.Lng)
	if total <= 0 {
		return 0, false
	}
	restante := utils.CalculateDistance(u.Lat, u.Lng, v.Destino.Lat, v.Destino.Lng)
	return utils.ProgressPercent(restante, total, max), true
}

func progresoDe(v *models.Viaje) *models.ProgresoViaje {
	p := &models.ProgresoViaje{
		Estado:               v.Estado,
		Progreso:             v.Progreso,
		UbicacionActual:      v.UbicacionActual,
		FechaLlegadaEstimada: v.FechaLlegadaEstimada,
	}
	switch {
	case v.Estado == models.ViajeCompletado:
		cero := 0.0
		p.DistanciaRestanteKm = &cero
	case v.UbicacionActual != nil && v.Destino.TieneCoordenadas():
		km := utils.RoundTo(utils.CalculateDistance(v.UbicacionActual.Lat, v.UbicacionActual.Lng, v.Destino.Lat, v.Destino.Lng), 1)
		p.DistanciaRestanteKm = &km
	case v.Estado == models.ViajeProgramado && v.DistanciaKm > 0:
		km := v.DistanciaKm
		p.DistanciaRestanteKm = &km
	}
	return p
}

func (s *viajeService) Progreso(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.ProgresoViaje, error) {
	v, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return progresoDe(v), nil
}

func (s *viajeService) Activos(ctx context.Context) ([]*models.Viaje, error) {
	return s.viajeRepo.Activos(ctx)
}

func (s *viajeService) IniciarProgramados(ctx context.Context, now time.Time) (int, error) {
	viajes, err := s.viajeRepo.DueToStart(ctx, now)
	if err != nil {
		return 0, err
	}

	started := 0
	for _, v := range viajes {
		if ctx.Err() != nil {
			return started, ctx.Err()
		}
		if err := s.iniciar(ctx, v, models.SystemActor); err != nil {
			s.logger.WithViajeID(v.ID).WithError(err).Warn("Automatic start skipped")
			continue
		}
		started++
	}
	return started, nil
}

func (s *viajeService) EstimarProgreso(ctx context.Context, now time.Time, staleAfter time.Duration) (int, error) {
	viajes, err := s.viajeRepo.StaleInProgress(ctx, now.Add(-staleAfter))
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, v := range viajes {
		p, ok := progresoPorTiempo(v, now, s.progresoMaximo)
		if !ok || p <= v.Progreso {
			continue
		}
		if err := s.viajeRepo.SetProgreso(ctx, v.ID, p); err != nil {
			s.logger.WithViajeID(v.ID).WithError(err).Warn("Failed to estimate progreso")
			continue
		}
		v.Progreso = p
		s.notify.viajeProgreso(v, progresoDe(v))
		updated++
	}
	return updated, nil
}

// progresoPorTiempo is the elapsed share of the planned trip duration.
func progresoPorTiempo(v *models.Viaje, now time.Time, max int) (int, bool) {
	if v.FechaInicio == nil || v.FechaLlegadaEstimada == nil {
		return 0, false
	}
	total := v.FechaLlegadaEstimada.Sub(*v.FechaInicio)
	if total <= 0 {
		return 0, false
	}
	elapsed := now.Sub(*v.FechaInicio)
	return utils.ClampInt(int(100*elapsed/total), 0, max), true
}
