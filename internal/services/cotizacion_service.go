package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/events"
	"fletes/pkg/logger"
	"fletes/pkg/pdf"
)

const (
	entityCotizacion = "cotizacion"
	prefixCotizacion = "COT"
)

type CotizacionService interface {
	// Calcular prices a quote without saving it.
	Calcular(ctx context.Context, request *validators.CalcularRequest) (*models.Cotizacion, error)
	Create(ctx context.Context, request *validators.CotizacionCreateRequest, actor models.Actor) (*models.Cotizacion, error)
	GetByID(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Cotizacion, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.CotizacionUpdateRequest, actor models.Actor) (*models.Cotizacion, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.CotizacionFilter, params *utils.PaginationParams, actor models.Actor) ([]*models.Cotizacion, int64, error)
	CambiarEstado(ctx context.Context, id primitive.ObjectID, request *validators.EstadoCotizacionRequest, actor models.Actor) (*models.Cotizacion, error)
	ConvertirViaje(ctx context.Context, id primitive.ObjectID, request *validators.ConvertirViajeRequest, actor models.Actor) (*models.Viaje, error)
	PDF(ctx context.Context, id primitive.ObjectID, actor models.Actor) ([]byte, string, error)
	// Expirar moves open quotes past their validity to vencida.
	Expirar(ctx context.Context, now time.Time) (int, error)
}

// QuoteBranding is what the PDF prints about the issuer.
type QuoteBranding struct {
	Emisor    string
	Moneda    string
	Decimales int
}

type cotizacionService struct {
	cotizacionRepo interfaces.CotizacionRepository
	clienteRepo    interfaces.ClienteRepository
	sequencer      interfaces.Sequencer
	pricing        PricingService
	geo            GeoService
	viajes         ViajeService
	pdf            *pdf.Generator
	branding       QuoteBranding
	audit          *auditTrail
	notify         *notifier
	logger         *logger.Logger
	now            func() time.Time
}

func NewCotizacionService(
	cotizacionRepo interfaces.CotizacionRepository,
	clienteRepo interfaces.ClienteRepository,
	auditLogRepo interfaces.AuditLogRepository,
	sequencer interfaces.Sequencer,
	pricing PricingService,
	geo GeoService,
	viajes ViajeService,
	generator *pdf.Generator,
	branding QuoteBranding,
	publisher events.Publisher,
	logger *logger.Logger,
) CotizacionService {
	if generator == nil {
		generator = pdf.NewGenerator()
	}
	return &cotizacionService{
		cotizacionRepo: cotizacionRepo,
		clienteRepo:    clienteRepo,
		sequencer:      sequencer,
		pricing:        pricing,
		geo:            geo,
		viajes:         viajes,
		pdf:            generator,
		branding:       branding,
		audit:          newAuditTrail(auditLogRepo, logger),
		notify:         newNotifier(publisher, nil, logger),
		logger:         logger,
		now:            time.Now,
	}
}

func authorizeCotizacion(actor models.Actor, c *models.Cotizacion) error {
	switch actor.Role {
	case models.RoleCliente:
		if c.ClientID != actor.ID {
			return utils.Forbidden()
		}
	case models.RoleMotorista:
		return utils.Forbidden()
	}
	return nil
}

func (s *cotizacionService) distancia(ctx context.Context, c *models.Cotizacion) error {
	if c.DistanciaKm > 0 {
		return nil
	}
	if !tienePunto(c.Origen) || !tienePunto(c.Destino) {
		return nil
	}
	km, err := s.geo.DistanciaEntre(ctx, c.Origen, c.Destino)
	if err != nil {
		return err
	}
	c.DistanciaKm = km
	return nil
}

func (s *cotizacionService) Calcular(ctx context.Context, request *validators.CalcularRequest) (*models.Cotizacion, error) {
	c := request.ToModel()
	if err := s.distancia(ctx, c); err != nil {
		return nil, err
	}
	c.CreatedAt = s.now().UTC()
	c.Estado = models.CotizacionPendiente
	s.pricing.Apply(c)
	return c, nil
}

func (s *cotizacionService) Create(ctx context.Context, request *validators.CotizacionCreateRequest, actor models.Actor) (*models.Cotizacion, error) {
	c := request.ToModel()
	if actor.Role == models.RoleCliente {
		c.ClientID = actor.ID
	}
	if _, err := s.clienteRepo.GetByID(ctx, c.ClientID); err != nil {
		return nil, badReference(err, "clientId", "Cliente no encontrado")
	}
	if err := s.distancia(ctx, c); err != nil {
		return nil, err
	}

	folio, err := s.sequencer.Next(ctx, prefixCotizacion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate folio: %w", err)
	}
	c.Folio = folio
	c.Estado = models.CotizacionPendiente
	c.CreadoPor = actor.IDPtr()
	c.CreatedAt = s.now().UTC()
	s.pricing.Apply(c)

	if err := s.cotizacionRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionCreate, entityCotizacion, c.ID, "", string(c.Estado),
		map[string]interface{}{"folio": c.Folio, "total": c.Costos.Total})

	return s.cotizacionRepo.GetByID(ctx, c.ID)
}

func (s *cotizacionService) GetByID(ctx context.Context, id primitive.ObjectID, actor models.Actor) (*models.Cotizacion, error) {
	c, err := s.cotizacionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCotizacion(actor, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cotizacionService) Update(ctx context.Context, id primitive.ObjectID, request *validators.CotizacionUpdateRequest, actor models.Actor) (*models.Cotizacion, error) {
	c, err := s.cotizacionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Estado.Editable() {
		return nil, utils.BadRequest(fmt.Sprintf("No se puede modificar una cotización %s", c.Estado))
	}

	expected, validez := c.Estado, c.ValidezDias
	request.Apply(c)
	if c.ValidezDias != validez {
		c.FechaVencimiento = time.Time{}
	}
	if err := s.distancia(ctx, c); err != nil {
		return nil, err
	}
	s.pricing.Apply(c)

	if err := s.cotizacionRepo.Save(ctx, c, expected); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityCotizacion, id, "", "",
		map[string]interface{}{"total": c.Costos.Total})
	return s.cotizacionRepo.GetByID(ctx, id)
}

func (s *cotizacionService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	c, err := s.cotizacionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.ViajeID != nil {
		return utils.BadRequest("La cotización tiene un viaje asociado")
	}
	if err := s.cotizacionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityCotizacion, id, "", "", map[string]interface{}{"folio": c.Folio})
	return nil
}

func (s *cotizacionService) List(ctx context.Context, filter interfaces.CotizacionFilter, params *utils.PaginationParams, actor models.Actor) ([]*models.Cotizacion, int64, error) {
	switch actor.Role {
	case models.RoleCliente:
		filter.ClientID = &actor.ID
	case models.RoleMotorista:
		return nil, 0, utils.Forbidden()
	}
	return s.cotizacionRepo.List(ctx, filter, params)
}

func (s *cotizacionService) CambiarEstado(ctx context.Context, id primitive.ObjectID, request *validators.EstadoCotizacionRequest, actor models.Actor) (*models.Cotizacion, error) {
	c, err := s.cotizacionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCotizacion(actor, c); err != nil {
		return nil, err
	}

	to := models.EstadoCotizacion(request.Estado)
	if actor.Role == models.RoleCliente && to != models.CotizacionAceptada && to != models.CotizacionRechazada {
		return nil, utils.Forbidden()
	}
	if !c.Estado.CanTransitionTo(to) {
		return nil, utils.InvalidTransition(string(c.Estado), string(to))
	}

	now := s.now().UTC()
	if to == models.CotizacionAceptada && c.Vencida(now) {
		return nil, utils.BadRequest("La cotización está vencida")
	}
	if to == models.CotizacionCancelada && c.ViajeID != nil {
		return nil, utils.BadRequest("La cotización tiene un viaje asociado")
	}

	updates := interfaces.Updates{}
	switch to {
	case models.CotizacionEnviada:
		updates["fechaEnvio"] = now
	case models.CotizacionAceptada, models.CotizacionRechazada:
		updates["fechaRespuesta"] = now
	case models.CotizacionEjecutada:
		updates["fechaEjecucion"] = now
	case models.CotizacionPendiente:
		if c.Estado == models.CotizacionVencida {
			updates["fechaReapertura"] = now
			updates["fechaVencimiento"] = now.AddDate(0, 0, c.ValidezDias)
		}
	}
	if obs := strings.TrimSpace(request.Observaciones); obs != "" {
		updates["observaciones"] = obs
	}

	if err := s.cotizacionRepo.UpdateStatus(ctx, id, c.Estado, to, updates); err != nil {
		return nil, err
	}
	s.afterTransition(ctx, c, c.Estado, to, actor)

	return s.cotizacionRepo.GetByID(ctx, id)
}

func (s *cotizacionService) afterTransition(ctx context.Context, c *models.Cotizacion, from, to models.EstadoCotizacion, actor models.Actor) {
	s.audit.record(ctx, actor, models.AuditActionTransition, entityCotizacion, c.ID, string(from), string(to), nil)
	s.logger.LogDomainEvent(entityCotizacion, c.ID, "cotizacion."+string(to), map[string]interface{}{
		"folio": c.Folio,
		"from":  from,
	})

	var eventType string
	switch to {
	case models.CotizacionEnviada:
		eventType = events.CotizacionEnviada
	case models.CotizacionAceptada:
		eventType = events.CotizacionAceptada
	case models.CotizacionRechazada:
		eventType = events.CotizacionRechazada
	default:
		return
	}
	e := events.New(eventType, c.ID.Hex(), c.Folio)
	e.ClientID = c.ClientID.Hex()
	e.Data = map[string]string{
		"total":            pdf.FormatMoney(c.Costos.Total, s.branding.Moneda, s.branding.Decimales),
		"fechaVencimiento": c.FechaVencimiento.Format("2006-01-02"),
	}
	s.notify.publish(ctx, e)
}

func (s *cotizacionService) ConvertirViaje(ctx context.Context, id primitive.ObjectID, request *validators.ConvertirViajeRequest, actor models.Actor) (*models.Viaje, error) {
	c, err := s.cotizacionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	salida := s.now().UTC()
	switch {
	case request.FechaSalida != nil:
		salida = *request.FechaSalida
	case c.FechaServicio != nil:
		salida = *c.FechaServicio
	}

	return s.viajes.Create(ctx, &validators.ViajeCreateRequest{
		CotizacionID:  id.Hex(),
		TruckID:       request.TruckID,
		ConductorID:   request.ConductorID,
		FechaSalida:   salida,
		Observaciones: request.Observaciones,
	}, actor)
}

func (s *cotizacionService) PDF(ctx context.Context, id primitive.ObjectID, actor models.Actor) ([]byte, string, error) {
	c, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.QuoteDocument{
		Emisor:           s.branding.Emisor,
		Folio:            c.Folio,
		Estado:           string(c.Estado),
		FechaEmision:     c.CreatedAt,
		FechaVencimiento: c.FechaVencimiento,
		FechaServicio:    c.FechaServicio,
		Origen:           c.Origen.Query(),
		Destino:          c.Destino.Query(),
		Carga:            c.Carga.Descripcion,
		PesoKg:           c.Carga.PesoKg,
		DistanciaKm:      c.DistanciaKm,
		DuracionHoras:    c.DuracionEstimadaHoras,
		Lineas:           lineasCotizacion(c.Costos),
		Descuento:        c.Costos.Descuento,
		Subtotal:         c.Costos.Subtotal,
		TasaIVA:          s.pricing.TasaIVA(c.Costos),
		IVA:              c.Costos.IVA,
		Total:            c.Costos.Total,
		Moneda:           s.branding.Moneda,
		Decimales:        s.branding.Decimales,
		Observaciones:    c.Observaciones,
	}
	if c.Cliente != nil {
		doc.Cliente = pdf.Party{
			Nombre:   c.Cliente.Nombre,
			Rut:      c.Cliente.Rut,
			Email:    c.Cliente.Email,
			Telefono: c.Cliente.Telefono,
			Empresa:  c.Cliente.Empresa,
		}
	}

	out, err := s.pdf.Quote(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render cotizacion %s: %w", c.Folio, err)
	}
	return out, c.Folio, nil
}

func lineasCotizacion(costos models.Costos) []pdf.Line {
	var lineas []pdf.Line
	add := func(descripcion string, monto float64) {
		if monto != 0 {
			lineas = append(lineas, pdf.Line{Descripcion: descripcion, Monto: monto})
		}
	}
	add("Combustible", costos.Combustible)
	add("Peajes", costos.Peajes)
	add("Conductor", costos.Conductor)
	add("Viáticos", costos.Viaticos)
	for _, a := range costos.Adicionales {
		add(a.Descripcion, a.Monto)
	}
	return lineas
}

func (s *cotizacionService) Expirar(ctx context.Context, now time.Time) (int, error) {
	vencidas, err := s.cotizacionRepo.Expirable(ctx, now)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, c := range vencidas {
		if err := s.cotizacionRepo.UpdateStatus(ctx, c.ID, c.Estado, models.CotizacionVencida, nil); err != nil {
			s.logger.WithCotizacionID(c.ID).WithError(err).Warn("Failed to expire cotizacion")
			continue
		}
		s.audit.record(ctx, models.SystemActor, models.AuditActionTransition, entityCotizacion, c.ID,
			string(c.Estado), string(models.CotizacionVencida), nil)
		n++
	}
	return n, nil
}
