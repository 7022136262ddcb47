package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
	"fletes/pkg/pdf"
	"fletes/pkg/websocket"
)

var (
	santiago   = validators.PuntoRequest{Direccion: "Av. Matta 100", Ciudad: "Santiago", Lat: -33.4489, Lng: -70.6693}
	valparaiso = validators.PuntoRequest{Direccion: "Blanco 50", Ciudad: "Valparaíso", Lat: -33.0472, Lng: -71.6127}
)

type fixture struct {
	now          time.Time
	clientes     *fakeClienteRepo
	motoristas   *fakeMotoristaRepo
	camiones     *fakeCamionRepo
	cotizaciones *fakeCotizacionRepo
	viajes       *fakeViajeRepo
	audit        *fakeAuditRepo
	publisher    *recordingPublisher
	hub          *recordingHub

	cliente   *models.Cliente
	motorista *models.Motorista
	camion    *models.Camion

	staff        models.Actor
	viajeSvc     ViajeService
	cotizacionSv CotizacionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		now:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		audit:     &fakeAuditRepo{},
		publisher: &recordingPublisher{},
		hub:       &recordingHub{},
		staff:     models.Actor{ID: primitive.NewObjectID(), Role: models.RoleOperador},
	}
	f.cliente = &models.Cliente{Nombre: "Frutícola del Valle", Email: "compras@valle.cl", Telefono: "+56911112222", Estado: models.EstadoActivo}
	f.motorista = &models.Motorista{Nombre: "Juan", Apellido: "Pérez", Email: "jperez@fletes.cl", Estado: models.MotoristaDisponible}
	f.camion = &models.Camion{Patente: "ABCD12", CapacidadToneladas: 28, Estado: models.CamionDisponible}

	f.clientes = newFakeClienteRepo(f.cliente)
	f.motoristas = newFakeMotoristaRepo(f.motorista)
	f.camiones = newFakeCamionRepo(f.camion)
	f.cotizaciones = newFakeCotizacionRepo(f.clientes)
	f.viajes = newFakeViajeRepo()

	log := logger.Discard()
	pricing := NewPricingService(testPricingConfig())
	geo := NewGeoService(nil, 70, log)
	seq := &fakeSequencer{}

	f.viajeSvc = NewViajeService(f.viajes, f.cotizaciones, f.clientes, f.camiones, f.motoristas, f.audit,
		seq, geo, pricing, f.publisher, f.hub, 99, log)
	f.viajeSvc.(*viajeService).now = f.clock

	f.cotizacionSv = NewCotizacionService(f.cotizaciones, f.clientes, f.audit, seq, pricing, geo, f.viajeSvc,
		pdf.NewGenerator(), QuoteBranding{Emisor: "Transportes Fletes", Moneda: "CLP"}, f.publisher, log)
	f.cotizacionSv.(*cotizacionService).now = f.clock
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) clienteActor() models.Actor {
	return models.Actor{ID: f.cliente.ID, Role: models.RoleCliente}
}

func (f *fixture) motoristaActor() models.Actor {
	return models.Actor{ID: f.motorista.ID, Role: models.RoleMotorista}
}

func (f *fixture) nuevaCotizacion(t *testing.T) *models.Cotizacion {
	t.Helper()
	c, err := f.cotizacionSv.Create(context.Background(), &validators.CotizacionCreateRequest{
		CalcularRequest: validators.CalcularRequest{
			Origen:  santiago,
			Destino: valparaiso,
			Carga:   validators.CargaRequest{Descripcion: "Pallets de fruta", PesoKg: 12000},
			Costos:  validators.CostosRequest{Peajes: 15000},
		},
		ClientID: f.cliente.ID.Hex(),
	}, f.staff)
	require.NoError(t, err)
	return c
}

func (f *fixture) cotizacionAceptada(t *testing.T) *models.Cotizacion {
	t.Helper()
	ctx := context.Background()
	c := f.nuevaCotizacion(t)
	_, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "enviada"}, f.staff)
	require.NoError(t, err)
	c, err = f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "aceptada"}, f.clienteActor())
	require.NoError(t, err)
	return c
}

func (f *fixture) convertir(t *testing.T, cotizacionID primitive.ObjectID) *models.Viaje {
	t.Helper()
	salida := f.now.Add(time.Hour)
	v, err := f.cotizacionSv.ConvertirViaje(context.Background(), cotizacionID, &validators.ConvertirViajeRequest{
		TruckID:     f.camion.ID.Hex(),
		ConductorID: f.motorista.ID.Hex(),
		FechaSalida: &salida,
	}, f.staff)
	require.NoError(t, err)
	return v
}

func (f *fixture) cambiarViaje(id primitive.ObjectID, estado string, actor models.Actor) (*models.Viaje, error) {
	return f.viajeSvc.CambiarEstado(context.Background(), id, &validators.EstadoViajeRequest{Estado: estado}, actor)
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.Status)
}

func TestCotizacionCreatePricesAndNumbers(t *testing.T) {
	f := newFixture(t)

	c := f.nuevaCotizacion(t)

	assert.Equal(t, "COT-20260101-0001", c.Folio)
	assert.Equal(t, models.CotizacionPendiente, c.Estado)
	assert.InDelta(t, 98, c.DistanciaKm, 5)
	assert.Greater(t, c.Costos.Combustible, 0.0)
	assert.Equal(t, c.Costos.Subtotal+c.Costos.IVA, c.Costos.Total)
	assert.Equal(t, f.now.AddDate(0, 0, 15), c.FechaVencimiento)
	require.NotNil(t, c.CreadoPor)
	assert.Equal(t, f.staff.ID, *c.CreadoPor)
	require.NotNil(t, c.Cliente)
	assert.Equal(t, "Frutícola del Valle", c.Cliente.Nombre)
}

func TestCotizacionCreateByClienteUsesOwnID(t *testing.T) {
	f := newFixture(t)

	c, err := f.cotizacionSv.Create(context.Background(), &validators.CotizacionCreateRequest{
		CalcularRequest: validators.CalcularRequest{Origen: santiago, Destino: valparaiso},
		ClientID:        primitive.NewObjectID().Hex(),
	}, f.clienteActor())
	require.NoError(t, err)
	assert.Equal(t, f.cliente.ID, c.ClientID)
}

func TestCotizacionCreateUnknownCliente(t *testing.T) {
	f := newFixture(t)

	_, err := f.cotizacionSv.Create(context.Background(), &validators.CotizacionCreateRequest{
		ClientID: primitive.NewObjectID().Hex(),
	}, f.staff)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCotizacionInvalidTransition(t *testing.T) {
	f := newFixture(t)
	c := f.nuevaCotizacion(t)

	_, err := f.cotizacionSv.CambiarEstado(context.Background(), c.ID, &validators.EstadoCotizacionRequest{Estado: "ejecutada"}, f.staff)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestCotizacionClienteRestrictions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)

	_, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "enviada"}, f.clienteActor())
	assertStatus(t, err, http.StatusForbidden)

	otro := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleCliente}
	_, err = f.cotizacionSv.GetByID(ctx, c.ID, otro)
	assertStatus(t, err, http.StatusForbidden)

	_, _, err = f.cotizacionSv.List(ctx, interfaces.CotizacionFilter{}, utils.DefaultPagination(), f.motoristaActor())
	assertStatus(t, err, http.StatusForbidden)

	items, total, err := f.cotizacionSv.List(ctx, interfaces.CotizacionFilter{}, utils.DefaultPagination(), otro)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestCotizacionTransitionDatesAndEvents(t *testing.T) {
	f := newFixture(t)

	c := f.cotizacionAceptada(t)

	require.NotNil(t, c.FechaEnvio)
	require.NotNil(t, c.FechaRespuesta)
	assert.Equal(t, []string{"cotizacion.enviada", "cotizacion.aceptada"}, f.publisher.types())
	assert.Equal(t, []string{"pendiente->enviada", "enviada->aceptada"}, f.audit.transitions(entityCotizacion))
	assert.Equal(t, f.cliente.ID.Hex(), f.publisher.events[0].ClientID)
	assert.NotEmpty(t, f.publisher.events[0].Data["total"])
}

func TestCotizacionAcceptExpiredRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)
	_, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "enviada"}, f.staff)
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, 20)
	_, err = f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "aceptada"}, f.clienteActor())
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCotizacionExpirarAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)
	_, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "enviada"}, f.staff)
	require.NoError(t, err)

	n, err := f.cotizacionSv.Expirar(ctx, f.now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = f.now.AddDate(0, 0, 16)
	n, err = f.cotizacionSv.Expirar(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.CotizacionVencida, f.cotizaciones.get(c.ID).Estado)

	reopened, err := f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "pendiente"}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, models.CotizacionPendiente, reopened.Estado)
	assert.WithinDuration(t, f.now.AddDate(0, 0, 15), reopened.FechaVencimiento, time.Second)
}

func TestCotizacionReopenSurvivesEdit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)

	f.now = f.now.AddDate(0, 0, 30)
	n, err := f.cotizacionSv.Expirar(ctx, f.now)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	_, err = f.cotizacionSv.CambiarEstado(ctx, c.ID, &validators.EstadoCotizacionRequest{Estado: "pendiente"}, f.staff)
	require.NoError(t, err)

	obs := "Se mantiene la tarifa"
	updated, err := f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{Observaciones: &obs}, f.staff)
	require.NoError(t, err)
	assert.WithinDuration(t, f.now.AddDate(0, 0, 15), updated.FechaVencimiento, time.Second)

	n, err = f.cotizacionSv.Expirar(ctx, f.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, models.CotizacionPendiente, f.cotizaciones.get(c.ID).Estado)

	// a new validity counts from the re-open, not from creation
	dias := 30
	updated, err = f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{ValidezDias: &dias}, f.staff)
	require.NoError(t, err)
	assert.WithinDuration(t, f.now.AddDate(0, 0, 30), updated.FechaVencimiento, time.Second)
}

func TestCotizacionDistanceChangeReestimates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)
	require.True(t, c.Costos.CombustibleEstimado)
	assert.Equal(t, 80000.0, c.Costos.Conductor)

	km := 984.0
	updated, err := f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{DistanciaKm: &km}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 393600.0, updated.Costos.Combustible)
	assert.Equal(t, 160000.0, updated.Costos.Conductor)
	assert.Equal(t, 15000.0, updated.Costos.Peajes)
	assert.Greater(t, updated.Costos.Total, c.Costos.Total)

	manual := validators.CostosRequest{Combustible: 500000, Peajes: 15000}
	_, err = f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{Costos: &manual}, f.staff)
	require.NoError(t, err)
	km = 200
	updated, err = f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{DistanciaKm: &km}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 500000.0, updated.Costos.Combustible)
	assert.False(t, updated.Costos.CombustibleEstimado)
	assert.Equal(t, 80000.0, updated.Costos.Conductor)
}

func TestCotizacionUpdateOnlyWhileEditable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.nuevaCotizacion(t)

	peajes := validators.CostosRequest{Peajes: 40000}
	updated, err := f.cotizacionSv.Update(ctx, c.ID, &validators.CotizacionUpdateRequest{Costos: &peajes}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, 40000.0, updated.Costos.Peajes)
	assert.Greater(t, updated.Costos.Total, c.Costos.Total)

	aceptada := f.cotizacionAceptada(t)
	_, err = f.cotizacionSv.Update(ctx, aceptada.ID, &validators.CotizacionUpdateRequest{Costos: &peajes}, f.staff)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCotizacionCalcularDoesNotSave(t *testing.T) {
	f := newFixture(t)

	c, err := f.cotizacionSv.Calcular(context.Background(), &validators.CalcularRequest{
		Origen: santiago, Destino: valparaiso,
	})
	require.NoError(t, err)
	assert.Greater(t, c.Costos.Total, 0.0)
	assert.True(t, c.ID.IsZero())

	_, total, _ := f.cotizaciones.List(context.Background(), interfaces.CotizacionFilter{}, nil)
	assert.Zero(t, total)
}

func TestCotizacionPDF(t *testing.T) {
	f := newFixture(t)
	c := f.nuevaCotizacion(t)

	out, folio, err := f.cotizacionSv.PDF(context.Background(), c.ID, f.clienteActor())
	require.NoError(t, err)
	assert.Equal(t, c.Folio, folio)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestViajeLifecycleFromCotizacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cotizacionAceptada(t)

	v := f.convertir(t, c.ID)
	assert.Equal(t, "VJ-20260101-0002", v.Codigo)
	assert.Equal(t, models.ViajeProgramado, v.Estado)
	assert.Equal(t, f.cliente.ID, v.ClientID)
	assert.Equal(t, c.Costos.Total, v.CostoTotal)
	assert.Equal(t, c.DistanciaKm, v.DistanciaKm)
	require.NotNil(t, v.FechaLlegadaEstimada)
	linked := f.cotizaciones.get(c.ID)
	require.NotNil(t, linked.ViajeID)
	assert.Equal(t, v.ID, *linked.ViajeID)

	f.now = f.now.Add(time.Hour)
	v, err := f.cambiarViaje(v.ID, "en_curso", f.motoristaActor())
	require.NoError(t, err)
	assert.Equal(t, models.ViajeEnCurso, v.Estado)
	require.NotNil(t, v.FechaInicio)
	assert.Equal(t, models.CamionEnUso, f.camiones.estado(f.camion.ID))
	assert.Equal(t, models.MotoristaEnViaje, f.motoristas.estado(f.motorista.ID))

	mitad := &validators.UbicacionRequest{Lat: (santiago.Lat + valparaiso.Lat) / 2, Lng: (santiago.Lng + valparaiso.Lng) / 2}
	progreso, err := f.viajeSvc.ActualizarUbicacion(ctx, v.ID, mitad, f.motoristaActor())
	require.NoError(t, err)
	assert.InDelta(t, 50, progreso.Progreso, 2)
	require.NotNil(t, progreso.DistanciaRestanteKm)
	assert.InDelta(t, 49, *progreso.DistanciaRestanteKm, 3)
	assert.ElementsMatch(t, []string{websocket.RoomViaje(v.ID.Hex()), websocket.RoomMonitoreo}, f.hub.rooms(MsgViajeProgreso))

	m, err := f.motoristas.GetByID(ctx, f.motorista.ID)
	require.NoError(t, err)
	require.NotNil(t, m.Ubicacion)

	v, err = f.cambiarViaje(v.ID, "completado", f.motoristaActor())
	require.NoError(t, err)
	assert.Equal(t, 100, v.Progreso)
	require.NotNil(t, v.FechaFin)
	assert.Equal(t, models.CamionDisponible, f.camiones.estado(f.camion.ID))
	assert.Equal(t, models.MotoristaDisponible, f.motoristas.estado(f.motorista.ID))
	done := f.cotizaciones.get(c.ID)
	assert.Equal(t, models.CotizacionEjecutada, done.Estado)
	assert.NotNil(t, done.FechaEjecucion)

	assert.Equal(t, []string{
		"cotizacion.enviada", "cotizacion.aceptada",
		"viaje.asignado", "viaje.iniciado", "viaje.completado",
	}, f.publisher.types())
	assert.Equal(t, []string{"programado->en_curso", "en_curso->completado"}, f.audit.transitions(entityViaje))
}

func TestConvertirViajeOnlyOnce(t *testing.T) {
	f := newFixture(t)
	c := f.cotizacionAceptada(t)
	f.convertir(t, c.ID)

	_, err := f.cotizacionSv.ConvertirViaje(context.Background(), c.ID, &validators.ConvertirViajeRequest{
		TruckID:     f.camion.ID.Hex(),
		ConductorID: f.motorista.ID.Hex(),
	}, f.staff)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestConvertirViajeRequiresAceptada(t *testing.T) {
	f := newFixture(t)
	c := f.nuevaCotizacion(t)

	_, err := f.cotizacionSv.ConvertirViaje(context.Background(), c.ID, &validators.ConvertirViajeRequest{
		TruckID:     f.camion.ID.Hex(),
		ConductorID: f.motorista.ID.Hex(),
	}, f.staff)
	assertStatus(t, err, http.StatusBadRequest)
}

func (f *fixture) viajeDirecto(pesoKg float64) (*models.Viaje, error) {
	return f.viajeSvc.Create(context.Background(), &validators.ViajeCreateRequest{
		ClientID:    f.cliente.ID.Hex(),
		TruckID:     f.camion.ID.Hex(),
		ConductorID: f.motorista.ID.Hex(),
		Origen:      santiago,
		Destino:     valparaiso,
		Carga:       validators.CargaRequest{PesoKg: pesoKg},
		FechaSalida: f.now.Add(2 * time.Hour),
	}, f.staff)
}

func TestViajeAssignmentRules(t *testing.T) {
	t.Run("truck already on an active trip", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.viajeDirecto(1000)
		require.NoError(t, err)

		_, err = f.viajeDirecto(1000)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("cargo over capacity", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.viajeDirecto(30000)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("truck in maintenance", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.camiones.SetEstado(context.Background(), f.camion.ID, models.CamionMantenimiento))
		_, err := f.viajeDirecto(1000)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("expired license", func(t *testing.T) {
		f := newFixture(t)
		vencida := f.now.AddDate(0, 0, -1)
		_, err := f.motoristas.Update(context.Background(), f.motorista.ID, interfaces.Updates{"licencia": models.Licencia{Vencimiento: &vencida}})
		require.NoError(t, err)
		_, err = f.viajeDirecto(1000)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("unknown truck", func(t *testing.T) {
		f := newFixture(t)
		f.camion.ID = primitive.NewObjectID()
		_, err := f.viajeDirecto(1000)
		assertStatus(t, err, http.StatusBadRequest)
	})
}

func TestViajeCancelReleasesResourcesAndQuote(t *testing.T) {
	f := newFixture(t)
	c := f.cotizacionAceptada(t)
	v := f.convertir(t, c.ID)
	_, err := f.cambiarViaje(v.ID, "en_curso", f.staff)
	require.NoError(t, err)

	_, err = f.cambiarViaje(v.ID, "cancelado", f.motoristaActor())
	assertStatus(t, err, http.StatusForbidden)

	cancelado, err := f.viajeSvc.CambiarEstado(context.Background(), v.ID,
		&validators.EstadoViajeRequest{Estado: "cancelado", MotivoCancelacion: "Camino cortado"}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, models.ViajeCancelado, cancelado.Estado)
	assert.Equal(t, "Camino cortado", cancelado.MotivoCancelacion)
	assert.Equal(t, models.CamionDisponible, f.camiones.estado(f.camion.ID))
	assert.Equal(t, models.MotoristaDisponible, f.motoristas.estado(f.motorista.ID))
	assert.Nil(t, f.cotizaciones.get(c.ID).ViajeID)

	_, err = f.cambiarViaje(v.ID, "en_curso", f.staff)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	f.convertir(t, c.ID)
}

func TestViajeVisibilityByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	_, err = f.viajeSvc.GetByID(ctx, v.ID, f.clienteActor())
	require.NoError(t, err)

	otroMotorista := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleMotorista}
	_, err = f.viajeSvc.GetByID(ctx, v.ID, otroMotorista)
	assertStatus(t, err, http.StatusForbidden)

	_, total, err := f.viajeSvc.List(ctx, interfaces.ViajeFilter{}, utils.DefaultPagination(), otroMotorista)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = f.viajeSvc.List(ctx, interfaces.ViajeFilter{}, utils.DefaultPagination(), f.motoristaActor())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = f.viajeSvc.ActualizarUbicacion(ctx, v.ID, &validators.UbicacionRequest{Lat: -33.3, Lng: -71}, f.clienteActor())
	assertStatus(t, err, http.StatusForbidden)
}

func TestViajeUbicacionRequiresEnCurso(t *testing.T) {
	f := newFixture(t)
	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	_, err = f.viajeSvc.ActualizarUbicacion(context.Background(), v.ID, &validators.UbicacionRequest{Lat: -33.3, Lng: -71}, f.motoristaActor())
	assertStatus(t, err, http.StatusBadRequest)
}

func TestViajeUpdateAndDeleteOnlyProgramado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	obs := "Cargar en andén 3"
	updated, err := f.viajeSvc.Update(ctx, v.ID, &validators.ViajeUpdateRequest{Observaciones: &obs}, f.staff)
	require.NoError(t, err)
	assert.Equal(t, obs, updated.Observaciones)

	_, err = f.cambiarViaje(v.ID, "en_curso", f.staff)
	require.NoError(t, err)

	_, err = f.viajeSvc.Update(ctx, v.ID, &validators.ViajeUpdateRequest{Observaciones: &obs}, f.staff)
	assertStatus(t, err, http.StatusBadRequest)
	assertStatus(t, f.viajeSvc.Delete(ctx, v.ID, f.staff), http.StatusBadRequest)
}

func TestIniciarProgramados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.viajeDirecto(1000)
	require.NoError(t, err)

	n, err := f.viajeSvc.IniciarProgramados(ctx, f.now)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = v.FechaSalida.Add(time.Minute)
	n, err = f.viajeSvc.IniciarProgramados(ctx, f.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	started, err := f.viajes.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ViajeEnCurso, started.Estado)
}

func TestEstimarProgreso(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inicio := f.now.Add(-time.Hour)
	llegada := f.now.Add(time.Hour)
	v := &models.Viaje{
		Estado:               models.ViajeEnCurso,
		FechaInicio:          &inicio,
		FechaLlegadaEstimada: &llegada,
		Progreso:             10,
	}
	require.NoError(t, f.viajes.Create(ctx, v))

	n, err := f.viajeSvc.EstimarProgreso(ctx, f.now, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, _ := f.viajes.GetByID(ctx, v.ID)
	assert.Equal(t, 50, got.Progreso)

	n, err = f.viajeSvc.EstimarProgreso(ctx, f.now.Add(10*time.Hour), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, _ = f.viajes.GetByID(ctx, v.ID)
	assert.Equal(t, 99, got.Progreso, "time-based progress never reaches 100")
}
