package services

import (
	"context"

	"fletes/internal/models"
	"fletes/pkg/events"
	"fletes/pkg/logger"
	"fletes/pkg/websocket"
)

// Realtime message types sent to websocket rooms.
const (
	MsgViajeProgreso = "viaje_progreso"
	MsgViajeEstado   = "viaje_estado"
)

// notifier fans a domain change out to the event publisher and the websocket
// hub. Delivery failures are logged; the change itself already happened.
type notifier struct {
	publisher events.Publisher
	hub       Broadcaster
	logger    *logger.Logger
}

func newNotifier(publisher events.Publisher, hub Broadcaster, log *logger.Logger) *notifier {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &notifier{publisher: publisher, hub: hub, logger: log}
}

func (n *notifier) publish(ctx context.Context, event events.Event) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WithError(err).WithFields(map[string]interface{}{
			"event_type": event.Type,
			"entity_id":  event.EntityID,
		}).Warn("Failed to publish event")
	}
}

func (n *notifier) viajeEstado(v *models.Viaje) {
	data := map[string]interface{}{
		"viajeId":  v.ID.Hex(),
		"codigo":   v.Codigo,
		"estado":   v.Estado,
		"progreso": v.Progreso,
	}
	n.hub.Broadcast(websocket.RoomViaje(v.ID.Hex()), MsgViajeEstado, data)
	n.hub.Broadcast(websocket.RoomMonitoreo, MsgViajeEstado, data)
}

func (n *notifier) viajeProgreso(v *models.Viaje, progreso *models.ProgresoViaje) {
	data := map[string]interface{}{
		"viajeId":              v.ID.Hex(),
		"codigo":               v.Codigo,
		"estado":               progreso.Estado,
		"progreso":             progreso.Progreso,
		"ubicacionActual":      progreso.UbicacionActual,
		"fechaLlegadaEstimada": progreso.FechaLlegadaEstimada,
		"distanciaRestanteKm":  progreso.DistanciaRestanteKm,
	}
	n.hub.Broadcast(websocket.RoomViaje(v.ID.Hex()), MsgViajeProgreso, data)
	n.hub.Broadcast(websocket.RoomMonitoreo, MsgViajeProgreso, data)
}

func viajeEvent(eventType string, v *models.Viaje) events.Event {
	e := events.New(eventType, v.ID.Hex(), v.Codigo)
	e.ClientID = v.ClientID.Hex()
	e.ConductorID = v.ConductorID.Hex()
	e.Data = map[string]string{
		"origen":      v.Origen.Query(),
		"destino":     v.Destino.Query(),
		"fechaSalida": v.FechaSalida.Format("2006-01-02 15:04"),
	}
	if v.MotivoCancelacion != "" {
		e.Data["motivo"] = v.MotivoCancelacion
	}
	return e
}
