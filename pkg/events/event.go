package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	CotizacionEnviada   = "cotizacion.enviada"
	CotizacionAceptada  = "cotizacion.aceptada"
	CotizacionRechazada = "cotizacion.rechazada"
	ViajeAsignado       = "viaje.asignado"
	ViajeIniciado       = "viaje.iniciado"
	ViajeCompletado     = "viaje.completado"
	ViajeCancelado      = "viaje.cancelado"
)

// Event is the message carried between the API and the notifier. It holds
// identifiers only; consumers load what they need.
type Event struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	OccurredAt  time.Time         `json:"occurredAt"`
	EntityID    string            `json:"entityId"`
	Reference   string            `json:"reference"`
	ClientID    string            `json:"clientId,omitempty"`
	ConductorID string            `json:"conductorId,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

func New(eventType, entityID, reference string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		EntityID:   entityID,
		Reference:  reference,
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
