package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EstadoCotizacion string

const (
	CotizacionPendiente EstadoCotizacion = "pendiente"
	CotizacionEnviada   EstadoCotizacion = "enviada"
	CotizacionAceptada  EstadoCotizacion = "aceptada"
	CotizacionRechazada EstadoCotizacion = "rechazada"
	CotizacionEjecutada EstadoCotizacion = "ejecutada"
	CotizacionVencida   EstadoCotizacion = "vencida"
	CotizacionCancelada EstadoCotizacion = "cancelada"
)

var transicionesCotizacion = map[EstadoCotizacion][]EstadoCotizacion{
	CotizacionPendiente: {CotizacionEnviada, CotizacionRechazada, CotizacionCancelada},
	CotizacionEnviada:   {CotizacionAceptada, CotizacionRechazada, CotizacionVencida, CotizacionCancelada, CotizacionPendiente},
	CotizacionAceptada:  {CotizacionEjecutada, CotizacionCancelada},
	CotizacionVencida:   {CotizacionPendiente},
}

func (e EstadoCotizacion) Valid() bool {
	switch e {
	case CotizacionPendiente, CotizacionEnviada, CotizacionAceptada, CotizacionRechazada,
		CotizacionEjecutada, CotizacionVencida, CotizacionCancelada:
		return true
	}
	return false
}

func (e EstadoCotizacion) CanTransitionTo(to EstadoCotizacion) bool {
	for _, allowed := range transicionesCotizacion[e] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Editable reports whether prices and route may still change.
func (e EstadoCotizacion) Editable() bool {
	return e == CotizacionPendiente || e == CotizacionEnviada || e == CotizacionVencida
}

type Carga struct {
	Descripcion string  `json:"descripcion,omitempty" bson:"descripcion,omitempty"`
	Tipo        string  `json:"tipo,omitempty" bson:"tipo,omitempty"`
	PesoKg      float64 `json:"pesoKg,omitempty" bson:"pesoKg,omitempty"`
	VolumenM3   float64 `json:"volumenM3,omitempty" bson:"volumenM3,omitempty"`
}

type Adicional struct {
	Descripcion string  `json:"descripcion" bson:"descripcion"`
	Monto       float64 `json:"monto" bson:"monto"`
}

type Costos struct {
	Combustible float64     `json:"combustible" bson:"combustible"`
	Peajes      float64     `json:"peajes" bson:"peajes"`
	Conductor   float64     `json:"conductor" bson:"conductor"`
	Viaticos    float64     `json:"viaticos" bson:"viaticos"`
	Adicionales []Adicional `json:"adicionales" bson:"adicionales"`
	Descuento   float64     `json:"descuento" bson:"descuento"`
	Subtotal    float64     `json:"subtotal" bson:"subtotal"`
	TasaIVA     *float64    `json:"tasaIva,omitempty" bson:"tasaIva,omitempty"`
	IVA         float64     `json:"iva" bson:"iva"`
	Total       float64     `json:"total" bson:"total"`

	// Lines derived from the distance instead of entered by hand. They are
	// re-estimated whenever the distance changes.
	CombustibleEstimado bool `json:"combustibleEstimado,omitempty" bson:"combustibleEstimado,omitempty"`
	ConductorEstimado   bool `json:"conductorEstimado,omitempty" bson:"conductorEstimado,omitempty"`
}

type Cotizacion struct {
	ID                    primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Folio                 string              `json:"folio" bson:"folio"`
	ClientID              primitive.ObjectID  `json:"clientId" bson:"clientId"`
	Cliente               *ClienteResumen     `json:"cliente,omitempty" bson:"cliente,omitempty"`
	Origen                Punto               `json:"origen" bson:"origen"`
	Destino               Punto               `json:"destino" bson:"destino"`
	Carga                 Carga               `json:"carga" bson:"carga"`
	FechaServicio         *time.Time          `json:"fechaServicio,omitempty" bson:"fechaServicio,omitempty"`
	DistanciaKm           float64             `json:"distanciaKm" bson:"distanciaKm"`
	DuracionEstimadaHoras float64             `json:"duracionEstimadaHoras" bson:"duracionEstimadaHoras"`
	Costos                Costos              `json:"costos" bson:"costos"`
	ValidezDias           int                 `json:"validezDias" bson:"validezDias"`
	FechaVencimiento      time.Time           `json:"fechaVencimiento" bson:"fechaVencimiento"`
	Estado                EstadoCotizacion    `json:"estado" bson:"estado"`
	FechaEnvio            *time.Time          `json:"fechaEnvio,omitempty" bson:"fechaEnvio,omitempty"`
	FechaRespuesta        *time.Time          `json:"fechaRespuesta,omitempty" bson:"fechaRespuesta,omitempty"`
	FechaEjecucion        *time.Time          `json:"fechaEjecucion,omitempty" bson:"fechaEjecucion,omitempty"`
	FechaReapertura       *time.Time          `json:"fechaReapertura,omitempty" bson:"fechaReapertura,omitempty"`
	ViajeID               *primitive.ObjectID `json:"viajeId,omitempty" bson:"viajeId,omitempty"`
	Observaciones         string              `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoPor             *primitive.ObjectID `json:"creadoPor,omitempty" bson:"creadoPor,omitempty"`
	CreatedAt             time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// InicioVigencia is when the validity window starts: the last re-open of an
// expired quote, or its creation.
func (c *Cotizacion) InicioVigencia() time.Time {
	if c.FechaReapertura != nil && c.FechaReapertura.After(c.CreatedAt) {
		return *c.FechaReapertura
	}
	return c.CreatedAt
}

// Vencida reports whether an open quote is past its validity at t.
func (c *Cotizacion) Vencida(t time.Time) bool {
	return (c.Estado == CotizacionPendiente || c.Estado == CotizacionEnviada) && c.FechaVencimiento.Before(t)
}
