package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EstadoViaje string

const (
	ViajeProgramado EstadoViaje = "programado"
	ViajeEnCurso    EstadoViaje = "en_curso"
	ViajeCompletado EstadoViaje = "completado"
	ViajeCancelado  EstadoViaje = "cancelado"
)

var transicionesViaje = map[EstadoViaje][]EstadoViaje{
	ViajeProgramado: {ViajeEnCurso, ViajeCancelado},
	ViajeEnCurso:    {ViajeCompletado, ViajeCancelado},
}

func (e EstadoViaje) Valid() bool {
	switch e {
	case ViajeProgramado, ViajeEnCurso, ViajeCompletado, ViajeCancelado:
		return true
	}
	return false
}

func (e EstadoViaje) CanTransitionTo(to EstadoViaje) bool {
	for _, allowed := range transicionesViaje[e] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (e EstadoViaje) Activo() bool {
	return e == ViajeProgramado || e == ViajeEnCurso
}

type Viaje struct {
	ID                   primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Codigo               string              `json:"codigo" bson:"codigo"`
	CotizacionID         *primitive.ObjectID `json:"cotizacionId,omitempty" bson:"cotizacionId,omitempty"`
	ClientID             primitive.ObjectID  `json:"clientId" bson:"clientId"`
	TruckID              primitive.ObjectID  `json:"truckId" bson:"truckId"`
	ConductorID          primitive.ObjectID  `json:"conductorId" bson:"conductorId"`
	Cliente              *ClienteResumen     `json:"cliente,omitempty" bson:"cliente,omitempty"`
	Camion               *CamionResumen      `json:"camion,omitempty" bson:"camion,omitempty"`
	Conductor            *MotoristaResumen   `json:"conductor,omitempty" bson:"conductor,omitempty"`
	Origen               Punto               `json:"origen" bson:"origen"`
	Destino              Punto               `json:"destino" bson:"destino"`
	Carga                Carga               `json:"carga" bson:"carga"`
	FechaSalida          time.Time           `json:"fechaSalida" bson:"fechaSalida"`
	FechaLlegadaEstimada *time.Time          `json:"fechaLlegadaEstimada,omitempty" bson:"fechaLlegadaEstimada,omitempty"`
	FechaInicio          *time.Time          `json:"fechaInicio,omitempty" bson:"fechaInicio,omitempty"`
	FechaFin             *time.Time          `json:"fechaFin,omitempty" bson:"fechaFin,omitempty"`
	Estado               EstadoViaje         `json:"estado" bson:"estado"`
	Progreso             int                 `json:"progreso" bson:"progreso"`
	UbicacionActual      *Ubicacion          `json:"ubicacionActual,omitempty" bson:"ubicacionActual,omitempty"`
	DistanciaKm          float64             `json:"distanciaKm" bson:"distanciaKm"`
	CostoTotal           float64             `json:"costoTotal" bson:"costoTotal"`
	Observaciones        string              `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	MotivoCancelacion    string              `json:"motivoCancelacion,omitempty" bson:"motivoCancelacion,omitempty"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Populated fields are never persisted on the document itself.
func (v *Viaje) StripPopulated() {
	v.Cliente = nil
	v.Camion = nil
	v.Conductor = nil
}

type ProgresoViaje struct {
	Estado               EstadoViaje `json:"estado"`
	Progreso             int         `json:"progreso"`
	UbicacionActual      *Ubicacion  `json:"ubicacionActual,omitempty"`
	FechaLlegadaEstimada *time.Time  `json:"fechaLlegadaEstimada,omitempty"`
	DistanciaRestanteKm  *float64    `json:"distanciaRestanteKm,omitempty"`
}
