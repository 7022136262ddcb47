package validators

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
)

type ViajeCreateRequest struct {
	CotizacionID  string       `json:"cotizacionId" validate:"omitempty,object_id"`
	ClientID      string       `json:"clientId" validate:"required_without=CotizacionID,omitempty,object_id"`
	TruckID       string       `json:"truckId" validate:"required,object_id"`
	ConductorID   string       `json:"conductorId" validate:"required,object_id"`
	Origen        PuntoRequest `json:"origen"`
	Destino       PuntoRequest `json:"destino"`
	Carga         CargaRequest `json:"carga"`
	FechaSalida   time.Time    `json:"fechaSalida" validate:"required"`
	DistanciaKm   *float64     `json:"distanciaKm" validate:"omitempty,gte=0,lte=10000"`
	CostoTotal    float64      `json:"costoTotal" validate:"gte=0"`
	Observaciones string       `json:"observaciones" validate:"max=2000"`
}

func (r *ViajeCreateRequest) ToModel() *models.Viaje {
	v := &models.Viaje{
		Origen:        r.Origen.ToModel(),
		Destino:       r.Destino.ToModel(),
		Carga:         r.Carga.ToModel(),
		FechaSalida:   r.FechaSalida,
		CostoTotal:    r.CostoTotal,
		Observaciones: strings.TrimSpace(r.Observaciones),
	}
	v.ClientID, _ = ParseObjectID(r.ClientID)
	v.TruckID, _ = ParseObjectID(r.TruckID)
	v.ConductorID, _ = ParseObjectID(r.ConductorID)
	if r.CotizacionID != "" {
		if oid, err := ParseObjectID(r.CotizacionID); err == nil {
			v.CotizacionID = &oid
		}
	}
	if r.DistanciaKm != nil {
		v.DistanciaKm = *r.DistanciaKm
	}
	return v
}

// ViajeUpdateRequest edits a trip that has not started.
type ViajeUpdateRequest struct {
	TruckID       *string       `json:"truckId" validate:"omitempty,object_id"`
	ConductorID   *string       `json:"conductorId" validate:"omitempty,object_id"`
	Origen        *PuntoRequest `json:"origen"`
	Destino       *PuntoRequest `json:"destino"`
	Carga         *CargaRequest `json:"carga"`
	FechaSalida   *time.Time    `json:"fechaSalida"`
	DistanciaKm   *float64      `json:"distanciaKm" validate:"omitempty,gte=0,lte=10000"`
	CostoTotal    *float64      `json:"costoTotal" validate:"omitempty,gte=0"`
	Observaciones *string       `json:"observaciones" validate:"omitempty,max=2000"`
}

func (r *ViajeUpdateRequest) Apply(v *models.Viaje) {
	if r.TruckID != nil {
		v.TruckID = mustObjectID(*r.TruckID, v.TruckID)
	}
	if r.ConductorID != nil {
		v.ConductorID = mustObjectID(*r.ConductorID, v.ConductorID)
	}
	rutaCambiada := false
	if r.Origen != nil {
		v.Origen = r.Origen.ToModel()
		rutaCambiada = true
	}
	if r.Destino != nil {
		v.Destino = r.Destino.ToModel()
		rutaCambiada = true
	}
	if r.Carga != nil {
		v.Carga = r.Carga.ToModel()
	}
	if r.FechaSalida != nil {
		v.FechaSalida = *r.FechaSalida
	}
	switch {
	case r.DistanciaKm != nil:
		v.DistanciaKm = *r.DistanciaKm
	case rutaCambiada:
		v.DistanciaKm = 0
	}
	if r.CostoTotal != nil {
		v.CostoTotal = *r.CostoTotal
	}
	if r.Observaciones != nil {
		v.Observaciones = strings.TrimSpace(*r.Observaciones)
	}
}

type EstadoViajeRequest struct {
	Estado            string `json:"estado" validate:"required,estado_viaje"`
	MotivoCancelacion string `json:"motivoCancelacion" validate:"max=500"`
}

type ViajeFilter struct {
	Estado      string `form:"estado" validate:"omitempty,estado_viaje"`
	ConductorID string `form:"conductorId" validate:"omitempty,object_id"`
	TruckID     string `form:"truckId" validate:"omitempty,object_id"`
	ClientID    string `form:"clientId" validate:"omitempty,object_id"`
}

func mustObjectID(hex string, fallback primitive.ObjectID) primitive.ObjectID {
	oid, err := ParseObjectID(hex)
	if err != nil {
		return fallback
	}
	return oid
}
