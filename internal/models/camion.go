package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EstadoCamion string

const (
	CamionDisponible    EstadoCamion = "disponible"
	CamionEnUso         EstadoCamion = "en_uso"
	CamionMantenimiento EstadoCamion = "mantenimiento"
	CamionInactivo      EstadoCamion = "inactivo"
)

var TiposCamion = []string{"rampla", "tolva", "furgon", "plataforma", "cisterna", "refrigerado", "otro"}

type Camion struct {
	ID                  primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Patente             string              `json:"patente" bson:"patente"`
	Marca               string              `json:"marca" bson:"marca"`
	Modelo              string              `json:"modelo" bson:"modelo"`
	Anio                int                 `json:"anio" bson:"anio"`
	Tipo                string              `json:"tipo" bson:"tipo"`
	CapacidadToneladas  float64             `json:"capacidadToneladas" bson:"capacidadToneladas"`
	Kilometraje         float64             `json:"kilometraje" bson:"kilometraje"`
	Estado              EstadoCamion        `json:"estado" bson:"estado"`
	Fotos               []string            `json:"fotos" bson:"fotos"`
	UltimaMantencion    *time.Time          `json:"ultimaMantencion,omitempty" bson:"ultimaMantencion,omitempty"`
	ProximaMantencion   *time.Time          `json:"proximaMantencion,omitempty" bson:"proximaMantencion,omitempty"`
	ConductorAsignadoID *primitive.ObjectID `json:"conductorAsignadoId,omitempty" bson:"conductorAsignadoId,omitempty"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// SoportaCarga reports whether the truck can carry pesoKg. Unknown weight passes.
func (c *Camion) SoportaCarga(pesoKg float64) bool {
	if pesoKg <= 0 {
		return true
	}
	return c.CapacidadToneladas*1000 >= pesoKg
}

type CamionResumen struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Patente string             `json:"patente" bson:"patente"`
	Marca   string             `json:"marca" bson:"marca"`
	Modelo  string             `json:"modelo" bson:"modelo"`
	Tipo    string             `json:"tipo" bson:"tipo"`
}
