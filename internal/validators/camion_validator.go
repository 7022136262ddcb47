package validators

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"fletes/internal/models"
)

type CamionCreateRequest struct {
	Patente             string     `json:"patente" validate:"required,patente"`
	Marca               string     `json:"marca" validate:"required,min=2,max=60"`
	Modelo              string     `json:"modelo" validate:"required,min=1,max=60"`
	Anio                int        `json:"anio" validate:"required,anio_camion"`
	Tipo                string     `json:"tipo" validate:"omitempty,tipo_camion"`
	CapacidadToneladas  float64    `json:"capacidadToneladas" validate:"gt=0,lte=60"`
	Kilometraje         float64    `json:"kilometraje" validate:"gte=0"`
	Estado              string     `json:"estado" validate:"omitempty,estado_camion"`
	UltimaMantencion    *time.Time `json:"ultimaMantencion"`
	ProximaMantencion   *time.Time `json:"proximaMantencion"`
	ConductorAsignadoID string     `json:"conductorAsignadoId" validate:"omitempty,object_id"`
}

func (r *CamionCreateRequest) ToModel() *models.Camion {
	c := &models.Camion{
		Patente:            NormalizePatente(r.Patente),
		Marca:              strings.TrimSpace(r.Marca),
		Modelo:             strings.TrimSpace(r.Modelo),
		Anio:               r.Anio,
		Tipo:               r.Tipo,
		CapacidadToneladas: r.CapacidadToneladas,
		Kilometraje:        r.Kilometraje,
		Estado:             models.EstadoCamion(r.Estado),
		Fotos:              []string{},
		UltimaMantencion:   r.UltimaMantencion,
		ProximaMantencion:  r.ProximaMantencion,
	}
	if c.Tipo == "" {
		c.Tipo = "otro"
	}
	if c.Estado == "" {
		c.Estado = models.CamionDisponible
	}
	if r.ConductorAsignadoID != "" {
		if oid, err := ParseObjectID(r.ConductorAsignadoID); err == nil {
			c.ConductorAsignadoID = &oid
		}
	}
	return c
}

type CamionUpdateRequest struct {
	Patente             *string    `json:"patente" validate:"omitempty,patente"`
	Marca               *string    `json:"marca" validate:"omitempty,min=2,max=60"`
	Modelo              *string    `json:"modelo" validate:"omitempty,min=1,max=60"`
	Anio                *int       `json:"anio" validate:"omitempty,anio_camion"`
	Tipo                *string    `json:"tipo" validate:"omitempty,tipo_camion"`
	CapacidadToneladas  *float64   `json:"capacidadToneladas" validate:"omitempty,gt=0,lte=60"`
	Kilometraje         *float64   `json:"kilometraje" validate:"omitempty,gte=0"`
	UltimaMantencion    *time.Time `json:"ultimaMantencion"`
	ProximaMantencion   *time.Time `json:"proximaMantencion"`
	ConductorAsignadoID *string    `json:"conductorAsignadoId" validate:"omitempty,object_id"`
}

func (r *CamionUpdateRequest) Updates() bson.M {
	set := bson.M{}
	if r.Patente != nil {
		set["patente"] = NormalizePatente(*r.Patente)
	}
	setString(set, "marca", r.Marca)
	setString(set, "modelo", r.Modelo)
	if r.Anio != nil {
		set["anio"] = *r.Anio
	}
	setString(set, "tipo", r.Tipo)
	if r.CapacidadToneladas != nil {
		set["capacidadToneladas"] = *r.CapacidadToneladas
	}
	if r.Kilometraje != nil {
		set["kilometraje"] = *r.Kilometraje
	}
	if r.UltimaMantencion != nil {
		set["ultimaMantencion"] = *r.UltimaMantencion
	}
	if r.ProximaMantencion != nil {
		set["proximaMantencion"] = *r.ProximaMantencion
	}
	if r.ConductorAsignadoID != nil {
		if oid, err := ParseObjectID(*r.ConductorAsignadoID); err == nil {
			set["conductorAsignadoId"] = oid
		}
	}
	return set
}

type EstadoCamionRequest struct {
	Estado string `json:"estado" validate:"required,estado_camion"`
}
