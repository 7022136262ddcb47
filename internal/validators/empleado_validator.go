package validators

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"fletes/internal/models"
)

type EmpleadoCreateRequest struct {
	Nombre       string     `json:"nombre" validate:"required,min=2,max=80"`
	Apellido     string     `json:"apellido" validate:"required,min=2,max=80"`
	Rut          string     `json:"rut" validate:"omitempty,rut"`
	Email        string     `json:"email" validate:"required,email"`
	Telefono     string     `json:"telefono" validate:"omitempty,phone"`
	Cargo        string     `json:"cargo" validate:"omitempty,max=80"`
	Rol          string     `json:"rol" validate:"omitempty,rol_empleado"`
	Estado       string     `json:"estado" validate:"omitempty,estado_persona"`
	FechaIngreso *time.Time `json:"fechaIngreso"`
	Password     string     `json:"password" validate:"required,min=8,max=72"`
}

func (r *EmpleadoCreateRequest) ToModel() *models.Empleado {
	e := &models.Empleado{
		Nombre:       strings.TrimSpace(r.Nombre),
		Apellido:     strings.TrimSpace(r.Apellido),
		Email:        NormalizeEmail(r.Email),
		Telefono:     strings.TrimSpace(r.Telefono),
		Cargo:        strings.TrimSpace(r.Cargo),
		Rol:          models.Role(r.Rol),
		Estado:       models.EstadoPersona(r.Estado),
		FechaIngreso: r.FechaIngreso,
	}
	if r.Rut != "" {
		e.Rut = NormalizeRut(r.Rut)
	}
	if e.Rol == "" {
		e.Rol = models.RoleOperador
	}
	if e.Estado == "" {
		e.Estado = models.EstadoActivo
	}
	return e
}

type EmpleadoUpdateRequest struct {
	Nombre       *string    `json:"nombre" validate:"omitempty,min=2,max=80"`
	Apellido     *string    `json:"apellido" validate:"omitempty,min=2,max=80"`
	Rut          *string    `json:"rut" validate:"omitempty,rut"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Telefono     *string    `json:"telefono" validate:"omitempty,phone"`
	Cargo        *string    `json:"cargo" validate:"omitempty,max=80"`
	Rol          *string    `json:"rol" validate:"omitempty,rol_empleado"`
	Estado       *string    `json:"estado" validate:"omitempty,estado_persona"`
	FechaIngreso *time.Time `json:"fechaIngreso"`
	Password     *string    `json:"password" validate:"omitempty,min=8,max=72"`
}

// Updates excludes the password, which the service hashes separately.
func (r *EmpleadoUpdateRequest) Updates() bson.M {
	set := bson.M{}
	setString(set, "nombre", r.Nombre)
	setString(set, "apellido", r.Apellido)
	if r.Rut != nil {
		set["rut"] = NormalizeRut(*r.Rut)
	}
	if r.Email != nil {
		set["email"] = NormalizeEmail(*r.Email)
	}
	setString(set, "telefono", r.Telefono)
	setString(set, "cargo", r.Cargo)
	setString(set, "rol", r.Rol)
	setString(set, "estado", r.Estado)
	if r.FechaIngreso != nil {
		set["fechaIngreso"] = *r.FechaIngreso
	}
	return set
}
