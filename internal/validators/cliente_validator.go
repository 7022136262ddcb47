package validators

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"fletes/internal/models"
)

type ClienteCreateRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=2,max=120"`
	Rut       string `json:"rut" validate:"omitempty,rut"`
	Email     string `json:"email" validate:"required,email"`
	Telefono  string `json:"telefono" validate:"omitempty,phone"`
	Direccion string `json:"direccion" validate:"omitempty,max=200"`
	Empresa   string `json:"empresa" validate:"omitempty,max=120"`
	Estado    string `json:"estado" validate:"omitempty,estado_persona"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *ClienteCreateRequest) ToModel() *models.Cliente {
	c := &models.Cliente{
		Nombre:    strings.TrimSpace(r.Nombre),
		Email:     NormalizeEmail(r.Email),
		Telefono:  strings.TrimSpace(r.Telefono),
		Direccion: strings.TrimSpace(r.Direccion),
		Empresa:   strings.TrimSpace(r.Empresa),
		Estado:    models.EstadoPersona(r.Estado),
	}
	if r.Rut != "" {
		c.Rut = NormalizeRut(r.Rut)
	}
	if c.Estado == "" {
		c.Estado = models.EstadoActivo
	}
	return c
}

type ClienteUpdateRequest struct {
	Nombre    *string `json:"nombre" validate:"omitempty,min=2,max=120"`
	Rut       *string `json:"rut" validate:"omitempty,rut"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Telefono  *string `json:"telefono" validate:"omitempty,phone"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
	Empresa   *string `json:"empresa" validate:"omitempty,max=120"`
	Estado    *string `json:"estado" validate:"omitempty,estado_persona"`
}

func (r *ClienteUpdateRequest) Updates() bson.M {
	set := bson.M{}
	setString(set, "nombre", r.Nombre)
	if r.Rut != nil {
		set["rut"] = NormalizeRut(*r.Rut)
	}
	if r.Email != nil {
		set["email"] = NormalizeEmail(*r.Email)
	}
	setString(set, "telefono", r.Telefono)
	setString(set, "direccion", r.Direccion)
	setString(set, "empresa", r.Empresa)
	setString(set, "estado", r.Estado)
	return set
}

type DispositivoRequest struct {
	DeviceToken    string `json:"deviceToken" validate:"required,max=4096"`
	DevicePlatform string `json:"devicePlatform" validate:"required,platform"`
}

func setString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = strings.TrimSpace(*v)
	}
}
