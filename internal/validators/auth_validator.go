package validators

import (
	"strings"

	"fletes/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Tipo restricts the lookup to one account kind. Empty tries empleado, motorista, cliente.
	Tipo string `json:"tipo" validate:"omitempty,oneof=empleado motorista cliente"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Rut      string `json:"rut" validate:"omitempty,rut"`
	Telefono string `json:"telefono" validate:"omitempty,phone"`
	Empresa  string `json:"empresa" validate:"omitempty,max=120"`
}

func (r *RegisterRequest) ToModel() *models.Cliente {
	c := &models.Cliente{
		Nombre:   strings.TrimSpace(r.Nombre),
		Email:    NormalizeEmail(r.Email),
		Telefono: strings.TrimSpace(r.Telefono),
		Empresa:  strings.TrimSpace(r.Empresa),
		Estado:   models.EstadoActivo,
	}
	if r.Rut != "" {
		c.Rut = NormalizeRut(r.Rut)
	}
	return c
}

type FilterRequest struct {
	Estado   string `form:"estado"`
	Tipo     string `form:"tipo"`
	ClientID string `form:"clientId" validate:"omitempty,object_id"`
}
