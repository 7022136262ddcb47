package validators

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"fletes/internal/models"
)

type LicenciaRequest struct {
	Numero      string     `json:"numero" validate:"omitempty,max=40"`
	Clase       string     `json:"clase" validate:"omitempty,clase_licencia"`
	Vencimiento *time.Time `json:"vencimiento"`
}

func (l *LicenciaRequest) toModel() models.Licencia {
	return models.Licencia{
		Numero:      strings.TrimSpace(l.Numero),
		Clase:       strings.ToUpper(l.Clase),
		Vencimiento: l.Vencimiento,
	}
}

type MotoristaCreateRequest struct {
	Nombre   string          `json:"nombre" validate:"required,min=2,max=80"`
	Apellido string          `json:"apellido" validate:"required,min=2,max=80"`
	Rut      string          `json:"rut" validate:"required,rut"`
	Email    string          `json:"email" validate:"required,email"`
	Telefono string          `json:"telefono" validate:"omitempty,phone"`
	Licencia LicenciaRequest `json:"licencia"`
	Estado   string          `json:"estado" validate:"omitempty,estado_motorista"`
	Password string          `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *MotoristaCreateRequest) ToModel() *models.Motorista {
	m := &models.Motorista{
		Nombre:   strings.TrimSpace(r.Nombre),
		Apellido: strings.TrimSpace(r.Apellido),
		Rut:      NormalizeRut(r.Rut),
		Email:    NormalizeEmail(r.Email),
		Telefono: strings.TrimSpace(r.Telefono),
		Licencia: r.Licencia.toModel(),
		Estado:   models.EstadoMotorista(r.Estado),
	}
	if m.Estado == "" {
		m.Estado = models.MotoristaDisponible
	}
	return m
}

type MotoristaUpdateRequest struct {
	Nombre   *string          `json:"nombre" validate:"omitempty,min=2,max=80"`
	Apellido *string          `json:"apellido" validate:"omitempty,min=2,max=80"`
	Rut      *string          `json:"rut" validate:"omitempty,rut"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	Telefono *string          `json:"telefono" validate:"omitempty,phone"`
	Licencia *LicenciaRequest `json:"licencia"`
	Password *string          `json:"password" validate:"omitempty,min=8,max=72"`
}

// Updates leaves out estado, which only changes through the status endpoint
// or the trip workflow.
func (r *MotoristaUpdateRequest) Updates() bson.M {
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
	if r.Licencia != nil {
		set["licencia"] = r.Licencia.toModel()
	}
	return set
}

type EstadoMotoristaRequest struct {
	Estado string `json:"estado" validate:"required,estado_motorista"`
}

type UbicacionRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}
