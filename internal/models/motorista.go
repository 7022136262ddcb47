package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EstadoMotorista string

const (
	MotoristaDisponible EstadoMotorista = "disponible"
	MotoristaEnViaje    EstadoMotorista = "en_viaje"
	MotoristaInactivo   EstadoMotorista = "inactivo"
)

var ClasesLicencia = []string{"A1", "A2", "A3", "A4", "A5", "B", "C", "D", "E", "F"}

type Licencia struct {
	Numero      string     `json:"numero,omitempty" bson:"numero,omitempty"`
	Clase       string     `json:"clase,omitempty" bson:"clase,omitempty"`
	Vencimiento *time.Time `json:"vencimiento,omitempty" bson:"vencimiento,omitempty"`
}

// Vigente reports whether the license is still valid at t. A license without
// an expiry date is treated as valid.
func (l Licencia) Vigente(t time.Time) bool {
	return l.Vencimiento == nil || l.Vencimiento.After(t)
}

type Motorista struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Nombre         string             `json:"nombre" bson:"nombre"`
	Apellido       string             `json:"apellido" bson:"apellido"`
	Rut            string             `json:"rut,omitempty" bson:"rut,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Telefono       string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Licencia       Licencia           `json:"licencia" bson:"licencia"`
	Estado         EstadoMotorista    `json:"estado" bson:"estado"`
	Foto           string             `json:"foto,omitempty" bson:"foto,omitempty"`
	Password       string             `json:"-" bson:"password,omitempty"`
	DeviceToken    string             `json:"deviceToken,omitempty" bson:"deviceToken,omitempty"`
	DevicePlatform DevicePlatform     `json:"devicePlatform,omitempty" bson:"devicePlatform,omitempty"`
	Ubicacion      *Ubicacion         `json:"ubicacion,omitempty" bson:"ubicacion,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (m *Motorista) NombreCompleto() string {
	return m.Nombre + " " + m.Apellido
}

type MotoristaResumen struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Nombre   string             `json:"nombre" bson:"nombre"`
	Apellido string             `json:"apellido" bson:"apellido"`
	Telefono string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Foto     string             `json:"foto,omitempty" bson:"foto,omitempty"`
}
