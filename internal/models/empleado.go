package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Empleado struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Nombre       string             `json:"nombre" bson:"nombre"`
	Apellido     string             `json:"apellido" bson:"apellido"`
	Rut          string             `json:"rut,omitempty" bson:"rut,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Telefono     string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Cargo        string             `json:"cargo,omitempty" bson:"cargo,omitempty"`
	Rol          Role               `json:"rol" bson:"rol"`
	Estado       EstadoPersona      `json:"estado" bson:"estado"`
	FechaIngreso *time.Time         `json:"fechaIngreso,omitempty" bson:"fechaIngreso,omitempty"`
	Password     string             `json:"-" bson:"password,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (e *Empleado) NombreCompleto() string {
	return e.Nombre + " " + e.Apellido
}
