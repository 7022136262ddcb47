package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cliente struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Nombre         string             `json:"nombre" bson:"nombre"`
	Rut            string             `json:"rut,omitempty" bson:"rut,omitempty"`
	Email          string             `json:"email" bson:"email"`
	Telefono       string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Direccion      string             `json:"direccion,omitempty" bson:"direccion,omitempty"`
	Empresa        string             `json:"empresa,omitempty" bson:"empresa,omitempty"`
	Estado         EstadoPersona      `json:"estado" bson:"estado"`
	Password       string             `json:"-" bson:"password,omitempty"`
	DeviceToken    string             `json:"deviceToken,omitempty" bson:"deviceToken,omitempty"`
	DevicePlatform DevicePlatform     `json:"devicePlatform,omitempty" bson:"devicePlatform,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ClienteResumen is the populated form embedded in quotes and trips.
type ClienteResumen struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Nombre   string             `json:"nombre" bson:"nombre"`
	Rut      string             `json:"rut,omitempty" bson:"rut,omitempty"`
	Email    string             `json:"email" bson:"email"`
	Telefono string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Empresa  string             `json:"empresa,omitempty" bson:"empresa,omitempty"`
}
