package models

import (
	"time"
)

// Punto is an address with optional coordinates, used for origins and destinations.
type Punto struct {
	Direccion string  `json:"direccion" bson:"direccion"`
	Comuna    string  `json:"comuna,omitempty" bson:"comuna,omitempty"`
	Ciudad    string  `json:"ciudad,omitempty" bson:"ciudad,omitempty"`
	Lat       float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

func (p Punto) TieneCoordenadas() bool {
	return p.Lat != 0 || p.Lng != 0
}

// Query renders the point for a geocoding or distance lookup.
func (p Punto) Query() string {
	out := p.Direccion
	for _, part := range []string{p.Comuna, p.Ciudad} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

type Ubicacion struct {
	Lat           float64   `json:"lat" bson:"lat"`
	Lng           float64   `json:"lng" bson:"lng"`
	ActualizadoEn time.Time `json:"actualizadoEn" bson:"actualizadoEn"`
}

type DevicePlatform string

const (
	PlatformAndroid DevicePlatform = "android"
	PlatformIOS     DevicePlatform = "ios"
)

type EstadoPersona string

const (
	EstadoActivo   EstadoPersona = "activo"
	EstadoInactivo EstadoPersona = "inactivo"
)

// Role is what the auth layer puts in the token. Empleados carry admin or operador.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOperador  Role = "operador"
	RoleMotorista Role = "motorista"
	RoleCliente   Role = "cliente"
)

func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleOperador
}
