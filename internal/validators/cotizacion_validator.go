package validators

import (
	"strings"
	"time"

	"fletes/internal/models"
)

type PuntoRequest struct {
	Direccion string  `json:"direccion" validate:"max=200"`
	Comuna    string  `json:"comuna" validate:"max=80"`
	Ciudad    string  `json:"ciudad" validate:"max=80"`
	Lat       float64 `json:"lat" validate:"latitude"`
	Lng       float64 `json:"lng" validate:"longitude"`
}

func (p PuntoRequest) ToModel() models.Punto {
	return models.Punto{
		Direccion: strings.TrimSpace(p.Direccion),
		Comuna:    strings.TrimSpace(p.Comuna),
		Ciudad:    strings.TrimSpace(p.Ciudad),
		Lat:       p.Lat,
		Lng:       p.Lng,
	}
}

type CargaRequest struct {
	Descripcion string  `json:"descripcion" validate:"max=300"`
	Tipo        string  `json:"tipo" validate:"max=60"`
	PesoKg      float64 `json:"pesoKg" validate:"gte=0"`
	VolumenM3   float64 `json:"volumenM3" validate:"gte=0"`
}

func (c CargaRequest) ToModel() models.Carga {
	return models.Carga{
		Descripcion: strings.TrimSpace(c.Descripcion),
		Tipo:        strings.TrimSpace(c.Tipo),
		PesoKg:      c.PesoKg,
		VolumenM3:   c.VolumenM3,
	}
}

type AdicionalRequest struct {
	Descripcion string  `json:"descripcion" validate:"required,max=120"`
	Monto       float64 `json:"monto" validate:"gte=0"`
}

// CostosRequest holds the price inputs. Totals are always recomputed.
type CostosRequest struct {
	Combustible float64            `json:"combustible" validate:"gte=0"`
	Peajes      float64            `json:"peajes" validate:"gte=0"`
	Conductor   float64            `json:"conductor" validate:"gte=0"`
	Viaticos    float64            `json:"viaticos" validate:"gte=0"`
	Adicionales []AdicionalRequest `json:"adicionales" validate:"max=50,dive"`
	Descuento   float64            `json:"descuento" validate:"gte=0"`
	TasaIVA     *float64           `json:"tasaIva" validate:"omitempty,gte=0,lte=1"`
}

func (c CostosRequest) ToModel() models.Costos {
	out := models.Costos{
		Combustible: c.Combustible,
		Peajes:      c.Peajes,
		Conductor:   c.Conductor,
		Viaticos:    c.Viaticos,
		Descuento:   c.Descuento,
		TasaIVA:     c.TasaIVA,
		Adicionales: make([]models.Adicional, 0, len(c.Adicionales)),
	}
	for _, a := range c.Adicionales {
		out.Adicionales = append(out.Adicionales, models.Adicional{Descripcion: strings.TrimSpace(a.Descripcion), Monto: a.Monto})
	}
	return out
}

// CalcularRequest is the price preview input. It is also the pricing part of a create.
type CalcularRequest struct {
	Origen      PuntoRequest  `json:"origen"`
	Destino     PuntoRequest  `json:"destino"`
	Carga       CargaRequest  `json:"carga"`
	DistanciaKm *float64      `json:"distanciaKm" validate:"omitempty,gte=0,lte=10000"`
	Costos      CostosRequest `json:"costos"`
}

func (r *CalcularRequest) ToModel() *models.Cotizacion {
	c := &models.Cotizacion{
		Origen:  r.Origen.ToModel(),
		Destino: r.Destino.ToModel(),
		Carga:   r.Carga.ToModel(),
		Costos:  r.Costos.ToModel(),
	}
	if r.DistanciaKm != nil {
		c.DistanciaKm = *r.DistanciaKm
	}
	return c
}

type CotizacionCreateRequest struct {
	CalcularRequest
	ClientID      string     `json:"clientId" validate:"required,object_id"`
	FechaServicio *time.Time `json:"fechaServicio"`
	ValidezDias   int        `json:"validezDias" validate:"omitempty,min=1,max=365"`
	Observaciones string     `json:"observaciones" validate:"max=2000"`
}

func (r *CotizacionCreateRequest) ToModel() *models.Cotizacion {
	c := r.CalcularRequest.ToModel()
	c.ClientID, _ = ParseObjectID(r.ClientID)
	c.FechaServicio = r.FechaServicio
	c.ValidezDias = r.ValidezDias
	c.Observaciones = strings.TrimSpace(r.Observaciones)
	return c
}

// CotizacionUpdateRequest replaces whichever sections are present.
type CotizacionUpdateRequest struct {
	Origen        *PuntoRequest  `json:"origen"`
	Destino       *PuntoRequest  `json:"destino"`
	Carga         *CargaRequest  `json:"carga"`
	DistanciaKm   *float64       `json:"distanciaKm" validate:"omitempty,gte=0,lte=10000"`
	Costos        *CostosRequest `json:"costos"`
	FechaServicio *time.Time     `json:"fechaServicio"`
	ValidezDias   *int           `json:"validezDias" validate:"omitempty,min=1,max=365"`
	Observaciones *string        `json:"observaciones" validate:"omitempty,max=2000"`
}

// Apply copies the present sections onto c.
func (r *CotizacionUpdateRequest) Apply(c *models.Cotizacion) {
	rutaCambiada := false
	if r.Origen != nil {
		c.Origen = r.Origen.ToModel()
		rutaCambiada = true
	}
	if r.Destino != nil {
		c.Destino = r.Destino.ToModel()
		rutaCambiada = true
	}
	if r.Carga != nil {
		c.Carga = r.Carga.ToModel()
	}
	switch {
	case r.DistanciaKm != nil:
		c.DistanciaKm = *r.DistanciaKm
	case rutaCambiada:
		// recalculated from the new route
		c.DistanciaKm = 0
	}
	if r.Costos != nil {
		c.Costos = r.Costos.ToModel()
	}
	if r.FechaServicio != nil {
		c.FechaServicio = r.FechaServicio
	}
	if r.ValidezDias != nil {
		c.ValidezDias = *r.ValidezDias
	}
	if r.Observaciones != nil {
		c.Observaciones = strings.TrimSpace(*r.Observaciones)
	}
}

type EstadoCotizacionRequest struct {
	Estado        string `json:"estado" validate:"required,estado_cotizacion"`
	Observaciones string `json:"observaciones" validate:"max=2000"`
}

type ConvertirViajeRequest struct {
	TruckID       string     `json:"truckId" validate:"required,object_id"`
	ConductorID   string     `json:"conductorId" validate:"required,object_id"`
	FechaSalida   *time.Time `json:"fechaSalida"`
	Observaciones string     `json:"observaciones" validate:"max=2000"`
}
