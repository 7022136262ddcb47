package services

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"fletes/internal/config"
	"fletes/internal/models"
)

// PricingService derives the computed fields of a quote. It runs on every
// create and update so stored totals always match the line items.
type PricingService interface {
	Apply(cotizacion *models.Cotizacion)
	DuracionHoras(distanciaKm float64) float64
	LlegadaEstimada(salida time.Time, distanciaKm float64) *time.Time
	TasaIVA(costos models.Costos) float64
}

type pricingService struct {
	cfg config.PricingConfig
}

func NewPricingService(cfg *config.PricingConfig) PricingService {
	c := *cfg
	if c.VelocidadPromedioKmH <= 0 {
		c.VelocidadPromedioKmH = 70
	}
	if c.JornadaHoras <= 0 {
		c.JornadaHoras = 10
	}
	if c.ValidezDias <= 0 {
		c.ValidezDias = 15
	}
	return &pricingService{cfg: c}
}

func (s *pricingService) Apply(c *models.Cotizacion) {
	if c.ValidezDias <= 0 {
		c.ValidezDias = s.cfg.ValidezDias
	}
	c.DuracionEstimadaHoras = s.DuracionHoras(c.DistanciaKm)

	costos := &c.Costos
	if costos.Combustible == 0 || costos.CombustibleEstimado {
		costos.Combustible, costos.CombustibleEstimado = 0, false
		if c.DistanciaKm > 0 && s.cfg.RendimientoKmL > 0 {
			litros := decimal.NewFromFloat(c.DistanciaKm).Div(decimal.NewFromFloat(s.cfg.RendimientoKmL))
			costos.Combustible = s.money(litros.Mul(decimal.NewFromFloat(s.cfg.PrecioLitro)))
			costos.CombustibleEstimado = true
		}
	}
	if costos.Conductor == 0 || costos.ConductorEstimado {
		costos.Conductor, costos.ConductorEstimado = 0, false
		if c.DistanciaKm > 0 {
			jornadas := math.Ceil(c.DuracionEstimadaHoras / s.cfg.JornadaHoras)
			costos.Conductor = s.money(decimal.NewFromFloat(jornadas).Mul(decimal.NewFromFloat(s.cfg.TarifaDiariaConductor)))
			costos.ConductorEstimado = true
		}
	}
	if costos.Adicionales == nil {
		costos.Adicionales = []models.Adicional{}
	}

	tasa := s.TasaIVA(*costos)
	costos.TasaIVA = &tasa

	subtotal := decimal.NewFromFloat(costos.Combustible).
		Add(decimal.NewFromFloat(costos.Peajes)).
		Add(decimal.NewFromFloat(costos.Conductor)).
		Add(decimal.NewFromFloat(costos.Viaticos))
	for _, a := range costos.Adicionales {
		subtotal = subtotal.Add(decimal.NewFromFloat(a.Monto))
	}
	subtotal = subtotal.Sub(decimal.NewFromFloat(costos.Descuento))
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	subtotal = subtotal.Round(s.cfg.MoneyDecimals)
	iva := subtotal.Mul(decimal.NewFromFloat(tasa)).Round(s.cfg.MoneyDecimals)

	costos.Subtotal = subtotal.InexactFloat64()
	costos.IVA = iva.InexactFloat64()
	costos.Total = subtotal.Add(iva).InexactFloat64()

	// A set date is kept: re-opening an expired quote moves it forward.
	if c.FechaVencimiento.IsZero() {
		if inicio := c.InicioVigencia(); !inicio.IsZero() {
			c.FechaVencimiento = inicio.AddDate(0, 0, c.ValidezDias)
		}
	}
}

func (s *pricingService) TasaIVA(costos models.Costos) float64 {
	if costos.TasaIVA != nil {
		return *costos.TasaIVA
	}
	return s.cfg.TasaIVA
}

func (s *pricingService) DuracionHoras(distanciaKm float64) float64 {
	if distanciaKm <= 0 {
		return 0
	}
	h, _ := decimal.NewFromFloat(distanciaKm).
		Div(decimal.NewFromFloat(s.cfg.VelocidadPromedioKmH)).
		Round(2).
		Float64()
	return h
}

func (s *pricingService) LlegadaEstimada(salida time.Time, distanciaKm float64) *time.Time {
	if distanciaKm <= 0 || salida.IsZero() {
		return nil
	}
	llegada := salida.Add(time.Duration(distanciaKm / s.cfg.VelocidadPromedioKmH * float64(time.Hour))).Truncate(time.Minute)
	return &llegada
}

func (s *pricingService) money(d decimal.Decimal) float64 {
	return d.Round(s.cfg.MoneyDecimals).InexactFloat64()
}
