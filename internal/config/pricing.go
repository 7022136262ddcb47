package config

type PricingConfig struct {
	TasaIVA               float64 `yaml:"tasa_iva"`
	RendimientoKmL        float64 `yaml:"rendimiento_km_l"`
	PrecioLitro           float64 `yaml:"precio_litro"`
	TarifaDiariaConductor float64 `yaml:"tarifa_diaria_conductor"`
	JornadaHoras          float64 `yaml:"jornada_horas"`
	VelocidadPromedioKmH  float64 `yaml:"velocidad_promedio_km_h"`
	MoneyDecimals         int32   `yaml:"money_decimals"`
	ValidezDias           int     `yaml:"validez_dias"`
}

func loadPricingConfig() *PricingConfig {
	return &PricingConfig{
		TasaIVA:               getEnvAsFloat64("PRICING_TASA_IVA", 0.19),
		RendimientoKmL:        getEnvAsFloat64("PRICING_RENDIMIENTO_KM_L", 3.0),
		PrecioLitro:           getEnvAsFloat64("PRICING_PRECIO_LITRO", 1100),
		TarifaDiariaConductor: getEnvAsFloat64("PRICING_TARIFA_DIARIA_CONDUCTOR", 60000),
		JornadaHoras:          getEnvAsFloat64("PRICING_JORNADA_HORAS", 10),
		VelocidadPromedioKmH:  getEnvAsFloat64("PRICING_VELOCIDAD_PROMEDIO_KMH", 70),
		MoneyDecimals:         int32(getEnvAsInt("PRICING_MONEY_DECIMALS", 0)),
		ValidezDias:           getEnvAsInt("PRICING_VALIDEZ_DIAS", 15),
	}
}
