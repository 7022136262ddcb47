package config

import "time"

type SchedulerConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Interval          time.Duration `yaml:"interval"`
	LockTTL           time.Duration `yaml:"lock_ttl"`
	AutoIniciarViajes bool          `yaml:"auto_iniciar_viajes"`
	GPSStaleAfter     time.Duration `yaml:"gps_stale_after"`
	ProgresoMaximo    int           `yaml:"progreso_maximo"`
}

func loadSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Enabled:           getEnvAsBool("SCHEDULER_ENABLED", true),
		Interval:          getEnvAsDuration("SCHEDULER_INTERVAL", 60*time.Second),
		LockTTL:           getEnvAsDuration("SCHEDULER_LOCK_TTL", 55*time.Second),
		AutoIniciarViajes: getEnvAsBool("SCHEDULER_AUTO_INICIAR_VIAJES", false),
		GPSStaleAfter:     getEnvAsDuration("SCHEDULER_GPS_STALE_AFTER", 10*time.Minute),
		ProgresoMaximo:    getEnvAsInt("SCHEDULER_PROGRESO_MAXIMO", 99),
	}
}
