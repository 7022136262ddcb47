package config

import "time"

type MapsConfig struct {
	// Provider is "google", "mapbox" or "none". With "none" distances fall back to haversine.
	Provider   string            `yaml:"provider"`
	Region     string            `yaml:"region"`
	Language   string            `yaml:"language"`
	Timeout    time.Duration     `yaml:"timeout"`
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
	Mapbox     *MapboxConfig     `yaml:"mapbox"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
}

type MapboxConfig struct {
	AccessToken string `yaml:"access_token"`
}

func (c *MapsConfig) Enabled() bool {
	switch c.Provider {
	case "google":
		return c.GoogleMaps != nil && c.GoogleMaps.APIKey != ""
	case "mapbox":
		return c.Mapbox != nil && c.Mapbox.AccessToken != ""
	}
	return false
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		Provider: getEnv("MAPS_PROVIDER", "none"),
		Region:   getEnv("MAPS_REGION", "cl"),
		Language: getEnv("MAPS_LANGUAGE", "es"),
		Timeout:  getEnvAsDuration("MAPS_TIMEOUT", 5*time.Second),
		GoogleMaps: &GoogleMapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		Mapbox: &MapboxConfig{
			AccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
		},
	}
}
