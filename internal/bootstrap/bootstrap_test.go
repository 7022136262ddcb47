package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fletes/internal/config"
	"fletes/pkg/logger"
	"fletes/pkg/maps"
	"fletes/pkg/sms"
)

func TestNewMaps(t *testing.T) {
	cfg := &config.MapsConfig{
		Provider:   "none",
		GoogleMaps: &config.GoogleMapsConfig{},
		Mapbox:     &config.MapboxConfig{},
	}
	assert.IsType(t, maps.Disabled{}, NewMaps(cfg, logger.Discard()))

	cfg.Provider = "mapbox"
	assert.IsType(t, maps.Disabled{}, NewMaps(cfg, logger.Discard()), "no token")

	cfg.Mapbox.AccessToken = "pk.test"
	assert.IsType(t, &maps.MapboxProvider{}, NewMaps(cfg, logger.Discard()))
}

func TestNewSMS(t *testing.T) {
	cfg := &config.SMSConfig{Provider: "none", Twilio: &config.TwilioConfig{}}
	provider, err := NewSMS(cfg)
	require.NoError(t, err)
	assert.Nil(t, provider)

	cfg.Provider = "twilio"
	provider, err = NewSMS(cfg)
	require.NoError(t, err)
	assert.IsType(t, &sms.TwilioProvider{}, provider)

	cfg.Provider = "palomas"
	_, err = NewSMS(cfg)
	assert.Error(t, err)
}

func TestNewPushRouterNone(t *testing.T) {
	router, err := NewPushRouter(&config.PushConfig{Provider: "none"})
	require.NoError(t, err)
	assert.False(t, router.Enabled())
}

func TestNewRedisDisabled(t *testing.T) {
	rc, err := NewRedis(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, rc)
}

func TestAMQPConfig(t *testing.T) {
	got := AMQPConfig(&config.MessagingConfig{URL: "amqp://x", Exchange: "e", Queue: "q", Prefetch: 5})
	assert.Equal(t, "amqp://x", got.URL)
	assert.Equal(t, "q", got.Queue)
	assert.Equal(t, 5, got.Prefetch)
}
