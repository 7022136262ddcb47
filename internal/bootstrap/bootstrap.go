// Package bootstrap builds the infrastructure shared by the API server and the
// notifier worker from configuration.
package bootstrap

import (
	"fmt"

	"fletes/internal/config"
	"fletes/internal/repositories/mongodb"
	"fletes/internal/services"
	"fletes/pkg/cache"
	"fletes/pkg/database"
	"fletes/pkg/events"
	"fletes/pkg/logger"
	"fletes/pkg/maps"
	"fletes/pkg/push"
	"fletes/pkg/sms"
	"fletes/pkg/storage"
)

func NewLogger(cfg *config.AppConfig) (*logger.Logger, error) {
	return logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		Format:     cfg.LogFormat,
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Colors:     cfg.Debug && cfg.LogFormat != "json",
		AppName:    cfg.Name,
		Version:    cfg.Version,
	})
}

func NewMongoDB(cfg *config.DatabaseConfig) (*database.MongoDB, error) {
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.URI,
		Database:       cfg.Database,
		MaxPoolSize:    cfg.MaxPoolSize,
		MinPoolSize:    cfg.MinPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		SocketTimeout:  cfg.SocketTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return db, nil
}

// NewRedis returns nil when Redis is disabled.
func NewRedis(cfg *config.RedisConfig) (*cache.RedisCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(&cache.RedisConfig{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		KeyPrefix:    cfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rc, nil
}

func NewStorage(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	return storage.NewProvider(storage.Config{
		Provider:           cfg.Provider,
		LocalPath:          cfg.Local.BasePath,
		LocalURL:           cfg.Local.BaseURL,
		AWSRegion:          cfg.AWS.Region,
		AWSBucket:          cfg.AWS.Bucket,
		AWSAccessKeyID:     cfg.AWS.AccessKeyID,
		AWSSecretAccessKey: cfg.AWS.SecretAccessKey,
		AWSCDNDomain:       cfg.AWS.CDNDomain,
		GCPBucket:          cfg.GCP.Bucket,
		GCPCredentialsFile: cfg.GCP.CredentialsFile,
		GCPCDNDomain:       cfg.GCP.CDNDomain,
	})
}

// NewMaps falls back to maps.Disabled, in which case distances between
// coordinates are computed with haversine.
func NewMaps(cfg *config.MapsConfig, log *logger.Logger) maps.MapsProvider {
	if !cfg.Enabled() {
		return maps.Disabled{}
	}
	switch cfg.Provider {
	case "mapbox":
		return maps.NewMapboxProvider(cfg.Mapbox.AccessToken, cfg.Region, cfg.Language, cfg.Timeout)
	default:
		provider, err := maps.NewGoogleMapsProvider(cfg.GoogleMaps.APIKey, cfg.Region, cfg.Language)
		if err != nil {
			log.WithError(err).Warn("Google Maps unavailable, distances fall back to haversine")
			return maps.Disabled{}
		}
		return provider
	}
}

// NewSMS returns nil when no provider is configured.
func NewSMS(cfg *config.SMSConfig) (sms.SMSProvider, error) {
	switch cfg.Provider {
	case "twilio":
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber), nil
	case "aws":
		provider, err := sms.NewAWSSNSProvider(cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, cfg.SenderID)
		if err != nil {
			return nil, fmt.Errorf("sns: %w", err)
		}
		return provider, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported sms provider: %s", cfg.Provider)
	}
}

// NewPushRouter configures FCM for Android and APNS for iOS. PUSH_PROVIDER
// "both" enables the two; a single provider serves every platform it can.
func NewPushRouter(cfg *config.PushConfig) (*push.Router, error) {
	router := &push.Router{}
	useFCM := cfg.Provider == "fcm" || cfg.Provider == "both"
	useAPNS := cfg.Provider == "apns" || cfg.Provider == "both"

	if useFCM {
		fcm, err := push.NewFCMProvider(cfg.FCM.ProjectID, cfg.FCM.Credentials)
		if err != nil {
			return nil, fmt.Errorf("fcm: %w", err)
		}
		router.Android = fcm
	}
	if useAPNS {
		apns, err := push.NewAPNSProvider(cfg.APNS.KeyFile, cfg.APNS.KeyID, cfg.APNS.TeamID, cfg.APNS.BundleID, cfg.APNS.Production)
		if err != nil {
			return nil, fmt.Errorf("apns: %w", err)
		}
		router.IOS = apns
	}
	return router, nil
}

// NewNotifier builds the event handler that turns domain events into push
// notifications and SMS.
func NewNotifier(cfg *config.Config, db *database.MongoDB, log *logger.Logger) (services.NotificationService, error) {
	pushRouter, err := NewPushRouter(cfg.Push)
	if err != nil {
		return nil, err
	}
	smsProvider, err := NewSMS(cfg.SMS)
	if err != nil {
		return nil, err
	}
	if !pushRouter.Enabled() {
		log.Warn("No push provider configured")
	}
	return services.NewNotificationService(
		mongodb.NewClienteRepository(db.Database),
		mongodb.NewMotoristaRepository(db.Database),
		pushRouter,
		smsProvider,
		cfg.SMS.DefaultRegion,
		log,
	), nil
}

func AMQPConfig(cfg *config.MessagingConfig) events.AMQPConfig {
	return events.AMQPConfig{
		URL:      cfg.URL,
		Exchange: cfg.Exchange,
		Queue:    cfg.Queue,
		Prefetch: cfg.Prefetch,
	}
}
