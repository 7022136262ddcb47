package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fletes/internal/bootstrap"
	"fletes/internal/config"
	"fletes/internal/handlers"
	"fletes/internal/middleware"
	"fletes/internal/repositories/mongodb"
	"fletes/internal/services"
	"fletes/pkg/database"
	"fletes/pkg/events"
	"fletes/pkg/logger"
	"fletes/pkg/pdf"
	"fletes/pkg/websocket"
	"fletes/routes"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := bootstrap.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLog); err != nil {
		appLog.WithError(err).Fatal("Server stopped with error")
	}
}

func run(cfg *config.Config, appLog *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.NewMongoDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database, appLog).Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// The interfaces stay untyped nil when Redis is off.
	var (
		svcCache  services.CacheService
		repoCache mongodb.CacheService
		redisPing handlers.Pinger
	)
	redisCache, err := bootstrap.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	if redisCache != nil {
		defer redisCache.Close()
		svcCache, repoCache, redisPing = redisCache, redisCache, redisCache
	} else {
		appLog.Warn("Redis disabled: no token blacklist, auto-update runs without a lock")
	}

	clienteRepo := mongodb.NewClienteRepository(db.Database)
	empleadoRepo := mongodb.NewEmpleadoRepository(db.Database)
	motoristaRepo := mongodb.NewMotoristaRepository(db.Database)
	camionRepo := mongodb.NewCamionRepository(db.Database, repoCache)
	cotizacionRepo := mongodb.NewCotizacionRepository(db.Database)
	viajeRepo := mongodb.NewViajeRepository(db.Database)
	auditRepo := mongodb.NewAuditLogRepository(db.Database)
	sequencer := database.NewSequencer(db)

	store, err := bootstrap.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	var (
		publisher  events.Publisher
		dispatcher *events.Dispatcher
	)
	if cfg.Messaging.Enabled {
		client, err := events.NewAMQPClient(bootstrap.AMQPConfig(cfg.Messaging), appLog)
		if err != nil {
			return fmt.Errorf("amqp: %w", err)
		}
		publisher = client
	} else {
		notifier, err := bootstrap.NewNotifier(cfg, db, appLog)
		if err != nil {
			return fmt.Errorf("notifier: %w", err)
		}
		dispatcher = events.NewDispatcher(notifier.Handle, 256, appLog)
		publisher = dispatcher
	}
	defer publisher.Close()

	// The room authorizer needs the trip service, which needs the hub.
	var viajeService services.ViajeService
	hub := websocket.NewHub(appLog, func(ctx context.Context, client *websocket.Client, room string) bool {
		return handlers.ViajeRoomAuthorizer(viajeService)(ctx, client, room)
	})

	pricing := services.NewPricingService(cfg.Pricing)
	geo := services.NewGeoService(bootstrap.NewMaps(cfg.Maps, appLog), cfg.Pricing.VelocidadPromedioKmH, appLog)

	viajeService = services.NewViajeService(
		viajeRepo, cotizacionRepo, clienteRepo, camionRepo, motoristaRepo, auditRepo,
		sequencer, geo, pricing, publisher, hub, cfg.Scheduler.ProgresoMaximo, appLog,
	)
	cotizacionService := services.NewCotizacionService(
		cotizacionRepo, clienteRepo, auditRepo, sequencer, pricing, geo, viajeService,
		pdf.NewGenerator(),
		services.QuoteBranding{Emisor: cfg.App.Name, Moneda: cfg.App.Currency, Decimales: int(cfg.Pricing.MoneyDecimals)},
		publisher, appLog,
	)
	authService := services.NewAuthService(empleadoRepo, motoristaRepo, clienteRepo, auditRepo, svcCache, cfg.Security, appLog)
	clienteService := services.NewClienteService(clienteRepo, auditRepo, cfg.Security, appLog)
	empleadoService := services.NewEmpleadoService(empleadoRepo, auditRepo, cfg.Security, appLog)
	motoristaService := services.NewMotoristaService(motoristaRepo, viajeRepo, auditRepo, hub, cfg.Security, appLog)
	camionService := services.NewCamionService(camionRepo, viajeRepo, auditRepo, appLog)
	mediaService := services.NewMediaService(store, camionRepo, motoristaRepo, auditRepo, cfg.Storage.MaxImageSize, cfg.Storage.MaxImageSide, appLog)
	monitoreoService := services.NewMonitoreoService(camionRepo, motoristaRepo, cotizacionRepo, viajeRepo, appLog)
	autoUpdate := services.NewAutoUpdateService(cotizacionService, viajeService, camionRepo, auditRepo, svcCache, cfg.Scheduler, appLog)

	wsHandler := websocket.NewHandler(ctx, hub, websocket.HandlerConfig{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
		MaxConnections:  cfg.WebSocket.MaxConnections,
		Client: websocket.ClientConfig{
			WriteWait:      cfg.WebSocket.WriteTimeout,
			PongWait:       cfg.WebSocket.PongTimeout,
			PingPeriod:     cfg.WebSocket.PingInterval,
			MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		},
		Identify: handlers.WebSocketIdentity,
	})

	maxUpload := cfg.Storage.MaxImageSize
	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, appLog),
		Clientes:   handlers.NewClienteHandler(clienteService, appLog),
		Empleados:  handlers.NewEmpleadoHandler(empleadoService, appLog),
		Motoristas: handlers.NewMotoristaHandler(motoristaService, mediaService, maxUpload, appLog),
		Camiones:   handlers.NewCamionHandler(camionService, mediaService, maxUpload, appLog),
		Cotizacion: handlers.NewCotizacionHandler(cotizacionService, appLog),
		Viajes:     handlers.NewViajeHandler(viajeService, appLog),
		Monitoreo:  handlers.NewMonitoreoHandler(monitoreoService, geo, appLog),
		WebSocket:  wsHandler,
		Health:     handlers.Health(cfg.App.Version, db, redisPing),
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(middleware.RecoveryMiddleware(appLog))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLog))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	if cfg.Storage.Provider == "local" {
		if u, err := url.Parse(cfg.Storage.Local.BaseURL); err == nil && u.Path != "" && u.Path != "/" {
			router.Static(u.Path, cfg.Storage.Local.BasePath)
		}
	}

	routes.Setup(router, h, middleware.AuthRequired(cfg.Security.JWTSecret, authService, appLog), appLog, cfg.WebSocket.Path)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Run(gctx) })
	}
	if cfg.Scheduler.Enabled {
		g.Go(func() error { return autoUpdate.Run(gctx) })
	}
	g.Go(func() error {
		appLog.WithFields(map[string]interface{}{
			"port":        cfg.App.Port,
			"environment": cfg.App.Environment,
			"messaging":   cfg.Messaging.Enabled,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
