package routes

import (
	"github.com/gin-gonic/gin"

	"fletes/internal/handlers"
	"fletes/internal/middleware"
	"fletes/internal/models"
	"fletes/pkg/logger"
	"fletes/pkg/websocket"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Clientes   *handlers.ClienteHandler
	Empleados  *handlers.EmpleadoHandler
	Motoristas *handlers.MotoristaHandler
	Camiones   *handlers.CamionHandler
	Cotizacion *handlers.CotizacionHandler
	Viajes     *handlers.ViajeHandler
	Monitoreo  *handlers.MonitoreoHandler
	WebSocket  *websocket.Handler
	Health     gin.HandlerFunc
}

// Setup registers every route on r. auth is the AuthRequired middleware.
func Setup(r *gin.Engine, h *Handlers, auth gin.HandlerFunc, log *logger.Logger, wsPath string) {
	r.GET("/health", h.Health)
	if h.WebSocket != nil {
		r.GET(wsPath, auth, h.WebSocket.HandleWebSocket)
	}

	api := r.Group("/api")
	SetupAuthRoutes(api, h.Auth, auth)

	protected := api.Group("")
	protected.Use(auth)
	SetupClienteRoutes(protected, h.Clientes, log)
	SetupEmpleadoRoutes(protected, h.Empleados, log)
	SetupMotoristaRoutes(protected, h.Motoristas, log)
	SetupCamionRoutes(protected, h.Camiones, log)
	SetupCotizacionRoutes(protected, h.Cotizacion, log)
	SetupViajeRoutes(protected, h.Viajes, log)
	SetupMonitoreoRoutes(protected, h.Monitoreo, log)
}

func SetupAuthRoutes(r *gin.RouterGroup, h *handlers.AuthHandler, auth gin.HandlerFunc) {
	g := r.Group("/auth")
	{
		g.POST("/login", h.Login)
		g.POST("/register", h.Register)
		g.GET("/me", auth, h.Me)
		g.POST("/logout", auth, h.Logout)
	}
}

// Cliente and motorista accounts may read their own record; handlers check ownership.
func SetupClienteRoutes(r *gin.RouterGroup, h *handlers.ClienteHandler, log *logger.Logger) {
	g := r.Group("/clientes")
	staff := middleware.StaffRequired(log)
	{
		g.GET("", staff, h.List)
		g.POST("", staff, h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", staff, h.Update)
		g.DELETE("/:id", staff, h.Delete)
		g.PUT("/:id/dispositivo", h.RegistrarDispositivo)
	}
}

func SetupEmpleadoRoutes(r *gin.RouterGroup, h *handlers.EmpleadoHandler, log *logger.Logger) {
	g := r.Group("/empleados")
	g.Use(middleware.AdminRequired(log))
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
}

func SetupMotoristaRoutes(r *gin.RouterGroup, h *handlers.MotoristaHandler, log *logger.Logger) {
	g := r.Group("/motoristas")
	staff := middleware.StaffRequired(log)
	self := middleware.RoleRequired(log, models.RoleOperador, models.RoleMotorista)
	{
		g.GET("", staff, h.List)
		g.GET("/disponibles", staff, h.Disponibles)
		g.POST("", staff, h.Create)
		g.GET("/:id", self, h.Get)
		g.PUT("/:id", staff, h.Update)
		g.DELETE("/:id", staff, h.Delete)
		g.PATCH("/:id/estado", staff, h.SetEstado)
		g.POST("/:id/foto", self, h.SubirFoto)
		g.PUT("/:id/ubicacion", self, h.ActualizarUbicacion)
		g.PUT("/:id/dispositivo", self, h.RegistrarDispositivo)
	}
}

func SetupCamionRoutes(r *gin.RouterGroup, h *handlers.CamionHandler, log *logger.Logger) {
	g := r.Group("/camiones")
	g.Use(middleware.StaffRequired(log))
	{
		g.GET("", h.List)
		g.GET("/disponibles", h.Disponibles)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.PATCH("/:id/estado", h.SetEstado)
		g.POST("/:id/fotos", h.AgregarFoto)
	}
}

// Clients reach their own quotes here; the service enforces ownership.
func SetupCotizacionRoutes(r *gin.RouterGroup, h *handlers.CotizacionHandler, log *logger.Logger) {
	g := r.Group("/cotizaciones")
	staff := middleware.StaffRequired(log)
	clientes := middleware.RoleRequired(log, models.RoleOperador, models.RoleCliente)
	{
		g.POST("/calcular", clientes, h.Calcular)
		g.GET("", clientes, h.List)
		g.POST("", clientes, h.Create)
		g.GET("/:id", clientes, h.Get)
		g.PUT("/:id", staff, h.Update)
		g.DELETE("/:id", staff, h.Delete)
		g.PATCH("/:id/estado", clientes, h.CambiarEstado)
		g.POST("/:id/viaje", staff, h.ConvertirViaje)
		g.GET("/:id/pdf", clientes, h.PDF)
	}
}

func SetupViajeRoutes(r *gin.RouterGroup, h *handlers.ViajeHandler, log *logger.Logger) {
	g := r.Group("/viajes")
	staff := middleware.StaffRequired(log)
	conductores := middleware.RoleRequired(log, models.RoleOperador, models.RoleMotorista)
	{
		g.GET("", h.List)
		g.POST("", staff, h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", staff, h.Update)
		g.DELETE("/:id", staff, h.Delete)
		g.PATCH("/:id/estado", conductores, h.CambiarEstado)
		g.GET("/:id/progreso", h.Progreso)
		g.PUT("/:id/ubicacion", conductores, h.ActualizarUbicacion)
	}
}

func SetupMonitoreoRoutes(r *gin.RouterGroup, h *handlers.MonitoreoHandler, log *logger.Logger) {
	m := r.Group("/monitoreo")
	m.Use(middleware.StaffRequired(log))
	{
		m.GET("/resumen", h.Resumen)
		m.GET("/activos", h.Activos)
	}

	// geocoding spends provider quota; drivers have no use for it
	geo := r.Group("/geo")
	geo.Use(middleware.RoleRequired(log, models.RoleOperador, models.RoleCliente))
	{
		geo.GET("/geocode", h.Geocode)
		geo.GET("/distancia", h.Distancia)
	}
}
