package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/pkg/logger"
	"fletes/pkg/websocket"
)

type MonitoreoHandler struct {
	monitoreoService services.MonitoreoService
	geoService       services.GeoService
	logger           *logger.Logger
}

func NewMonitoreoHandler(monitoreoService services.MonitoreoService, geoService services.GeoService, logger *logger.Logger) *MonitoreoHandler {
	return &MonitoreoHandler{monitoreoService: monitoreoService, geoService: geoService, logger: logger}
}

// Resumen returns record counts by status for the dashboard.
func (h *MonitoreoHandler) Resumen(c *gin.Context) {
	resumen, err := h.monitoreoService.Resumen(c.Request.Context())
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, resumen)
}

// Activos returns trips in progress with their last known position.
func (h *MonitoreoHandler) Activos(c *gin.Context) {
	viajes, err := h.monitoreoService.Activos(c.Request.Context())
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, viajes)
}

func (h *MonitoreoHandler) Geocode(c *gin.Context) {
	results, err := h.geoService.Geocode(c.Request.Context(), c.Query("direccion"))
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, results)
}

func (h *MonitoreoHandler) Distancia(c *gin.Context) {
	origen := strings.TrimSpace(c.Query("origen"))
	destino := strings.TrimSpace(c.Query("destino"))
	if origen == "" || destino == "" {
		utils.HandleError(c, h.logger, utils.Validation(map[string]string{
			"origen":  "Debe indicar origen y destino",
			"destino": "Debe indicar origen y destino",
		}))
		return
	}

	result, err := h.geoService.Distancia(c.Request.Context(), origen, destino)
	if err != nil {
		utils.HandleError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, utils.MsgOK, result)
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness plus the state of each dependency. Redis is
// optional: a nil pinger is reported as disabled.
func Health(version string, mongo Pinger, redis Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}
		if err := mongo.Ping(ctx); err != nil {
			checks["mongodb"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["mongodb"] = "up"
		}
		switch {
		case redis == nil:
			checks["redis"] = "disabled"
		case redis.Ping(ctx) != nil:
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		default:
			checks["redis"] = "up"
		}

		estado := "ok"
		if status != http.StatusOK {
			estado = "degradado"
		}
		c.JSON(status, gin.H{
			"status":    estado,
			"version":   version,
			"checks":    checks,
			"timestamp": time.Now().UTC(),
		})
	}
}

// WebSocketIdentity reads the caller set by the auth middleware.
func WebSocketIdentity(c *gin.Context) (string, string, bool) {
	actor := actorOf(c)
	if actor.IsSystem() {
		return "", "", false
	}
	return actor.ID.Hex(), string(actor.Role), true
}

// ViajeRoomAuthorizer lets staff join any room, and drivers or clients join
// the room of a trip they can see.
func ViajeRoomAuthorizer(viajes services.ViajeService) websocket.RoomAuthorizer {
	return func(ctx context.Context, client *websocket.Client, room string) bool {
		role := models.Role(client.Role)
		if role.IsStaff() {
			return true
		}
		hex, ok := strings.CutPrefix(room, websocket.RoomViaje(""))
		if !ok {
			return false
		}
		viajeID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return false
		}
		userID, err := primitive.ObjectIDFromHex(client.UserID)
		if err != nil {
			return false
		}
		_, err = viajes.GetByID(ctx, viajeID, models.Actor{ID: userID, Role: role})
		return err == nil
	}
}
