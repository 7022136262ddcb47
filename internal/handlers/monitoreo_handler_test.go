package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/services"
	"fletes/internal/utils"
	"fletes/pkg/logger"
	"fletes/pkg/maps"
	"fletes/pkg/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type viajesVisibles struct {
	services.ViajeService
	visible map[primitive.ObjectID]primitive.ObjectID // viaje -> conductor
}

func (v viajesVisibles) GetByID(_ context.Context, id primitive.ObjectID, actor models.Actor) (*models.Viaje, error) {
	conductor, ok := v.visible[id]
	if !ok {
		return nil, utils.NotFound("Viaje")
	}
	if actor.ID != conductor {
		return nil, utils.Forbidden()
	}
	return &models.Viaje{ID: id}, nil
}

func TestViajeRoomAuthorizer(t *testing.T) {
	viaje, conductor := primitive.NewObjectID(), primitive.NewObjectID()
	authorize := ViajeRoomAuthorizer(viajesVisibles{visible: map[primitive.ObjectID]primitive.ObjectID{viaje: conductor}})
	ctx := context.Background()

	operador := websocket.NewClient(nil, nil, primitive.NewObjectID().Hex(), string(models.RoleOperador), websocket.ClientConfig{})
	assert.True(t, authorize(ctx, operador, "monitoreo"))

	driver := websocket.NewClient(nil, nil, conductor.Hex(), string(models.RoleMotorista), websocket.ClientConfig{})
	assert.True(t, authorize(ctx, driver, websocket.RoomViaje(viaje.Hex())))
	assert.False(t, authorize(ctx, driver, "monitoreo"))
	assert.False(t, authorize(ctx, driver, websocket.RoomViaje(primitive.NewObjectID().Hex())))
	assert.False(t, authorize(ctx, driver, websocket.RoomViaje("no-es-id")))

	otro := websocket.NewClient(nil, nil, primitive.NewObjectID().Hex(), string(models.RoleCliente), websocket.ClientConfig{})
	assert.False(t, authorize(ctx, otro, websocket.RoomViaje(viaje.Hex())))
}

type geoStub struct {
	services.GeoService
	origen, destino string
}

func (g *geoStub) Distancia(_ context.Context, origen, destino string) (*maps.DistanceResult, error) {
	g.origen, g.destino = origen, destino
	return &maps.DistanceResult{DistanciaKm: 120, Fuente: "haversine"}, nil
}

func TestDistancia(t *testing.T) {
	geo := &geoStub{}
	h := NewMonitoreoHandler(nil, geo, logger.Discard())
	r := gin.New()
	r.GET("/geo/distancia", h.Distancia)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/geo/distancia?origen=Santiago", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"destino"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/geo/distancia?origen=Santiago&destino=+Talca+", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Talca", geo.destino)
	assert.Contains(t, w.Body.String(), `"distanciaKm":120`)
}

func TestWebSocketIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	_, _, ok := WebSocketIdentity(c)
	assert.False(t, ok)

	id := primitive.NewObjectID()
	c.Set(utils.ContextUserID, id)
	c.Set(utils.ContextRole, models.RoleCliente)
	userID, role, ok := WebSocketIdentity(c)
	require.True(t, ok)
	assert.Equal(t, id.Hex(), userID)
	assert.Equal(t, "cliente", role)
}
