package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type HandlerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
	MaxConnections  int
	Client          ClientConfig
	// Identify returns the caller set by the auth middleware.
	Identify func(c *gin.Context) (userID, role string, ok bool)
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	config   HandlerConfig
	// ctx bounds the lifetime of read pumps; it is the server's context.
	ctx context.Context
}

func NewHandler(ctx context.Context, hub *Hub, config HandlerConfig) *Handler {
	return &Handler{
		hub:    hub,
		config: config,
		ctx:    ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     originChecker(config.AllowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// mobile apps do not send Origin
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket expects the auth middleware to have run.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	var userID, role string
	ok := false
	if h.config.Identify != nil {
		userID, role, ok = h.config.Identify(c)
	}
	if !ok || userID == "" || role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No autorizado", "error": "missing credentials"})
		return
	}

	if h.config.MaxConnections > 0 && h.hub.ClientCount() >= h.config.MaxConnections {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Demasiadas conexiones", "error": "connection limit reached"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userID, role, h.config.Client)
	select {
	case h.hub.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h.ctx)
}
