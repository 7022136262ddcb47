package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/pkg/logger"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthRequired validates the bearer token and sets the user context. Browsers
// cannot set headers on websocket upgrades, so ?token= is accepted as well.
// revoked may be nil.
func AuthRequired(secret string, revoked RevocationChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Token de acceso requerido")
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			securityEvent(c, log, "invalid_token", "medium", map[string]interface{}{"error": err.Error()})
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Token inválido o expirado")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			securityEvent(c, log, "invalid_token", "high", map[string]interface{}{"error": "bad subject"})
			utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Token inválido o expirado")
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open: the blacklist is an extra, the signature already checked out
				log.WithRequestID(c.GetString(utils.ContextRequestID)).WithError(err).Warn("Token revocation check failed")
			} else if isRevoked {
				securityEvent(c, log, "revoked_token", "medium", map[string]interface{}{"user_id": claims.UserID})
				utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, "Sesión cerrada")
				return
			}
		}

		c.Set(utils.ContextUserID, userID)
		c.Set(utils.ContextRole, models.Role(claims.Role))
		c.Set(utils.ContextTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(utils.ContextTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}

func securityEvent(c *gin.Context, log *logger.Logger, eventType, severity string, details map[string]interface{}) {
	details["ip"] = c.ClientIP()
	details["path"] = c.Request.URL.Path
	log.WithRequestID(c.GetString(utils.ContextRequestID)).LogSecurityEvent(eventType, severity, details)
}

// RoleRequired lets the request through only for the given roles.
// Admins always pass.
func RoleRequired(log *logger.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(utils.ContextRole)
		if !ok {
			utils.UnauthorizedResponse(c)
			return
		}
		r, _ := role.(models.Role)
		if r == models.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if r == allowed {
				c.Next()
				return
			}
		}
		securityEvent(c, log, "forbidden_role", "low", map[string]interface{}{"role": r})
		utils.ForbiddenResponse(c)
	}
}

// StaffRequired admits admins and operadores.
func StaffRequired(log *logger.Logger) gin.HandlerFunc {
	return RoleRequired(log, models.RoleOperador)
}

// AdminRequired admits admins only.
func AdminRequired(log *logger.Logger) gin.HandlerFunc {
	return RoleRequired(log)
}

// GetActor returns the authenticated caller. It is the zero Actor on public routes.
func GetActor(c *gin.Context) models.Actor {
	actor := models.Actor{IP: c.ClientIP()}
	if id, ok := c.Get(utils.ContextUserID); ok {
		actor.ID, _ = id.(primitive.ObjectID)
	}
	if role, ok := c.Get(utils.ContextRole); ok {
		actor.Role, _ = role.(models.Role)
	}
	return actor
}
