package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/pkg/logger"
)

const secret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type revokedSet struct {
	ids map[string]bool
	err error
}

func (r revokedSet) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.ids[id], r.err
}

func newRouter(revoked RevocationChecker, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(secret, revoked, logger.Discard())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.Hex(), "role": actor.Role, "jti": c.GetString(utils.ContextTokenID)})
	})
	r.GET("/privado", handlers...)
	return r
}

func token(t *testing.T, id primitive.ObjectID, role models.Role) *utils.TokenResult {
	t.Helper()
	res, err := utils.GenerateToken(id.Hex(), string(role), "x@fletes.cl", secret, time.Hour)
	require.NoError(t, err)
	return res
}

func call(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	id := primitive.NewObjectID()
	tok := token(t, id, models.RoleOperador)
	r := newRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	w := call(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.Hex())
	assert.Contains(t, w.Body.String(), `"role":"operador"`)

	w = call(r, httptest.NewRequest(http.MethodGet, "/privado?token="+tok.AccessToken, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRejects(t *testing.T) {
	other, err := utils.GenerateToken(primitive.NewObjectID().Hex(), "admin", "", "otro-secreto", time.Hour)
	require.NoError(t, err)
	r := newRouter(nil)

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer abc.def.ghi",
		"wrong secret": "Bearer " + other.AccessToken,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/privado", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			assert.Equal(t, http.StatusUnauthorized, call(r, req).Code)
		})
	}
}

func TestAuthRequiredRevokedToken(t *testing.T) {
	tok := token(t, primitive.NewObjectID(), models.RoleCliente)
	claims, err := utils.ValidateToken(tok.AccessToken, secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, call(newRouter(revokedSet{ids: map[string]bool{claims.ID: true}}), req).Code)

	req = httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	assert.Equal(t, http.StatusOK, call(newRouter(revokedSet{err: errors.New("redis down")}), req).Code)
}

func TestRoleRequired(t *testing.T) {
	r := newRouter(nil, StaffRequired(logger.Discard()))
	cases := []struct {
		role models.Role
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleOperador, http.StatusOK},
		{models.RoleMotorista, http.StatusForbidden},
		{models.RoleCliente, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/privado", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID(), tc.role).AccessToken)
		assert.Equal(t, tc.want, call(r, req).Code, tc.role)
	}

	admin := newRouter(nil, AdminRequired(logger.Discard()))
	req := httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID(), models.RoleOperador).AccessToken)
	assert.Equal(t, http.StatusForbidden, call(admin, req).Code)
}

func TestSecurityEventsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriterLogger(&buf, logger.WarnLevel)
	r := gin.New()
	r.GET("/privado", AuthRequired(secret, nil, log), RoleRequired(log, models.RoleCliente), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	require.Equal(t, http.StatusUnauthorized, call(r, req).Code)
	assert.Contains(t, buf.String(), `"event_type":"invalid_token"`)
	assert.Contains(t, buf.String(), `"path":"/privado"`)

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID(), models.RoleMotorista).AccessToken)
	require.Equal(t, http.StatusForbidden, call(r, req).Code)
	assert.Contains(t, buf.String(), `"event_type":"forbidden_role"`)
	assert.Contains(t, buf.String(), `"role":"motorista"`)

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/privado", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID(), models.RoleCliente).AccessToken)
	require.Equal(t, http.StatusOK, call(r, req).Code)
	assert.Empty(t, buf.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", c.Request.Context().Value(logger.RequestIDKey))
	})

	w := call(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = call(r, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), RecoveryMiddleware(logger.Discard()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := call(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrInternalServer)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://panel.fletes.cl"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://panel.fletes.cl")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := call(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://panel.fletes.cl", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://otro.cl")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w = call(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
