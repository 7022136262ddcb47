package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/cache"
	"fletes/pkg/logger"
)

const testSecret = "test-secret"

func testSecurity() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:         testSecret,
		JWTAccessTokenTTL: time.Hour,
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.MinCost,
	}
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

type authFixture struct {
	svc        AuthService
	empleados  *fakeEmpleadoRepo
	motoristas *fakeMotoristaRepo
	clientes   *fakeClienteRepo
	audit      *fakeAuditRepo
	redis      *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &authFixture{
		empleados:  newFakeEmpleadoRepo(),
		motoristas: newFakeMotoristaRepo(),
		clientes:   newFakeClienteRepo(),
		audit:      &fakeAuditRepo{},
		redis:      mr,
	}
	f.svc = NewAuthService(f.empleados, f.motoristas, f.clientes, f.audit,
		cache.NewRedisCacheFromClient(client, "fletes:"), testSecurity(), logger.Discard())
	return f
}

func TestLoginEmpleado(t *testing.T) {
	f := newAuthFixture(t)
	admin := &models.Empleado{Nombre: "Ana", Email: "ana@fletes.cl", Rol: models.RoleAdmin, Estado: models.EstadoActivo, Password: mustHash(t, "secreto123")}
	require.NoError(t, f.empleados.Create(context.Background(), admin))

	res, err := f.svc.Login(context.Background(), &validators.LoginRequest{Email: " ANA@fletes.cl ", Password: "secreto123"}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, TipoEmpleado, res.Tipo)
	assert.Equal(t, models.RoleAdmin, res.Rol)

	claims, err := utils.ValidateToken(res.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, admin.ID.Hex(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionLogin, f.audit.logs[0].Action)
	assert.Equal(t, "10.0.0.1", f.audit.logs[0].IPAddress)
}

func TestLoginFallsThroughAccountKinds(t *testing.T) {
	f := newAuthFixture(t)
	m := &models.Motorista{Nombre: "Juan", Email: "juan@fletes.cl", Estado: models.MotoristaDisponible, Password: mustHash(t, "camionero1")}
	require.NoError(t, f.motoristas.Create(context.Background(), m))

	res, err := f.svc.Login(context.Background(), &validators.LoginRequest{Email: "juan@fletes.cl", Password: "camionero1"}, "")
	require.NoError(t, err)
	assert.Equal(t, TipoMotorista, res.Tipo)
	assert.Equal(t, models.RoleMotorista, res.Rol)

	_, err = f.svc.Login(context.Background(), &validators.LoginRequest{Email: "juan@fletes.cl", Password: "camionero1", Tipo: TipoCliente}, "")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestLoginRejections(t *testing.T) {
	f := newAuthFixture(t)
	inactivo := &models.Cliente{Nombre: "Ex cliente", Email: "ex@cliente.cl", Estado: models.EstadoInactivo, Password: mustHash(t, "password1")}
	require.NoError(t, f.clientes.Create(context.Background(), inactivo))
	sinClave := &models.Cliente{Nombre: "Sin clave", Email: "sin@cliente.cl", Estado: models.EstadoActivo}
	require.NoError(t, f.clientes.Create(context.Background(), sinClave))

	cases := []struct {
		name string
		req  validators.LoginRequest
	}{
		{"unknown email", validators.LoginRequest{Email: "nadie@fletes.cl", Password: "password1"}},
		{"wrong password", validators.LoginRequest{Email: "ex@cliente.cl", Password: "otra-clave"}},
		{"inactive account", validators.LoginRequest{Email: "ex@cliente.cl", Password: "password1"}},
		{"account without password", validators.LoginRequest{Email: "sin@cliente.cl", Password: ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), &tc.req, "")
			assertStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestRegisterCliente(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Register(context.Background(), &validators.RegisterRequest{
		Nombre: "Comercial Sur", Email: "Contacto@Sur.cl", Password: "clave-segura",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCliente, res.Rol)

	stored, err := f.clientes.GetByEmail(context.Background(), "contacto@sur.cl")
	require.NoError(t, err)
	assert.NotEqual(t, "clave-segura", stored.Password)
	assert.True(t, checkPassword("clave-segura", stored.Password))

	perfil, err := f.svc.Me(context.Background(), stored.ID, models.RoleCliente)
	require.NoError(t, err)
	assert.Equal(t, TipoCliente, perfil.Tipo)
}

func TestRegisterShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), &validators.RegisterRequest{Nombre: "X", Email: "x@x.cl", Password: "corta"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	actor := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleOperador}

	revoked, err := f.svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.svc.Logout(ctx, actor, "jti-1", time.Now().Add(30*time.Minute)))

	revoked, err = f.svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, f.redis.Exists("fletes:revoked:jti-1"))

	f.redis.FastForward(31 * time.Minute)
	revoked, err = f.svc.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLogoutWithoutCache(t *testing.T) {
	svc := NewAuthService(newFakeEmpleadoRepo(), newFakeMotoristaRepo(), newFakeClienteRepo(), nil, nil, testSecurity(), logger.Discard())

	require.NoError(t, svc.Logout(context.Background(), models.Actor{ID: primitive.NewObjectID()}, "jti", time.Now().Add(time.Hour)))
	revoked, err := svc.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestEmpleadoLastAdminProtected(t *testing.T) {
	repo := newFakeEmpleadoRepo()
	admin := &models.Empleado{Nombre: "Ana", Email: "ana@fletes.cl", Rol: models.RoleAdmin, Estado: models.EstadoActivo}
	require.NoError(t, repo.Create(context.Background(), admin))
	svc := NewEmpleadoService(repo, &fakeAuditRepo{}, testSecurity(), logger.Discard())
	otro := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	operador := "operador"
	_, err := svc.Update(context.Background(), admin.ID, &validators.EmpleadoUpdateRequest{Rol: &operador}, otro)
	assertStatus(t, err, http.StatusBadRequest)

	err = svc.Delete(context.Background(), admin.ID, otro)
	assertStatus(t, err, http.StatusBadRequest)

	err = svc.Delete(context.Background(), admin.ID, models.Actor{ID: admin.ID, Role: models.RoleAdmin})
	assertStatus(t, err, http.StatusBadRequest)

	segundo, err := svc.Create(context.Background(), &validators.EmpleadoCreateRequest{
		Nombre: "Luis", Apellido: "Soto", Email: "luis@fletes.cl", Rol: "admin", Password: "password1",
	}, otro)
	require.NoError(t, err)
	assert.True(t, checkPassword("password1", segundo.Password))

	_, err = svc.Update(context.Background(), admin.ID, &validators.EmpleadoUpdateRequest{Rol: &operador}, otro)
	require.NoError(t, err)
}
