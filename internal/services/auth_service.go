package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

const (
	TipoEmpleado  = "empleado"
	TipoMotorista = "motorista"
	TipoCliente   = "cliente"
)

var errInvalidCredentials = utils.Unauthorized("Credenciales inválidas")

type AuthService interface {
	Login(ctx context.Context, request *validators.LoginRequest, ip string) (*AuthResponse, error)
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Me(ctx context.Context, userID primitive.ObjectID, role models.Role) (*Perfil, error)
	// Logout revokes the token until it would have expired anyway.
	Logout(ctx context.Context, actor models.Actor, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthResponse struct {
	*utils.TokenResult
	Tipo    string      `json:"tipo"`
	Rol     models.Role `json:"rol"`
	Usuario interface{} `json:"usuario"`
}

// Perfil is the current account as returned by GET /auth/me.
type Perfil struct {
	Tipo    string      `json:"tipo"`
	Rol     models.Role `json:"rol"`
	Usuario interface{} `json:"usuario"`
}

type authService struct {
	empleadoRepo  interfaces.EmpleadoRepository
	motoristaRepo interfaces.MotoristaRepository
	clienteRepo   interfaces.ClienteRepository
	audit         *auditTrail
	cache         CacheService
	security      *config.SecurityConfig
	logger        *logger.Logger
	auditLogger   *logger.AuditLogger
}

// NewAuthService accepts a nil cache; logout then only ends the client session.
func NewAuthService(
	empleadoRepo interfaces.EmpleadoRepository,
	motoristaRepo interfaces.MotoristaRepository,
	clienteRepo interfaces.ClienteRepository,
	auditLogRepo interfaces.AuditLogRepository,
	cache CacheService,
	security *config.SecurityConfig,
	logger *logger.Logger,
) AuthService {
	audit := newAuditTrail(auditLogRepo, logger)
	return &authService{
		empleadoRepo:  empleadoRepo,
		motoristaRepo: motoristaRepo,
		clienteRepo:   clienteRepo,
		audit:         audit,
		cache:         cache,
		security:      security,
		logger:        logger,
		auditLogger:   audit.logger,
	}
}

type account struct {
	id       primitive.ObjectID
	email    string
	password string
	role     models.Role
	tipo     string
	activo   bool
	usuario  interface{}
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest, ip string) (*AuthResponse, error) {
	email := validators.NormalizeEmail(request.Email)

	tipos := []string{TipoEmpleado, TipoMotorista, TipoCliente}
	if request.Tipo != "" {
		tipos = []string{request.Tipo}
	}

	var acc *account
	for _, tipo := range tipos {
		found, err := s.findAccount(ctx, tipo, email)
		if err != nil {
			return nil, err
		}
		if found != nil && found.password != "" {
			acc = found
			break
		}
	}

	if acc == nil || !checkPassword(request.Password, acc.password) {
		s.auditLogger.LogAuthEvent("login", "", ip, "", false)
		s.logger.WithField("email", email).Warn("Login attempt with invalid credentials")
		return nil, errInvalidCredentials
	}
	if !acc.activo {
		s.auditLogger.LogAuthEvent("login", acc.id.Hex(), ip, "", false)
		return nil, utils.Unauthorized("Cuenta inactiva")
	}

	token, err := utils.GenerateToken(acc.id.Hex(), string(acc.role), acc.email, s.security.JWTSecret, s.security.JWTAccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.record(ctx, models.Actor{ID: acc.id, Role: acc.role, IP: ip}, models.AuditActionLogin, acc.tipo, acc.id, "", "", nil)
	s.auditLogger.LogAuthEvent("login", acc.id.Hex(), ip, "", true)
	s.logger.WithUserID(acc.id).WithField("role", acc.role).Info("User logged in")

	return &AuthResponse{TokenResult: token, Tipo: acc.tipo, Rol: acc.role, Usuario: acc.usuario}, nil
}

func (s *authService) findAccount(ctx context.Context, tipo, email string) (*account, error) {
	switch tipo {
	case TipoEmpleado:
		e, err := s.empleadoRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		role := e.Rol
		if role != models.RoleAdmin {
			role = models.RoleOperador
		}
		return &account{id: e.ID, email: e.Email, password: e.Password, role: role, tipo: tipo,
			activo: e.Estado != models.EstadoInactivo, usuario: e}, nil
	case TipoMotorista:
		m, err := s.motoristaRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		return &account{id: m.ID, email: m.Email, password: m.Password, role: models.RoleMotorista, tipo: tipo,
			activo: m.Estado != models.MotoristaInactivo, usuario: m}, nil
	case TipoCliente:
		c, err := s.clienteRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		return &account{id: c.ID, email: c.Email, password: c.Password, role: models.RoleCliente, tipo: tipo,
			activo: c.Estado != models.EstadoInactivo, usuario: c}, nil
	}
	return nil, nil
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	if len(request.Password) < s.security.PasswordMinLength {
		return nil, utils.Validation(map[string]string{
			"password": fmt.Sprintf("Debe tener al menos %d caracteres", s.security.PasswordMinLength),
		})
	}

	cliente := request.ToModel()
	hash, err := hashPassword(request.Password, s.security.BcryptCost)
	if err != nil {
		return nil, err
	}
	cliente.Password = hash

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(cliente.ID.Hex(), string(models.RoleCliente), cliente.Email, s.security.JWTSecret, s.security.JWTAccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	actor := models.Actor{ID: cliente.ID, Role: models.RoleCliente}
	s.audit.record(ctx, actor, models.AuditActionCreate, TipoCliente, cliente.ID, "", "", map[string]interface{}{"origen": "registro"})
	s.logger.WithUserID(cliente.ID).Info("Cliente registered")

	return &AuthResponse{TokenResult: token, Tipo: TipoCliente, Rol: models.RoleCliente, Usuario: cliente}, nil
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID, role models.Role) (*Perfil, error) {
	var (
		usuario interface{}
		tipo    string
		err     error
	)
	switch role {
	case models.RoleAdmin, models.RoleOperador:
		tipo = TipoEmpleado
		usuario, err = s.empleadoRepo.GetByID(ctx, userID)
	case models.RoleMotorista:
		tipo = TipoMotorista
		usuario, err = s.motoristaRepo.GetByID(ctx, userID)
	case models.RoleCliente:
		tipo = TipoCliente
		usuario, err = s.clienteRepo.GetByID(ctx, userID)
	default:
		return nil, utils.Unauthorized("")
	}
	if err != nil {
		return nil, err
	}
	return &Perfil{Tipo: tipo, Rol: role, Usuario: usuario}, nil
}

func (s *authService) Logout(ctx context.Context, actor models.Actor, tokenID string, expiresAt time.Time) error {
	if s.cache != nil && tokenID != "" {
		ttl := time.Until(expiresAt)
		if ttl > 0 {
			if err := s.cache.Set(ctx, revokedTokenKey(tokenID), true, ttl); err != nil {
				return fmt.Errorf("failed to revoke token: %w", err)
			}
		}
	}

	s.audit.record(ctx, actor, models.AuditActionLogout, string(actor.Role), actor.ID, "", "", nil)
	s.auditLogger.LogAuthEvent("logout", actor.ID.Hex(), actor.IP, "", true)
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.cache == nil || tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedTokenKey(tokenID))
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return nil
	}
	return err
}
