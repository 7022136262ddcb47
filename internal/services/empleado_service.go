package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

const entityEmpleado = "empleado"

type EmpleadoService interface {
	Create(ctx context.Context, request *validators.EmpleadoCreateRequest, actor models.Actor) (*models.Empleado, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Empleado, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.EmpleadoUpdateRequest, actor models.Actor) (*models.Empleado, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.EmpleadoFilter, params *utils.PaginationParams) ([]*models.Empleado, int64, error)
}

type empleadoService struct {
	empleadoRepo interfaces.EmpleadoRepository
	audit        *auditTrail
	security     *config.SecurityConfig
	logger       *logger.Logger
}

func NewEmpleadoService(
	empleadoRepo interfaces.EmpleadoRepository,
	auditLogRepo interfaces.AuditLogRepository,
	security *config.SecurityConfig,
	logger *logger.Logger,
) EmpleadoService {
	return &empleadoService{
		empleadoRepo: empleadoRepo,
		audit:        newAuditTrail(auditLogRepo, logger),
		security:     security,
		logger:       logger,
	}
}

func (s *empleadoService) Create(ctx context.Context, request *validators.EmpleadoCreateRequest, actor models.Actor) (*models.Empleado, error) {
	empleado := request.ToModel()
	hash, err := hashPassword(request.Password, s.security.BcryptCost)
	if err != nil {
		return nil, err
	}
	empleado.Password = hash

	if err := s.empleadoRepo.Create(ctx, empleado); err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, models.AuditActionCreate, entityEmpleado, empleado.ID, "", "", map[string]interface{}{"rol": empleado.Rol})
	return empleado, nil
}

func (s *empleadoService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Empleado, error) {
	return s.empleadoRepo.GetByID(ctx, id)
}

func (s *empleadoService) Update(ctx context.Context, id primitive.ObjectID, request *validators.EmpleadoUpdateRequest, actor models.Actor) (*models.Empleado, error) {
	updates := interfaces.Updates(request.Updates())
	if request.Password != nil {
		hash, err := hashPassword(*request.Password, s.security.BcryptCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if err := s.guardLastAdmin(ctx, id, request); err != nil {
		return nil, err
	}

	empleado, err := s.empleadoRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityEmpleado, id, "", "", nil)
	return empleado, nil
}

// guardLastAdmin keeps at least one active admin able to manage employees.
func (s *empleadoService) guardLastAdmin(ctx context.Context, id primitive.ObjectID, request *validators.EmpleadoUpdateRequest) error {
	demoted := request.Rol != nil && models.Role(*request.Rol) != models.RoleAdmin
	disabled := request.Estado != nil && models.EstadoPersona(*request.Estado) == models.EstadoInactivo
	if !demoted && !disabled {
		return nil
	}
	current, err := s.empleadoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Rol != models.RoleAdmin {
		return nil
	}
	admins, err := s.empleadoRepo.CountByRol(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return utils.BadRequest("Debe existir al menos un administrador")
	}
	return nil
}

func (s *empleadoService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	if id == actor.ID {
		return utils.BadRequest("No puede eliminar su propia cuenta")
	}
	current, err := s.empleadoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Rol == models.RoleAdmin {
		admins, err := s.empleadoRepo.CountByRol(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return utils.BadRequest("Debe existir al menos un administrador")
		}
	}

	if err := s.empleadoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityEmpleado, id, "", "", nil)
	return nil
}

func (s *empleadoService) List(ctx context.Context, filter interfaces.EmpleadoFilter, params *utils.PaginationParams) ([]*models.Empleado, int64, error) {
	return s.empleadoRepo.List(ctx, filter, params)
}
