package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
)

const entityCamion = "camion"

type CamionService interface {
	Create(ctx context.Context, request *validators.CamionCreateRequest, actor models.Actor) (*models.Camion, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Camion, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.CamionUpdateRequest, actor models.Actor) (*models.Camion, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.CamionFilter, params *utils.PaginationParams) ([]*models.Camion, int64, error)
	Disponibles(ctx context.Context, params *utils.PaginationParams) ([]*models.Camion, int64, error)
	SetEstado(ctx context.Context, id primitive.ObjectID, estado models.EstadoCamion, actor models.Actor) (*models.Camion, error)
}

type camionService struct {
	camionRepo interfaces.CamionRepository
	viajeRepo  interfaces.ViajeRepository
	audit      *auditTrail
	logger     *logger.Logger
}

func NewCamionService(
	camionRepo interfaces.CamionRepository,
	viajeRepo interfaces.ViajeRepository,
	auditLogRepo interfaces.AuditLogRepository,
	logger *logger.Logger,
) CamionService {
	return &camionService{
		camionRepo: camionRepo,
		viajeRepo:  viajeRepo,
		audit:      newAuditTrail(auditLogRepo, logger),
		logger:     logger,
	}
}

func (s *camionService) Create(ctx context.Context, request *validators.CamionCreateRequest, actor models.Actor) (*models.Camion, error) {
	camion := request.ToModel()
	if camion.Estado == models.CamionEnUso {
		return nil, utils.BadRequest("Un camión nuevo no puede estar en uso")
	}
	if err := s.camionRepo.Create(ctx, camion); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionCreate, entityCamion, camion.ID, "", "", map[string]interface{}{"patente": camion.Patente})
	return camion, nil
}

func (s *camionService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Camion, error) {
	return s.camionRepo.GetByID(ctx, id)
}

func (s *camionService) Update(ctx context.Context, id primitive.ObjectID, request *validators.CamionUpdateRequest, actor models.Actor) (*models.Camion, error) {
	camion, err := s.camionRepo.Update(ctx, id, interfaces.Updates(request.Updates()))
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityCamion, id, "", "", nil)
	return camion, nil
}

func (s *camionService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	activo, err := s.viajeRepo.HasActiveForTruck(ctx, id, primitive.NilObjectID)
	if err != nil {
		return err
	}
	if activo {
		return utils.BadRequest("El camión tiene viajes activos")
	}

	if err := s.camionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityCamion, id, "", "", nil)
	return nil
}

func (s *camionService) List(ctx context.Context, filter interfaces.CamionFilter, params *utils.PaginationParams) ([]*models.Camion, int64, error) {
	return s.camionRepo.List(ctx, filter, params)
}

func (s *camionService) Disponibles(ctx context.Context, params *utils.PaginationParams) ([]*models.Camion, int64, error) {
	return s.camionRepo.List(ctx, interfaces.CamionFilter{Estado: string(models.CamionDisponible)}, params)
}

// SetEstado is the manual status change; en_uso is owned by the trip workflow.
func (s *camionService) SetEstado(ctx context.Context, id primitive.ObjectID, estado models.EstadoCamion, actor models.Actor) (*models.Camion, error) {
	if estado == models.CamionEnUso {
		return nil, utils.BadRequest("El estado en_uso lo asigna el inicio de un viaje")
	}

	current, err := s.camionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Estado == estado {
		return current, nil
	}
	if current.Estado == models.CamionEnUso {
		activo, err := s.viajeRepo.HasActiveForTruck(ctx, id, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		if activo {
			return nil, utils.BadRequest("El camión tiene un viaje en curso")
		}
	}

	if err := s.camionRepo.SetEstado(ctx, id, estado, current.Estado); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionTransition, entityCamion, id, string(current.Estado), string(estado), nil)

	current.Estado = estado
	return current, nil
}
