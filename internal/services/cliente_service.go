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

const entityCliente = "cliente"

type ClienteService interface {
	Create(ctx context.Context, request *validators.ClienteCreateRequest, actor models.Actor) (*models.Cliente, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cliente, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.ClienteUpdateRequest, actor models.Actor) (*models.Cliente, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.ClienteFilter, params *utils.PaginationParams) ([]*models.Cliente, int64, error)
	RegistrarDispositivo(ctx context.Context, id primitive.ObjectID, request *validators.DispositivoRequest) error
}

type clienteService struct {
	clienteRepo interfaces.ClienteRepository
	audit       *auditTrail
	security    *config.SecurityConfig
	logger      *logger.Logger
}

func NewClienteService(
	clienteRepo interfaces.ClienteRepository,
	auditLogRepo interfaces.AuditLogRepository,
	security *config.SecurityConfig,
	logger *logger.Logger,
) ClienteService {
	return &clienteService{
		clienteRepo: clienteRepo,
		audit:       newAuditTrail(auditLogRepo, logger),
		security:    security,
		logger:      logger,
	}
}

func (s *clienteService) Create(ctx context.Context, request *validators.ClienteCreateRequest, actor models.Actor) (*models.Cliente, error) {
	cliente := request.ToModel()
	if request.Password != "" {
		hash, err := hashPassword(request.Password, s.security.BcryptCost)
		if err != nil {
			return nil, err
		}
		cliente.Password = hash
	}

	if err := s.clienteRepo.Create(ctx, cliente); err != nil {
		return nil, err
	}

	s.audit.record(ctx, actor, models.AuditActionCreate, entityCliente, cliente.ID, "", "", nil)
	s.logger.WithField("cliente_id", cliente.ID.Hex()).Info("Cliente created")
	return cliente, nil
}

func (s *clienteService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cliente, error) {
	return s.clienteRepo.GetByID(ctx, id)
}

func (s *clienteService) Update(ctx context.Context, id primitive.ObjectID, request *validators.ClienteUpdateRequest, actor models.Actor) (*models.Cliente, error) {
	cliente, err := s.clienteRepo.Update(ctx, id, interfaces.Updates(request.Updates()))
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityCliente, id, "", "", nil)
	return cliente, nil
}

func (s *clienteService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	if err := s.clienteRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityCliente, id, "", "", nil)
	s.logger.WithField("cliente_id", id.Hex()).Info("Cliente deleted")
	return nil
}

func (s *clienteService) List(ctx context.Context, filter interfaces.ClienteFilter, params *utils.PaginationParams) ([]*models.Cliente, int64, error) {
	return s.clienteRepo.List(ctx, filter, params)
}

func (s *clienteService) RegistrarDispositivo(ctx context.Context, id primitive.ObjectID, request *validators.DispositivoRequest) error {
	_, err := s.clienteRepo.Update(ctx, id, interfaces.Updates{
		"deviceToken":    request.DeviceToken,
		"devicePlatform": request.DevicePlatform,
	})
	return err
}
