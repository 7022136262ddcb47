package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/config"
	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/internal/validators"
	"fletes/pkg/logger"
	"fletes/pkg/websocket"
)

const (
	entityMotorista = "motorista"

	MsgMotoristaUbicacion = "motorista_ubicacion"
)

type MotoristaService interface {
	Create(ctx context.Context, request *validators.MotoristaCreateRequest, actor models.Actor) (*models.Motorista, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Motorista, error)
	Update(ctx context.Context, id primitive.ObjectID, request *validators.MotoristaUpdateRequest, actor models.Actor) (*models.Motorista, error)
	Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error
	List(ctx context.Context, filter interfaces.MotoristaFilter, params *utils.PaginationParams) ([]*models.Motorista, int64, error)
	Disponibles(ctx context.Context, params *utils.PaginationParams) ([]*models.Motorista, int64, error)
	SetEstado(ctx context.Context, id primitive.ObjectID, estado models.EstadoMotorista, actor models.Actor) (*models.Motorista, error)
	ActualizarUbicacion(ctx context.Context, id primitive.ObjectID, request *validators.UbicacionRequest) (*models.Ubicacion, error)
	RegistrarDispositivo(ctx context.Context, id primitive.ObjectID, request *validators.DispositivoRequest) error
}

type motoristaService struct {
	motoristaRepo interfaces.MotoristaRepository
	viajeRepo     interfaces.ViajeRepository
	audit         *auditTrail
	hub           Broadcaster
	security      *config.SecurityConfig
	logger        *logger.Logger
	now           func() time.Time
}

func NewMotoristaService(
	motoristaRepo interfaces.MotoristaRepository,
	viajeRepo interfaces.ViajeRepository,
	auditLogRepo interfaces.AuditLogRepository,
	hub Broadcaster,
	security *config.SecurityConfig,
	logger *logger.Logger,
) MotoristaService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &motoristaService{
		motoristaRepo: motoristaRepo,
		viajeRepo:     viajeRepo,
		audit:         newAuditTrail(auditLogRepo, logger),
		hub:           hub,
		security:      security,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *motoristaService) Create(ctx context.Context, request *validators.MotoristaCreateRequest, actor models.Actor) (*models.Motorista, error) {
	motorista := request.ToModel()
	if motorista.Estado == models.MotoristaEnViaje {
		return nil, utils.BadRequest("Un motorista nuevo no puede estar en viaje")
	}
	if request.Password != "" {
		hash, err := hashPassword(request.Password, s.security.BcryptCost)
		if err != nil {
			return nil, err
		}
		motorista.Password = hash
	}

	if err := s.motoristaRepo.Create(ctx, motorista); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionCreate, entityMotorista, motorista.ID, "", "", nil)
	return motorista, nil
}

func (s *motoristaService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Motorista, error) {
	return s.motoristaRepo.GetByID(ctx, id)
}

func (s *motoristaService) Update(ctx context.Context, id primitive.ObjectID, request *validators.MotoristaUpdateRequest, actor models.Actor) (*models.Motorista, error) {
	updates := interfaces.Updates(request.Updates())
	if request.Password != nil {
		hash, err := hashPassword(*request.Password, s.security.BcryptCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	motorista, err := s.motoristaRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, entityMotorista, id, "", "", nil)
	return motorista, nil
}

func (s *motoristaService) Delete(ctx context.Context, id primitive.ObjectID, actor models.Actor) error {
	activo, err := s.viajeRepo.HasActiveForConductor(ctx, id, primitive.NilObjectID)
	if err != nil {
		return err
	}
	if activo {
		return utils.BadRequest("El motorista tiene viajes activos")
	}

	if err := s.motoristaRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, entityMotorista, id, "", "", nil)
	return nil
}

func (s *motoristaService) List(ctx context.Context, filter interfaces.MotoristaFilter, params *utils.PaginationParams) ([]*models.Motorista, int64, error) {
	return s.motoristaRepo.List(ctx, filter, params)
}

func (s *motoristaService) Disponibles(ctx context.Context, params *utils.PaginationParams) ([]*models.Motorista, int64, error) {
	return s.motoristaRepo.List(ctx, interfaces.MotoristaFilter{Estado: string(models.MotoristaDisponible)}, params)
}

// SetEstado is the manual status change. en_viaje belongs to the trip
// workflow and can neither be set nor left here while a trip is active.
func (s *motoristaService) SetEstado(ctx context.Context, id primitive.ObjectID, estado models.EstadoMotorista, actor models.Actor) (*models.Motorista, error) {
	if estado == models.MotoristaEnViaje {
		return nil, utils.BadRequest("El estado en_viaje lo asigna el inicio de un viaje")
	}

	current, err := s.motoristaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Estado == estado {
		return current, nil
	}
	if current.Estado == models.MotoristaEnViaje {
		activo, err := s.viajeRepo.HasActiveForConductor(ctx, id, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		if activo {
			return nil, utils.BadRequest("El motorista tiene un viaje en curso")
		}
	}

	if err := s.motoristaRepo.SetEstado(ctx, id, estado, current.Estado); err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionTransition, entityMotorista, id, string(current.Estado), string(estado), nil)

	current.Estado = estado
	return current, nil
}

func (s *motoristaService) ActualizarUbicacion(ctx context.Context, id primitive.ObjectID, request *validators.UbicacionRequest) (*models.Ubicacion, error) {
	ubicacion := models.Ubicacion{Lat: request.Lat, Lng: request.Lng, ActualizadoEn: s.now().UTC()}
	if err := s.motoristaRepo.UpdateUbicacion(ctx, id, ubicacion); err != nil {
		return nil, err
	}

	s.hub.Broadcast(websocket.RoomMonitoreo, MsgMotoristaUbicacion, map[string]interface{}{
		"motoristaId": id.Hex(),
		"ubicacion":   ubicacion,
	})
	return &ubicacion, nil
}

func (s *motoristaService) RegistrarDispositivo(ctx context.Context, id primitive.ObjectID, request *validators.DispositivoRequest) error {
	_, err := s.motoristaRepo.Update(ctx, id, interfaces.Updates{
		"deviceToken":    request.DeviceToken,
		"devicePlatform": request.DevicePlatform,
	})
	return err
}
