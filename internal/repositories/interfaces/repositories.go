package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/utils"
)

// Updates is a $set document keyed by BSON field name.
type Updates map[string]interface{}

type ClienteFilter struct {
	Estado string
}

type ClienteRepository interface {
	Create(ctx context.Context, cliente *models.Cliente) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cliente, error)
	// GetByEmail includes the password hash.
	GetByEmail(ctx context.Context, email string) (*models.Cliente, error)
	Update(ctx context.Context, id primitive.ObjectID, updates Updates) (*models.Cliente, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter ClienteFilter, params *utils.PaginationParams) ([]*models.Cliente, int64, error)
}

type EmpleadoFilter struct {
	Estado string
	Rol    string
}

type EmpleadoRepository interface {
	Create(ctx context.Context, empleado *models.Empleado) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Empleado, error)
	GetByEmail(ctx context.Context, email string) (*models.Empleado, error)
	Update(ctx context.Context, id primitive.ObjectID, updates Updates) (*models.Empleado, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter EmpleadoFilter, params *utils.PaginationParams) ([]*models.Empleado, int64, error)
	CountByRol(ctx context.Context, rol models.Role) (int64, error)
}

type MotoristaFilter struct {
	Estado string
}

type MotoristaRepository interface {
	Create(ctx context.Context, motorista *models.Motorista) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Motorista, error)
	GetByEmail(ctx context.Context, email string) (*models.Motorista, error)
	Update(ctx context.Context, id primitive.ObjectID, updates Updates) (*models.Motorista, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter MotoristaFilter, params *utils.PaginationParams) ([]*models.Motorista, int64, error)
	// SetEstado moves the driver to `to` only while it is in one of `from`
	// (any state when from is empty). A lost race returns a conflict.
	SetEstado(ctx context.Context, id primitive.ObjectID, to models.EstadoMotorista, from ...models.EstadoMotorista) error
	UpdateUbicacion(ctx context.Context, id primitive.ObjectID, ubicacion models.Ubicacion) error
	CountByEstado(ctx context.Context) (map[string]int64, error)
}

type CamionFilter struct {
	Estado string
	Tipo   string
}

type CamionRepository interface {
	Create(ctx context.Context, camion *models.Camion) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Camion, error)
	Update(ctx context.Context, id primitive.ObjectID, updates Updates) (*models.Camion, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter CamionFilter, params *utils.PaginationParams) ([]*models.Camion, int64, error)
	SetEstado(ctx context.Context, id primitive.ObjectID, to models.EstadoCamion, from ...models.EstadoCamion) error
	AddFoto(ctx context.Context, id primitive.ObjectID, url string) (*models.Camion, error)
	// DueForMaintenance lists available trucks whose next service date has passed.
	DueForMaintenance(ctx context.Context, now time.Time) ([]*models.Camion, error)
	CountByEstado(ctx context.Context) (map[string]int64, error)
}

type CotizacionFilter struct {
	Estado   string
	ClientID *primitive.ObjectID
}

type CotizacionRepository interface {
	Create(ctx context.Context, cotizacion *models.Cotizacion) error
	// GetByID populates the client summary.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cotizacion, error)
	// Save replaces the document while its estado still matches expected.
	Save(ctx context.Context, cotizacion *models.Cotizacion, expected models.EstadoCotizacion) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter CotizacionFilter, params *utils.PaginationParams) ([]*models.Cotizacion, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.EstadoCotizacion, updates Updates) error
	// LinkViaje attaches a trip to an accepted quote that has none yet.
	// A nil viajeID detaches it.
	LinkViaje(ctx context.Context, id primitive.ObjectID, viajeID *primitive.ObjectID) error
	// Expirable lists open quotes whose validity ended before now.
	Expirable(ctx context.Context, now time.Time) ([]*models.Cotizacion, error)
	CountByEstado(ctx context.Context) (map[string]int64, error)
}

type ViajeFilter struct {
	Estado      string
	ConductorID *primitive.ObjectID
	TruckID     *primitive.ObjectID
	ClientID    *primitive.ObjectID
}

type ViajeRepository interface {
	Create(ctx context.Context, viaje *models.Viaje) error
	// GetByID populates client, truck and driver summaries.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Viaje, error)
	Save(ctx context.Context, viaje *models.Viaje, expected models.EstadoViaje) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter ViajeFilter, params *utils.PaginationParams) ([]*models.Viaje, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.EstadoViaje, updates Updates) error
	// UpdatePosition stores a GPS fix and progress on a trip that is en_curso.
	UpdatePosition(ctx context.Context, id primitive.ObjectID, ubicacion models.Ubicacion, progreso int) error
	SetProgreso(ctx context.Context, id primitive.ObjectID, progreso int) error
	HasActiveForTruck(ctx context.Context, truckID primitive.ObjectID, exclude primitive.ObjectID) (bool, error)
	HasActiveForConductor(ctx context.Context, conductorID primitive.ObjectID, exclude primitive.ObjectID) (bool, error)
	DueToStart(ctx context.Context, now time.Time) ([]*models.Viaje, error)
	// StaleInProgress lists en_curso trips with no GPS fix since cutoff.
	StaleInProgress(ctx context.Context, cutoff time.Time) ([]*models.Viaje, error)
	Activos(ctx context.Context) ([]*models.Viaje, error)
	CountByEstado(ctx context.Context) (map[string]int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	ListByEntity(ctx context.Context, entity string, entityID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
}

// Sequencer issues human-readable document numbers.
type Sequencer interface {
	Next(ctx context.Context, prefix string) (string, error)
}
