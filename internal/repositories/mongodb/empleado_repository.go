package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/pkg/database"
)

const resourceEmpleado = "Empleado"

type empleadoRepository struct {
	collection *mongo.Collection
}

func NewEmpleadoRepository(db *mongo.Database) interfaces.EmpleadoRepository {
	return &empleadoRepository{
		collection: db.Collection(database.CollectionEmpleados),
	}
}

func (r *empleadoRepository) Create(ctx context.Context, empleado *models.Empleado) error {
	empleado.ID = primitive.NewObjectID()
	empleado.CreatedAt = time.Now()
	empleado.UpdatedAt = empleado.CreatedAt

	if _, err := r.collection.InsertOne(ctx, empleado); err != nil {
		return fmt.Errorf("failed to create empleado: %w", err)
	}
	return nil
}

func (r *empleadoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Empleado, error) {
	return findByID[models.Empleado](ctx, r.collection, id, resourceEmpleado)
}

func (r *empleadoRepository) GetByEmail(ctx context.Context, email string) (*models.Empleado, error) {
	return findOne[models.Empleado](ctx, r.collection, bson.M{"email": email}, resourceEmpleado)
}

func (r *empleadoRepository) Update(ctx context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Empleado, error) {
	return updateByID[models.Empleado](ctx, r.collection, id, updates, resourceEmpleado)
}

func (r *empleadoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id, resourceEmpleado)
}

func (r *empleadoRepository) List(ctx context.Context, filter interfaces.EmpleadoFilter, params *utils.PaginationParams) ([]*models.Empleado, int64, error) {
	query := params.GetSearchFilter([]string{"nombre", "apellido", "email", "rut"})
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Rol != "" {
		query["rol"] = filter.Rol
	}
	return findPage[models.Empleado](ctx, r.collection, query, params)
}

func (r *empleadoRepository) CountByRol(ctx context.Context, rol models.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"rol": rol, "estado": models.EstadoActivo})
}
