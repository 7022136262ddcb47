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

const resourceCliente = "Cliente"

type clienteRepository struct {
	collection *mongo.Collection
}

func NewClienteRepository(db *mongo.Database) interfaces.ClienteRepository {
	return &clienteRepository{
		collection: db.Collection(database.CollectionClientes),
	}
}

func (r *clienteRepository) Create(ctx context.Context, cliente *models.Cliente) error {
	cliente.ID = primitive.NewObjectID()
	cliente.CreatedAt = time.Now()
	cliente.UpdatedAt = cliente.CreatedAt

	if _, err := r.collection.InsertOne(ctx, cliente); err != nil {
		return fmt.Errorf("failed to create cliente: %w", err)
	}
	return nil
}

func (r *clienteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cliente, error) {
	return findByID[models.Cliente](ctx, r.collection, id, resourceCliente)
}

func (r *clienteRepository) GetByEmail(ctx context.Context, email string) (*models.Cliente, error) {
	return findOne[models.Cliente](ctx, r.collection, bson.M{"email": email}, resourceCliente)
}

func (r *clienteRepository) Update(ctx context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Cliente, error) {
	return updateByID[models.Cliente](ctx, r.collection, id, updates, resourceCliente)
}

func (r *clienteRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id, resourceCliente)
}

func (r *clienteRepository) List(ctx context.Context, filter interfaces.ClienteFilter, params *utils.PaginationParams) ([]*models.Cliente, int64, error) {
	query := params.GetSearchFilter([]string{"nombre", "email", "rut", "empresa"})
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	return findPage[models.Cliente](ctx, r.collection, query, params)
}
