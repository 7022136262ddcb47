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

const resourceMotorista = "Motorista"

type motoristaRepository struct {
	collection *mongo.Collection
}

func NewMotoristaRepository(db *mongo.Database) interfaces.MotoristaRepository {
	return &motoristaRepository{
		collection: db.Collection(database.CollectionMotoristas),
	}
}

func (r *motoristaRepository) Create(ctx context.Context, motorista *models.Motorista) error {
	motorista.ID = primitive.NewObjectID()
	motorista.CreatedAt = time.Now()
	motorista.UpdatedAt = motorista.CreatedAt

	if _, err := r.collection.InsertOne(ctx, motorista); err != nil {
		return fmt.Errorf("failed to create motorista: %w", err)
	}
	return nil
}

func (r *motoristaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Motorista, error) {
	return findByID[models.Motorista](ctx, r.collection, id, resourceMotorista)
}

func (r *motoristaRepository) GetByEmail(ctx context.Context, email string) (*models.Motorista, error) {
	return findOne[models.Motorista](ctx, r.collection, bson.M{"email": email}, resourceMotorista)
}

func (r *motoristaRepository) Update(ctx context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Motorista, error) {
	return updateByID[models.Motorista](ctx, r.collection, id, updates, resourceMotorista)
}

func (r *motoristaRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id, resourceMotorista)
}

func (r *motoristaRepository) List(ctx context.Context, filter interfaces.MotoristaFilter, params *utils.PaginationParams) ([]*models.Motorista, int64, error) {
	query := params.GetSearchFilter([]string{"nombre", "apellido", "rut", "email"})
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	return findPage[models.Motorista](ctx, r.collection, query, params)
}

func (r *motoristaRepository) SetEstado(ctx context.Context, id primitive.ObjectID, to models.EstadoMotorista, from ...models.EstadoMotorista) error {
	filter := bson.M{}
	if len(from) > 0 {
		filter["estado"] = inStates(from)
	}
	return guardedUpdate(ctx, r.collection, id, filter, statusUpdate(string(to), nil), resourceMotorista)
}

func (r *motoristaRepository) UpdateUbicacion(ctx context.Context, id primitive.ObjectID, ubicacion models.Ubicacion) error {
	_, err := updateByID[models.Motorista](ctx, r.collection, id, interfaces.Updates{"ubicacion": ubicacion}, resourceMotorista)
	return err
}

func (r *motoristaRepository) CountByEstado(ctx context.Context) (map[string]int64, error) {
	return countByEstado(ctx, r.collection)
}
