package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
	"fletes/pkg/database"
)

const (
	resourceCamion = "Camión"
	camionCacheTTL = 10 * time.Minute
)

type camionRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

// NewCamionRepository caches trucks by id when cache is non-nil.
func NewCamionRepository(db *mongo.Database, cache CacheService) interfaces.CamionRepository {
	return &camionRepository{
		collection: db.Collection(database.CollectionCamiones),
		cache:      cache,
	}
}

func (r *camionRepository) Create(ctx context.Context, camion *models.Camion) error {
	camion.ID = primitive.NewObjectID()
	camion.CreatedAt = time.Now()
	camion.UpdatedAt = camion.CreatedAt
	camion.Patente = strings.ToUpper(camion.Patente)
	if camion.Fotos == nil {
		camion.Fotos = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, camion); err != nil {
		return fmt.Errorf("failed to create camion: %w", err)
	}
	return nil
}

func (r *camionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Camion, error) {
	if camion := r.getFromCache(ctx, id); camion != nil {
		return camion, nil
	}

	camion, err := findByID[models.Camion](ctx, r.collection, id, resourceCamion)
	if err != nil {
		return nil, err
	}
	r.cacheCamion(ctx, camion)
	return camion, nil
}

func (r *camionRepository) Update(ctx context.Context, id primitive.ObjectID, updates interfaces.Updates) (*models.Camion, error) {
	if patente, ok := updates["patente"].(string); ok {
		updates["patente"] = strings.ToUpper(patente)
	}
	defer r.invalidate(ctx, id)
	return updateByID[models.Camion](ctx, r.collection, id, updates, resourceCamion)
}

func (r *camionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer r.invalidate(ctx, id)
	return deleteByID(ctx, r.collection, id, resourceCamion)
}

func (r *camionRepository) List(ctx context.Context, filter interfaces.CamionFilter, params *utils.PaginationParams) ([]*models.Camion, int64, error) {
	query := params.GetSearchFilter([]string{"patente", "marca", "modelo"})
	if filter.Estado != "" {
		query["estado"] = filter.Estado
	}
	if filter.Tipo != "" {
		query["tipo"] = filter.Tipo
	}
	return findPage[models.Camion](ctx, r.collection, query, params)
}

func (r *camionRepository) SetEstado(ctx context.Context, id primitive.ObjectID, to models.EstadoCamion, from ...models.EstadoCamion) error {
	filter := bson.M{}
	if len(from) > 0 {
		filter["estado"] = inStates(from)
	}
	defer r.invalidate(ctx, id)
	return guardedUpdate(ctx, r.collection, id, filter, statusUpdate(string(to), nil), resourceCamion)
}

func (r *camionRepository) AddFoto(ctx context.Context, id primitive.ObjectID, url string) (*models.Camion, error) {
	defer r.invalidate(ctx, id)

	var camion models.Camion
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"fotos": url},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&camion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NotFound(resourceCamion)
		}
		return nil, fmt.Errorf("failed to add foto: %w", err)
	}
	return &camion, nil
}

func (r *camionRepository) DueForMaintenance(ctx context.Context, now time.Time) ([]*models.Camion, error) {
	return findAll[models.Camion](ctx, r.collection, bson.M{
		"estado":            models.CamionDisponible,
		"proximaMantencion": bson.M{"$lte": now},
	})
}

func (r *camionRepository) CountByEstado(ctx context.Context) (map[string]int64, error) {
	return countByEstado(ctx, r.collection)
}

func cacheKeyCamion(id primitive.ObjectID) string {
	return "camion:" + id.Hex()
}

func (r *camionRepository) getFromCache(ctx context.Context, id primitive.ObjectID) *models.Camion {
	if r.cache == nil {
		return nil
	}
	var camion models.Camion
	if err := r.cache.Get(ctx, cacheKeyCamion(id), &camion); err != nil {
		return nil
	}
	return &camion
}

func (r *camionRepository) cacheCamion(ctx context.Context, camion *models.Camion) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Set(ctx, cacheKeyCamion(camion.ID), camion, camionCacheTTL)
}

func (r *camionRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, cacheKeyCamion(id))
}
