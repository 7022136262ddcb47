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

const resourceCotizacion = "Cotización"

type cotizacionRepository struct {
	collection *mongo.Collection
}

func NewCotizacionRepository(db *mongo.Database) interfaces.CotizacionRepository {
	return &cotizacionRepository{
		collection: db.Collection(database.CollectionCotizaciones),
	}
}

func populateCliente() mongo.Pipeline {
	return lookupOne(database.CollectionClientes, "clientId", "cliente", "nombre", "rut", "email", "telefono", "empresa")
}

func (r *cotizacionRepository) Create(ctx context.Context, cotizacion *models.Cotizacion) error {
	if cotizacion.ID.IsZero() {
		cotizacion.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if cotizacion.CreatedAt.IsZero() {
		cotizacion.CreatedAt = now
	}
	cotizacion.UpdatedAt = now

	doc := *cotizacion
	doc.Cliente = nil
	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		return fmt.Errorf("failed to create cotizacion: %w", err)
	}
	return nil
}

func (r *cotizacionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Cotizacion, error) {
	return aggregateOne[models.Cotizacion](ctx, r.collection, id, populateCliente(), resourceCotizacion)
}

func (r *cotizacionRepository) Save(ctx context.Context, cotizacion *models.Cotizacion, expected models.EstadoCotizacion) error {
	cotizacion.UpdatedAt = time.Now()
	doc := *cotizacion
	doc.Cliente = nil
	return guardedReplace(ctx, r.collection, cotizacion.ID, bson.M{"estado": expected}, &doc, resourceCotizacion)
}

func (r *cotizacionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id, resourceCotizacion)
}

func (r *cotizacionRepository) List(ctx context.Context, filter interfaces.CotizacionFilter, params *utils.PaginationParams) ([]*models.Cotizacion, int64, error) {
	match := params.GetSearchFilter([]string{"folio", "origen.ciudad", "destino.ciudad", "carga.descripcion"})
	if filter.Estado != "" {
		match["estado"] = filter.Estado
	}
	if filter.ClientID != nil {
		match["clientId"] = *filter.ClientID
	}
	return aggregatePage[models.Cotizacion](ctx, r.collection, match, populateCliente(), params)
}

func (r *cotizacionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.EstadoCotizacion, updates interfaces.Updates) error {
	return guardedUpdate(ctx, r.collection, id, bson.M{"estado": from}, statusUpdate(string(to), updates), resourceCotizacion)
}

func (r *cotizacionRepository) LinkViaje(ctx context.Context, id primitive.ObjectID, viajeID *primitive.ObjectID) error {
	filter := bson.M{"estado": models.CotizacionAceptada}
	if viajeID != nil {
		filter["viajeId"] = nil
		return guardedUpdate(ctx, r.collection, id, filter,
			bson.M{"$set": bson.M{"viajeId": *viajeID, "updatedAt": time.Now()}}, resourceCotizacion)
	}
	return guardedUpdate(ctx, r.collection, id, filter,
		bson.M{"$unset": bson.M{"viajeId": ""}, "$set": bson.M{"updatedAt": time.Now()}}, resourceCotizacion)
}

func (r *cotizacionRepository) Expirable(ctx context.Context, now time.Time) ([]*models.Cotizacion, error) {
	return findAll[models.Cotizacion](ctx, r.collection, bson.M{
		"estado":           bson.M{"$in": []models.EstadoCotizacion{models.CotizacionPendiente, models.CotizacionEnviada}},
		"fechaVencimiento": bson.M{"$lt": now},
	})
}

func (r *cotizacionRepository) CountByEstado(ctx context.Context) (map[string]int64, error) {
	return countByEstado(ctx, r.collection)
}
