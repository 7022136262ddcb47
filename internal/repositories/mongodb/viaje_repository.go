package mongodb

import (
	"context"
	"fmt"
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

const resourceViaje = "Viaje"

type viajeRepository struct {
	collection *mongo.Collection
}

func NewViajeRepository(db *mongo.Database) interfaces.ViajeRepository {
	return &viajeRepository{
		collection: db.Collection(database.CollectionViajes),
	}
}

func populateViaje() mongo.Pipeline {
	p := lookupOne(database.CollectionClientes, "clientId", "cliente", "nombre", "rut", "email", "telefono", "empresa")
	p = append(p, lookupOne(database.CollectionCamiones, "truckId", "camion", "patente", "marca", "modelo", "tipo")...)
	p = append(p, lookupOne(database.CollectionMotoristas, "conductorId", "conductor", "nombre", "apellido", "telefono", "foto")...)
	return p
}

func activeStates() bson.M {
	return bson.M{"$in": []models.EstadoViaje{models.ViajeProgramado, models.ViajeEnCurso}}
}

func (r *viajeRepository) Create(ctx context.Context, viaje *models.Viaje) error {
	if viaje.ID.IsZero() {
		viaje.ID = primitive.NewObjectID()
	}
	viaje.CreatedAt = time.Now()
	viaje.UpdatedAt = viaje.CreatedAt

	doc := *viaje
	doc.StripPopulated()
	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		return fmt.Errorf("failed to create viaje: %w", err)
	}
	return nil
}

func (r *viajeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Viaje, error) {
	return aggregateOne[models.Viaje](ctx, r.collection, id, populateViaje(), resourceViaje)
}

func (r *viajeRepository) Save(ctx context.Context, viaje *models.Viaje, expected models.EstadoViaje) error {
	viaje.UpdatedAt = time.Now()
	doc := *viaje
	doc.StripPopulated()
	return guardedReplace(ctx, r.collection, viaje.ID, bson.M{"estado": expected}, &doc, resourceViaje)
}

func (r *viajeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id, resourceViaje)
}

func (r *viajeRepository) List(ctx context.Context, filter interfaces.ViajeFilter, params *utils.PaginationParams) ([]*models.Viaje, int64, error) {
	match := params.GetSearchFilter([]string{"codigo", "origen.ciudad", "destino.ciudad"})
	if filter.Estado != "" {
		match["estado"] = filter.Estado
	}
	if filter.ConductorID != nil {
		match["conductorId"] = *filter.ConductorID
	}
	if filter.TruckID != nil {
		match["truckId"] = *filter.TruckID
	}
	if filter.ClientID != nil {
		match["clientId"] = *filter.ClientID
	}
	return aggregatePage[models.Viaje](ctx, r.collection, match, populateViaje(), params)
}

func (r *viajeRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.EstadoViaje, updates interfaces.Updates) error {
	return guardedUpdate(ctx, r.collection, id, bson.M{"estado": from}, statusUpdate(string(to), updates), resourceViaje)
}

func (r *viajeRepository) UpdatePosition(ctx context.Context, id primitive.ObjectID, ubicacion models.Ubicacion, progreso int) error {
	update := bson.M{"$set": bson.M{
		"ubicacionActual": ubicacion,
		"progreso":        progreso,
		"updatedAt":       time.Now(),
	}}
	return guardedUpdate(ctx, r.collection, id, bson.M{"estado": models.ViajeEnCurso}, update, resourceViaje)
}

// SetProgreso never lowers progress, so a late time-based estimate cannot
// undo a GPS update.
func (r *viajeRepository) SetProgreso(ctx context.Context, id primitive.ObjectID, progreso int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "estado": models.ViajeEnCurso, "progreso": bson.M{"$lt": progreso}},
		bson.M{"$set": bson.M{"progreso": progreso, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set progreso: %w", err)
	}
	return nil
}

func (r *viajeRepository) hasActive(ctx context.Context, field string, ref, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{field: ref, "estado": activeStates()}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check active viajes: %w", err)
	}
	return n > 0, nil
}

func (r *viajeRepository) HasActiveForTruck(ctx context.Context, truckID, exclude primitive.ObjectID) (bool, error) {
	return r.hasActive(ctx, "truckId", truckID, exclude)
}

func (r *viajeRepository) HasActiveForConductor(ctx context.Context, conductorID, exclude primitive.ObjectID) (bool, error) {
	return r.hasActive(ctx, "conductorId", conductorID, exclude)
}

func (r *viajeRepository) DueToStart(ctx context.Context, now time.Time) ([]*models.Viaje, error) {
	return findAll[models.Viaje](ctx, r.collection, bson.M{
		"estado":      models.ViajeProgramado,
		"fechaSalida": bson.M{"$lte": now},
	})
}

func (r *viajeRepository) StaleInProgress(ctx context.Context, cutoff time.Time) ([]*models.Viaje, error) {
	return findAll[models.Viaje](ctx, r.collection, bson.M{
		"estado": models.ViajeEnCurso,
		"$or": bson.A{
			bson.M{"ubicacionActual": bson.M{"$exists": false}},
			bson.M{"ubicacionActual.actualizadoEn": bson.M{"$lt": cutoff}},
		},
	})
}

func (r *viajeRepository) Activos(ctx context.Context) ([]*models.Viaje, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"estado": models.ViajeEnCurso}}},
		{{Key: "$sort", Value: bson.D{{Key: "fechaInicio", Value: 1}}}},
	}, populateViaje()...)

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list active viajes: %w", err)
	}
	defer cursor.Close(ctx)

	viajes := make([]*models.Viaje, 0)
	if err := cursor.All(ctx, &viajes); err != nil {
		return nil, fmt.Errorf("failed to decode viajes: %w", err)
	}
	return viajes, nil
}

func (r *viajeRepository) CountByEstado(ctx context.Context) (map[string]int64, error) {
	return countByEstado(ctx, r.collection)
}
