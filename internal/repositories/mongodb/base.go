package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fletes/internal/repositories/interfaces"
	"fletes/internal/utils"
)

// CacheService is the subset of pkg/cache the repositories use.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, resource string) (*T, error) {
	return findOne[T](ctx, coll, bson.M{"_id": id}, resource)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, resource string) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound(resource)
		}
		return nil, fmt.Errorf("failed to get %s: %w", resource, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
		}
		out = append(out, &doc)
	}
	return out, cursor.Err()
}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, params *utils.PaginationParams) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}

	docs, err := findAll[T](ctx, coll, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func updateByID[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, updates interfaces.Updates, resource string) (*T, error) {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	var doc T
	err := coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NotFound(resource)
		}
		return nil, fmt.Errorf("failed to update %s: %w", resource, err)
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, resource string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
	if res.DeletedCount == 0 {
		return utils.NotFound(resource)
	}
	return nil
}

// guardedUpdate applies update only while the document matches filter. When
// nothing matched it tells a missing document (404) from a lost race (409).
func guardedUpdate(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, filter bson.M, update bson.M, resource string) error {
	filter["_id"] = id
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", resource, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", resource, err)
	}
	if n == 0 {
		return utils.NotFound(resource)
	}
	return utils.Conflict()
}

// guardedReplace is guardedUpdate for a full-document replace.
func guardedReplace(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, filter bson.M, doc interface{}, resource string) error {
	filter["_id"] = id
	res, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", resource, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", resource, err)
	}
	if n == 0 {
		return utils.NotFound(resource)
	}
	return utils.Conflict()
}

func statusUpdate(to string, updates interfaces.Updates) bson.M {
	set := bson.M{"estado": to, "updatedAt": time.Now()}
	for k, v := range updates {
		set[k] = v
	}
	return bson.M{"$set": set}
}

func inStates[S ~string](states []S) interface{} {
	if len(states) == 1 {
		return string(states[0])
	}
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return bson.M{"$in": out}
}

func countByEstado(ctx context.Context, coll *mongo.Collection) (map[string]int64, error) {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$estado"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Estado string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Estado] = row.Count
	}
	return out, cursor.Err()
}

func mergeFilter(dst, src bson.M) bson.M {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// aggregatePage runs pipeline with $facet so the page and the total come back together.
func aggregatePage[T any](ctx context.Context, coll *mongo.Collection, match bson.M, populate mongo.Pipeline, params *utils.PaginationParams) ([]*T, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.D{
			{Key: "items", Value: append(mongo.Pipeline{
				params.SortStage(),
				{{Key: "$skip", Value: params.GetSkip()}},
				{{Key: "$limit", Value: int64(params.Limit)}},
			}, populate...)},
			{Key: "total", Value: mongo.Pipeline{{{Key: "$count", Value: "n"}}}},
		}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Items []*T `bson:"items"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	if len(result) == 0 {
		return []*T{}, 0, nil
	}

	var total int64
	if len(result[0].Total) > 0 {
		total = result[0].Total[0].N
	}
	items := result[0].Items
	if items == nil {
		items = []*T{}
	}
	return items, total, nil
}

func aggregateOne[T any](ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, populate mongo.Pipeline, resource string) (*T, error) {
	pipeline := append(mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}, populate...)
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", resource, err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", resource, err)
		}
		return nil, utils.NotFound(resource)
	}
	var doc T
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return &doc, nil
}

// lookupOne embeds the referenced document's summary fields under as.
func lookupOne(from, localField, as string, fields ...string) mongo.Pipeline {
	project := bson.D{}
	for _, f := range fields {
		project = append(project, bson.E{Key: f, Value: 1})
	}
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: project}}}},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$" + as}, {Key: "preserveNullAndEmptyArrays", Value: true}}}},
	}
}
