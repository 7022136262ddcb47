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

type auditLogRepository struct {
	collection *mongo.Collection
}

func NewAuditLogRepository(db *mongo.Database) interfaces.AuditLogRepository {
	return &auditLogRepository{
		collection: db.Collection(database.CollectionAuditLogs),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.ID = primitive.NewObjectID()
	if auditLog.CreatedAt.IsZero() {
		auditLog.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, auditLog); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entity string, entityID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	return findPage[models.AuditLog](ctx, r.collection, bson.M{"entity": entity, "entityId": entityID}, params)
}
