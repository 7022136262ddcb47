package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fletes/internal/models"
	"fletes/internal/repositories/interfaces"
	"fletes/pkg/logger"
)

// auditTrail writes an audit_logs document and a matching log line. Failures
// to persist are logged and never fail the operation being audited.
type auditTrail struct {
	repo   interfaces.AuditLogRepository
	logger *logger.AuditLogger
	base   *logger.Logger
}

func newAuditTrail(repo interfaces.AuditLogRepository, log *logger.Logger) *auditTrail {
	return &auditTrail{repo: repo, logger: logger.NewAuditLogger(log), base: log}
}

func (a *auditTrail) record(ctx context.Context, actor models.Actor, action models.AuditAction, entity string, id primitive.ObjectID, from, to string, metadata map[string]interface{}) {
	if a == nil {
		return
	}
	if action == models.AuditActionTransition {
		a.logger.LogTransition(entity, id.Hex(), from, to, actorName(actor))
	}
	if a.repo == nil {
		return
	}
	entry := &models.AuditLog{
		ActorID:   actor.IDPtr(),
		ActorRole: actor.Role,
		Action:    action,
		Entity:    entity,
		EntityID:  id,
		From:      from,
		To:        to,
		IPAddress: actor.IP,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.base.WithError(err).WithField("entity", entity).Warn("Failed to write audit log")
	}
}

func actorName(actor models.Actor) string {
	if actor.IsSystem() {
		return "system"
	}
	return string(actor.Role) + ":" + actor.ID.Hex()
}
