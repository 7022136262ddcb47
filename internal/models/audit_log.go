package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDelete     AuditAction = "delete"
	AuditActionTransition AuditAction = "transition"
	AuditActionLogin      AuditAction = "login"
	AuditActionLogout     AuditAction = "logout"
)

type AuditLog struct {
	ID        primitive.ObjectID     `json:"_id" bson:"_id,omitempty"`
	ActorID   *primitive.ObjectID    `json:"actorId,omitempty" bson:"actorId,omitempty"`
	ActorRole Role                   `json:"actorRole,omitempty" bson:"actorRole,omitempty"`
	Action    AuditAction            `json:"action" bson:"action"`
	Entity    string                 `json:"entity" bson:"entity"`
	EntityID  primitive.ObjectID     `json:"entityId" bson:"entityId"`
	From      string                 `json:"from,omitempty" bson:"from,omitempty"`
	To        string                 `json:"to,omitempty" bson:"to,omitempty"`
	IPAddress string                 `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}

// Actor identifies who performs an operation. The zero value is the system.
type Actor struct {
	ID   primitive.ObjectID
	Role Role
	IP   string
}

func (a Actor) IsSystem() bool {
	return a.ID.IsZero()
}

func (a Actor) IDPtr() *primitive.ObjectID {
	if a.ID.IsZero() {
		return nil
	}
	id := a.ID
	return &id
}

var SystemActor = Actor{}
