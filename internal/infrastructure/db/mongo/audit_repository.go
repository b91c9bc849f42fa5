package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/confhub/conference-portal/internal/core/domain"
)

const auditCollection = "auth_events"

// MongoAuditRepository persists the authentication audit trail. Insert-only;
// reads happen through operational tooling, not this service.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Type     string `bson:"type"`
	Subject  string `bson:"subject"`
	RemoteIP string `bson:"remote_ip,omitempty"`
	Detail   string `bson:"detail,omitempty"`
	At       int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event domain.AuthEvent) error {
	doc := mongoAuthEvent{
		Type:     string(event.Type),
		Subject:  event.Subject,
		RemoteIP: event.RemoteIP,
		Detail:   event.Detail,
		At:       event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
