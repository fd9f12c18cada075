package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cesizen/identity-system/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository persists the authentication audit trail. Entries are
// append-only; nothing in the system reads them back on the request path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Username string `bson:"username"`
	Action   string `bson:"action"`
	Reason   string `bson:"reason,omitempty"`
	UnixTime int64  `bson:"unix_time"`
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, auditDoc{
		Username: event.Username,
		Action:   string(event.Action),
		Reason:   event.Reason,
		UnixTime: event.UnixTime,
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
