package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/corpgpt/auth-service/internal/core/domain"
)

const auditCollection = "audit_logs"

// MongoAuditRepository persists the security audit trail.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	Actor    string `bson:"actor"`
	Action   string `bson:"action"`
	Metadata string `bson:"metadata,omitempty"`
	At       int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	doc := mongoAuditEntry{
		Actor:    entry.Actor,
		Action:   entry.Action,
		Metadata: entry.Metadata,
		At:       entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) List(ctx context.Context, limit int64) ([]domain.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.AuditEntry
	for cursor.Next(ctx) {
		var doc mongoAuditEntry
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		entries = append(entries, domain.AuditEntry{
			Actor:    doc.Actor,
			Action:   doc.Action,
			Metadata: doc.Metadata,
			At:       unixToTime(doc.At),
		})
	}
	return entries, cursor.Err()
}
