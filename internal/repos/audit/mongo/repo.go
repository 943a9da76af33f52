package mongoaudit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/fastprodman/walletsvc/internal/audit"
)

const collectionName = "audit_events"

var _ audit.Sink = (*auditRepo)(nil)

type auditRepo struct {
	collection *mongo.Collection
}

func New(client *mongo.Client, dbName string) *auditRepo {
	return &auditRepo{collection: client.Database(dbName).Collection(collectionName)}
}

// EnsureIndexes creates the lookup indexes used when investigating a wallet
// or a transaction. It is safe to call on every start.
func (r *auditRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "wallet_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}

	return nil
}

func (r *auditRepo) Write(ctx context.Context, e audit.Event) error {
	_, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("insert audit event %s: %w", e.ID, err)
	}

	return nil
}
