package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
	"github.com/closerhq/agency-dashboard/internal/core/ports"
)

const stageEventsCollection = "call_stage_events"

// stageEventDoc is the stored shape of a domain.StageEvent.
type stageEventDoc struct {
	ID          string    `bson:"_id"`
	CallID      string    `bson:"call_id"`
	ClientID    string    `bson:"client_id"`
	ActorID     string    `bson:"actor_id"`
	From        string    `bson:"from"`
	To          string    `bson:"to"`
	Timestamp   time.Time `bson:"timestamp"`
	ProcessedAt time.Time `bson:"processed_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the history lookup index. Safe to call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "call_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create stage event index: %w", err)
	}
	return nil
}

// InsertStageEvent persists one transition. Replaying the same event id is a no-op.
func (r *AuditRepository) InsertStageEvent(ctx context.Context, e *domain.StageEvent) error {
	doc := toDoc(e)
	_, err := r.collection().InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert stage event: %w: %w", domain.ErrDatabase, err)
	}
	return nil
}

// ListStageEvents returns the trail of callID, oldest first.
func (r *AuditRepository) ListStageEvents(ctx context.Context, callID string) ([]domain.StageEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.collection().Find(ctx, bson.M{"call_id": callID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find stage events: %w: %w", domain.ErrDatabase, err)
	}
	defer cur.Close(ctx)

	var docs []stageEventDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode stage events: %w: %w", domain.ErrDatabase, err)
	}

	out := make([]domain.StageEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func (r *AuditRepository) collection() *mongo.Collection {
	return r.db.Collection(stageEventsCollection)
}

func toDoc(e *domain.StageEvent) stageEventDoc {
	return stageEventDoc{
		ID:          e.ID,
		CallID:      e.CallID,
		ClientID:    e.ClientID,
		ActorID:     e.ActorID,
		From:        string(e.From),
		To:          string(e.To),
		Timestamp:   e.Timestamp.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
}

func fromDoc(d stageEventDoc) domain.StageEvent {
	return domain.StageEvent{
		ID:        d.ID,
		CallID:    d.CallID,
		ClientID:  d.ClientID,
		ActorID:   d.ActorID,
		From:      domain.Stage(d.From),
		To:        domain.Stage(d.To),
		Timestamp: d.Timestamp.UTC(),
	}
}
