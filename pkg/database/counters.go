package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequencer hands out daily document numbers such as COT-20240131-0007.
type Sequencer struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewSequencer(db *MongoDB) *Sequencer {
	return &Sequencer{collection: db.Collection(CollectionCounters), now: time.Now}
}

func (s *Sequencer) Next(ctx context.Context, prefix string) (string, error) {
	day := s.now().Format("20060102")
	key := prefix + "-" + day

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to increment counter %s: %w", key, err)
	}

	return FormatSequence(prefix, day, counter.Seq), nil
}

func FormatSequence(prefix, day string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq)
}
