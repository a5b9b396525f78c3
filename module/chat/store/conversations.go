package store

import (
	"context"
	"time"

	"pairlink/module/chat/model"
	"pairlink/tools/errs"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationStore struct {
	DB *mongo.Database
}

func NewConversationStore(db *mongo.Database) *ConversationStore {
	return &ConversationStore{DB: db}
}

func ptr[T any](v T) *T { return &v }

func (s *ConversationStore) coll() *mongo.Collection {
	return s.DB.Collection((&model.Conversation{}).GetTableName())
}

// EnsureIndexes creates the unique pair-key index. The index is the
// correctness boundary for two first sends racing to create the same
// conversation; application code never does read-then-insert.
func (s *ConversationStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "participants", Value: 1}, {Key: "updated_at", Value: -1}},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create conversation indexes")
	}
	return nil
}

// FindOrCreate resolves the conversation for an unordered user pair,
// creating it on first contact. A single upsert keyed on the unique pair key
// keeps concurrent first sends from producing two conversations.
func (s *ConversationStore) FindOrCreate(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	now := time.Now().UTC()
	after := options.After
	res := s.coll().FindOneAndUpdate(ctx,
		bson.M{"pair_key": model.PairKey(userA, userB)},
		bson.M{"$setOnInsert": bson.M{
			"participants": []string{userA, userB},
			"message_ids":  []primitive.ObjectID{},
			"created_at":   now,
			"updated_at":   now,
		}},
		&options.FindOneAndUpdateOptions{Upsert: ptr(true), ReturnDocument: &after},
	)
	var conv model.Conversation
	if err := res.Decode(&conv); err != nil {
		return nil, errs.ErrPersistence.WrapMsg("find-or-create conversation", "cause", err)
	}
	return &conv, nil
}

// Find returns the existing conversation for the pair, or RecordNotFound.
func (s *ConversationStore) Find(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.coll().FindOne(ctx, bson.M{"pair_key": model.PairKey(userA, userB)}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation", "pair", model.PairKey(userA, userB))
	}
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg("find conversation", "cause", err)
	}
	return &conv, nil
}

// AppendMessage appends a message id to the conversation's ordered sequence.
func (s *ConversationStore) AppendMessage(ctx context.Context, convID, msgID primitive.ObjectID) error {
	res, err := s.coll().UpdateOne(ctx,
		bson.M{"_id": convID},
		bson.M{
			"$push": bson.M{"message_ids": msgID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return errs.ErrPersistence.WrapMsg("append message", "conv", convID.Hex(), "cause", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrPersistence.WrapMsg("append message: conversation vanished", "conv", convID.Hex())
	}
	return nil
}

// ListForUser returns every conversation containing userID, most recently
// active first.
func (s *ConversationStore) ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	cur, err := s.coll().Find(ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	)
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg("list conversations", "cause", err)
	}
	defer cur.Close(ctx)

	var out []*model.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrPersistence.WrapMsg("decode conversations", "cause", err)
	}
	return out, nil
}
