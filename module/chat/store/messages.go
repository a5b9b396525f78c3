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

type MessageStore struct {
	DB *mongo.Database
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{DB: db}
}

func (s *MessageStore) coll() *mongo.Collection {
	return s.DB.Collection((&model.Message{}).GetTableName())
}

// Create persists a new message with status SENT.
func (s *MessageStore) Create(ctx context.Context, sender, text string) (*model.Message, error) {
	msg := &model.Message{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Text:      text,
		Status:    model.StatusSent,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.coll().InsertOne(ctx, msg); err != nil {
		return nil, errs.ErrPersistence.WrapMsg("insert message", "cause", errors.Wrap(err, "mongo"))
	}
	return msg, nil
}

// MarkDelivered advances status SENT -> DELIVERED. Advancing a message that
// is already DELIVERED (or SEEN) is a no-op, not an error.
func (s *MessageStore) MarkDelivered(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll().UpdateOne(ctx,
		bson.M{"_id": id, "status": model.StatusSent},
		bson.M{"$set": bson.M{"status": model.StatusDelivered}},
	)
	if err != nil {
		return errs.ErrPersistence.WrapMsg("mark delivered", "id", id.Hex(), "cause", err)
	}
	return nil
}

// Get returns a single message by id.
func (s *MessageStore) Get(ctx context.Context, id primitive.ObjectID) (*model.Message, error) {
	var msg model.Message
	err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("message", "id", id.Hex())
	}
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg("find message", "cause", err)
	}
	return &msg, nil
}

// ListByIDs resolves message ids to full records ordered by creation time.
func (s *MessageStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.coll().Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg("find messages", "cause", err)
	}
	defer cur.Close(ctx)

	var out []*model.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.ErrPersistence.WrapMsg("decode messages", "cause", err)
	}
	return out, nil
}
