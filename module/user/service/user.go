package service

import (
	"context"

	usermodel "pairlink/module/user/model"
	"pairlink/tools/errs"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *Service {
	return &Service{DB: db}
}

func (s *Service) coll() *mongo.Collection {
	return s.DB.Collection((&usermodel.User{}).GetTableName())
}

// Summary resolves a verified identity to its account summary. Blocked,
// closed and deleted accounts resolve as unknown so the channel is refused.
func (s *Service) Summary(ctx context.Context, userID string) (*usermodel.Summary, error) {
	var u usermodel.User
	err := s.coll().FindOne(ctx, bson.M{"user_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrUnknownAccount.WrapMsg("user", "id", userID)
	}
	if err != nil {
		return nil, errs.ErrPersistence.WrapMsg("find user", "cause", err)
	}
	if u.IsDeleted || u.Status != usermodel.UserNormal {
		return nil, errs.ErrUnknownAccount.WrapMsg("account not active", "id", userID)
	}
	sum := u.Summary()
	return &sum, nil
}
