package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation groups the messages between exactly one unordered pair of
// users. PairKey is the normalized participant pair and carries a unique
// index, which makes find-or-create safe under concurrent first sends.
type Conversation struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey      string               `bson:"pair_key" json:"-"`
	Participants []string             `bson:"participants" json:"participants"`
	MessageIDs   []primitive.ObjectID `bson:"message_ids" json:"messageIds"`
	CreatedAt    time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updated_at" json:"updatedAt"`
}

func (c *Conversation) GetTableName() string {
	return "conversations"
}

// PairKey normalizes an unordered participant pair into the lookup key.
// The separator cannot occur in user ids (ObjectID hex), so distinct pairs
// cannot collide.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// OtherParticipant returns the first participant that is not userID. With
// exactly two distinct participants this is the message receiver.
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// LastMessageID returns the most recently appended message id.
func (c *Conversation) LastMessageID() (primitive.ObjectID, bool) {
	if len(c.MessageIDs) == 0 {
		return primitive.NilObjectID, false
	}
	return c.MessageIDs[len(c.MessageIDs)-1], true
}
