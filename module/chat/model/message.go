package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message status values. SEEN exists in the data model for read receipts but
// no transition in this core sets it; the relay only moves SENT -> DELIVERED.
const (
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusSeen      = "SEEN"
)

// Message is a single chat message. The receiver is not stored on the
// message; it is the other participant of the owning conversation.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    string             `bson:"sender" json:"sender"`
	Text      string             `bson:"text" json:"text"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

func (m *Message) GetTableName() string {
	return "messages"
}
