package service

import (
	"context"
	"strings"

	"pairlink/logger"
	"pairlink/module/chat/model"
	"pairlink/service/presence"
	"pairlink/tools/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageStore persists individual messages and their delivery status.
type MessageStore interface {
	Create(ctx context.Context, sender, text string) (*model.Message, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) error
	Get(ctx context.Context, id primitive.ObjectID) (*model.Message, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Message, error)
}

// ConversationStore persists two-party conversation records.
type ConversationStore interface {
	FindOrCreate(ctx context.Context, userA, userB string) (*model.Conversation, error)
	Find(ctx context.Context, userA, userB string) (*model.Conversation, error)
	AppendMessage(ctx context.Context, convID, msgID primitive.ObjectID) error
	ListForUser(ctx context.Context, userID string) ([]*model.Conversation, error)
}

// Pusher forwards a persisted message over a receiver's live channel. The
// relay does not know the framing; the gateway implements this.
type Pusher interface {
	PushMessage(connID string, conv *model.Conversation, text string) error
}

// Summary is one entry of a user's conversation list, annotated with only
// its most recent message for display.
type Summary struct {
	Conversation *model.Conversation `json:"conversation"`
	LastMessage  *model.Message      `json:"lastMessage,omitempty"`
}

// Relay orchestrates the send path: persist the message, resolve the
// conversation, and deliver to the receiver iff a live channel is on record.
type Relay struct {
	Messages MessageStore
	Convs    ConversationStore
	Presence presence.Registry
	Pusher   Pusher
}

func NewRelay(msgs MessageStore, convs ConversationStore, reg presence.Registry, pusher Pusher) *Relay {
	return &Relay{Messages: msgs, Convs: convs, Presence: reg, Pusher: pusher}
}

// Online records the user's channel in the presence registry,
// unconditionally superseding any previous channel.
func (r *Relay) Online(ctx context.Context, userID, connID string) error {
	if err := r.Presence.SetOnline(ctx, userID, connID); err != nil {
		return errs.ErrPersistence.WrapMsg("presence set online", "user", userID, "cause", err)
	}
	logger.Infof("[relay] user %s online conn=%s", userID, connID)
	return nil
}

// Disconnect clears the presence entry, but only if it still belongs to the
// closing connection. Persistence already committed for in-flight sends is
// left untouched.
func (r *Relay) Disconnect(ctx context.Context, userID, connID string) {
	if err := r.Presence.RemoveIfMatches(ctx, userID, connID); err != nil {
		logger.Warnf("[relay] presence remove user=%s conn=%s: %v", userID, connID, err)
		return
	}
	logger.Infof("[relay] user %s offline conn=%s", userID, connID)
}

// Send persists a message from sender to receiver and relays it if the
// receiver is online. Steps 1-4 (validate, create, resolve conversation,
// append) are fatal on failure; the delivery step is best effort and a
// failure there leaves the message in SENT.
func (r *Relay) Send(ctx context.Context, senderID, receiverID, text string) (*model.Message, *model.Conversation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, errs.ErrInvalidMessage.WrapMsg("empty text")
	}
	if senderID == "" || receiverID == "" {
		return nil, nil, errs.ErrInvalidMessage.WrapMsg("missing participant")
	}
	if senderID == receiverID {
		return nil, nil, errs.ErrInvalidMessage.WrapMsg("self-addressed message", "user", senderID)
	}

	msg, err := r.Messages.Create(ctx, senderID, text)
	if err != nil {
		return nil, nil, err
	}
	conv, err := r.Convs.FindOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, nil, err
	}
	if err := r.Convs.AppendMessage(ctx, conv.ID, msg.ID); err != nil {
		return nil, nil, err
	}
	conv.MessageIDs = append(conv.MessageIDs, msg.ID)

	r.deliver(ctx, msg, conv, receiverID, text)

	logger.Infof("[relay] message %s from %s to %s", msg.ID.Hex(), senderID, receiverID)
	return msg, conv, nil
}

// deliver forwards the message when the receiver has a live channel and then
// attempts SENT -> DELIVERED. Neither half may fail the send: a stale
// channel or a lost status update only means the message stays SENT.
func (r *Relay) deliver(ctx context.Context, msg *model.Message, conv *model.Conversation, receiverID, text string) {
	connID, ok, err := r.Presence.Channel(ctx, receiverID)
	if err != nil {
		logger.Warnf("[relay] presence lookup user=%s: %v", receiverID, err)
		return
	}
	if !ok {
		return
	}
	if err := r.Pusher.PushMessage(connID, conv, text); err != nil {
		logger.Warnf("[relay] forward msg=%s conn=%s: %v", msg.ID.Hex(), connID,
			errs.ErrRelayDeliveryFailure.WrapMsg("push", "cause", err))
		return
	}
	if err := r.Messages.MarkDelivered(ctx, msg.ID); err != nil {
		logger.Warnf("[relay] mark delivered msg=%s: %v", msg.ID.Hex(), err)
		return
	}
	msg.Status = model.StatusDelivered
}

// Conversation returns the pair's conversation with its full time-ordered
// message list, or RecordNotFound when the pair never exchanged a message.
func (r *Relay) Conversation(ctx context.Context, userID, otherUserID string) (*model.Conversation, []*model.Message, error) {
	conv, err := r.Convs.Find(ctx, userID, otherUserID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := r.Messages.ListByIDs(ctx, conv.MessageIDs)
	if err != nil {
		return nil, nil, err
	}
	return conv, msgs, nil
}

// ConversationsForUser returns every conversation containing the user, most
// recently active first, each with only its latest message resolved.
func (r *Relay) ConversationsForUser(ctx context.Context, userID string) ([]*Summary, error) {
	convs, err := r.Convs.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*Summary, 0, len(convs))
	for _, conv := range convs {
		sum := &Summary{Conversation: conv}
		if lastID, ok := conv.LastMessageID(); ok {
			last, err := r.Messages.Get(ctx, lastID)
			if err != nil {
				logger.Warnf("[relay] resolve last message conv=%s: %v", conv.ID.Hex(), err)
			} else {
				sum.LastMessage = last
			}
		}
		out = append(out, sum)
	}
	return out, nil
}
