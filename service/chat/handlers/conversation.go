package handlers

import (
	"context"

	chatservice "pairlink/module/chat/service"
	"pairlink/service/chat"
	"pairlink/tools/decode"
	"pairlink/tools/errs"
)

// ConversationHandler answers get-conversation with the pair's full ordered
// history, or conversation-not-found when the pair never talked. An absent
// conversation is a valid empty-history answer, not a failure.
type ConversationHandler struct {
	Relay *chatservice.Relay
}

func NewConversationHandler(relay *chatservice.Relay) chat.Handler {
	return &ConversationHandler{Relay: relay}
}

func (h *ConversationHandler) Event() string { return chat.EventGetConversation }

func (h *ConversationHandler) Handle(ctx context.Context, sess *chat.Session, f *chat.Frame) error {
	payload, err := decode.DecodeJSON[chat.GetConversationPayload](f.Payload)
	if err != nil {
		return errs.ErrInvalidMessage.WrapMsg("bad payload", "cause", err)
	}
	userID := payload.UserID
	if userID == "" {
		userID = sess.User.UserID
	}

	conv, msgs, err := h.Relay.Conversation(ctx, userID, payload.OtherUserID)
	if err != nil {
		if errs.ErrRecordNotFound.Is(err) {
			return sess.Emit(chat.EventConversationNotFound, &chat.NoticePayload{Message: "No conversation found"})
		}
		return err
	}
	return sess.Emit(chat.EventConversationData, &chat.ConversationDataPayload{Conversation: conv, Messages: msgs})
}

// AllConversationsHandler answers get-all-conversations with the user's
// summarized conversation list, most recently active first.
type AllConversationsHandler struct {
	Relay *chatservice.Relay
}

func NewAllConversationsHandler(relay *chatservice.Relay) chat.Handler {
	return &AllConversationsHandler{Relay: relay}
}

func (h *AllConversationsHandler) Event() string { return chat.EventGetAllConversations }

func (h *AllConversationsHandler) Handle(ctx context.Context, sess *chat.Session, f *chat.Frame) error {
	payload, err := decode.DecodeJSON[chat.GetAllConversationsPayload](f.Payload)
	if err != nil {
		return errs.ErrInvalidMessage.WrapMsg("bad payload", "cause", err)
	}
	userID := payload.UserID
	if userID == "" {
		userID = sess.User.UserID
	}

	sums, err := h.Relay.ConversationsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(sums) == 0 {
		return sess.Emit(chat.EventNoConversations, &chat.NoticePayload{Message: "No conversations found"})
	}
	return sess.Emit(chat.EventAllConversations, &chat.AllConversationsPayload{Conversations: sums})
}
