package handlers

import (
	"context"

	chatservice "pairlink/module/chat/service"
	"pairlink/service/chat"
)

// OnlineHandler registers the session's user in the presence registry. The
// identity comes from the authenticated session, never from the payload.
type OnlineHandler struct {
	Relay *chatservice.Relay
}

func NewOnlineHandler(relay *chatservice.Relay) chat.Handler {
	return &OnlineHandler{Relay: relay}
}

func (h *OnlineHandler) Event() string { return chat.EventUserOnline }

func (h *OnlineHandler) Handle(ctx context.Context, sess *chat.Session, _ *chat.Frame) error {
	return h.Relay.Online(ctx, sess.User.UserID, sess.Client.ConnID)
}
