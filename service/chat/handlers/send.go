package handlers

import (
	"context"

	chatservice "pairlink/module/chat/service"
	"pairlink/service/chat"
	"pairlink/tools/decode"
	"pairlink/tools/errs"
)

// SendHandler runs the relay send path for a sent-message event.
type SendHandler struct {
	Relay *chatservice.Relay
}

func NewSendHandler(relay *chatservice.Relay) chat.Handler {
	return &SendHandler{Relay: relay}
}

func (h *SendHandler) Event() string { return chat.EventSentMessage }

func (h *SendHandler) Handle(ctx context.Context, sess *chat.Session, f *chat.Frame) error {
	payload, err := decode.DecodeJSON[chat.SentMessagePayload](f.Payload)
	if err != nil {
		return errs.ErrInvalidMessage.WrapMsg("bad payload", "cause", err)
	}
	senderID := payload.SenderID
	if senderID == "" {
		senderID = sess.User.UserID
	}
	_, _, err = h.Relay.Send(ctx, senderID, payload.ReceiverID, payload.Text)
	return err
}
