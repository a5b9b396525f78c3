package handlers

import (
	"context"
	"encoding/json"
	"testing"

	chatmodel "pairlink/module/chat/model"
	"pairlink/service/chat"
	"pairlink/tools/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSendHandler_DeliversToOnlineReceiver(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	aliceSess := env.newSession(alice)
	bobSess := env.newSession(bob)

	online := NewOnlineHandler(env.relay)
	req.NoError(online.Handle(ctx, bobSess, &chat.Frame{Event: chat.EventUserOnline}))

	h := NewSendHandler(env.relay)
	payload, _ := json.Marshal(&chat.SentMessagePayload{SenderID: alice, ReceiverID: bob, Text: "hi"})
	req.NoError(h.Handle(ctx, aliceSess, &chat.Frame{Event: chat.EventSentMessage, Payload: payload}))

	frame := recvFrame(t, bobSess)
	req.Equal(chat.EventReceiveMessage, frame.Event)

	var data chat.ReceiveMessagePayload
	req.NoError(json.Unmarshal(frame.Payload, &data))
	req.Equal("hi", data.Text)
	req.ElementsMatch([]string{alice, bob}, data.Conversation.Participants)

	// pushed and marked: exactly one message, DELIVERED
	for _, msg := range env.msgs.byID {
		req.Equal(chatmodel.StatusDelivered, msg.Status)
	}
	req.Len(env.msgs.byID, 1)
}

func TestSendHandler_OfflineReceiverGetsNothing(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	aliceSess := env.newSession(alice)
	bobSess := env.newSession(bob) // connected but never announced user-online

	h := NewSendHandler(env.relay)
	payload, _ := json.Marshal(&chat.SentMessagePayload{SenderID: alice, ReceiverID: bob, Text: "hi"})
	req.NoError(h.Handle(ctx, aliceSess, &chat.Frame{Event: chat.EventSentMessage, Payload: payload}))

	select {
	case <-bobSess.Client.Send:
		t.Fatal("offline receiver must not get a push")
	default:
	}

	for _, msg := range env.msgs.byID {
		req.Equal(chatmodel.StatusSent, msg.Status)
	}
	req.Len(env.msgs.byID, 1)
}

func TestSendHandler_SenderDefaultsToSession(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	aliceSess := env.newSession(alice)

	h := NewSendHandler(env.relay)
	payload, _ := json.Marshal(&chat.SentMessagePayload{ReceiverID: bob, Text: "hi"})
	req.NoError(h.Handle(ctx, aliceSess, &chat.Frame{Event: chat.EventSentMessage, Payload: payload}))

	for _, msg := range env.msgs.byID {
		req.Equal(alice, msg.Sender)
	}
	req.Len(env.msgs.byID, 1)
}

func TestSendHandler_RejectsInvalid(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	sess := env.newSession(alice)
	h := NewSendHandler(env.relay)

	cases := []struct {
		name    string
		payload *chat.SentMessagePayload
	}{
		{"empty text", &chat.SentMessagePayload{SenderID: alice, ReceiverID: bob, Text: ""}},
		{"self addressed", &chat.SentMessagePayload{SenderID: alice, ReceiverID: alice, Text: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			b, _ := json.Marshal(tc.payload)
			err := h.Handle(ctx, sess, &chat.Frame{Event: chat.EventSentMessage, Payload: b})
			req.Error(err)
			req.True(errs.ErrInvalidMessage.Is(err))
			req.Empty(env.msgs.byID)
		})
	}
}
