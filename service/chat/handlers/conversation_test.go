package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	chatmodel "pairlink/module/chat/model"
	chatservice "pairlink/module/chat/service"
	usermodel "pairlink/module/user/model"
	"pairlink/service/chat"
	"pairlink/service/presence"
	"pairlink/tools/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubMessages and stubConvs hold pre-seeded records; handler tests only
// exercise the read paths plus the validation in front of them.

type stubMessages struct {
	byID map[primitive.ObjectID]*chatmodel.Message
}

func (s *stubMessages) Create(_ context.Context, sender, text string) (*chatmodel.Message, error) {
	msg := &chatmodel.Message{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Text:      text,
		Status:    chatmodel.StatusSent,
		CreatedAt: time.Now().UTC(),
	}
	s.byID[msg.ID] = msg
	return msg, nil
}

func (s *stubMessages) MarkDelivered(_ context.Context, id primitive.ObjectID) error {
	if msg, ok := s.byID[id]; ok && msg.Status == chatmodel.StatusSent {
		msg.Status = chatmodel.StatusDelivered
	}
	return nil
}

func (s *stubMessages) Get(_ context.Context, id primitive.ObjectID) (*chatmodel.Message, error) {
	msg, ok := s.byID[id]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("message")
	}
	return msg, nil
}

func (s *stubMessages) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]*chatmodel.Message, error) {
	var out []*chatmodel.Message
	for _, id := range ids {
		if msg, ok := s.byID[id]; ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

type stubConvs struct {
	byKey map[string]*chatmodel.Conversation
}

func (s *stubConvs) FindOrCreate(_ context.Context, a, b string) (*chatmodel.Conversation, error) {
	key := chatmodel.PairKey(a, b)
	conv, ok := s.byKey[key]
	if !ok {
		conv = &chatmodel.Conversation{
			ID:           primitive.NewObjectID(),
			PairKey:      key,
			Participants: []string{a, b},
		}
		s.byKey[key] = conv
	}
	return conv, nil
}

func (s *stubConvs) Find(_ context.Context, a, b string) (*chatmodel.Conversation, error) {
	conv, ok := s.byKey[chatmodel.PairKey(a, b)]
	if !ok {
		return nil, errs.ErrRecordNotFound.WrapMsg("conversation")
	}
	return conv, nil
}

func (s *stubConvs) AppendMessage(_ context.Context, convID, msgID primitive.ObjectID) error {
	for _, conv := range s.byKey {
		if conv.ID == convID {
			conv.MessageIDs = append(conv.MessageIDs, msgID)
			return nil
		}
	}
	return errs.ErrPersistence.WrapMsg("conversation vanished")
}

func (s *stubConvs) ListForUser(_ context.Context, userID string) ([]*chatmodel.Conversation, error) {
	var out []*chatmodel.Conversation
	for _, conv := range s.byKey {
		for _, p := range conv.Participants {
			if p == userID {
				out = append(out, conv)
				break
			}
		}
	}
	return out, nil
}

type testEnv struct {
	relay *chatservice.Relay
	mgr   *chat.ConnManager
	convs *stubConvs
	msgs  *stubMessages
}

func newTestEnv() *testEnv {
	msgs := &stubMessages{byID: make(map[primitive.ObjectID]*chatmodel.Message)}
	convs := &stubConvs{byKey: make(map[string]*chatmodel.Conversation)}
	mgr := chat.NewConnManager()
	relay := chatservice.NewRelay(msgs, convs, presence.NewMemoryRegistry(), mgr)
	return &testEnv{relay: relay, mgr: mgr, convs: convs, msgs: msgs}
}

func (e *testEnv) newSession(userID string) *chat.Session {
	client := chat.NewClient("conn-"+userID, userID, nil, 16)
	e.mgr.Add(client)
	return chat.NewSession(client, usermodel.Summary{UserID: userID}, e.mgr)
}

func recvFrame(t *testing.T, sess *chat.Session) *chat.Frame {
	t.Helper()
	select {
	case b := <-sess.Client.Send:
		frame, err := chat.ParseFrameJSON(b)
		require.NoError(t, err)
		return frame
	default:
		t.Fatal("no frame emitted")
		return nil
	}
}

func TestConversationHandler_NotFound(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	alice, bob := uuid.NewString(), uuid.NewString()
	sess := env.newSession(alice)

	h := NewConversationHandler(env.relay)
	payload, _ := json.Marshal(&chat.GetConversationPayload{UserID: alice, OtherUserID: bob})
	err := h.Handle(context.Background(), sess, &chat.Frame{Event: chat.EventGetConversation, Payload: payload})
	req.NoError(err)

	frame := recvFrame(t, sess)
	req.Equal(chat.EventConversationNotFound, frame.Event)
}

func TestConversationHandler_ReturnsHistory(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	alice, bob := uuid.NewString(), uuid.NewString()
	sess := env.newSession(alice)

	_, _, err := env.relay.Send(context.Background(), alice, bob, "hi bob")
	req.NoError(err)

	h := NewConversationHandler(env.relay)
	payload, _ := json.Marshal(&chat.GetConversationPayload{UserID: alice, OtherUserID: bob})
	err = h.Handle(context.Background(), sess, &chat.Frame{Event: chat.EventGetConversation, Payload: payload})
	req.NoError(err)

	frame := recvFrame(t, sess)
	req.Equal(chat.EventConversationData, frame.Event)

	var data chat.ConversationDataPayload
	req.NoError(json.Unmarshal(frame.Payload, &data))
	req.Len(data.Messages, 1)
	req.Equal("hi bob", data.Messages[0].Text)
	req.ElementsMatch([]string{alice, bob}, data.Conversation.Participants)
}

func TestAllConversationsHandler_Empty(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	alice := uuid.NewString()
	sess := env.newSession(alice)

	h := NewAllConversationsHandler(env.relay)
	payload, _ := json.Marshal(&chat.GetAllConversationsPayload{UserID: alice})
	err := h.Handle(context.Background(), sess, &chat.Frame{Event: chat.EventGetAllConversations, Payload: payload})
	req.NoError(err)

	frame := recvFrame(t, sess)
	req.Equal(chat.EventNoConversations, frame.Event)
}

func TestAllConversationsHandler_Summaries(t *testing.T) {
	req := require.New(t)
	env := newTestEnv()
	alice, bob := uuid.NewString(), uuid.NewString()
	sess := env.newSession(alice)

	_, _, err := env.relay.Send(context.Background(), alice, bob, "first")
	req.NoError(err)
	_, _, err = env.relay.Send(context.Background(), alice, bob, "latest")
	req.NoError(err)

	h := NewAllConversationsHandler(env.relay)
	payload, _ := json.Marshal(&chat.GetAllConversationsPayload{UserID: alice})
	err = h.Handle(context.Background(), sess, &chat.Frame{Event: chat.EventGetAllConversations, Payload: payload})
	req.NoError(err)

	frame := recvFrame(t, sess)
	req.Equal(chat.EventAllConversations, frame.Event)

	var data chat.AllConversationsPayload
	req.NoError(json.Unmarshal(frame.Payload, &data))
	req.Len(data.Conversations, 1)
	req.NotNil(data.Conversations[0].LastMessage)
	req.Equal("latest", data.Conversations[0].LastMessage.Text)
}
