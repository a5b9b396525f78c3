package chat

import (
	"encoding/json"
	"fmt"

	chatmodel "pairlink/module/chat/model"
	chatservice "pairlink/module/chat/service"
)

// Wire event names. Client events mirror the original channel protocol;
// server events are pushed back on the same connection (or, for
// receive-message, on the receiver's).
const (
	EventUserOnline          = "user-online"
	EventSentMessage         = "sent-message"
	EventGetConversation     = "get-conversation"
	EventGetAllConversations = "get-all-conversations"
	EventDisconnect          = "disconnect"

	EventReceiveMessage       = "receive-message"
	EventConversationData     = "conversation-data"
	EventConversationNotFound = "conversation-not-found"
	EventAllConversations     = "all-conversations"
	EventNoConversations      = "no-conversations"
	EventError                = "error"
)

// Frame is one channel event: a name plus a JSON payload.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func ParseFrameJSON(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if frame.Event == "" {
		return nil, fmt.Errorf("frame has no event")
	}
	return frame, nil
}

func MarshalFrame(event string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload for %s: %w", event, err)
		}
		raw = b
	}
	return json.Marshal(&Frame{Event: event, Payload: raw})
}

// ---- client payloads ----

type SentMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

type GetConversationPayload struct {
	UserID      string `json:"userId"`
	OtherUserID string `json:"otherUserId"`
}

type GetAllConversationsPayload struct {
	UserID string `json:"userId"`
}

// ---- server payloads ----

type ReceiveMessagePayload struct {
	Conversation *chatmodel.Conversation `json:"conversation"`
	Text         string                  `json:"text"`
}

type ConversationDataPayload struct {
	Conversation *chatmodel.Conversation `json:"conversation"`
	Messages     []*chatmodel.Message    `json:"messages"`
}

type AllConversationsPayload struct {
	Conversations []*chatservice.Summary `json:"conversations"`
}

type NoticePayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
