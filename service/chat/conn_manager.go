package chat

import (
	"sync"

	chatmodel "pairlink/module/chat/model"
	"pairlink/tools/errs"
)

// ConnManager indexes live clients by connection id and is the gateway's
// presence "channel" target: the registry maps user -> conn_id, this maps
// conn_id -> client.
type ConnManager struct {
	mu     sync.RWMutex
	byConn map[string]*Client
}

func NewConnManager() *ConnManager {
	return &ConnManager{byConn: make(map[string]*Client)}
}

func (m *ConnManager) Add(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byConn[c.ConnID] = c
}

// Remove drops the client and returns it, nil when already gone.
func (m *ConnManager) Remove(connID string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.byConn[connID]
	delete(m.byConn, connID)
	return c
}

func (m *ConnManager) Get(connID string) *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byConn[connID]
}

func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byConn)
}

// CloseAndRemove drops the client and closes its send queue under the same
// lock Push holds, so no producer can enqueue on a closed queue.
func (m *ConnManager) CloseAndRemove(connID string) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.byConn[connID]
	if c != nil {
		delete(m.byConn, connID)
		close(c.Send)
	}
	return c
}

// Push enqueues a frame on the connection's send queue without blocking the
// caller. A missing connection or a full queue is a delivery failure, never
// a reason to stall an event handler.
func (m *ConnManager) Push(connID, event string, payload any) error {
	b, err := MarshalFrame(event, payload)
	if err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.byConn[connID]
	if c == nil {
		return errs.ErrRelayDeliveryFailure.WrapMsg("no such connection", "conn", connID)
	}
	select {
	case c.Send <- b:
		return nil
	default:
		return errs.ErrRelayDeliveryFailure.WrapMsg("send queue full", "conn", connID, "user", c.UserID)
	}
}

// PushMessage implements the relay's Pusher: forward a persisted message to
// an online receiver's channel.
func (m *ConnManager) PushMessage(connID string, conv *chatmodel.Conversation, text string) error {
	return m.Push(connID, EventReceiveMessage, &ReceiveMessagePayload{Conversation: conv, Text: text})
}
