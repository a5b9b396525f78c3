package chat

import (
	usermodel "pairlink/module/user/model"
)

// Session is the per-connection state handed to event handlers. The user is
// resolved once at handshake and immutable for the connection's lifetime.
type Session struct {
	Client *Client
	User   usermodel.Summary

	mgr *ConnManager
}

func NewSession(client *Client, user usermodel.Summary, mgr *ConnManager) *Session {
	return &Session{Client: client, User: user, mgr: mgr}
}

// Emit pushes a frame back to this session's own connection.
func (s *Session) Emit(event string, payload any) error {
	return s.mgr.Push(s.Client.ConnID, event, payload)
}
