package chat

import (
	"context"
	"net"
	"net/http"
	"time"

	"pairlink/logger"
	chatservice "pairlink/module/chat/service"
	"pairlink/tools/errs"
	"pairlink/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096, CheckOrigin: func(r *http.Request) bool { return true }}

type Options struct {
	SendQueueSize int
	WriteTimeout  time.Duration
}

func (o *Options) setDefaults() {
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = 256
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
}

// Server is the gateway: it admits channels, keeps the connection index and
// feeds inbound frames to the dispatcher.
type Server struct {
	opts    Options
	authn   *Authenticator
	disp    *Dispatcher
	connMgr *ConnManager
	relay   *chatservice.Relay
}

func NewServer(opts Options, authn *Authenticator, disp *Dispatcher, connMgr *ConnManager, relay *chatservice.Relay) *Server {
	opts.setDefaults()
	return &Server{opts: opts, authn: authn, disp: disp, connMgr: connMgr, relay: relay}
}

func (s *Server) ConnMgr() *ConnManager     { return s.connMgr }
func (s *Server) Disp() *Dispatcher         { return s.disp }
func (s *Server) Relay() *chatservice.Relay { return s.relay }

// HandleWS authenticates the handshake, upgrades, and runs the read loop.
// Authentication failure refuses the channel before the upgrade; afterwards
// the resolved identity is fixed on the session.
func (s *Server) HandleWS(c *gin.Context) {
	user, err := s.authn.Authenticate(c.Request.Context(), c.Request)
	if err != nil {
		ce := errs.AsCodeError(err)
		logger.Warnf("[ws] handshake refused: %v", err)
		c.JSON(HTTPStatus(err), gin.H{"code": ce.Code, "msg": ce.Msg})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// non-WebSocket request or failed handshake
		logger.Warnf("[ws] upgrade error: %v", err)
		return
	}

	connID := ids.GenerateString()
	client := NewClient(connID, user.UserID, ws, s.opts.SendQueueSize)
	sess := NewSession(client, *user, s.connMgr)
	s.connMgr.Add(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.writePump(s.opts.WriteTimeout)
	}()

	logger.Infof("[ws] connected user=%s conn=%s", user.UserID, connID)
	s.readLoop(client, sess)

	// teardown: clear presence only if this connection is still on record,
	// then unregister and let the writer drain out
	s.relay.Disconnect(context.Background(), client.UserID, client.ConnID)
	s.connMgr.CloseAndRemove(client.ConnID)
	<-done
	_ = ws.Close()
	logger.Infof("[ws] closed user=%s conn=%s", client.UserID, connID)
}

func (s *Server) readLoop(client *Client, sess *Session) {
	for {
		mt, data, rerr := client.WS.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrameJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[ws] bad frame conn=%s err=%v sample=%q len=%d",
				client.ConnID, perr, sample, len(data))
			continue
		}

		// an explicit disconnect is a close request from the client
		if frame.Event == EventDisconnect {
			logger.Infof("[ws] client disconnect conn=%s", client.ConnID)
			return
		}

		handler := s.disp.GetHandler(frame.Event)
		if handler == nil {
			logger.Warnf("[ws] no handler for event=%q conn=%s", frame.Event, client.ConnID)
			continue
		}

		// each event is one unit of work; its failure never closes the channel
		if err := handler.Handle(context.Background(), sess, frame); err != nil {
			ce := errs.AsCodeError(err)
			logger.Errorf("[ws] handle event=%q conn=%s: %v", frame.Event, client.ConnID, err)
			if perr := sess.Emit(EventError, &ErrorPayload{Code: ce.Code, Message: ce.Msg}); perr != nil {
				logger.Warnf("[ws] emit error frame conn=%s: %v", client.ConnID, perr)
			}
		}
	}
}
