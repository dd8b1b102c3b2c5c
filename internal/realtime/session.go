package realtime

import (
	"context"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/conversation"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

const (
	FrameMessage = "message"
	FrameError   = "error"
)

// Inbound is what a client writes on the socket to send a message.
type Inbound struct {
	Content string `json:"content"`
}

// Frame is what the server writes on the socket.
type Frame struct {
	Type    string                `json:"type"`
	Message *conversation.Message `json:"message,omitempty"`
	Error   *apperror.Error       `json:"error,omitempty"`
}

// SendFunc stores and publishes one message on behalf of the socket's user.
type SendFunc func(ctx context.Context, content string) error

// Session pumps one websocket connection: inbound frames become sends,
// messages of the subscribed conversation are written back out. Only the
// write pump writes to the connection.
type Session struct {
	conn    *websocket.Conn
	sub     *Subscription
	limiter *rate.Limiter
	send    SendFunc
	errs    chan *apperror.Error
	log     zerolog.Logger
}

func NewSession(conn *websocket.Conn, sub *Subscription, limiter *rate.Limiter, send SendFunc, logger zerolog.Logger) *Session {
	return &Session{
		conn:    conn,
		sub:     sub,
		limiter: limiter,
		send:    send,
		errs:    make(chan *apperror.Error, 8),
		log:     logger.With().Str("conversation_id", sub.ConversationID()).Logger(),
	}
}

// Serve returns when the client goes away, ctx is done or the subscription
// is closed. The connection is closed on return.
func (s *Session) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writePump(ctx)
	}()
	s.readPump(ctx)
	cancel()
	<-done
	s.conn.Close()
}

func (s *Session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var in Inbound
		if err := s.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("chat socket closed unexpectedly")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		if !s.limiter.Allow() {
			s.reportError(apperror.Invalid("sending too fast, slow down"))
			continue
		}
		if err := s.send(ctx, in.Content); err != nil {
			e := apperror.From(err)
			if e.Kind == apperror.KindInternal {
				s.log.Error().Err(err).Msg("unable to send chat message")
			}
			s.reportError(e)
		}
	}
}

func (s *Session) reportError(e *apperror.Error) {
	select {
	case s.errs <- e:
	default:
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			s.conn.Close()
			return
		case msg, ok := <-s.sub.C():
			if !ok {
				s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				// unblock the read pump
				s.conn.Close()
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(Frame{Type: FrameMessage, Message: &msg}); err != nil {
				s.conn.Close()
				return
			}
		case e := <-s.errs:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(Frame{Type: FrameError, Error: e}); err != nil {
				s.conn.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}
