package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/gotrs-io/gotrs-console/internal/apiclient"
	"github.com/gotrs-io/gotrs-console/internal/chat"
	"github.com/gotrs-io/gotrs-console/internal/models"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = 54 * time.Second
	socketMaxMessage = 8 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     sameOrigin,
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// sameOrigin accepts requests without an Origin header and those whose
// origin host matches the console host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// Chat socket event types.
const (
	eventTyping       = "typing"
	eventMessage      = "message"
	eventUnauthorized = "unauthorized"
	eventError        = "error"
)

type chatEvent struct {
	Type    string              `json:"type"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type chatInput struct {
	Message string `json:"message"`
}

// chatClient is one connected test chat. Only writePump writes to conn.
type chatClient struct {
	conn *websocket.Conn
	send chan chatEvent
}

func (c *chatClient) emit(ctx context.Context, ev chatEvent) bool {
	select {
	case c.send <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *chatClient) writePump(ctx context.Context, logger *slog.Logger) {
	ticker := time.NewTicker(socketPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				logger.Debug("chat socket write failed", slog.Any("error", err))
				return
			}
			if ev.Type == eventUnauthorized {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump handles one message at a time until the browser disconnects or
// the session is revoked.
func (c *chatClient) readPump(ctx context.Context, logger *slog.Logger, handle func(text string) bool) {
	c.conn.SetReadLimit(socketMaxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for ctx.Err() == nil {
		var in chatInput
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("chat socket closed", slog.Any("error", err))
			}
			return
		}
		if !handle(in.Message) {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	}
}

// handleAgentChatSocket streams the test chat over a websocket. The browser
// sends {"message": "..."} and receives typing, message, error and
// unauthorized events. The reply lands in the same conversation the HTML
// form uses.
func (s *Server) handleAgentChatSocket(c *gin.Context) {
	ws := workspaceOf(c)
	agent, ok := s.findAgent(c.Request.Context(), ws, c.Param("id"))
	if !ok {
		s.errorPage(c, http.StatusNotFound, "errors.notFound")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("chat socket upgrade failed", slog.String("session", sessionID(c)), slog.Any("error", err))
		return
	}
	s.logger.Debug("chat socket opened", slog.String("session", sessionID(c)), slog.String("agent", agent.ID))

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	client := &chatClient{conn: conn, send: make(chan chatEvent, 8)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.writePump(ctx, s.logger)
	}()

	conv := s.deps.Chat.Open(ws.Chats, agent)
	var revoked bool
	client.readPump(ctx, s.logger, func(text string) bool {
		if strings.TrimSpace(text) == "" {
			return true
		}
		if !client.emit(ctx, chatEvent{Type: eventTyping}) {
			return false
		}
		_, reply, err := s.deps.Chat.Send(ctx, agent, conv, text)
		switch {
		case err == nil:
			return client.emit(ctx, chatEvent{Type: eventMessage, Message: &reply})
		case errors.Is(err, chat.ErrEmptyMessage):
			return true
		case apiclient.IsUnauthorized(err):
			revoked = client.emit(ctx, chatEvent{Type: eventUnauthorized})
			return false
		case ctx.Err() != nil:
			return false
		default:
			return client.emit(ctx, chatEvent{Type: eventError, Error: s.t(c, "errors.unexpected")})
		}
	})

	// writePump closes the socket itself once the unauthorized event is out.
	if revoked {
		select {
		case <-done:
		case <-time.After(socketWriteWait):
		}
	}
	cancel()
	<-done
}
