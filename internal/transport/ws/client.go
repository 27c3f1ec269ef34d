package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/seabattle-go/internal/model"
)

// Config holds connection settings
type Config struct {
	// WriteWait is the time allowed to write a frame to the peer
	WriteWait time.Duration
	// PongWait is the time allowed between pongs before the peer is considered gone
	PongWait time.Duration
	// PingPeriod must be less than PongWait
	PingPeriod time.Duration
	// MaxMessageSize caps inbound frames
	MaxMessageSize int64
	// SendBufferSize is the per-client outbound queue length
	SendBufferSize int
}

// DefaultConfig returns sensible defaults for connection handling
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBufferSize: 256,
	}
}

// Client is one websocket connection
type Client struct {
	id          string
	conn        *websocket.Conn
	send        chan Message
	connectedAt time.Time

	// Guarded by the hub's lock
	playerID model.PlayerID
}

func newClient(conn *websocket.Conn, bufferSize int) *Client {
	return &Client{
		id:          uuid.NewString(),
		conn:        conn,
		send:        make(chan Message, bufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id
func (c *Client) ID() string {
	return c.id
}

// Server upgrades HTTP requests to websocket connections and pumps frames
// between each connection and the Handler
type Server struct {
	hub      *Hub
	handler  *Handler
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a new websocket Server
func NewServer(hub *Hub, handler *Handler, config Config, logger *slog.Logger) *Server {
	return &Server{
		hub:     hub,
		handler: handler,
		config:  config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws-server")),
	}
}

// ServeHTTP upgrades the request and starts the connection's pumps
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := newClient(conn, s.config.SendBufferSize)
	s.hub.Register(c)
	s.logger.Info("client connected",
		slog.String("conn_id", c.id),
		slog.String("remote_addr", r.RemoteAddr))

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) readPump(c *Client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		playerID, bound := s.hub.Unregister(c)
		_ = c.conn.Close()
		if bound {
			s.handler.Disconnected(context.Background(), playerID)
		}
		s.logger.Info("client disconnected",
			slog.String("conn_id", c.id),
			slog.String("player_id", string(playerID)),
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
	}()

	c.conn.SetReadLimit(s.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.config.PongWait))
	})

	for {
		msgType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("ws read error",
					slog.String("conn_id", c.id),
					slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		s.handler.Handle(ctx, c, frame)
	}
}

func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(s.config.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if !ok {
				// Hub closed the queue
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				s.logger.Warn("ws write error",
					slog.String("conn_id", c.id),
					slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
