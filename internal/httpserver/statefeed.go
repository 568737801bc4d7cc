package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/emailid501-ux/optionsense-app/internal/models"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 8
)

// StateFeed pushes session snapshots to websocket subscribers whenever the
// controller mutates the session. Slow subscribers are dropped rather than
// allowed to block a broadcast.
type StateFeed struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*feedClient]struct{}
	closed  bool
}

type feedClient struct {
	conn *websocket.Conn
	send chan models.SessionSnapshot
}

// NewStateFeed creates a websocket state feed
func NewStateFeed(logger *zap.Logger) *StateFeed {
	return &StateFeed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*feedClient]struct{}),
	}
}

// HandleWS upgrades the connection and streams snapshots until the client
// disconnects.
func (f *StateFeed) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan models.SessionSnapshot, clientSendSize),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.Close()
		return
	}
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(client)
	f.readLoop(client)
}

// Broadcast fans a snapshot out to every subscriber.
func (f *StateFeed) Broadcast(snapshot models.SessionSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		select {
		case client.send <- snapshot:
		default:
			// Subscriber cannot keep up; drop it.
			delete(f.clients, client)
			close(client.send)
		}
	}
}

// Close disconnects all subscribers.
func (f *StateFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for client := range f.clients {
		delete(f.clients, client)
		close(client.send)
	}
}

func (f *StateFeed) writeLoop(client *feedClient) {
	defer client.conn.Close()

	for snapshot := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteJSON(snapshot); err != nil {
			f.drop(client)
			return
		}
	}
	_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
}

// readLoop discards inbound frames; the feed is one-way. It exists to
// detect disconnects.
func (f *StateFeed) readLoop(client *feedClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			f.drop(client)
			return
		}
	}
}

func (f *StateFeed) drop(client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.clients[client]; ok {
		delete(f.clients, client)
		close(client.send)
	}
}
