package visual

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stepsim/stepsim/engine"
)

// eventEnvelope is the wire format sent to every connected client: the
// event's declared name alongside the concrete payload, so a generic
// JS client can dispatch on event_type without knowing the Go types.
type eventEnvelope struct {
	EventType string      `json:"event_type"`
	Event     engine.Event `json:"event"`
}

// Broadcaster is a Process that forwards every event it is notified of
// to every currently connected websocket client, as JSON. Every event
// that encodes to JSON is acknowledged; an encoding failure is returned
// as an error.
type Broadcaster struct {
	engine.BaseProcess

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *logrus.Logger
}

// NewBroadcaster builds a Broadcaster with no clients yet attached.
func NewBroadcaster(logger *logrus.Logger) *Broadcaster {
	if logger == nil {
		logger = logrus.New()
	}
	return &Broadcaster{clients: make(map[*websocket.Conn]struct{}), logger: logger}
}

// ProcessName implements engine.Process.
func (b *Broadcaster) ProcessName() string { return "WebSocketBroadcaster" }

// String implements engine.Process.
func (b *Broadcaster) String() string { return engine.Describe(b) }

// Notify implements engine.Process: it rebroadcasts event to every
// attached client and acknowledges regardless of delivery outcome to
// any individual client. It returns an error only when event cannot be
// encoded as JSON.
func (b *Broadcaster) Notify(ctx context.Context, event engine.Event) (engine.NotificationResponse, error) {
	payload, err := json.Marshal(eventEnvelope{EventType: event.Name(), Event: event})
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.WithError(err).Warn("dropping websocket client after write failure")
			conn.Close()
			delete(b.clients, conn)
		}
	}
	return engine.ACK, nil
}

// ClientCount reports how many clients are currently attached.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades incoming connections and attaches them as
// broadcast recipients. It reads (and discards) incoming client
// messages only to detect disconnection, the same role the source's
// ws_server coroutine plays.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()
}

// WaitForClient blocks until at least one client has connected or ctx
// is cancelled, mirroring the source's run() override that waits for a
// client before starting the simulation.
func (b *Broadcaster) WaitForClient(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for b.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
