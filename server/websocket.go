package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devskill-org/sunazimuth/azimuth"
)

const (
	writeWait      = 10 * time.Second
	statusInterval = 5 * time.Second
)

// WebSocket message types
const (
	MessageSweep        = "sweep"
	MessageSweepPoint   = "sweep_point"
	MessageSweepDone    = "sweep_done"
	MessageStatusUpdate = "status_update"
	MessageError        = "error"
)

// ClientMessage is sent by a WebSocket client. Params takes the same keys as
// the /api/sweep query.
type ClientMessage struct {
	Type   string            `json:"type"`
	Params map[string]string `json:"params"`
}

// ServerMessage is sent to WebSocket clients.
type ServerMessage struct {
	Type       string              `json:"type"`
	Point      *azimuth.SweepPoint `json:"point,omitempty"`
	Days       int                 `json:"days,omitempty"`
	Alignments []string            `json:"alignments,omitempty"`
	Health     *HealthResponse     `json:"health,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// wsClient serializes writes to one connection.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// wsHandler handles WebSocket connections
func (ws *WebServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Sweeps arrive whenever the client wants one.
	conn.SetReadDeadline(time.Time{})

	client := &wsClient{conn: conn}
	ws.clients.Store(client, struct{}{})
	ws.metrics.WebSocketClients.Inc()
	ws.logger.Printf("New WebSocket client connected. Total clients: %d", ws.clientCount())

	// Send initial data immediately
	health := ws.buildHealth()
	if err := client.send(ServerMessage{Type: MessageStatusUpdate, Health: &health}); err != nil {
		ws.logger.Printf("Failed to send initial data: %v", err)
	}

	// Handle client disconnection
	defer func() {
		ws.clients.Delete(client)
		ws.metrics.WebSocketClients.Dec()
		conn.Close()
		ws.logger.Printf("WebSocket client disconnected. Total clients: %d", ws.clientCount())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ws.logger.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			client.send(ServerMessage{Type: MessageError, Error: "invalid message: " + err.Error()})
			continue
		}
		if msg.Type != MessageSweep {
			client.send(ServerMessage{Type: MessageError, Error: "unknown message type: " + msg.Type})
			continue
		}
		if err := ws.streamSweep(r.Context(), client, msg.Params); err != nil {
			ws.logger.Printf("WebSocket sweep failed: %v", err)
			if err := client.send(ServerMessage{Type: MessageError, Error: err.Error()}); err != nil {
				return
			}
		}
	}
}

// streamSweep sends every point of the requested sweep as it is computed.
func (ws *WebServer) streamSweep(ctx context.Context, client *wsClient, params map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, ws.config.RequestTimeout)
	defer cancel()

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	sweep, _, err := ws.parseSweep(ctx, q)
	if err != nil {
		ws.metrics.Requests.WithLabelValues("ws_sweep", "bad_request").Inc()
		return err
	}

	// The sweep holds the provider session; writes happen outside it so a
	// slow client does not stall other requests. The buffer fits every point.
	queue := make(chan azimuth.SweepPoint, sweep.Days())
	written := make(chan error, 1)
	go func() {
		var err error
		for p := range queue {
			if err == nil {
				err = client.send(ServerMessage{Type: MessageSweepPoint, Point: &p})
			}
		}
		written <- err
	}()

	points, err := ws.runSweep(ctx, sweep, func(p azimuth.SweepPoint) error {
		queue <- p
		return nil
	})
	close(queue)
	if werr := <-written; err == nil {
		err = werr
	}
	if err != nil {
		ws.metrics.Requests.WithLabelValues("ws_sweep", "error").Inc()
		return err
	}

	done := ServerMessage{Type: MessageSweepDone, Days: len(points)}
	for _, p := range azimuth.Alignments(points) {
		done.Alignments = append(done.Alignments, p.Date.Format(time.DateOnly))
	}
	ws.metrics.Requests.WithLabelValues("ws_sweep", "ok").Inc()
	return client.send(done)
}

// broadcastStatus periodically sends the health to every client
func (ws *WebServer) broadcastStatus() {
	ticker := ws.clock.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			ws.broadcast()
		case <-ws.done:
			return
		}
	}
}

func (ws *WebServer) broadcast() {
	if ws.clientCount() == 0 {
		return
	}
	health := ws.buildHealth()
	msg := ServerMessage{Type: MessageStatusUpdate, Health: &health}
	ws.clients.Range(func(key, value any) bool {
		client, ok := key.(*wsClient)
		if !ok {
			return true
		}
		if err := client.send(msg); err != nil {
			ws.logger.Printf("WebSocket write error: %v", err)
			client.conn.Close()
			ws.clients.Delete(client)
		}
		return true
	})
}

func (ws *WebServer) clientCount() int {
	n := 0
	ws.clients.Range(func(key, value any) bool {
		n++
		return true
	})
	return n
}
