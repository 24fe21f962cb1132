package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, ws *WebServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(ws)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketSweepStream(t *testing.T) {
	ws := newTestServer(t, nil, nil)
	conn := dialTestServer(t, ws)

	hello := readMessage(t, conn)
	require.Equal(t, MessageStatusUpdate, hello.Type)
	require.NotNil(t, hello.Health)
	assert.Equal(t, 1, hello.Health.System.WebSocketClients)

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type: MessageSweep,
		Params: map[string]string{
			"from": "2016-04-20",
			"to":   "2016-04-30",
			"lat":  "58",
			"kp":   "61.9",
		},
	}))

	var points int
	for {
		msg := readMessage(t, conn)
		if msg.Type == MessageSweepDone {
			assert.Equal(t, 11, msg.Days)
			assert.Equal(t, []string{"2016-04-27"}, msg.Alignments)
			break
		}
		require.Equal(t, MessageSweepPoint, msg.Type, msg.Error)
		require.NotNil(t, msg.Point)
		assert.Equal(t, 20+points, msg.Point.Date.Day())
		points++
	}
	assert.Equal(t, 11, points)
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	ws := newTestServer(t, nil, nil)
	conn := dialTestServer(t, ws)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "invalid message")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "subscribe"}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "unknown message type")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageSweep, Params: map[string]string{"lat": "north"}}))
	msg = readMessage(t, conn)
	assert.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error, "invalid parameter lat")
}

func TestBroadcastStatus(t *testing.T) {
	ws := newTestServer(t, nil, nil)
	conn := dialTestServer(t, ws)
	readMessage(t, conn)

	require.Eventually(t, func() bool { return ws.clientCount() == 1 }, time.Second, 10*time.Millisecond)
	ws.broadcast()

	msg := readMessage(t, conn)
	assert.Equal(t, MessageStatusUpdate, msg.Type)
	assert.Equal(t, "healthy", msg.Health.Status)
}

func TestSlowClientDoesNotBlockRequests(t *testing.T) {
	ws := newTestServer(t, nil, nil)
	conn := dialTestServer(t, ws)
	readMessage(t, conn)

	var client *wsClient
	ws.clients.Range(func(key, _ any) bool {
		client = key.(*wsClient)
		return false
	})
	require.NotNil(t, client)

	// Hold the connection as a write in progress would.
	client.mu.Lock()
	done := make(chan error, 1)
	go func() {
		done <- ws.streamSweep(context.Background(), client, map[string]string{
			"from": "2016-04-20",
			"to":   "2016-04-30",
			"lat":  "58",
			"kp":   "61.9",
		})
	}()

	served := make(chan int, 1)
	go func() {
		served <- get(t, ws, "/api/azimuth?date=2016-04-27", nil).Code
	}()
	select {
	case code := <-served:
		assert.Equal(t, 200, code)
	case <-time.After(10 * time.Second):
		t.Fatal("azimuth request waited for the websocket client")
	}

	client.mu.Unlock()
	require.NoError(t, <-done)

	for n := 0; n < 11; n++ {
		assert.Equal(t, MessageSweepPoint, readMessage(t, conn).Type)
	}
	msg := readMessage(t, conn)
	assert.Equal(t, MessageSweepDone, msg.Type)
	assert.Equal(t, []string{"2016-04-27"}, msg.Alignments)
}
