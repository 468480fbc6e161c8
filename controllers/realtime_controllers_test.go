package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/bakery-app/realtime"
)

func dialFeed(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg realtime.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg.Event
}

func TestRealtimeFeed(t *testing.T) {
	app := newTestApp(t)
	admin, err := app.gate.Register(context.Background(), adminEmail, "segredo123", "Dona")
	require.NoError(t, err)

	app.hub.Publish("orders", []string{"ORD-1"}, realtime.AdminsOnly)
	app.hub.Publish("products", []string{"Broa"}, realtime.Everyone)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	shopper := dialFeed(t, srv, "")
	assert.Equal(t, "products", readEvent(t, shopper), "orders stay in the back-office")

	owner := dialFeed(t, srv, admin.Token)
	assert.Equal(t, "orders", readEvent(t, owner))
	assert.Equal(t, "products", readEvent(t, owner))

	require.Eventually(t, func() bool { return app.hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)
}
