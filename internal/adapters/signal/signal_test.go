package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/app/orch"
	"github.com/dkeye/Meetcast/internal/core"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokens map[domain.MeetingCode]string

func (t tokens) LookupHostToken(_ context.Context, code domain.MeetingCode) (string, bool, error) {
	tok, ok := t[code]
	return tok, ok, nil
}

func newServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Auth:     app.NewHostAuthenticator(tokens{"ABC": "secret"}, nil),
		Policy:   app.SimplePolicy{Action: app.MarkDead},
	}
	ctrl := NewSignalWSController(o, Options{ReadLimit: 4096, WriteWait: time.Second, SendBuffer: 16})

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctrl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		o.CloseAll()
		cancel()
		srv.Close()
	})
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func send(t *testing.T, c *websocket.Conn, v string) {
	t.Helper()
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(v)))
}

func next(t *testing.T, c *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestSignalJoinAndPresence(t *testing.T) {
	srv, o := newServer(t)

	host := dial(t, srv)
	send(t, host, `{"type":"join","meetingCode":"ABC","role":"host","token":"secret"}`)
	ev := next(t, host)
	assert.Equal(t, "viewer_count", ev["type"])
	assert.EqualValues(t, 0, ev["count"])

	viewer := dial(t, srv)
	send(t, viewer, `{"type":"join","meetingCode":"ABC","role":"viewer","name":"Alice"}`)
	ev = next(t, viewer)
	assert.Equal(t, "viewer_count", ev["type"])
	assert.Equal(t, []any{"Alice"}, ev["viewers"])

	ev = next(t, host)
	assert.Equal(t, "viewer_joined", ev["type"])
	assert.Equal(t, "Alice", ev["name"])

	send(t, host, `{"type":"pause_stream"}`)
	assert.Equal(t, "stream_paused", next(t, viewer)["type"])

	require.NoError(t, viewer.Close())
	ev = next(t, host)
	assert.Equal(t, "viewer_left", ev["type"])
	assert.EqualValues(t, 0, ev["count"])

	p, ok := o.Presence("ABC")
	require.True(t, ok)
	assert.Equal(t, 0, p.Count)
}

func TestSignalMalformedMessagesAreDropped(t *testing.T) {
	srv, _ := newServer(t)
	c := dial(t, srv)

	send(t, c, `garbage`)
	send(t, c, `{"type":"join","role":"viewer"}`)
	send(t, c, `{"type":"unknown"}`)
	send(t, c, `{"type":"ping"}`)
	assert.Equal(t, "pong", next(t, c)["type"])
}

func TestSignalRejectedHostGetsErrorThenClose(t *testing.T) {
	srv, o := newServer(t)
	c := dial(t, srv)

	send(t, c, `{"type":"join","meetingCode":"ABC","role":"host","token":"wrong"}`)
	ev := next(t, c)
	assert.Equal(t, "error", ev["type"])
	assert.Equal(t, "invalid host token", ev["message"])

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	_, ok := o.Presence("ABC")
	assert.False(t, ok)
}

func TestSignalHostWithoutTokenIsRejected(t *testing.T) {
	srv, _ := newServer(t)
	c := dial(t, srv)

	send(t, c, `{"type":"join","meetingCode":"ABC","role":"host"}`)
	ev := next(t, c)
	assert.Equal(t, "error", ev["type"])
	assert.Equal(t, "invalid host token", ev["message"])
}

func TestSignalPongRefreshesLiveness(t *testing.T) {
	srv, o := newServer(t)
	c := dial(t, srv)
	// The default client ping handler answers with a pong.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool { return o.Registry.Len() == 1 }, time.Second, 5*time.Millisecond)
	sess := o.Registry.Sessions()[0]
	require.True(t, sess.ClearAlive())
	require.NoError(t, sess.Signal().Ping())
	require.Eventually(t, sess.Alive, time.Second, 5*time.Millisecond)
}

func TestWsSignalConnBackpressure(t *testing.T) {
	c := &WsSignalConn{send: make(chan core.Frame, 1)}
	require.NoError(t, c.TrySend([]byte("a")))
	assert.ErrorIs(t, c.TrySend([]byte("b")), domain.ErrBackpressure)

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.TrySend([]byte("c")), domain.ErrConnectionClosed)
}
