package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/app/orch"
	"github.com/dkeye/Meetcast/internal/config"
	"github.com/dkeye/Meetcast/internal/core/coretest"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noAuth struct{}

func (noAuth) Authenticate(context.Context, domain.MeetingCode, string) error { return nil }

func newRouter(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRoomManager(),
		Auth:     noAuth{},
		Policy:   app.SimplePolicy{Action: app.MarkDead},
	}
	cfg := &config.Config{Mode: "test", ReadLimit: 4096, SendBuffer: 8}
	return SetupRouter(context.Background(), cfg, o), o
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t)
	w := get(r, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(headerRequestID, "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(headerRequestID))
}

func TestRoomsAndPresence(t *testing.T) {
	r, o := newRouter(t)

	w := get(r, "/api/rooms")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = get(r, "/api/rooms/ABC/presence")
	assert.Equal(t, http.StatusNotFound, w.Code)

	o.Connect("h", coretest.NewConn())
	require.NoError(t, o.HandleJoin(context.Background(), "h", orch.JoinRequest{Code: "ABC", Role: domain.RoleHost, Token: "t"}))
	o.Connect("a", coretest.NewConn())
	require.NoError(t, o.HandleJoin(context.Background(), "a", orch.JoinRequest{Code: "ABC", Role: domain.RoleViewer, Name: "Alice"}))

	w = get(r, "/api/rooms/ABC/presence")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1,"viewers":["Alice"]}`, w.Body.String())

	w = get(r, "/api/rooms")
	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "ABC", rooms[0]["code"])
	assert.EqualValues(t, 2, rooms[0]["member_count"])
	assert.EqualValues(t, 1, rooms[0]["viewer_count"])
}

func TestClientTokenCookie(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/health")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ct", cookies[0].Name)
	_, err := uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.AddCookie(&http.Cookie{Name: "ct", Value: "known-client"})
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies(), "an existing client token is kept")
}
