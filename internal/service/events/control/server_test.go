package control

import (
	"FloatTranslator/internal/config"
	"FloatTranslator/internal/service/visibility"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPoster struct {
	mu     sync.Mutex
	events []visibility.Event
	reject bool
}

func (p *recordingPoster) Post(ev visibility.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false
	}
	p.events = append(p.events, ev)
	return true
}

func (p *recordingPoster) list() []visibility.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]visibility.Event(nil), p.events...)
}

func newTestServer(t *testing.T, token string) (*Server, *recordingPoster, *httptest.Server) {
	t.Helper()
	p := &recordingPoster{}
	s := New(config.ControlServerConfig{Enabled: true, AuthToken: token}, p, zap.NewNop().Sugar())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.hub.closeAll()
		ts.Close()
	})
	return s, p, ts
}

func postEvent(t *testing.T, url, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/event", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestPostEvent(t *testing.T) {
	_, p, ts := newTestServer(t, "")

	resp := postEvent(t, ts.URL, `{"event":"toggle"}`, "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = postEvent(t, ts.URL, `{"event":"Show-Main"}`, "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Equal(t, []visibility.Event{visibility.EventToggle, visibility.EventShowMain}, p.list())
}

func TestPostEventRejectsBadInput(t *testing.T) {
	_, p, ts := newTestServer(t, "")

	assert.Equal(t, http.StatusBadRequest, postEvent(t, ts.URL, `{"event":"dance"}`, "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, postEvent(t, ts.URL, `not json`, "").StatusCode)

	resp, err := http.Get(ts.URL + "/event")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Empty(t, p.list())
}

func TestPostEventAfterExit(t *testing.T) {
	_, p, ts := newTestServer(t, "")
	p.reject = true
	assert.Equal(t, http.StatusServiceUnavailable, postEvent(t, ts.URL, `{"event":"exit"}`, "").StatusCode)
}

func TestAuthToken(t *testing.T) {
	_, p, ts := newTestServer(t, "s3cret")

	assert.Equal(t, http.StatusUnauthorized, postEvent(t, ts.URL, `{"event":"toggle"}`, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, postEvent(t, ts.URL, `{"event":"toggle"}`, "wrong").StatusCode)
	assert.Equal(t, http.StatusAccepted, postEvent(t, ts.URL, `{"event":"toggle"}`, "s3cret").StatusCode)
	assert.Equal(t, []visibility.Event{visibility.EventToggle}, p.list())

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebSocketFeed(t *testing.T) {
	s, _, ts := newTestServer(t, "tok")

	hdr := http.Header{"Authorization": []string{"Bearer tok"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), hdr)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.count() == 1 }, time.Second, 5*time.Millisecond)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Publish(visibility.Transition{
		From:  visibility.StateMainShown,
		To:    visibility.StateBallShown,
		Event: visibility.EventCloseMain,
		At:    at,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "main_shown", m.From)
	assert.Equal(t, "ball_shown", m.To)
	assert.Equal(t, "close_main", m.Event)
	assert.True(t, at.Equal(m.At))
}

func TestWebSocketDisconnectUnsubscribes(t *testing.T) {
	s, _, ts := newTestServer(t, "")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.hub.count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.hub.count() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestWSRequiresUpgrade(t *testing.T) {
	_, _, ts := newTestServer(t, "")
	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestStartStop(t *testing.T) {
	p := &recordingPoster{}
	s := New(config.ControlServerConfig{Enabled: true, BindAddr: "127.0.0.1:0"}, p, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.NotEqual(t, "127.0.0.1:0", s.Addr())

	resp := postEvent(t, "http://"+s.Addr(), `{"event":"exit"}`, "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []visibility.Event{visibility.EventExit}, p.list())

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	_, err := http.Post("http://"+s.Addr()+"/event", "application/json", strings.NewReader(`{}`))
	assert.Error(t, err)
}
