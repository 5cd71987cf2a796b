package spectate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thekrainbow/connect6/internal/board"
	"github.com/thekrainbow/connect6/internal/config"
	"github.com/thekrainbow/connect6/internal/session"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	srv := NewServer(config.NewStore(config.DefaultConfig()), logger)
	done := make(chan struct{})
	go srv.Run(done)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		close(done)
	})
	return srv, ts
}

func playedSnapshot(t *testing.T, lines ...string) session.Snapshot {
	t.Helper()
	s := session.New()
	st := s.InitialState()
	for _, line := range lines {
		next, _, err := s.Dispatch(st, line)
		require.NoError(t, err)
		st = next
	}
	return st.Snapshot()
}

func getStatus(t *testing.T, url string) StatusResponse {
	t.Helper()
	resp, err := http.Get(url + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status
}

func TestPing(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestStatusStartsEmpty(t *testing.T) {
	_, ts := newTestServer(t)
	status := getStatus(t, ts.URL)

	assert.Equal(t, board.Size, status.BoardSize)
	require.Len(t, status.Board, board.Size)
	assert.Equal(t, 1, status.NextPlayer)
	assert.Equal(t, 0, status.MoveCount)
	assert.Equal(t, 0, status.Winner)
	assert.Empty(t, status.WinningLine)
	assert.Equal(t, 3000, status.TimeMs)
	assert.Equal(t, "Connect6 Engine", status.Config.EngineName)
}

func TestStatusFollowsObservedSnapshots(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Observe(playedSnapshot(t, "black JJ", "white KKLL", "depth 700"))

	status := getStatus(t, ts.URL)
	assert.Equal(t, 3, status.MoveCount)
	assert.Equal(t, 1, status.NextPlayer)
	assert.Equal(t, 1, status.Board[9][9])
	assert.Equal(t, 2, status.Board[10][10])
	assert.Equal(t, 2, status.Board[11][11])
	assert.Equal(t, 700, status.TimeMs)
}

func TestStatusReportsWinner(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.Observe(playedSnapshot(t,
		"black AA", "white ASCS",
		"black BACA", "white ESGS",
		"black DAEA", "white ISKS",
		"black FAGA",
	))

	status := srv.Status()
	assert.Equal(t, 1, status.Winner)
	require.Len(t, status.WinningLine, 7)
	assert.Equal(t, board.Coordinate{X: 0, Y: 0}, status.WinningLine[0])
}

func TestBoardText(t *testing.T) {
	srv, ts := newTestServer(t)
	srv.Observe(playedSnapshot(t, "black AS"))

	resp, err := http.Get(ts.URL + "/api/board")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	require.Len(t, lines, board.Size+1)
	assert.True(t, strings.HasPrefix(lines[1], " S X"), lines[1])
}

func readStatus(t *testing.T, conn *websocket.Conn) StatusResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "status", msg.Type)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &status))
	return status
}

func TestWebsocketFeed(t *testing.T) {
	srv, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readStatus(t, conn)
	assert.Equal(t, 0, first.MoveCount)

	require.Eventually(t, srv.hub.HasClients, 5*time.Second, 10*time.Millisecond)
	srv.Observe(playedSnapshot(t, "black JJ"))
	update := readStatus(t, conn)
	assert.Equal(t, 1, update.MoveCount)
	assert.Equal(t, 2, update.NextPlayer)

	require.NoError(t, conn.WriteJSON(wsMessage{Type: "request_status"}))
	again := readStatus(t, conn)
	assert.Equal(t, 1, again.MoveCount)
}

func TestServeStopsWithContext(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := NewServer(config.NewStore(config.DefaultConfig()), logger)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish(StatusResponse{MoveCount: i})
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go hub.Run(done)

	c := &Client{hub: hub, send: make(chan []byte, 1), quit: make(chan struct{})}
	hub.Register(c)
	require.Eventually(t, hub.HasClients, time.Second, time.Millisecond)

	close(done)
	select {
	case <-c.quit:
	case <-time.After(time.Second):
		t.Fatal("client not closed when hub stopped")
	}
	assert.False(t, hub.HasClients())

	late := &Client{hub: hub, send: make(chan []byte, 1), quit: make(chan struct{})}
	hub.Register(late)
	_, open := <-late.quit
	assert.False(t, open)
	hub.Unregister(late)
}
