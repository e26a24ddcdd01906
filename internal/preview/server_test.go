package preview

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/funtimes-sketchpad/internal/diagnostics"
	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func subscribers(s *Server, set map[*websocket.Conn]bool) func() bool {
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(set) > 0
	}
}

func TestFrameBroadcast(t *testing.T) {
	s := NewServer(Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := dial(t, srv, "/ws")
	require.Eventually(t, subscribers(s, s.clients), time.Second, 5*time.Millisecond)

	f := render.NewFrame(2, 1)
	f.Pix[1] = render.White
	require.NoError(t, s.Write(f))

	c.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)

	var msg frameMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, uint64(1), msg.FrameID)
	assert.Equal(t, 2, msg.Width)
	rgb, err := base64.StdEncoding.DecodeString(msg.RGB)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 255, 255, 255}, rgb)
}

func TestDiagnosticsPush(t *testing.T) {
	s := NewServer(Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := dial(t, srv, "/diag")
	require.Eventually(t, subscribers(s, s.diagClients), time.Second, 5*time.Millisecond)

	s.Publish(diag.SlowFrame(50, 16))
	c.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)

	var d diag.Diagnostic
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, "FRAME.SLOW", d.Code)
}

func TestControlDispatchesEvents(t *testing.T) {
	got := make(chan *input.Event, 4)
	s := NewServer(Options{
		Dispatch: func(ev *input.Event) { got <- ev },
		Clock:    func() time.Duration { return 42 * time.Millisecond },
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := dial(t, srv, "/control")
	read := func() controlReply {
		c.SetReadDeadline(time.Now().Add(time.Second))
		var r controlReply
		require.NoError(t, c.ReadJSON(&r))
		return r
	}

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"type":"keyup","key":"ArrowRight","shiftKey":true}`)))
	assert.True(t, read().OK)
	ev := <-got
	assert.Equal(t, input.KeyUp, ev.Type)
	assert.Equal(t, "ArrowRight", ev.Key)
	assert.True(t, ev.Shift)
	assert.Equal(t, 42*time.Millisecond, ev.Time)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"type":"touchstart","touches":[{"clientX":10,"clientY":20}],"timeStamp":1500}`)))
	assert.True(t, read().OK)
	ev = <-got
	assert.Equal(t, 1500*time.Millisecond, ev.Time)
	x, y := ev.Primary()
	assert.Equal(t, [2]float64{10, 20}, [2]float64{x, y})

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"key":"a"}`)))
	assert.Equal(t, "missing event type", read().Error)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.False(t, read().OK)
	assert.Len(t, got, 0)
}

func TestHealth(t *testing.T) {
	s := NewServer(Options{Status: func() map[string]any { return map[string]any{"fps": 30} }})
	require.NoError(t, s.Write(render.NewFrame(3, 2)))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, float64(1), m["frame_id"])
	assert.Equal(t, float64(3), m["width"])
	assert.Equal(t, float64(30), m["fps"])
}

func TestCloseDisconnects(t *testing.T) {
	s := NewServer(Options{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	c := dial(t, srv, "/ws")
	require.Eventually(t, subscribers(s, s.clients), time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())

	c.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, "preview", s.String())
}
