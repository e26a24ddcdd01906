// Package preview streams frames and diagnostics to browser clients over
// websockets and accepts remote input events in return.
package preview

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/funtimes-sketchpad/internal/diagnostics"
	"github.com/coreman2200/funtimes-sketchpad/internal/input"
	"github.com/coreman2200/funtimes-sketchpad/internal/render"
)

const writeWait = 200 * time.Millisecond

type Options struct {
	// Dispatch receives decoded control events. It is called from the
	// connection goroutine, so it should hand the event to the loop
	// goroutine rather than touching sketch state directly.
	Dispatch func(*input.Event)
	// Clock stamps events that arrive without a timeStamp.
	Clock func() time.Duration
	// Status adds fields to /health.
	Status func() map[string]any
}

// Server is an output.Sink and a diagnostics.Publisher.
type Server struct {
	opts Options

	mu          sync.Mutex
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	frameID     uint64
	width       int
	height      int
	startTime   time.Time
	closed      bool

	upgrader websocket.Upgrader
}

func NewServer(opts Options) *Server {
	if opts.Clock == nil {
		start := time.Now()
		opts.Clock = func() time.Duration { return time.Since(start) }
	}
	return &Server{
		opts:        opts,
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		startTime:   time.Now(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler routes /ws, /diag, /control and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	s.subscribe(w, r, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	s.subscribe(w, r, s.diagClients)
}

// subscribe registers a write-only client and drains its reads until it
// goes away.
func (s *Server) subscribe(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	set[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// controlMessage is an input.Event with an optional timestamp in
// milliseconds, the way browsers report event.timeStamp.
type controlMessage struct {
	input.Event
	TimeStamp float64 `json:"timeStamp,omitempty"`
}

type controlReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMessage
		reply := controlReply{OK: true}
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = controlReply{Error: err.Error()}
		} else if msg.Type == "" {
			reply = controlReply{Error: "missing event type"}
		} else {
			ev := msg.Event
			if msg.TimeStamp > 0 {
				ev.Time = time.Duration(msg.TimeStamp * float64(time.Millisecond))
			} else {
				ev.Time = s.opts.Clock()
			}
			if s.opts.Dispatch != nil {
				s.opts.Dispatch(&ev)
			}
		}
		b, _ := json.Marshal(reply)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"width":    s.width,
		"height":   s.height,
		"clients":  len(s.clients),
	}
	s.mu.Unlock()
	if s.opts.Status != nil {
		for k, v := range s.opts.Status() {
			resp[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type frameMessage struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	// RGB is base64 of packed 8-bit triplets.
	RGB string `json:"rgb"`
}

// Write broadcasts the frame to /ws clients.
func (s *Server) Write(f *render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID++
	s.width, s.height = f.Width, f.Height
	if len(s.clients) == 0 {
		return nil
	}
	b, err := json.Marshal(frameMessage{
		T:       time.Now().UnixNano(),
		FrameID: s.frameID,
		Width:   f.Width,
		Height:  f.Height,
		RGB:     base64.StdEncoding.EncodeToString(f.RGB()),
	})
	if err != nil {
		return err
	}
	s.broadcast(s.clients, b)
	return nil
}

// Publish pushes a diagnostic to /diag clients.
func (s *Server) Publish(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast(s.diagClients, b)
}

// broadcast must be called with s.mu held; it also serialises writers.
func (s *Server) broadcast(set map[*websocket.Conn]bool, b []byte) {
	for c := range set {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("preview write")
		}
	}
}

// Close disconnects every subscriber.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, set := range []map[*websocket.Conn]bool{s.clients, s.diagClients} {
		for c := range set {
			c.Close()
		}
	}
	return nil
}

func (s *Server) String() string { return "preview" }
