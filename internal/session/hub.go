package session

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tobyjaguar/thecity/internal/perception"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// Hub tracks every live session and the grace-window record needed to
// reattach a reconnecting player to the same resident (design doc
// Section 4.7: "on reconnect with a valid credential within a grace
// window the session is re-attached to the same resident").
type Hub struct {
	mu sync.Mutex

	byResident map[worldstate.ResidentID][]*Session // a resident's player session plus any spectators
	detached   map[worldstate.ResidentID]time.Time   // resident id -> disconnect time, within GraceWindow

	GraceWindow time.Duration

	upgrader websocket.Upgrader
}

// NewHub constructs a Hub with the given reconnect grace window.
func NewHub(graceWindow time.Duration) *Hub {
	return &Hub{
		byResident: make(map[worldstate.ResidentID][]*Session),
		detached:   make(map[worldstate.ResidentID]time.Time),
		GraceWindow: graceWindow,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register adds a session to the hub, clearing any pending detached
// record for its resident (a fresh attach, whether brand new or a
// reconnect).
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.byResident[s.ResidentID] = append(h.byResident[s.ResidentID], s)
	delete(h.detached, s.ResidentID)
}

// Unregister removes a session. If it was the resident's player session,
// the resident enters the reconnect grace window rather than being
// dropped immediately.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.byResident[s.ResidentID]
	for i, existing := range list {
		if existing == s {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.byResident, s.ResidentID)
	} else {
		h.byResident[s.ResidentID] = list
	}
	if s.Kind == KindPlayer {
		h.detached[s.ResidentID] = time.Now()
	}
}

// WithinGraceWindow reports whether a resident disconnected recently
// enough to still be eligible for reattachment.
func (h *Hub) WithinGraceWindow(id worldstate.ResidentID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.detached[id]
	return ok && time.Since(t) <= h.GraceWindow
}

// SessionsFor returns every live session following a resident (its
// player session, if connected, plus any spectators).
func (h *Hub) SessionsFor(id worldstate.ResidentID) []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, len(h.byResident[id]))
	copy(out, h.byResident[id])
	return out
}

// Broadcast enqueues a frame on every session following resident id —
// used to fan a resident's perception out to its player session and any
// spectators (design doc Section 4.4: "Spectator sessions receive the
// same perception stream as the followed resident").
func (h *Hub) Broadcast(id worldstate.ResidentID, f Frame) {
	for _, s := range h.SessionsFor(id) {
		s.Enqueue(f)
	}
}

// BroadcastPerception adapts a perception.Update into an outbound frame
// and fans it to the resident's player session and any spectators
// following it. Exposed as an engine.PerceptionSink via a closure at
// wiring time.
func (h *Hub) BroadcastPerception(id worldstate.ResidentID, update perception.Update) {
	h.Broadcast(id, Frame{Type: "perception", Data: update})
}

// FlushWriter drains a session's outbound queue and writes each frame as
// a length-framed JSON text message (design doc Section 6: "a streaming
// bidirectional frame-based connection ... each frame is a length-
// prefixed text payload").
func FlushWriter(s *Session, conn *websocket.Conn) error {
	for _, f := range s.Drain() {
		payload, err := json.Marshal(f)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	return nil
}
