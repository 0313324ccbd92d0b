// Package session implements the Session Layer: one logical session per
// connected client, authenticating, binding to a resident (player) or
// subscribing to another's perception stream (spectator), with framed
// bidirectional messaging, bounded backpressure, and reconnect-within-
// grace-window (design doc Section 4.7).
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// Kind distinguishes a controlling player session from a read-only
// spectator session.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindSpectator
)

// CloseReason names why a session ended, mapped to a wire close code by
// the transport (design doc Section 4.7: BadCredential→4003, clean→1000).
type CloseReason uint8

const (
	CloseClean CloseReason = iota
	CloseBadCredential
	CloseUnknownResident
	CloseAlreadyDead
	CloseStalled
)

// outboundBound is the default size of a session's outbound queue before
// the oldest perception tick is dropped (design doc Section 4.7).
const outboundBound = 64

// outboundStallTimeout is how long a persistently full outbound queue is
// tolerated before the session is closed (design doc Section 5).
const outboundStallTimeout = 5 * time.Second

// Session is one logical connection: a single inbound reader and single
// outbound writer goroutine pair, talking to the engine only via
// channels (design doc Section 9 — "per-session actor-like tasks ... the
// tick worker never awaits a socket").
type Session struct {
	ID         string
	Kind       Kind
	ResidentID worldstate.ResidentID

	conn *websocket.Conn

	mu       sync.Mutex
	outbound []Frame
	closed   bool
	lastFull time.Time

	Commands chan action.Command // drained by the engine's inbound phase

	createdAt time.Time
}

// Frame is one outbound wire message, tagged by Type as the wire
// discriminant (design doc Section 6).
type Frame struct {
	Type string
	Seq  uint64
	Data any
}

// New constructs a Session bound to a resident, wrapping an already
// upgraded websocket connection.
func New(conn *websocket.Conn, kind Kind, residentID worldstate.ResidentID) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Kind:       kind,
		ResidentID: residentID,
		conn:       conn,
		Commands:   make(chan action.Command, 32),
		createdAt:  time.Now(),
	}
}

// Enqueue appends an outbound frame, applying the drop-oldest-perception
// backpressure policy: when the queue is at its bound, the oldest
// `perception` frame is evicted before the new frame is appended. Speech,
// event, pain, and all other frame kinds are never dropped (design doc
// Section 4.7).
func (s *Session) Enqueue(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if len(s.outbound) >= outboundBound {
		if !s.dropOldestPerceptionLocked() {
			// Queue is full of non-droppable frames; record the stall start
			// so the transport can enforce the 5s close-on-persistent-overflow
			// rule (design doc Section 5).
			if s.lastFull.IsZero() {
				s.lastFull = time.Now()
			}
		}
	} else {
		s.lastFull = time.Time{}
	}
	s.outbound = append(s.outbound, f)
}

func (s *Session) dropOldestPerceptionLocked() bool {
	for i, existing := range s.outbound {
		if existing.Type == "perception" {
			s.outbound = append(s.outbound[:i], s.outbound[i+1:]...)
			return true
		}
	}
	return false
}

// Stalled reports whether the outbound queue has been persistently full
// (no droppable frame) for longer than the stall timeout.
func (s *Session) Stalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastFull.IsZero() && time.Since(s.lastFull) > outboundStallTimeout
}

// Drain removes and returns every queued outbound frame.
func (s *Session) Drain() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbound
	s.outbound = nil
	return out
}

// Close marks the session closed; pending inbound commands are
// discarded (design doc Section 4.7 "On socket close, pending commands
// are discarded").
func (s *Session) Close(reason CloseReason) error {
	s.mu.Lock()
	s.closed = true
	s.outbound = nil
	s.mu.Unlock()

	for drained := false; !drained; {
		select {
		case <-s.Commands:
		default:
			drained = true
		}
	}

	code := websocket.CloseNormalClosure
	switch reason {
	case CloseBadCredential:
		code = 4003
	case CloseUnknownResident, CloseAlreadyDead, CloseStalled:
		code = websocket.CloseAbnormalClosure
	}
	msg := websocket.FormatCloseMessage(code, "")
	return s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(5*time.Second))
}

// Closed reports whether Close has already been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
