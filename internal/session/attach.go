package session

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tobyjaguar/thecity/internal/auth"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

const defaultWriteInterval = 250 * time.Millisecond

// Attacher wires the /connect endpoint to the Token Authority and World
// State: verify a credential or a spectate target, upgrade the socket,
// and start the session's reader/writer pair (design doc Section 4.7).
type Attacher struct {
	Hub   *Hub
	Auth  *auth.Authority
	World *worldstate.World

	WriteInterval time.Duration // defaults to 250ms (4Hz) if zero
}

// ServeHTTP implements the `/connect` endpoint: `?token=<credential>`
// attaches a player session, `?spectate=<resident_id>` attaches a
// read-only spectator session (design doc Section 6).
func (a *Attacher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get("token"); token != "" {
		a.attachPlayer(w, r, token)
		return
	}
	if spec := r.URL.Query().Get("spectate"); spec != "" {
		a.attachSpectator(w, r, spec)
		return
	}
	http.Error(w, "missing token or spectate parameter", http.StatusBadRequest)
}

func (a *Attacher) attachPlayer(w http.ResponseWriter, r *http.Request, token string) {
	claims, err := a.Auth.Verify(token)
	if err != nil {
		conn, upErr := a.Hub.Upgrade(w, r)
		if upErr != nil {
			return
		}
		s := New(conn, KindPlayer, 0)
		s.Close(CloseBadCredential)
		conn.Close()
		return
	}

	resident := a.World.Resident(claims.ResidentID)
	if resident == nil {
		conn, upErr := a.Hub.Upgrade(w, r)
		if upErr != nil {
			return
		}
		s := New(conn, KindPlayer, claims.ResidentID)
		s.Close(CloseUnknownResident)
		conn.Close()
		return
	}

	conn, err := a.Hub.Upgrade(w, r)
	if err != nil {
		return
	}
	if resident.Status != worldstate.StatusAlive {
		s := New(conn, KindPlayer, resident.ID)
		s.Close(CloseAlreadyDead)
		conn.Close()
		return
	}

	s := New(conn, KindPlayer, resident.ID)
	a.Hub.Register(s)
	a.runPumps(s, conn)
}

func (a *Attacher) attachSpectator(w http.ResponseWriter, r *http.Request, raw string) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid spectate id", http.StatusBadRequest)
		return
	}
	id := worldstate.ResidentID(n)

	conn, err := a.Hub.Upgrade(w, r)
	if err != nil {
		return
	}
	if a.World.Resident(id) == nil {
		s := New(conn, KindSpectator, id)
		s.Close(CloseUnknownResident)
		conn.Close()
		return
	}

	s := New(conn, KindSpectator, id)
	a.Hub.Register(s)
	a.runPumps(s, conn)
}

// runPumps registers the reader/writer pair for an attached session and
// blocks the accepting handler's goroutine until the reader exits — the
// handshake goroutine per connection becomes that connection's single
// inbound reader (design doc Section 4.7 "a single inbound reader and a
// single outbound writer").
func (a *Attacher) runPumps(s *Session, conn *websocket.Conn) {
	interval := a.WriteInterval
	if interval == 0 {
		interval = defaultWriteInterval
	}
	go WritePump(s, conn, interval)
	ReadPump(s, conn, func() {
		a.Hub.Unregister(s)
	})
}
