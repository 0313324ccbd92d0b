package session

import (
	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// Inbound adapts a Hub into the engine's InboundSource: it drains each
// connected player session's command channel without blocking, so the
// tick worker never awaits a socket (design doc Section 9).
type Inbound struct {
	hub *Hub
}

// NewInbound wraps a Hub for consumption by the engine.
func NewInbound(hub *Hub) *Inbound {
	return &Inbound{hub: hub}
}

// ResidentIDs returns every resident with at least one live session,
// player or spectator — spectators never queue commands, so Drain
// naturally returns nothing for them.
func (in *Inbound) ResidentIDs() []worldstate.ResidentID {
	in.hub.mu.Lock()
	defer in.hub.mu.Unlock()
	ids := make([]worldstate.ResidentID, 0, len(in.hub.byResident))
	for id := range in.hub.byResident {
		ids = append(ids, id)
	}
	return ids
}

// Drain empties the resident's player session command channel. A
// spectator session never has commands enqueued on it by the transport
// (ReadPump enforces read-only), so only the player session, if any,
// contributes commands here.
func (in *Inbound) Drain(id worldstate.ResidentID) []action.Command {
	var out []action.Command
	for _, s := range in.hub.SessionsFor(id) {
		if s.Kind != KindPlayer {
			continue
		}
		for {
			select {
			case cmd := <-s.Commands:
				out = append(out, cmd)
			default:
				return out
			}
		}
	}
	return out
}
