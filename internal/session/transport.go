package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// inboundFrame is the wire shape of one inbound client message: a tagged
// object whose discriminant is `type`, plus whatever fields that command
// needs (design doc Section 6).
type inboundFrame struct {
	Type      string                 `json:"type"`
	RequestID string                 `json:"request_id"`
	DX        float64                `json:"dx"`
	DY        float64                `json:"dy"`
	X         float64                `json:"x"`
	Y         float64                `json:"y"`
	Speed     string                 `json:"speed"`
	Text      string                 `json:"text"`
	Volume    string                 `json:"volume"`
	To        *worldstate.ResidentID `json:"to"`
	Item      int                    `json:"item"`
	Qty       int                    `json:"qty"`
	BuildingID uint64                `json:"building_id"`
	NodeID     uint64                `json:"node_id"`
	JobID      uint64                `json:"job_id"`
	PetitionID uint64                `json:"petition_id"`
	InFavor    bool                  `json:"in_favor"`
	Category   string                `json:"category"`
	TargetID   worldstate.ResidentID `json:"target_id"`
}

func parseSpeed(s string) worldstate.DesiredSpeed {
	switch s {
	case "run":
		return worldstate.SpeedRun
	case "walk":
		return worldstate.SpeedWalk
	default:
		return worldstate.SpeedStop
	}
}

// toCommand translates one decoded inboundFrame into an action.Command,
// or reports ok=false for an unrecognized type (handled by the caller as
// a ValidationFailed action_result, never a panic — design doc Section 9
// "unknown tags are a Validation error, not a panic").
func toCommand(f inboundFrame) (action.Command, bool) {
	t := action.CommandType(f.Type)
	switch t {
	case action.CmdMove, action.CmdMoveTo, action.CmdStop, action.CmdFace, action.CmdSpeak,
		action.CmdEat, action.CmdDrink, action.CmdConsume, action.CmdSleep, action.CmdWake,
		action.CmdUseToilet, action.CmdEnterBuilding, action.CmdExitBuilding, action.CmdBuy,
		action.CmdCollectUBI, action.CmdInspect, action.CmdTrade, action.CmdGive, action.CmdApplyJob,
		action.CmdQuitJob, action.CmdWritePetition, action.CmdVotePetition, action.CmdCollectBody,
		action.CmdProcessBody, action.CmdDepart, action.CmdListJobs, action.CmdListPetitions,
		action.CmdArrest, action.CmdBookSuspect, action.CmdForage, action.CmdSubmitFeedback:
		// recognized
	default:
		return action.Command{}, false
	}
	return action.Command{
		Type:       t,
		RequestID:  f.RequestID,
		DX:         f.DX,
		DY:         f.DY,
		X:          f.X,
		Y:          f.Y,
		Speed:      parseSpeed(f.Speed),
		Text:       f.Text,
		Volume:     f.Volume,
		To:         f.To,
		Item:       worldstate.ItemType(f.Item),
		Qty:        f.Qty,
		BuildingID: f.BuildingID,
		NodeID:     f.NodeID,
		JobID:      f.JobID,
		PetitionID: f.PetitionID,
		InFavor:    f.InFavor,
		Category:   f.Category,
		TargetID:   f.TargetID,
	}, true
}

// ReadPump runs the session's single inbound reader: it decodes frames
// from the socket and either forwards a recognized command to s.Commands
// or enqueues a ValidationFailed action_result, until the socket closes
// (design doc Section 4.7 "a single inbound reader").
func ReadPump(s *Session, conn *websocket.Conn, onClose func()) {
	defer onClose()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var f inboundFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			s.Enqueue(Frame{Type: "error", Data: map[string]any{"reason": "ValidationFailed"}})
			continue
		}
		if s.Kind == KindSpectator {
			s.Enqueue(Frame{Type: "action_result", Data: map[string]any{
				"request_id": f.RequestID, "status": "error", "reason": "ValidationFailed",
			}})
			continue
		}
		cmd, ok := toCommand(f)
		if !ok {
			s.Enqueue(Frame{Type: "action_result", Data: map[string]any{
				"request_id": f.RequestID, "status": "error", "reason": "ValidationFailed",
			}})
			continue
		}
		select {
		case s.Commands <- cmd:
		default:
			// Per-resident inbound bound reached; drop the command rather
			// than block the reader (design doc Section 4.8 "bounded per
			// resident per tick to prevent flooding").
			s.Enqueue(Frame{Type: "action_result", Data: map[string]any{
				"request_id": f.RequestID, "status": "error", "reason": "ValidationFailed",
			}})
		}
	}
}

// WritePump runs the session's single outbound writer: it periodically
// flushes whatever frames have queued, at a rate decoupled from how
// quickly they arrive (design doc Section 4.7 "a single ... outbound
// writer with bounded backpressure").
func WritePump(s *Session, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if s.Closed() {
			return
		}
		if err := FlushWriter(s, conn); err != nil {
			return
		}
		if s.Stalled() {
			s.Close(CloseStalled)
			return
		}
	}
}

// Upgrade upgrades an HTTP request to a websocket connection using the
// hub's configured upgrader.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}
