// Package action implements the Action Dispatcher: it consumes one tagged
// inbound command per call, validates and applies it against World State
// under the tick worker's single-writer discipline, and always produces
// exactly one action_result (design doc Section 4.5).
package action

import "github.com/tobyjaguar/thecity/internal/worldstate"

// CommandType is the inbound message discriminant (spec §6's 32 inbound
// tags, minus `auth` which the session layer handles before a command
// ever reaches the dispatcher).
type CommandType string

const (
	CmdMove           CommandType = "move"
	CmdMoveTo         CommandType = "move_to"
	CmdStop           CommandType = "stop"
	CmdFace           CommandType = "face"
	CmdSpeak          CommandType = "speak"
	CmdEat            CommandType = "eat"
	CmdDrink          CommandType = "drink"
	CmdConsume        CommandType = "consume"
	CmdSleep          CommandType = "sleep"
	CmdWake           CommandType = "wake"
	CmdUseToilet      CommandType = "use_toilet"
	CmdEnterBuilding  CommandType = "enter_building"
	CmdExitBuilding   CommandType = "exit_building"
	CmdBuy            CommandType = "buy"
	CmdCollectUBI     CommandType = "collect_ubi"
	CmdInspect        CommandType = "inspect"
	CmdTrade          CommandType = "trade"
	CmdGive           CommandType = "give"
	CmdApplyJob       CommandType = "apply_job"
	CmdQuitJob        CommandType = "quit_job"
	CmdWritePetition  CommandType = "write_petition"
	CmdVotePetition   CommandType = "vote_petition"
	CmdCollectBody    CommandType = "collect_body"
	CmdProcessBody    CommandType = "process_body"
	CmdDepart         CommandType = "depart"
	CmdListJobs       CommandType = "list_jobs"
	CmdListPetitions  CommandType = "list_petitions"
	CmdArrest         CommandType = "arrest"
	CmdBookSuspect    CommandType = "book_suspect"
	CmdForage         CommandType = "forage"
	CmdSubmitFeedback CommandType = "submit_feedback"
)

// Command is one inbound message, already demultiplexed by type. Fields
// irrelevant to a given Type are left zero; the dispatcher reads only
// the fields its handler needs.
type Command struct {
	Type      CommandType
	RequestID string

	DX, DY float64 // move
	X, Y   float64 // move_to target, face target
	Speed  worldstate.DesiredSpeed

	Text   string // speak, submit_feedback
	Volume string // speak
	To     *worldstate.ResidentID

	Item worldstate.ItemType
	Qty  int

	BuildingID uint64
	NodeID     uint64
	JobID      uint64
	PetitionID uint64
	InFavor    bool
	Category   string

	TargetID worldstate.ResidentID
}

// ResultStatus is the outcome discriminant of an action_result.
type ResultStatus string

const (
	StatusOK    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

// Result is the single action_result emitted for every Command (spec
// §4.5: "the dispatcher always emits exactly one action_result").
type Result struct {
	RequestID string
	Status    ResultStatus
	Reason    string
	Data      map[string]any
}

func ok(requestID string, data map[string]any) Result {
	return Result{RequestID: requestID, Status: StatusOK, Data: data}
}

func fail(requestID, reason string) Result {
	return Result{RequestID: requestID, Status: StatusError, Reason: reason}
}
