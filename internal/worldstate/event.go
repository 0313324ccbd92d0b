package worldstate

// EventType enumerates the narrative event types the engine appends to
// the persistence event log for every state-changing action (spec §6).
type EventType string

const (
	EventArrival         EventType = "arrival"
	EventDepart          EventType = "depart"
	EventDeath           EventType = "death"
	EventSpeak           EventType = "speak"
	EventTrade           EventType = "trade"
	EventGive            EventType = "give"
	EventApplyJob        EventType = "apply_job"
	EventQuitJob         EventType = "quit_job"
	EventShiftComplete   EventType = "shift_complete"
	EventWritePetition   EventType = "write_petition"
	EventVotePetition    EventType = "vote_petition"
	EventBuy             EventType = "buy"
	EventCollectUBI      EventType = "collect_ubi"
	EventForage          EventType = "forage"
	EventCollapse        EventType = "collapse"
	EventBladderAccident EventType = "bladder_accident"
	EventCollectBody     EventType = "collect_body"
	EventProcessBody     EventType = "process_body"
	EventArrest          EventType = "arrest"
	EventBookSuspect     EventType = "book_suspect"
	EventLawViolation    EventType = "law_violation"
)

// Event is one row of the append-only narrative log (spec §6's
// `events` table: {id, timestamp, type, resident_id?, target_id?,
// building_id?, x?, y?, data_json}).
type Event struct {
	ID         uint64
	GameS      float64
	Type       EventType
	ResidentID *ResidentID
	TargetID   *ResidentID
	BuildingID *uint64
	X, Y       *float64
	Data       map[string]any
}
