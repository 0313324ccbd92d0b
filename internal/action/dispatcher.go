package action

import (
	"math"

	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/economy"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// The *EnergyCost constants are the fixed small debits charged for
// activity-driven commands (design doc Section 4.3 "fixed small debits").
const (
	speakEnergyCost     = 0.1
	eatDrinkEnergyCost  = 0.1
	useToiletEnergyCost = 0.1
	voteEnergyCost      = 0.2
	petitionEnergyCost  = 0.5
	forageEnergyCost    = 0.3

	// WalkEnergyPerTile is the activity debit charged per tile of travel,
	// applied by the engine's position phase rather than the dispatcher
	// itself (design doc Section 4.3 "walk ≈ 0.5 per tile").
	WalkEnergyPerTile = 0.5
)

// EventSink receives narrative events for every state-changing command
// (design doc Section 4.6 / Section 6 "events for every state-changing
// action"). The dispatcher appends each event to the world log via
// worldstate.World.AppendEvent and then hands the stored event to this
// sink; with a nil sink the event is not recorded at all. cmd/city wires
// the sink to the persistence worker's event channel.
type EventSink func(worldstate.Event)

// Dispatcher applies inbound commands against World State. One
// Dispatcher is shared by every resident; it holds no per-session state
// of its own (design doc Section 9 "Implicit module-level singletons" —
// replaced by an explicit value owned by the Engine).
type Dispatcher struct {
	World  *worldstate.World
	Config config.Config
	Events EventSink
}

// NewDispatcher constructs a Dispatcher wired to the given world and
// event sink.
func NewDispatcher(w *worldstate.World, cfg config.Config, sink EventSink) *Dispatcher {
	return &Dispatcher{World: w, Config: cfg, Events: sink}
}

func (d *Dispatcher) emit(e worldstate.Event) {
	if d.Events != nil {
		d.Events(d.World.AppendEvent(e))
	}
}

// Dispatch validates and applies one command for resident r, returning
// exactly one Result (design doc Section 4.5).
func (d *Dispatcher) Dispatch(r *worldstate.Resident, cmd Command) Result {
	if r.IsDead() || r.Status == worldstate.StatusDeparted {
		return fail(cmd.RequestID, "AlreadyDead")
	}

	switch cmd.Type {
	case CmdMove:
		return d.move(r, cmd)
	case CmdMoveTo:
		return d.moveTo(r, cmd)
	case CmdStop:
		return d.stop(r, cmd)
	case CmdFace:
		return d.face(r, cmd)
	case CmdSpeak:
		return d.speak(r, cmd)
	case CmdEat:
		return d.eat(r, cmd)
	case CmdDrink:
		return d.drink(r, cmd)
	case CmdConsume:
		return d.consume(r, cmd)
	case CmdSleep:
		return d.sleep(r, cmd)
	case CmdWake:
		return d.wake(r, cmd)
	case CmdUseToilet:
		return d.useToilet(r, cmd)
	case CmdEnterBuilding:
		return d.enterBuilding(r, cmd)
	case CmdExitBuilding:
		return d.exitBuilding(r, cmd)
	case CmdBuy:
		return d.buy(r, cmd)
	case CmdCollectUBI:
		return d.collectUBI(r, cmd)
	case CmdInspect:
		return d.inspect(r, cmd)
	case CmdTrade:
		return d.trade(r, cmd)
	case CmdGive:
		return d.give(r, cmd)
	case CmdApplyJob:
		return d.applyJob(r, cmd)
	case CmdQuitJob:
		return d.quitJob(r, cmd)
	case CmdWritePetition:
		return d.writePetition(r, cmd)
	case CmdVotePetition:
		return d.votePetition(r, cmd)
	case CmdCollectBody:
		return d.collectBody(r, cmd)
	case CmdProcessBody:
		return d.processBody(r, cmd)
	case CmdDepart:
		return d.depart(r, cmd)
	case CmdListJobs:
		return d.listJobs(r, cmd)
	case CmdListPetitions:
		return d.listPetitions(r, cmd)
	case CmdArrest:
		return d.arrest(r, cmd)
	case CmdBookSuspect:
		return d.bookSuspect(r, cmd)
	case CmdForage:
		return d.forage(r, cmd)
	case CmdSubmitFeedback:
		return d.submitFeedback(r, cmd)
	default:
		return fail(cmd.RequestID, "ValidationFailed")
	}
}

func (d *Dispatcher) move(r *worldstate.Resident, cmd Command) Result {
	norm := math.Hypot(cmd.DX, cmd.DY)
	if norm == 0 {
		r.IntentDX, r.IntentDY = 0, 0
	} else {
		r.IntentDX, r.IntentDY = cmd.DX/norm, cmd.DY/norm
	}
	r.PathWaypoints = nil
	r.PathIndex = 0
	r.DesiredSpeed = cmd.Speed
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) moveTo(r *worldstate.Resident, cmd Command) Result {
	path, err := d.World.Map.FindPath(r.X, r.Y, cmd.X, cmd.Y)
	if err != nil {
		return fail(cmd.RequestID, "NoPath")
	}
	r.PathWaypoints = path
	r.PathIndex = 0
	r.DesiredSpeed = cmd.Speed
	if r.DesiredSpeed == worldstate.SpeedStop {
		r.DesiredSpeed = worldstate.SpeedWalk
	}
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) stop(r *worldstate.Resident, cmd Command) Result {
	r.IntentDX, r.IntentDY = 0, 0
	r.PathWaypoints = nil
	r.PathIndex = 0
	r.DesiredSpeed = worldstate.SpeedStop
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) face(r *worldstate.Resident, cmd Command) Result {
	r.FacingDegrees = math.Atan2(cmd.Y-r.Y, cmd.X-r.X) * 180 / math.Pi
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) speak(r *worldstate.Resident, cmd Command) Result {
	if cmd.Text == "" {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if r.Needs.Energy < speakEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	r.Needs.Energy -= speakEnergyCost
	volume := cmd.Volume
	if volume == "" {
		volume = "normal"
	}
	sp := worldstate.PendingSpeech{
		SpeakerID:      r.ID,
		Text:           cmd.Text,
		Volume:         volume,
		To:             cmd.To,
		X:              r.X,
		Y:              r.Y,
		EmittedAtGameS: d.World.Clock.Now(),
	}
	if cmd.To != nil {
		r.LastConversationGameS = sp.EmittedAtGameS
		if target := d.World.Resident(*cmd.To); target != nil {
			target.LastConversationGameS = sp.EmittedAtGameS
		}
	}
	d.World.QueueSpeech(sp)
	d.emit(worldstate.Event{
		GameS:      d.World.Clock.Now(),
		Type:       worldstate.EventSpeak,
		ResidentID: &r.ID,
		TargetID:   cmd.To,
		Data:       map[string]any{"text": cmd.Text, "volume": volume},
	})
	return ok(cmd.RequestID, map[string]any{"speech": sp})
}

func (d *Dispatcher) eat(r *worldstate.Resident, cmd Command) Result {
	item := worldstate.ItemBread
	if !r.HasItem(item) && r.HasItem(worldstate.ItemBerry) {
		item = worldstate.ItemBerry
	}
	return d.consumeItem(r, cmd, item, "Hunger", 35)
}

func (d *Dispatcher) drink(r *worldstate.Resident, cmd Command) Result {
	return d.consumeItem(r, cmd, worldstate.ItemWater, "Thirst", 35)
}

func (d *Dispatcher) consume(r *worldstate.Resident, cmd Command) Result {
	return d.consumeItem(r, cmd, cmd.Item, "", 0)
}

func (d *Dispatcher) consumeItem(r *worldstate.Resident, cmd Command, item worldstate.ItemType, need string, amount float64) Result {
	if !r.HasItem(item) {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if r.Needs.Energy < eatDrinkEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	r.RemoveItem(item, 1)
	r.Needs.Energy -= eatDrinkEnergyCost
	switch need {
	case "Hunger":
		r.Needs.Hunger += amount
	case "Thirst":
		r.Needs.Thirst += amount
	}
	r.Needs.Clamp()
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) sleep(r *worldstate.Resident, cmd Command) Result {
	if r.Needs.Energy > 90 {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	r.IsSleeping = true
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) wake(r *worldstate.Resident, cmd Command) Result {
	r.IsSleeping = false
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) useToilet(r *worldstate.Resident, cmd Command) Result {
	if r.BuildingID == nil {
		return fail(cmd.RequestID, "NotInBuilding")
	}
	b := d.World.Map.Building(*r.BuildingID)
	if b == nil {
		return fail(cmd.RequestID, "WrongBuilding")
	}
	if b.Type.String() != "toilet" {
		return fail(cmd.RequestID, "WrongBuilding")
	}
	if r.Needs.Energy < useToiletEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	r.Needs.Energy -= useToiletEnergyCost
	r.Needs.Bladder = 0
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) enterBuilding(r *worldstate.Resident, cmd Command) Result {
	if r.BuildingID != nil {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	b := d.World.Map.Building(cmd.BuildingID)
	if b == nil {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	tx, ty := d.World.Map.TileAt(r.X, r.Y)
	near := false
	for _, door := range b.Doors {
		if math.Hypot(float64(door.TX-tx), float64(door.TY-ty)) <= 1.5 {
			near = true
			break
		}
	}
	if !near {
		return fail(cmd.RequestID, "RangeExceeded")
	}
	r.BuildingID = &b.ID
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) exitBuilding(r *worldstate.Resident, cmd Command) Result {
	if r.BuildingID == nil {
		return fail(cmd.RequestID, "NotInBuilding")
	}
	r.BuildingID = nil
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) buy(r *worldstate.Resident, cmd Command) Result {
	if err := economy.Buy(d.World, d.Config, r, cmd.Item, cmd.Qty); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventBuy, ResidentID: &r.ID,
		Data: map[string]any{"item": cmd.Item, "qty": cmd.Qty}})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) collectUBI(r *worldstate.Resident, cmd Command) Result {
	if d.Config.UBIAmount == 0 {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if err := economy.CollectUBI(d.World, d.Config, r, d.World.Clock.Now()); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventCollectUBI, ResidentID: &r.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) inspect(r *worldstate.Resident, cmd Command) Result {
	target := d.World.Resident(cmd.TargetID)
	if target == nil {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	return ok(cmd.RequestID, map[string]any{
		"id": target.ID, "name": target.PreferredName, "is_dead": target.IsDead(),
	})
}

func (d *Dispatcher) trade(r *worldstate.Resident, cmd Command) Result {
	target := d.World.Resident(cmd.TargetID)
	if target == nil || target.IsDead() {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if math.Hypot(target.X-r.X, target.Y-r.Y) > economy.InteractionRange {
		return fail(cmd.RequestID, "RangeExceeded")
	}
	if r.Wallet < cmd.Qty {
		return fail(cmd.RequestID, "InsufficientWallet")
	}
	if r.RemoveItem(cmd.Item, 1) != 1 {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	r.Wallet -= cmd.Qty
	target.Wallet += cmd.Qty
	target.AddItem(cmd.Item, 1, -1)
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventTrade, ResidentID: &r.ID, TargetID: &target.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) give(r *worldstate.Resident, cmd Command) Result {
	target := d.World.Resident(cmd.TargetID)
	if target == nil || target.IsDead() {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if math.Hypot(target.X-r.X, target.Y-r.Y) > economy.InteractionRange {
		return fail(cmd.RequestID, "RangeExceeded")
	}
	if r.RemoveItem(cmd.Item, 1) != 1 {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	target.AddItem(cmd.Item, 1, -1)
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventGive, ResidentID: &r.ID, TargetID: &target.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) applyJob(r *worldstate.Resident, cmd Command) Result {
	if err := economy.ApplyForJob(d.World, r, cmd.JobID); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventApplyJob, ResidentID: &r.ID,
		Data: map[string]any{"job_id": cmd.JobID}})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) quitJob(r *worldstate.Resident, cmd Command) Result {
	if err := economy.QuitJob(d.World, r); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventQuitJob, ResidentID: &r.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) writePetition(r *worldstate.Resident, cmd Command) Result {
	if r.Needs.Energy < petitionEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	p, err := economy.WritePetition(d.World, r, cmd.Category, cmd.Text, d.World.Clock.Now())
	if err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	r.Needs.Energy -= petitionEnergyCost
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventWritePetition, ResidentID: &r.ID,
		Data: map[string]any{"petition_id": p.ID}})
	return ok(cmd.RequestID, map[string]any{"petition_id": p.ID})
}

func (d *Dispatcher) votePetition(r *worldstate.Resident, cmd Command) Result {
	if r.Needs.Energy < voteEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	if err := economy.VotePetition(d.World, r, cmd.PetitionID, cmd.InFavor); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	r.Needs.Energy -= voteEnergyCost
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventVotePetition, ResidentID: &r.ID,
		Data: map[string]any{"petition_id": cmd.PetitionID, "in_favor": cmd.InFavor}})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) collectBody(r *worldstate.Resident, cmd Command) Result {
	body := d.World.Body(cmd.TargetID)
	if err := economy.CollectBody(d.World, r, body); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventCollectBody, ResidentID: &r.ID, TargetID: &cmd.TargetID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) processBody(r *worldstate.Resident, cmd Command) Result {
	body := d.World.Body(cmd.TargetID)
	if err := economy.ProcessBody(d.World, r, body); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventProcessBody, ResidentID: &r.ID, TargetID: &cmd.TargetID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) depart(r *worldstate.Resident, cmd Command) Result {
	r.Status = worldstate.StatusDeparted
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventDepart, ResidentID: &r.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) listJobs(r *worldstate.Resident, cmd Command) Result {
	jobs := d.World.AllJobs()
	return ok(cmd.RequestID, map[string]any{"jobs": jobs})
}

func (d *Dispatcher) listPetitions(r *worldstate.Resident, cmd Command) Result {
	petitions := d.World.AllPetitions()
	return ok(cmd.RequestID, map[string]any{"petitions": petitions})
}

func (d *Dispatcher) arrest(r *worldstate.Resident, cmd Command) Result {
	suspect := d.World.Resident(cmd.TargetID)
	if suspect == nil {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	if err := economy.Arrest(d.World, d.Config, r, suspect); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventArrest, ResidentID: &r.ID, TargetID: &suspect.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) bookSuspect(r *worldstate.Resident, cmd Command) Result {
	if err := economy.BookSuspect(d.World, r, d.World.Clock.Now()); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventBookSuspect, ResidentID: &r.ID})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) forage(r *worldstate.Resident, cmd Command) Result {
	if r.Needs.Energy < forageEnergyCost {
		return fail(cmd.RequestID, "InsufficientEnergy")
	}
	node := d.World.ForageNode(cmd.NodeID)
	if err := economy.Forage(r, node, d.World.Clock.Now()); err != nil {
		return fail(cmd.RequestID, economyReason(err))
	}
	r.Needs.Energy -= forageEnergyCost
	d.emit(worldstate.Event{GameS: d.World.Clock.Now(), Type: worldstate.EventForage, ResidentID: &r.ID,
		Data: map[string]any{"node_id": cmd.NodeID}})
	return ok(cmd.RequestID, nil)
}

func (d *Dispatcher) submitFeedback(r *worldstate.Resident, cmd Command) Result {
	if cmd.Text == "" {
		return fail(cmd.RequestID, "ValidationFailed")
	}
	return ok(cmd.RequestID, nil)
}

// economyReason maps an economy package sentinel error to the wire-level
// reason string named in design doc Section 7's precondition taxonomy.
func economyReason(err error) string {
	switch err {
	case economy.ErrInsufficientEnergy:
		return "InsufficientEnergy"
	case economy.ErrInsufficientWallet:
		return "InsufficientWallet"
	case economy.ErrOutOfStock:
		return "OutOfStock"
	case economy.ErrNotInBuilding:
		return "NotInBuilding"
	case economy.ErrWrongBuilding:
		return "WrongBuilding"
	case economy.ErrRangeExceeded:
		return "RangeExceeded"
	case economy.ErrCooldown:
		return "Cooldown"
	case economy.ErrAlreadyVoted:
		return "AlreadyVoted"
	case economy.ErrNoOpenings:
		return "NoOpenings"
	case economy.ErrNotEmployed:
		return "NotEmployed"
	case economy.ErrDead:
		return "AlreadyDead"
	default:
		return "ValidationFailed"
	}
}
