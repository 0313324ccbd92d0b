package engine

import (
	"testing"
	"time"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/tilemap"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

type fakeInbound struct {
	queued map[worldstate.ResidentID][]action.Command
	order  []worldstate.ResidentID

	drained []worldstate.ResidentID
}

func (f *fakeInbound) Drain(id worldstate.ResidentID) []action.Command {
	f.drained = append(f.drained, id)
	cmds := f.queued[id]
	delete(f.queued, id)
	return cmds
}

func (f *fakeInbound) ResidentIDs() []worldstate.ResidentID {
	return f.order
}

func TestDrainInboundAppliesInDeterministicResidentOrder(t *testing.T) {
	m := tilemap.NewMap(10, 10, 32)
	cfg := config.Default()
	w := worldstate.NewWorld(m, cfg.TimeScale)

	r3 := &worldstate.Resident{ID: 3, Status: worldstate.StatusAlive, Needs: worldstate.Needs{Energy: 100}}
	r1 := &worldstate.Resident{ID: 1, Status: worldstate.StatusAlive, Needs: worldstate.Needs{Energy: 100}}
	w.AddResident(r3)
	w.AddResident(r1)

	d := action.NewDispatcher(w, cfg, nil)
	fake := &fakeInbound{
		order: []worldstate.ResidentID{3, 1}, // arrival order deliberately reversed
		queued: map[worldstate.ResidentID][]action.Command{
			1: {{Type: action.CmdStop}},
			3: {{Type: action.CmdStop}},
		},
	}
	e := NewEngine(w, cfg, d, fake, nil)

	e.drainInbound()

	if len(fake.queued) != 0 {
		t.Fatal("drainInbound should drain every queued resident's commands")
	}
	if len(fake.drained) != 2 || fake.drained[0] != 1 || fake.drained[1] != 3 {
		t.Fatalf("residents drained in order %v, want [1 3]", fake.drained)
	}
}

func TestCheckStallRequiresConsecutiveOverBudgetIterations(t *testing.T) {
	cfg := config.Default()
	e := &Engine{Config: cfg}

	budget := cfg.MaxAccumulatedDelta / 100 // arbitrary small step budget for the test

	for i := 0; i < cfg.SchedulerStallConsecutive-1; i++ {
		e.checkStall(budget, budget*time.Duration(cfg.SchedulerStallMultiplier+1))
	}
	if e.stallStreak != cfg.SchedulerStallConsecutive-1 {
		t.Fatalf("stallStreak = %d, want %d", e.stallStreak, cfg.SchedulerStallConsecutive-1)
	}

	e.checkStall(budget, budget/2) // one fast iteration resets the streak
	if e.stallStreak != 0 {
		t.Fatal("a single fast iteration should reset the stall streak")
	}
}
