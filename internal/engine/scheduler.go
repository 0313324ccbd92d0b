// Package engine implements the Tick Scheduler: three interleaved
// fixed-rate loops (position, simulation, perception) sharing a single
// logical worker with respect to World State (design doc Section 4.1,
// 4.8, 5).
package engine

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/tobyjaguar/thecity/internal/action"
	"github.com/tobyjaguar/thecity/internal/config"
	"github.com/tobyjaguar/thecity/internal/economy"
	"github.com/tobyjaguar/thecity/internal/events"
	"github.com/tobyjaguar/thecity/internal/perception"
	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// InboundSource supplies the commands queued for each resident since the
// last iteration (design doc Section 4.8 step 1: "drain inbound
// commands into per-resident intents").
type InboundSource interface {
	Drain(residentID worldstate.ResidentID) []action.Command
	ResidentIDs() []worldstate.ResidentID
}

// PerceptionSink receives one perception.Update per living resident at
// the perception rate (design doc Section 4.4).
type PerceptionSink func(worldstate.ResidentID, perception.Update)

// Engine is the explicit value that owns every subsystem the Tick
// Scheduler drives — constructed at startup by dependency injection,
// never looked up through a global (design doc Section 9, "Implicit
// module-level singletons").
type Engine struct {
	World      *worldstate.World
	Config     config.Config
	Dispatcher *action.Dispatcher
	Detector   *events.Detector
	Inbound    InboundSource
	Perception PerceptionSink

	posAcc, simAcc, percAcc time.Duration
	trainAccGameS           float64

	stallStreak int

	stopped chan struct{}
}

// NewEngine wires an Engine from its constructed subsystems.
func NewEngine(w *worldstate.World, cfg config.Config, d *action.Dispatcher, in InboundSource, out PerceptionSink) *Engine {
	return &Engine{
		World:      w,
		Config:     cfg,
		Dispatcher: d,
		Detector:   events.NewDetector(),
		Inbound:    in,
		Perception: out,
		stopped:    make(chan struct{}),
	}
}

// Run drives the three-phase tick loop until ctx is cancelled.
// Cancellation is cooperative: the flag is only observed at an
// inter-phase boundary (design doc Section 4.8 "Cancellation").
func (e *Engine) Run(ctx context.Context) {
	posStep := time.Duration(float64(time.Second) / e.Config.PositionUpdateRate)
	simStep := time.Duration(float64(time.Second) / e.Config.SimTickRate)
	percStep := time.Duration(float64(time.Second) / e.Config.PerceptionBroadcastRate)

	last := time.Now()
	ticker := time.NewTicker(posStep)
	defer ticker.Stop()
	defer close(e.stopped)

	slog.Info("tick scheduler started", "position_hz", e.Config.PositionUpdateRate,
		"simulation_hz", e.Config.SimTickRate, "perception_hz", e.Config.PerceptionBroadcastRate)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick scheduler stopping on cancellation")
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > e.Config.MaxAccumulatedDelta {
				dt = e.Config.MaxAccumulatedDelta
			}

			iterStart := time.Now()

			e.drainInbound()

			e.posAcc += dt
			for e.posAcc >= posStep {
				e.runPositionPhase(posStep)
				e.posAcc -= posStep
			}

			e.simAcc += dt
			for e.simAcc >= simStep {
				e.runSimulationPhase(simStep)
				e.simAcc -= simStep
			}

			e.percAcc += dt
			if e.percAcc >= percStep {
				e.runPerceptionPhase()
				e.percAcc = 0
			}

			e.checkStall(posStep, time.Since(iterStart))
		}
	}
}

// Stopped returns a channel closed once Run has returned.
func (e *Engine) Stopped() <-chan struct{} { return e.stopped }

// checkStall implements the SchedulerStalled failure mode: logged, never
// surfaced to clients, fatal after 5x the step budget for three
// consecutive iterations (design doc Section 4.1).
func (e *Engine) checkStall(budget, elapsed time.Duration) {
	if elapsed > budget*time.Duration(e.Config.SchedulerStallMultiplier) {
		e.stallStreak++
		if e.stallStreak >= e.Config.SchedulerStallConsecutive {
			slog.Error("SchedulerStalled: tick exceeded budget for consecutive iterations",
				"elapsed", elapsed, "budget", budget, "streak", e.stallStreak)
			os.Exit(1)
		}
		return
	}
	e.stallStreak = 0
}

// drainInbound applies every queued command for every resident, in
// arrival order within a resident and in deterministic resident-id order
// across residents (design doc Section 5 "Ordering guarantees").
func (e *Engine) drainInbound() {
	ids := append([]worldstate.ResidentID(nil), e.Inbound.ResidentIDs()...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r := e.World.Resident(id)
		if r == nil {
			continue
		}
		for _, cmd := range e.Inbound.Drain(id) {
			e.Dispatcher.Dispatch(r, cmd)
		}
	}
}

// runPositionPhase advances every living resident's position by one
// sub-step using collision-resolved movement (design doc Section 4.2).
func (e *Engine) runPositionPhase(step time.Duration) {
	dtSeconds := step.Seconds()
	for _, r := range e.World.LivingResidents() {
		advancePosition(e.World, e.Config, r, dtSeconds)
	}
}

// runSimulationPhase advances needs, economy, civic, and policing
// systems by one sub-step, then runs the event detector over the
// resulting deltas (design doc Section 4.3, 4.6).
func (e *Engine) runSimulationPhase(step time.Duration) {
	dtGameS := step.Seconds() * e.Config.TimeScale
	e.World.Clock.Advance(step.Seconds())
	now := e.World.Clock.Now()

	for _, r := range e.World.LivingResidents() {
		applySocialProximityAndDecay(e.World, e.Config, r, dtGameS)
		if economy.ShouldTriggerBladderAccident(r) {
			r.Needs.Bladder = 0
			r.Needs.Social -= 5
			r.Needs.Clamp()
			e.World.AppendEvent(worldstate.Event{GameS: now, Type: worldstate.EventBladderAccident, ResidentID: &r.ID})
		}
		economy.AccrueShift(e.World, e.Config, r, dtGameS)
		economy.UpdateLoiterTimer(e.World, e.Config, r, now)
		e.Detector.Observe(r, now)
		if r.IsDead() {
			e.World.PlaceBody(&worldstate.Body{ResidentID: r.ID, Name: r.PreferredName, X: r.X, Y: r.Y})
			e.World.AppendEvent(worldstate.Event{GameS: now, Type: worldstate.EventDeath, ResidentID: &r.ID})
		}
	}

	economy.RegrowForageNodes(e.World, now)
	economy.CloseExpiredPetitions(e.World, e.Config, now)
	economy.ReleaseExpiredPrisoners(e.World, now)

	e.trainAccGameS += dtGameS
	if e.trainAccGameS >= e.Config.TrainInterval {
		e.trainAccGameS = 0
		if spawned := economy.SpawnArrivals(e.World, now); len(spawned) > 0 {
			slog.Info("train arrived", "residents", len(spawned))
		}
	}
}

// runPerceptionPhase builds and delivers exactly one perception.Update
// per living, connected resident (design doc Section 4.4).
func (e *Engine) runPerceptionPhase() {
	speeches := e.World.DrainSpeech()
	for _, r := range e.World.LivingResidents() {
		u := perception.Build(e.World, e.Config, r, speeches)
		if e.Perception != nil {
			e.Perception(r.ID, u)
		}
	}
}
