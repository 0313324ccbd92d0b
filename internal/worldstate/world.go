package worldstate

import (
	"sort"
	"sync"

	"github.com/tobyjaguar/thecity/internal/tilemap"
)

// World is the single in-memory snapshot that binds the map, residents,
// forageable nodes, train queue, clock, and civic tables into one
// consistent whole. It is mutated only by the tick worker; other
// components hold non-owning references by id and must re-resolve
// through World on each use (spec §3 "Ownership", §5).
type World struct {
	Map   *tilemap.Map
	Clock *WorldClock

	mu sync.RWMutex // guards the maps below for read access from the HTTP facade between ticks

	residents   map[ResidentID]*Resident
	nextResID   ResidentID

	forage    map[uint64]*ForageableNode
	nextForageID uint64

	bodies map[ResidentID]*Body

	Train *TrainQueue
	Shop  *ShopStock

	petitions    map[uint64]*Petition
	nextPetition uint64
	votes        map[uint64]map[ResidentID]Vote // petitionID -> voter -> vote

	jobs        map[uint64]*Job
	assignments map[uint64]ResidentID // jobID -> most recent assignee; JobOpenings counts holders from assignedJobByResident against MaxPositions
	assignedJobByResident map[ResidentID]uint64

	laws []*Law

	Events    []Event
	nextEvent uint64

	pendingSpeech []PendingSpeech
	readySpeech   []PendingSpeech
}

// NewWorld constructs an empty World over the given map.
func NewWorld(m *tilemap.Map, timeScale float64) *World {
	return &World{
		Map:                   m,
		Clock:                 NewWorldClock(timeScale),
		residents:             make(map[ResidentID]*Resident),
		forage:                make(map[uint64]*ForageableNode),
		bodies:                make(map[ResidentID]*Body),
		Train:                 &TrainQueue{},
		Shop:                  NewShopStock(),
		petitions:             make(map[uint64]*Petition),
		votes:                 make(map[uint64]map[ResidentID]Vote),
		jobs:                  make(map[uint64]*Job),
		assignments:           make(map[uint64]ResidentID),
		assignedJobByResident: make(map[ResidentID]uint64),
	}
}

// --- Residents -------------------------------------------------------

// NewResidentID allocates a fresh, never-reused resident id.
func (w *World) NewResidentID() ResidentID {
	w.nextResID++
	return w.nextResID
}

// SetNextResidentID raises the id allocator floor (used when restoring
// from persistence, so ids never collide with previously issued ones).
func (w *World) SetNextResidentID(min ResidentID) {
	if min > w.nextResID {
		w.nextResID = min
	}
}

// AddResident inserts a resident into the world table.
func (w *World) AddResident(r *Resident) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.residents[r.ID] = r
}

// Resident resolves a resident by id, or nil if unknown.
func (w *World) Resident(id ResidentID) *Resident {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.residents[id]
}

// ResidentByPassport resolves a resident by its public passport number.
func (w *World) ResidentByPassport(passport string) *Resident {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.residents {
		if r.PassportNo == passport {
			return r
		}
	}
	return nil
}

// RemoveResident deletes a resident from the active table (the identity
// row persists independently in the repository).
func (w *World) RemoveResident(id ResidentID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.residents, id)
}

// AllResidents returns every resident currently in the world, sorted by
// id. Sub-step application iterates in this order so resolution is
// deterministic by id rather than by arrival order (spec §5).
func (w *World) AllResidents() []*Resident {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Resident, 0, len(w.residents))
	for _, r := range w.residents {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LivingResidents returns every ALIVE resident that has spawned (not
// Unspawned), sorted by id.
func (w *World) LivingResidents() []*Resident {
	all := w.AllResidents()
	out := all[:0]
	for _, r := range all {
		if r.Status == StatusAlive && !r.Unspawned {
			out = append(out, r)
		}
	}
	return out
}

// ResidentCount returns the number of residents tracked (any status).
func (w *World) ResidentCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.residents)
}

// --- Forageable nodes --------------------------------------------------

// NewForageNode allocates and inserts a forageable node.
func (w *World) NewForageNode(kind ForageKind, x, y float64, maxUses int, regrowS float64) *ForageableNode {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextForageID++
	n := &ForageableNode{
		ID:                w.nextForageID,
		Kind:              kind,
		X:                 x,
		Y:                 y,
		UsesRemaining:     maxUses,
		MaxUses:           maxUses,
		RegrowGameSeconds: regrowS,
	}
	w.forage[n.ID] = n
	return n
}

// ForageNode resolves a forage node by id.
func (w *World) ForageNode(id uint64) *ForageableNode {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.forage[id]
}

// AllForageNodes returns every forage node, sorted by id.
func (w *World) AllForageNodes() []*ForageableNode {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*ForageableNode, 0, len(w.forage))
	for _, n := range w.forage {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- Bodies --------------------------------------------------------------

// PlaceBody records a body entity for the deceased resident.
func (w *World) PlaceBody(b *Body) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bodies[b.ResidentID] = b
}

// Body resolves the body for a resident id, if one exists.
func (w *World) Body(id ResidentID) *Body {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bodies[id]
}

// RemoveBody deletes the body record (after processing at the mortuary).
func (w *World) RemoveBody(id ResidentID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.bodies, id)
}

// --- Petitions -----------------------------------------------------------

// NewPetition allocates and inserts a petition.
func (w *World) NewPetition(p *Petition) *Petition {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextPetition++
	p.ID = w.nextPetition
	w.petitions[p.ID] = p
	w.votes[p.ID] = make(map[ResidentID]Vote)
	return p
}

// Petition resolves a petition by id.
func (w *World) Petition(id uint64) *Petition {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.petitions[id]
}

// AllPetitions returns every petition, sorted by id.
func (w *World) AllPetitions() []*Petition {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Petition, 0, len(w.petitions))
	for _, p := range w.petitions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasVoted reports whether a resident already voted on a petition.
func (w *World) HasVoted(petitionID uint64, voter ResidentID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.votes[petitionID][voter]
	return ok
}

// RecordVote inserts a vote row. Caller must have already checked
// HasVoted under the single-writer tick discipline — this does not
// re-check, to keep the critical section a single atomic step.
func (w *World) RecordVote(v Vote) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.votes[v.PetitionID] == nil {
		w.votes[v.PetitionID] = make(map[ResidentID]Vote)
	}
	w.votes[v.PetitionID][v.Voter] = v
}

// AllVotes flattens every recorded vote across every petition, for the
// repository to persist alongside the petitions themselves.
func (w *World) AllVotes() []Vote {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []Vote
	for _, byVoter := range w.votes {
		for _, v := range byVoter {
			out = append(out, v)
		}
	}
	return out
}

// RestorePetitionState re-seeds petitions and votes loaded from the
// repository at startup.
func (w *World) RestorePetitionState(petitions []*Petition, votes []Vote) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range petitions {
		w.petitions[p.ID] = p
		if p.ID > w.nextPetition {
			w.nextPetition = p.ID
		}
		if w.votes[p.ID] == nil {
			w.votes[p.ID] = make(map[ResidentID]Vote)
		}
	}
	for _, v := range votes {
		if w.votes[v.PetitionID] == nil {
			w.votes[v.PetitionID] = make(map[ResidentID]Vote)
		}
		w.votes[v.PetitionID][v.Voter] = v
	}
}

// --- Jobs ------------------------------------------------------------------

// AddJob inserts a job definition (loaded at startup, fixed catalog).
func (w *World) AddJob(j *Job) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs[j.ID] = j
}

// Job resolves a job by id.
func (w *World) Job(id uint64) *Job {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.jobs[id]
}

// AllJobs returns every job definition, sorted by id.
func (w *World) AllJobs() []*Job {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Job, 0, len(w.jobs))
	for _, j := range w.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// JobOpenings returns how many unfilled positions remain for a job.
func (w *World) JobOpenings(jobID uint64) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	job, ok := w.jobs[jobID]
	if !ok {
		return 0
	}
	filled := 0
	for _, jid := range w.assignedJobByResident {
		if jid == jobID {
			filled++
		}
	}
	return job.MaxPositions - filled
}

// AssignJob binds a resident to a job, replacing any prior assignment.
func (w *World) AssignJob(residentID ResidentID, jobID uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.assignedJobByResident[residentID]; ok {
		delete(w.assignments, prev)
	}
	w.assignments[jobID] = residentID
	w.assignedJobByResident[residentID] = jobID
}

// UnassignJob releases a resident's current job, if any.
func (w *World) UnassignJob(residentID ResidentID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if jobID, ok := w.assignedJobByResident[residentID]; ok {
		delete(w.assignments, jobID)
		delete(w.assignedJobByResident, residentID)
	}
}

// ResidentJob returns the job id a resident currently holds and true, or
// (0, false) if it holds none.
func (w *World) ResidentJob(residentID ResidentID) (uint64, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	jobID, ok := w.assignedJobByResident[residentID]
	return jobID, ok
}

// --- Laws ------------------------------------------------------------------

// AddLaw inserts a law definition (loaded at startup, fixed catalog).
func (w *World) AddLaw(l *Law) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.laws = append(w.laws, l)
}

// AllLaws returns the fixed law catalog.
func (w *World) AllLaws() []*Law {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Law(nil), w.laws...)
}

// --- Events ------------------------------------------------------------------

// AppendEvent appends a narrative event to the in-memory log and assigns
// it an id. It does not persist the event itself: events emitted by the
// action dispatcher are also handed to its EventSink, which cmd/city
// drains into the repository (writes are serialized through a
// single-writer queue drained asynchronously); events appended directly
// by other callers, such as the engine's death, arrival and
// bladder-accident events, stay in memory only.
func (w *World) AppendEvent(e Event) Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextEvent++
	e.ID = w.nextEvent
	w.Events = append(w.Events, e)
	return e
}

// RecentEvents returns up to limit of the most recently appended events.
func (w *World) RecentEvents(limit int) []Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if limit <= 0 || limit > len(w.Events) {
		limit = len(w.Events)
	}
	out := make([]Event, limit)
	copy(out, w.Events[len(w.Events)-limit:])
	return out
}

// --- Speech ------------------------------------------------------------------

// QueueSpeech records a speech act for delivery to other residents no
// earlier than the next perception tick (spec §5); the speaker's own
// perception is credited immediately by the dispatcher, independent of
// this queue.
func (w *World) QueueSpeech(sp PendingSpeech) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingSpeech = append(w.pendingSpeech, sp)
}

// DrainSpeech returns the speech acts that became ready on the previous
// call and rotates whatever has queued since then into the ready buffer
// for the next call. This one-cycle lag is what makes speech queued in
// perception cycle T observable starting at cycle T+1 rather than T
// (spec §8), since QueueSpeech may still be appending to pendingSpeech
// right up until the moment this perception phase runs.
func (w *World) DrainSpeech() []PendingSpeech {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.readySpeech
	w.readySpeech = w.pendingSpeech
	w.pendingSpeech = nil
	return out
}

// TrimEvents drops in-memory events older than the retention cutoff,
// keeping the `/feed` endpoint's working set bounded (the durable log in
// the repository is trimmed separately and independently).
func (w *World) TrimEvents(cutoffGameS float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.Events[:0]
	for _, e := range w.Events {
		if e.GameS >= cutoffGameS {
			kept = append(kept, e)
		}
	}
	w.Events = kept
}
