package worldstate

import (
	"testing"

	"github.com/tobyjaguar/thecity/internal/tilemap"
)

func newTestWorld() *World {
	m := tilemap.NewMap(10, 10, 32)
	return NewWorld(m, 3)
}

func TestAddResidentAndLookupByPassport(t *testing.T) {
	w := newTestWorld()
	r := &Resident{PassportNo: "CTZ-ABC", Status: StatusAlive}
	r.ID = w.NewResidentID()
	w.AddResident(r)

	if got := w.ResidentByPassport("CTZ-ABC"); got == nil || got.ID != r.ID {
		t.Fatalf("expected to find resident by passport, got %+v", got)
	}
	if w.ResidentByPassport("NOPE") != nil {
		t.Fatal("expected nil for unknown passport")
	}
}

func TestLivingResidentsExcludesUnspawnedAndDead(t *testing.T) {
	w := newTestWorld()
	alive := &Resident{ID: 1, Status: StatusAlive}
	dead := &Resident{ID: 2, Status: StatusDeceased}
	pending := &Resident{ID: 3, Status: StatusAlive, Unspawned: true}
	w.AddResident(alive)
	w.AddResident(dead)
	w.AddResident(pending)

	living := w.LivingResidents()
	if len(living) != 1 || living[0].ID != 1 {
		t.Fatalf("expected only resident 1 alive and spawned, got %+v", living)
	}
}

func TestNewResidentIDIsMonotonic(t *testing.T) {
	w := newTestWorld()
	a := w.NewResidentID()
	b := w.NewResidentID()
	if b <= a {
		t.Fatalf("expected strictly increasing ids, got %d then %d", a, b)
	}
}

func TestRecordVoteAndHasVoted(t *testing.T) {
	w := newTestWorld()
	p := w.NewPetition(&Petition{Author: 1, Category: "parks", Description: "more benches"})
	if w.HasVoted(p.ID, 2) {
		t.Fatal("should not have voted yet")
	}
	w.RecordVote(Vote{PetitionID: p.ID, Voter: 2, InFavor: true})
	if !w.HasVoted(p.ID, 2) {
		t.Fatal("expected vote to be recorded")
	}
	votes := w.AllVotes()
	if len(votes) != 1 || votes[0].Voter != 2 {
		t.Fatalf("expected one recorded vote, got %+v", votes)
	}
}

func TestAssignAndUnassignJob(t *testing.T) {
	w := newTestWorld()
	w.AddJob(&Job{ID: 1, Title: "Clerk", MaxPositions: 1})
	w.AssignJob(5, 1)

	jobID, ok := w.ResidentJob(5)
	if !ok || jobID != 1 {
		t.Fatalf("expected resident 5 assigned to job 1, got %d %v", jobID, ok)
	}
	if w.JobOpenings(1) != 0 {
		t.Fatalf("expected 0 openings left, got %d", w.JobOpenings(1))
	}
	w.UnassignJob(5)
	if _, ok := w.ResidentJob(5); ok {
		t.Fatal("expected resident unassigned")
	}
	if w.JobOpenings(1) != 1 {
		t.Fatalf("expected opening freed, got %d", w.JobOpenings(1))
	}
}
