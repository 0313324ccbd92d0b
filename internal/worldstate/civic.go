package worldstate

// PetitionStatus is the lifecycle state of a civic petition.
type PetitionStatus uint8

const (
	PetitionOpen PetitionStatus = iota
	PetitionClosed
)

// Petition is a civic proposal authored by a resident, voted on by
// others (spec §3/§4.3).
type Petition struct {
	ID            uint64
	Author        ResidentID
	Category      string
	Description   string
	Status        PetitionStatus
	VotesFor      int
	VotesAgainst  int
	OpenedAtGameS float64
}

// Vote is a single ballot cast on a petition. The (PetitionID, Voter)
// pair is unique — at most one vote row ever exists per spec §8.
type Vote struct {
	PetitionID uint64
	Voter      ResidentID
	InFavor    bool
}

// Job describes one employable role in the City.
type Job struct {
	ID            uint64
	Title         string
	BuildingID    *uint64 // nil for roles performed outside (e.g. groundskeeper)
	Wage          int
	ShiftHours    float64
	MaxPositions  int
	Description   string
}

// JobAssignment binds a resident to a job.
type JobAssignment struct {
	JobID      uint64
	ResidentID ResidentID
}

// Law describes one codified offense and its sentence.
type Law struct {
	ID           uint64
	Name         string
	Description  string
	SentenceHours float64
}

// Body is the post-mortem object form of a DECEASED resident, eligible
// for bounty (spec glossary).
type Body struct {
	ResidentID   ResidentID
	Name         string
	X, Y         float64
	CarriedBy    *ResidentID
	Processed    bool
}
