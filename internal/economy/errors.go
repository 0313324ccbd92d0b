// Package economy implements the needs-decay model and every game-rule
// transaction a resident can attempt: shop purchases, UBI collection,
// employment, petitions, foraging, and policing. Every precondition
// failure is returned as one of the typed errors below rather than a
// panic — the action dispatcher maps them straight to an outbound
// `action_result` with status "error" (design doc Section 7).
package economy

import "errors"

var (
	ErrInsufficientEnergy = errors.New("economy: insufficient energy")
	ErrInsufficientWallet = errors.New("economy: insufficient wallet balance")
	ErrOutOfStock         = errors.New("economy: item out of stock")
	ErrNotInBuilding      = errors.New("economy: resident is not inside a building")
	ErrWrongBuilding      = errors.New("economy: wrong building for this action")
	ErrRangeExceeded      = errors.New("economy: target out of range")
	ErrCooldown           = errors.New("economy: action is on cooldown")
	ErrAlreadyVoted       = errors.New("economy: resident already voted on this petition")
	ErrNoOpenings         = errors.New("economy: no job openings available")
	ErrNotEmployed        = errors.New("economy: resident holds no job")
	ErrAlreadyEmployed    = errors.New("economy: resident already holds a job")
	ErrDead               = errors.New("economy: resident is deceased")
	ErrPetitionClosed     = errors.New("economy: petition is closed")
	ErrDepleted           = errors.New("economy: forage node is depleted")
	ErrNotImprisoned      = errors.New("economy: resident is not imprisoned")
	ErrAlreadyCarrying    = errors.New("economy: resident already carrying a suspect or body")
	ErrNotCarrying        = errors.New("economy: resident is not carrying anything")
	ErrNoSuchItem         = errors.New("economy: resident does not carry that item")
)
