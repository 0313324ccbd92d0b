package auth

import (
	"errors"
	"strings"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// ErrValidation names a rejected registration request (design doc
// Section 6 "validates name length, origin non-empty, and type").
var ErrValidation = errors.New("validation failed")

const (
	minNameLen = 2
	maxNameLen = 40
)

// RegistrationRequest is the decoded body of POST /passport.
type RegistrationRequest struct {
	FullName      string
	PreferredName string
	Origin        string
	Type          worldstate.ResidentType
	GithubUsername string
	ReferredBy    string
}

// Validate applies the registration rules from design doc Section 6.
// allowHumanRegistration gates ResidentHuman requests behind the
// operator's configuration flag.
func Validate(req RegistrationRequest, allowHumanRegistration bool) error {
	name := strings.TrimSpace(req.FullName)
	if len(name) < minNameLen || len(name) > maxNameLen {
		return ErrValidation
	}
	if strings.TrimSpace(req.Origin) == "" {
		return ErrValidation
	}
	if req.Type == worldstate.ResidentHuman && !allowHumanRegistration {
		return ErrValidation
	}
	if req.Type != worldstate.ResidentAgent && req.Type != worldstate.ResidentHuman {
		return ErrValidation
	}
	return nil
}
