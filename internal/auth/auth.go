// Package auth implements the Registration & Token Authority: it mints a
// passport number for a freshly registered resident and signs a bearer
// credential over {resident_id, passport_no, type}, valid for 30 days
// (design doc Section 6 "Registration"). It also verifies a presented
// credential on session attach, the only path back into World State for
// a reconnecting client.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

// ErrBadCredential is returned when a presented bearer token fails
// signature verification or has expired; whether the named resident
// exists is checked by the caller (design doc Section 4.7 "an invalid credential ... closes with 4003").
var ErrBadCredential = errors.New("bad credential")

// Claims is the signed payload of a resident's bearer credential.
type Claims struct {
	ResidentID worldstate.ResidentID   `json:"resident_id"`
	PassportNo string                  `json:"passport_no"`
	Type       worldstate.ResidentType `json:"type"`
	jwt.RegisteredClaims
}

// Authority mints and verifies bearer credentials using a configured
// HMAC secret and passport prefix.
type Authority struct {
	secret         []byte
	ttl            time.Duration
	passportPrefix string
}

// New constructs an Authority. secret must be non-empty; an empty secret
// would sign tokens anyone could forge.
func New(secret string, ttl time.Duration, passportPrefix string) (*Authority, error) {
	if secret == "" {
		return nil, errors.New("auth: empty token secret")
	}
	return &Authority{secret: []byte(secret), ttl: ttl, passportPrefix: passportPrefix}, nil
}

// NewPassportNumber generates a `<PREFIX>-<RANDOM>` passport number
// (design doc Section 6).
func (a *Authority) NewPassportNumber() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no ambiguous chars
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate passport number: %w", err)
	}
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s-%s", a.passportPrefix, string(suffix)), nil
}

// IssueToken signs a bearer credential for a resident, valid for the
// Authority's configured TTL (30 days per design doc Section 6).
func (a *Authority) IssueToken(residentID worldstate.ResidentID, passportNo string, rtype worldstate.ResidentType) (string, error) {
	now := time.Now()
	claims := Claims{
		ResidentID: residentID,
		PassportNo: passportNo,
		Type:       rtype,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses and validates a bearer credential, returning its claims.
// A malformed signature, an expired token, or anything else that fails
// jwt verification maps to ErrBadCredential — callers never need to
// distinguish the reasons (design doc Section 4.7 close code 4003 covers
// all of them uniformly).
func (a *Authority) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrBadCredential
	}
	return claims, nil
}
