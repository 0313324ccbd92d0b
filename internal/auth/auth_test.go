package auth

import (
	"testing"
	"time"

	"github.com/tobyjaguar/thecity/internal/worldstate"
)

func TestIssueTokenAndVerifyRoundTrips(t *testing.T) {
	a, err := New("test-secret", 30*24*time.Hour, "TC")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, err := a.IssueToken(42, "TC-ABCDEFGH", worldstate.ResidentAgent)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ResidentID != 42 || claims.PassportNo != "TC-ABCDEFGH" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a, _ := New("secret-one", time.Hour, "TC")
	b, _ := New("secret-two", time.Hour, "TC")

	tok, _ := a.IssueToken(1, "TC-X", worldstate.ResidentAgent)
	if _, err := b.Verify(tok); err != ErrBadCredential {
		t.Fatalf("expected ErrBadCredential, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	a, _ := New("secret", -time.Hour, "TC") // already-expired TTL
	tok, _ := a.IssueToken(1, "TC-X", worldstate.ResidentAgent)
	if _, err := a.Verify(tok); err != ErrBadCredential {
		t.Fatalf("expected ErrBadCredential for expired token, got %v", err)
	}
}

func TestNewRejectsEmptySecret(t *testing.T) {
	if _, err := New("", time.Hour, "TC"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestValidateRejectsShortName(t *testing.T) {
	req := RegistrationRequest{FullName: "A", Origin: "Boston", Type: worldstate.ResidentAgent}
	if err := Validate(req, true); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateRejectsHumanWhenDisabled(t *testing.T) {
	req := RegistrationRequest{FullName: "Ada Lovelace", Origin: "London", Type: worldstate.ResidentHuman}
	if err := Validate(req, false); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := Validate(req, true); err != nil {
		t.Fatalf("expected nil when human registration allowed, got %v", err)
	}
}

func TestNewPassportNumberHasPrefix(t *testing.T) {
	a, _ := New("secret", time.Hour, "TC")
	num, err := a.NewPassportNumber()
	if err != nil {
		t.Fatalf("NewPassportNumber: %v", err)
	}
	if len(num) < 3 || num[:3] != "TC-" {
		t.Fatalf("expected TC- prefix, got %q", num)
	}
}
