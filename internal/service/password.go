package service

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/acourtin/thefeed/internal/models"
)

// Password length bounds enforced at registration.
const (
	PasswordMinLen = 8
	PasswordMaxLen = 30
)

// PasswordPolicy validates candidate passwords and hashes accepted ones.
// The plaintext is never logged or stored anywhere.
type PasswordPolicy struct {
	cost int
}

// NewPasswordPolicy returns a policy using the default bcrypt cost.
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{cost: bcrypt.DefaultCost}
}

// Validate checks length and composition of a candidate password and
// returns every rule it breaks as a user-facing message.
func (p *PasswordPolicy) Validate(plain string) []string {
	var msgs []string
	if len(plain) < PasswordMinLen || len(plain) > PasswordMaxLen {
		msgs = append(msgs, fmt.Sprintf("The password must contain between %d and %d characters.", PasswordMinLen, PasswordMaxLen))
	}
	var lower, upper, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		msgs = append(msgs, "The password must contain at least one lowercase letter, one uppercase letter and one digit.")
	}
	return msgs
}

// Hash produces the storable hash for an already-validated password.
// The user is passed so an identity-bound hasher could be swapped in;
// bcrypt embeds its own per-hash salt.
func (p *PasswordPolicy) Hash(user *models.User, plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
