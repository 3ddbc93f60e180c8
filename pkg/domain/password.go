package domain

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

// SpecialCharacters is the set a password must draw at least one rune from.
const SpecialCharacters = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?~`"

const MinPasswordLength = 8

// PasswordPolicy is the composition rule applied before any password reaches
// the identity backend.
//
// Invariant: a password is accepted iff it has at least MinPasswordLength
// runes and contains an ASCII lowercase letter, an ASCII uppercase letter, an
// ASCII digit, and a rune from SpecialCharacters. Other letters and digits
// (ç, Ş, Arabic-Indic numerals) count toward length only.
type PasswordPolicy struct {
	MinLength int
}

// DefaultPasswordPolicy returns the registration policy.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: MinPasswordLength}
}

// Check returns a CodeWeakPassword error naming the first unmet rule.
func (p PasswordPolicy) Check(password string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = MinPasswordLength
	}
	if len([]rune(password)) < minLen {
		return dErrors.New(dErrors.CodeWeakPassword, "password is too short")
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case 'a' <= r && r <= 'z':
			lower = true
		case 'A' <= r && r <= 'Z':
			upper = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	switch {
	case !lower:
		return dErrors.New(dErrors.CodeWeakPassword, "password needs a lowercase letter")
	case !upper:
		return dErrors.New(dErrors.CodeWeakPassword, "password needs an uppercase letter")
	case !digit:
		return dErrors.New(dErrors.CodeWeakPassword, "password needs a digit")
	case !special:
		return dErrors.New(dErrors.CodeWeakPassword, "password needs a special character")
	}
	return nil
}

// Accepts is the boolean form of Check.
func (p PasswordPolicy) Accepts(password string) bool {
	return p.Check(password) == nil
}
