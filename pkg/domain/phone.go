package domain

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

// DefaultCountryPrefix is prepended to national numbers typed without one.
const DefaultCountryPrefix = "+90"

const minPhoneLength = 10

// NormalizePhone strips formatting from a phone number and rejects anything
// shorter than ten characters. A leading "0" or a bare mobile number starting
// with "5" is rewritten onto DefaultCountryPrefix.
func NormalizePhone(raw string) (string, error) {
	phone := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(phone, "+"):
	case strings.HasPrefix(phone, "0") && len(phone) == 11:
		phone = DefaultCountryPrefix + phone[1:]
	case strings.HasPrefix(phone, "5") && len(phone) == 10:
		phone = DefaultCountryPrefix + phone
	}

	if len(phone) < minPhoneLength {
		return "", dErrors.New(dErrors.CodeValidation, "phone number is too short")
	}
	for i, r := range phone {
		if i == 0 && r == '+' {
			continue
		}
		if r < '0' || r > '9' {
			return "", dErrors.New(dErrors.CodeValidation, "phone number must contain only digits")
		}
	}
	return phone, nil
}
