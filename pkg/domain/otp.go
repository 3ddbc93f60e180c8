package domain

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

const OTPLength = 6

// CheckOTPCode trims a one-time code and requires exactly six digits.
func CheckOTPCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if len(code) != OTPLength {
		return "", dErrors.New(dErrors.CodeValidation, "code must be 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", dErrors.New(dErrors.CodeValidation, "code must be 6 digits")
		}
	}
	return code, nil
}
