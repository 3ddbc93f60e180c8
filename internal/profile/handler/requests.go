package handler

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

const (
	maxFieldLength = 128
	maxIBANLength  = 64
)

// SaveProfileRequest carries the editable profile fields. Clients cannot
// set is_researcher; an unknown field is rejected by the decoder.
type SaveProfileRequest struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	BirthDate    string `json:"birth_date"`
	BankName     string `json:"bank_name"`
	IBAN         string `json:"iban"`
	FullNameBank string `json:"full_name_bank"`
}

func (r *SaveProfileRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	for _, f := range []*string{&r.FullName, &r.Phone, &r.Gender, &r.BirthDate, &r.BankName, &r.FullNameBank} {
		*f = strings.TrimSpace(*f)
		if len(*f) > maxFieldLength {
			return dErrors.New(dErrors.CodeValidation, "profile field is too long")
		}
	}
	if len(r.IBAN) > maxIBANLength {
		return dErrors.New(dErrors.CodeValidation, "iban is too long")
	}
	return nil
}
