package handler

import (
	"time"

	"poltem/internal/profile"
)

type ProfileResponse struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	Gender       string     `json:"gender"`
	BirthDate    string     `json:"birth_date"`
	BankName     string     `json:"bank_name"`
	IBAN         string     `json:"iban"`
	FullNameBank string     `json:"full_name_bank"`
	IsResearcher bool       `json:"is_researcher"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type SaveProfileResponse struct {
	Profile ProfileResponse `json:"profile"`
	Status  string          `json:"status"`
	Notice  string          `json:"notice,omitempty"`
	Next    string          `json:"next"`
}

func FromProfile(p *profile.Profile) ProfileResponse {
	out := ProfileResponse{
		ID:           p.ID.String(),
		FullName:     p.FullName,
		Phone:        p.Phone,
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
		BankName:     p.BankName,
		IBAN:         p.IBAN,
		FullNameBank: p.FullNameBank,
		IsResearcher: p.IsResearcher,
	}
	if !p.UpdatedAt.IsZero() {
		at := p.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}
