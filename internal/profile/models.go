package profile

import (
	"strings"
	"time"

	id "poltem/pkg/domain"
)

// Profile is the participant's personal and payout record, one per account.
type Profile struct {
	ID           id.AccountID `json:"id"`
	FullName     string       `json:"full_name"`
	Phone        string       `json:"phone"`
	Gender       string       `json:"gender"`
	BirthDate    string       `json:"birth_date"`
	BankName     string       `json:"bank_name"`
	IBAN         string       `json:"iban"`
	FullNameBank string       `json:"full_name_bank"`
	IsResearcher bool         `json:"is_researcher"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsEmpty reports whether nothing has been saved for the account yet.
func (p *Profile) IsEmpty() bool {
	return p.UpdatedAt.IsZero() && p.FullName == "" && p.Phone == ""
}

// Input is the client-editable part of a profile. The researcher flag is
// absent on purpose: it is granted out of band.
type Input struct {
	FullName     string
	Phone        string
	Gender       string
	BirthDate    string
	BankName     string
	IBAN         string
	FullNameBank string
}

// SaveResult reports a save. Pending is set when the record store refused the
// write for lack of permission; the user may continue regardless.
type SaveResult struct {
	Profile *Profile
	Pending bool
	Notice  string
}

// NormalizeIBAN strips all whitespace and upper-cases the result.
func NormalizeIBAN(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}
