package domain

import dErrors "poltem/pkg/domain-errors"

// Agreement identifies a statement the user must accept. Registration needs
// the KVKK notice and the user terms; participation needs the declaration.
//
// Usage: construct via ParseAgreement at trust boundaries; direct casting
// bypasses the allowlist.
type Agreement string

const (
	AgreementKVKK        Agreement = "kvkk"
	AgreementUserTerms   Agreement = "user_terms"
	AgreementDeclaration Agreement = "participation_declaration"
)

var validAgreements = map[Agreement]bool{
	AgreementKVKK:        true,
	AgreementUserTerms:   true,
	AgreementDeclaration: true,
}

// RegistrationAgreements lists what Register requires, in display order.
var RegistrationAgreements = []Agreement{AgreementKVKK, AgreementUserTerms}

func ParseAgreement(s string) (Agreement, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "agreement cannot be empty")
	}
	a := Agreement(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid agreement")
	}
	return a, nil
}

func (a Agreement) IsValid() bool {
	return validAgreements[a]
}

func (a Agreement) String() string {
	return string(a)
}
