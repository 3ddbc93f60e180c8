package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "poltem/pkg/domain-errors"
)

// Typed identifiers keep account, survey, and participation ids from being
// mixed up at compile time. All are UUIDs assigned by the record store or the
// gateway.
type (
	AccountID       uuid.UUID
	SurveyID        uuid.UUID
	ParticipationID uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" || strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > 64 || !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID("account id", s)
	return AccountID(u), err
}

func ParseSurveyID(s string) (SurveyID, error) {
	u, err := parseUUID("survey id", s)
	return SurveyID(u), err
}

func ParseParticipationID(s string) (ParticipationID, error) {
	u, err := parseUUID("participation id", s)
	return ParticipationID(u), err
}

func NewSurveyID() SurveyID               { return SurveyID(uuid.New()) }
func NewParticipationID() ParticipationID { return ParticipationID(uuid.New()) }
func NewAccountID() AccountID             { return AccountID(uuid.New()) }

func (id AccountID) String() string       { return uuid.UUID(id).String() }
func (id SurveyID) String() string        { return uuid.UUID(id).String() }
func (id ParticipationID) String() string { return uuid.UUID(id).String() }

func (id AccountID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SurveyID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ParticipationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id AccountID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id SurveyID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id ParticipationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AccountID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = AccountID(u)
	return nil
}

func (id *SurveyID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = SurveyID(u)
	return nil
}

func (id *ParticipationID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = ParticipationID(u)
	return nil
}
