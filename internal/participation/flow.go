package participation

import (
	"strings"
	"time"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
)

// Step is the position in the four-step participation checklist. It never
// decreases within one flow; re-opening creates a new flow at StepPending.
type Step int

const (
	StepPending    Step = 1 // declaration not yet accepted
	StepDeclared   Step = 2 // display id visible
	StepFormOpened Step = 3 // external form launched, waiting for the code
	StepVerified   Step = 4 // terminal
)

func (s Step) String() string {
	switch s {
	case StepPending:
		return "declaration_pending"
	case StepDeclared:
		return "declared"
	case StepFormOpened:
		return "form_opened"
	case StepVerified:
		return "verified"
	}
	return "unknown"
}

// SurveySnapshot is the part of a survey record a flow needs. It is copied
// at open time so a flow is unaffected by later edits to the record.
type SurveySnapshot struct {
	ID             id.SurveyID `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Link           string      `json:"link"`
	CompletionCode string      `json:"completion_code"`
	Platform       string      `json:"platform,omitempty"`
}

// SurveyParam is either a found survey or Missing. A Missing flow can be
// declared but never started or verified.
type SurveyParam struct {
	Survey *SurveySnapshot `json:"survey,omitempty"`
}

// Found wraps a snapshot.
func Found(s SurveySnapshot) SurveyParam {
	return SurveyParam{Survey: &s}
}

// Missing is the variant for a flow opened without a usable survey.
func Missing() SurveyParam {
	return SurveyParam{}
}

func (p SurveyParam) IsMissing() bool {
	return p.Survey == nil
}

func (p SurveyParam) link() string {
	if p.Survey == nil {
		return ""
	}
	return strings.TrimSpace(p.Survey.Link)
}

// Flow is one participation attempt owned by one account.
type Flow struct {
	ID             id.ParticipationID `json:"id"`
	AccountID      id.AccountID       `json:"account_id"`
	Survey         SurveyParam        `json:"survey_param"`
	Step           Step               `json:"step"`
	DisplayID      string             `json:"display_id"`
	VerifyAttempts int                `json:"verify_attempts"`
	OpenedAt       time.Time          `json:"opened_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	VerifiedAt     *time.Time         `json:"verified_at,omitempty"`
}

// NewFlow starts a flow at StepPending.
func NewFlow(accountID id.AccountID, survey SurveyParam, displayID string, now time.Time) *Flow {
	return &Flow{
		ID:        id.NewParticipationID(),
		AccountID: accountID,
		Survey:    survey,
		Step:      StepPending,
		DisplayID: displayID,
		OpenedAt:  now,
		UpdatedAt: now,
	}
}

// Declare accepts the participation declaration. Repeating it is a no-op.
func (f *Flow) Declare(now time.Time) {
	if f.Step >= StepDeclared {
		return
	}
	f.Step = StepDeclared
	f.UpdatedAt = now
}

// Start returns the external form URL and moves to StepFormOpened. A flow
// without a link keeps its state.
func (f *Flow) Start(now time.Time) (string, error) {
	switch {
	case f.Step < StepDeclared:
		return "", dErrors.New(dErrors.CodeInvalidState, "participation declaration must be accepted first")
	case f.Step == StepVerified:
		return "", dErrors.New(dErrors.CodeInvalidState, "participation already verified")
	}
	link := f.Survey.link()
	if link == "" {
		return "", dErrors.New(dErrors.CodeSurveyLinkMissing, "survey link is missing")
	}
	if f.Step < StepFormOpened {
		f.Step = StepFormOpened
		f.UpdatedAt = now
	}
	return link, nil
}

// Verify compares the trimmed, upper-cased code with the survey's
// upper-cased completion code. A mismatch counts the attempt and leaves the step.
func (f *Flow) Verify(code string, now time.Time) error {
	if f.Step != StepFormOpened {
		if f.Step == StepVerified {
			return dErrors.New(dErrors.CodeInvalidState, "participation already verified")
		}
		return dErrors.New(dErrors.CodeInvalidState, "survey form has not been opened")
	}
	input := normalizeCode(code)
	if input == "" {
		return dErrors.New(dErrors.CodeValidation, "completion code is required")
	}
	if f.Survey.IsMissing() {
		return dErrors.New(dErrors.CodeSurveyUnavailable, "survey record is unavailable")
	}
	f.VerifyAttempts++
	f.UpdatedAt = now
	if input != strings.ToUpper(f.Survey.Survey.CompletionCode) {
		return dErrors.New(dErrors.CodeCodeMismatch, "completion code does not match")
	}
	f.Step = StepVerified
	verified := now
	f.VerifiedAt = &verified
	return nil
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
