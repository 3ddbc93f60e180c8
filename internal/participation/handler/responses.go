package handler

import (
	"time"

	"poltem/internal/participation"
	"poltem/pkg/platform/locale"
)

type SurveyResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Platform    string `json:"platform,omitempty"`
}

// FlowResponse renders a flow for the checklist screen. The display id is
// only revealed once the declaration is accepted; the completion code is
// never included.
type FlowResponse struct {
	ID             string              `json:"id"`
	Step           int                 `json:"step"`
	StepName       string              `json:"step_name"`
	DisplayID      string              `json:"display_id,omitempty"`
	Survey         *SurveyResponse     `json:"survey"`
	SurveyMissing  bool                `json:"survey_missing"`
	Declaration    *locale.Declaration `json:"declaration,omitempty"`
	CanStart       bool                `json:"can_start"`
	CanVerify      bool                `json:"can_verify"`
	VerifyAttempts int                 `json:"verify_attempts"`
	OpenedAt       time.Time           `json:"opened_at"`
	VerifiedAt     *time.Time          `json:"verified_at,omitempty"`
	FormURL        string              `json:"form_url,omitempty"`
	Notice         string              `json:"notice,omitempty"`
	Next           string              `json:"next,omitempty"`
}

// FromFlow renders f in language l.
func FromFlow(f *participation.Flow, l string) *FlowResponse {
	out := &FlowResponse{
		ID:             f.ID.String(),
		Step:           int(f.Step),
		StepName:       f.Step.String(),
		SurveyMissing:  f.Survey.IsMissing(),
		CanStart:       f.Step >= participation.StepDeclared && f.Step < participation.StepVerified && !f.Survey.IsMissing(),
		CanVerify:      f.Step == participation.StepFormOpened && !f.Survey.IsMissing(),
		VerifyAttempts: f.VerifyAttempts,
		OpenedAt:       f.OpenedAt,
		VerifiedAt:     f.VerifiedAt,
	}
	if snap := f.Survey.Survey; snap != nil {
		out.Survey = &SurveyResponse{
			ID:          snap.ID.String(),
			Title:       snap.Title,
			Description: snap.Description,
			Platform:    snap.Platform,
		}
	} else {
		out.Notice = locale.T(l, locale.NoticeSurveyLoadFailed)
	}
	switch f.Step {
	case participation.StepPending:
		d := locale.DeclarationFor(l)
		out.Declaration = &d
	case participation.StepDeclared:
		out.DisplayID = f.DisplayID
		if out.Notice == "" {
			out.Notice = locale.T(l, locale.NoticeDisplayIDCopyHint)
		}
	default:
		out.DisplayID = f.DisplayID
	}
	return out
}
