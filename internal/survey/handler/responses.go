package handler

import (
	"time"

	"poltem/internal/survey"
	id "poltem/pkg/domain"
)

// SurveyResponse omits the completion code unless the viewer created the
// survey; participants prove completion by typing it back.
type SurveyResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	SurveyLink     string    `json:"survey_link"`
	CompletionCode string    `json:"completion_code,omitempty"`
	TargetGender   string    `json:"target_gender"`
	TargetAgeGroup string    `json:"target_age_group"`
	Status         string    `json:"status"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"created_at"`
	OwnedByViewer  bool      `json:"owned_by_viewer"`
}

type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
	Count   int              `json:"count"`
}

type CreateSurveyResponse struct {
	Survey SurveyResponse `json:"survey"`
	Notice string         `json:"notice,omitempty"`
	Next   string         `json:"next"`
}

func FromSurvey(sv *survey.Survey, viewer id.AccountID) SurveyResponse {
	owned := !viewer.IsNil() && sv.CreatorID == viewer
	out := SurveyResponse{
		ID:             sv.ID.String(),
		Title:          sv.Title,
		Description:    sv.Description,
		SurveyLink:     sv.Link,
		TargetGender:   string(sv.TargetGender),
		TargetAgeGroup: string(sv.TargetAgeGroup),
		Status:         string(sv.Status),
		Platform:       sv.Platform,
		CreatedAt:      sv.CreatedAt,
		OwnedByViewer:  owned,
	}
	if owned {
		out.CompletionCode = sv.CompletionCode
	}
	return out
}

func FromSurveys(list []*survey.Survey, viewer id.AccountID) *SurveyListResponse {
	out := &SurveyListResponse{Surveys: make([]SurveyResponse, 0, len(list))}
	for _, sv := range list {
		out.Surveys = append(out.Surveys, FromSurvey(sv, viewer))
	}
	out.Count = len(out.Surveys)
	return out
}
