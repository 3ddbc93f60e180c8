package handler

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 4000
	maxLinkLength        = 2048
	maxCodeLength        = 128
)

type CreateSurveyRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	SurveyLink     string `json:"survey_link"`
	CompletionCode string `json:"completion_code"`
	TargetGender   string `json:"target_gender"`
	TargetAgeGroup string `json:"target_age_group"`
}

func (r *CreateSurveyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.SurveyLink = strings.TrimSpace(r.SurveyLink)
	r.CompletionCode = strings.TrimSpace(r.CompletionCode)
	r.TargetGender = strings.ToLower(strings.TrimSpace(r.TargetGender))
	r.TargetAgeGroup = strings.TrimSpace(r.TargetAgeGroup)
	switch {
	case len(r.Title) > maxTitleLength:
		return dErrors.New(dErrors.CodeValidation, "title is too long")
	case len(r.Description) > maxDescriptionLength:
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	case len(r.SurveyLink) > maxLinkLength:
		return dErrors.New(dErrors.CodeValidation, "survey link is too long")
	case len(r.CompletionCode) > maxCodeLength:
		return dErrors.New(dErrors.CodeValidation, "completion code is too long")
	}
	return nil
}
