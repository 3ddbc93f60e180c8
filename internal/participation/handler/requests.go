package handler

import (
	"strings"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
)

const maxCodeLength = 128

type OpenRequest struct {
	SurveyID string `json:"survey_id"`

	surveyID *id.SurveyID
}

// Validate parses the optional survey id. An absent id opens a flow without
// a survey.
func (r *OpenRequest) Validate() error {
	if r == nil {
		return nil
	}
	r.SurveyID = strings.TrimSpace(r.SurveyID)
	if r.SurveyID == "" {
		return nil
	}
	parsed, err := id.ParseSurveyID(r.SurveyID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid survey_id")
	}
	r.surveyID = &parsed
	return nil
}

type DeclarationRequest struct {
	Accepted bool `json:"accepted"`
}

type VerifyRequest struct {
	Code string `json:"code"`
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Code) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "code is too long")
	}
	return nil
}
