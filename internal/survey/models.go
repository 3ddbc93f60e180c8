package survey

import (
	"time"

	id "poltem/pkg/domain"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// DefaultPlatform is the only form host surveys are published on.
const DefaultPlatform = "Google Forms"

// Survey is an externally hosted questionnaire. CompletionCode is shown to
// participants by the form on its last page and is never returned to them
// by this service.
type Survey struct {
	ID             id.SurveyID
	Title          string
	Description    string
	Link           string
	CompletionCode string
	TargetGender   id.TargetGender
	TargetAgeGroup id.TargetAgeGroup
	CreatorID      id.AccountID
	Status         Status
	Platform       string
	CreatedAt      time.Time
}

// HasLink reports whether the survey can be opened.
func (s *Survey) HasLink() bool {
	return s != nil && s.Link != ""
}

type CreateInput struct {
	Title          string
	Description    string
	Link           string
	CompletionCode string
	TargetGender   string
	TargetAgeGroup string
}
