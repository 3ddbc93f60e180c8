package survey

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"poltem/internal/platform/postgrest"
	id "poltem/pkg/domain"
	"poltem/pkg/requestcontext"
)

const surveysTable = "surveys"

type RESTStore struct {
	client *postgrest.Client
}

func NewRESTStore(client *postgrest.Client) *RESTStore {
	return &RESTStore{client: client}
}

type surveyRow struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	SurveyLink     string    `json:"survey_link"`
	CompletionCode string    `json:"completion_code"`
	TargetGender   string    `json:"target_gender"`
	TargetAgeGroup string    `json:"target_age_group"`
	CreatorID      string    `json:"creator_id"`
	Status         string    `json:"status"`
	Platform       string    `json:"platform"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *RESTStore) Create(ctx context.Context, sv *Survey) error {
	row := surveyRow{
		ID:             sv.ID.String(),
		Title:          sv.Title,
		Description:    sv.Description,
		SurveyLink:     sv.Link,
		CompletionCode: sv.CompletionCode,
		TargetGender:   string(sv.TargetGender),
		TargetAgeGroup: string(sv.TargetAgeGroup),
		CreatorID:      sv.CreatorID.String(),
		Status:         string(sv.Status),
		Platform:       sv.Platform,
		CreatedAt:      sv.CreatedAt,
	}
	if err := s.client.Insert(ctx, requestcontext.AccessToken(ctx), surveysTable, "", row, nil); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	return nil
}

func (s *RESTStore) Get(ctx context.Context, surveyID id.SurveyID) (*Survey, error) {
	var row surveyRow
	q := url.Values{"id": {postgrest.Eq(surveyID.String())}, "select": {"*"}}
	if err := s.client.SelectOne(ctx, requestcontext.AccessToken(ctx), surveysTable, q, &row); err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return row.toSurvey()
}

func (s *RESTStore) ListActive(ctx context.Context, limit int) ([]*Survey, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{
		"status": {postgrest.Eq(string(StatusActive))},
		"select": {"*"},
		"order":  {"created_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}
	var rows []surveyRow
	if err := s.client.Select(ctx, requestcontext.AccessToken(ctx), surveysTable, q, &rows); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	out := make([]*Survey, 0, len(rows))
	for _, row := range rows {
		sv, err := row.toSurvey()
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

func (r surveyRow) toSurvey() (*Survey, error) {
	surveyID, err := id.ParseSurveyID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("decode survey: %w", err)
	}
	creatorID, err := id.ParseAccountID(r.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("decode survey creator: %w", err)
	}
	return &Survey{
		ID:             surveyID,
		Title:          r.Title,
		Description:    r.Description,
		Link:           r.SurveyLink,
		CompletionCode: r.CompletionCode,
		TargetGender:   id.TargetGender(r.TargetGender),
		TargetAgeGroup: id.TargetAgeGroup(r.TargetAgeGroup),
		CreatorID:      creatorID,
		Status:         Status(r.Status),
		Platform:       r.Platform,
		CreatedAt:      r.CreatedAt.UTC(),
	}, nil
}
