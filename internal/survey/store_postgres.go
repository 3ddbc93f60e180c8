package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poltem/internal/platform/postgres"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

const surveyColumns = `id, title, description, survey_link, completion_code, target_gender, target_age_group, creator_id, status, platform, created_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sv *Survey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO surveys (`+surveyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sv.ID.String(), sv.Title, sv.Description, sv.Link, sv.CompletionCode,
		string(sv.TargetGender), string(sv.TargetAgeGroup), sv.CreatorID.String(),
		string(sv.Status), sv.Platform, sv.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case postgres.IsUniqueViolation(err):
		return fmt.Errorf("create survey: %w", sentinel.ErrConflict)
	case postgres.IsPermissionDenied(err):
		return fmt.Errorf("create survey: %w", sentinel.ErrPermissionDenied)
	}
	return fmt.Errorf("create survey: %w", err)
}

func (s *PostgresStore) Get(ctx context.Context, surveyID id.SurveyID) (*Survey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, surveyID.String())
	sv, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get survey: %w", err)
	}
	return sv, nil
}

func (s *PostgresStore) ListActive(ctx context.Context, limit int) ([]*Survey, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		string(StatusActive), limit)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	var out []*Survey
	for rows.Next() {
		sv, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("list surveys: %w", err)
		}
		out = append(out, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row scanner) (*Survey, error) {
	var (
		sv                       Survey
		rawID, rawCreator        string
		gender, ageGroup, status string
	)
	if err := row.Scan(&rawID, &sv.Title, &sv.Description, &sv.Link, &sv.CompletionCode,
		&gender, &ageGroup, &rawCreator, &status, &sv.Platform, &sv.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if sv.ID, err = id.ParseSurveyID(rawID); err != nil {
		return nil, err
	}
	if sv.CreatorID, err = id.ParseAccountID(rawCreator); err != nil {
		return nil, err
	}
	sv.TargetGender = id.TargetGender(gender)
	sv.TargetAgeGroup = id.TargetAgeGroup(ageGroup)
	sv.Status = Status(status)
	sv.CreatedAt = sv.CreatedAt.UTC()
	return &sv, nil
}
