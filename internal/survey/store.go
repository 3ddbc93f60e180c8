package survey

import (
	"context"

	id "poltem/pkg/domain"
)

//go:generate mockgen -source=store.go -destination=mocks/store-mocks.go -package=mocks Store

// Store persists surveys. Get returns sentinel.ErrNotFound for unknown ids;
// Create may return sentinel.ErrPermissionDenied from row-level security.
type Store interface {
	Create(ctx context.Context, s *Survey) error
	Get(ctx context.Context, surveyID id.SurveyID) (*Survey, error)
	ListActive(ctx context.Context, limit int) ([]*Survey, error)
}
