package home

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/identity"
	"poltem/internal/profile"
	"poltem/internal/survey"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/requestcontext"
)

type fakeAccounts struct{ err error }

func (f fakeAccounts) Me(_ context.Context, p requestcontext.Principal) (*identity.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &identity.Account{ID: p.AccountID, Email: "ayse@poltemakademi.com"}, nil
}

type fakeProfiles struct{ researcher bool }

func (f fakeProfiles) Get(_ context.Context, accountID id.AccountID) (*profile.Profile, error) {
	return &profile.Profile{ID: accountID, FullName: "Ayşe", Phone: "05551112233", IsResearcher: f.researcher}, nil
}

type blockingSurveys struct{}

// ListActive waits for cancellation, proving a sibling failure stops it.
func (blockingSurveys) ListActive(ctx context.Context) ([]*survey.Survey, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeSurveys struct{ list []*survey.Survey }

func (f fakeSurveys) ListActive(context.Context) ([]*survey.Survey, error) {
	return f.list, nil
}

func TestOverview(t *testing.T) {
	p := requestcontext.Principal{AccountID: id.NewAccountID()}
	list := []*survey.Survey{{ID: id.NewSurveyID(), Title: "Kahve"}}

	t.Run("participant", func(t *testing.T) {
		svc := NewService(fakeAccounts{}, fakeProfiles{}, fakeSurveys{list: list})
		ov, err := svc.Overview(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, p.AccountID, ov.Account.ID)
		assert.Len(t, ov.Surveys, 1)
		assert.False(t, ov.IsResearcher)
		assert.False(t, ov.CanCreateSurvey)
		assert.True(t, ov.ProfileComplete)
	})

	t.Run("researcher can create surveys", func(t *testing.T) {
		svc := NewService(fakeAccounts{}, fakeProfiles{researcher: true}, fakeSurveys{})
		ov, err := svc.Overview(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, ov.IsResearcher)
		assert.True(t, ov.CanCreateSurvey)
	})

	t.Run("first failure cancels the rest", func(t *testing.T) {
		expired := dErrors.New(dErrors.CodeUnauthorized, "session expired")
		svc := NewService(fakeAccounts{err: expired}, fakeProfiles{}, blockingSurveys{})
		_, err := svc.Overview(context.Background(), p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, expired))
	})
}
