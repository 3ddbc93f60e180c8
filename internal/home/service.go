// Package home assembles the landing view: who is signed in, their profile
// and the surveys open for participation.
package home

import (
	"context"

	"golang.org/x/sync/errgroup"

	"poltem/internal/identity"
	"poltem/internal/profile"
	"poltem/internal/survey"
	id "poltem/pkg/domain"
	"poltem/pkg/requestcontext"
)

type Accounts interface {
	Me(ctx context.Context, p requestcontext.Principal) (*identity.Account, error)
}

type Profiles interface {
	Get(ctx context.Context, accountID id.AccountID) (*profile.Profile, error)
}

type Surveys interface {
	ListActive(ctx context.Context) ([]*survey.Survey, error)
}

// Overview is the home screen model.
type Overview struct {
	Account         *identity.Account
	Profile         *profile.Profile
	Surveys         []*survey.Survey
	IsResearcher    bool
	CanCreateSurvey bool
	ProfileComplete bool
}

type Service struct {
	accounts Accounts
	profiles Profiles
	surveys  Surveys
}

func NewService(accounts Accounts, profiles Profiles, surveys Surveys) *Service {
	return &Service{
		accounts: accounts,
		profiles: profiles,
		surveys:  surveys,
	}
}

// Overview fetches the three parts concurrently; the first failure cancels
// the others and is returned.
func (s *Service) Overview(ctx context.Context, p requestcontext.Principal) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acct, err := s.accounts.Me(gctx, p)
		out.Account = acct
		return err
	})
	g.Go(func() error {
		prof, err := s.profiles.Get(gctx, p.AccountID)
		out.Profile = prof
		return err
	})
	g.Go(func() error {
		list, err := s.surveys.ListActive(gctx)
		out.Surveys = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.IsResearcher = out.Profile.IsResearcher
	out.CanCreateSurvey = out.IsResearcher
	out.ProfileComplete = out.Profile.FullName != "" && out.Profile.Phone != ""
	return &out, nil
}
