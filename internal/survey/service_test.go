package survey_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"poltem/internal/survey"
	"poltem/internal/survey/mocks"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/audit"
	"poltem/pkg/platform/sentinel"
	"poltem/pkg/requestcontext"
)

type researchers map[id.AccountID]bool

func (r researchers) IsResearcher(_ context.Context, accountID id.AccountID) (bool, error) {
	return r[accountID], nil
}

type countingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *countingAuditor) Record(_ context.Context, e audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

type ServiceSuite struct {
	suite.Suite
	ctx         context.Context
	now         time.Time
	researcher  id.AccountID
	participant id.AccountID
	store       *survey.InMemoryStore
	auditor     *countingAuditor
	service     *survey.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.researcher = id.NewAccountID()
	s.participant = id.NewAccountID()
	s.store = survey.NewInMemoryStore()
	s.auditor = &countingAuditor{}
	s.service = survey.NewService(s.store, researchers{s.researcher: true}, survey.WithAuditor(s.auditor))
}

func (s *ServiceSuite) validInput() survey.CreateInput {
	return survey.CreateInput{
		Title:          "  Sosyal Medya Kullanımı ",
		Description:    "15 dakika",
		Link:           "https://forms.gle/abc123",
		CompletionCode: " POLTEM-42 ",
	}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("publishes with defaults", func() {
		sv, err := s.service.Create(s.ctx, s.researcher, s.validInput())
		s.Require().NoError(err)
		s.Equal("Sosyal Medya Kullanımı", sv.Title)
		s.Equal("POLTEM-42", sv.CompletionCode)
		s.Equal(id.TargetGenderAll, sv.TargetGender)
		s.Equal(id.TargetAgeAll, sv.TargetAgeGroup)
		s.Equal(survey.StatusActive, sv.Status)
		s.Equal(survey.DefaultPlatform, sv.Platform)
		s.Equal(s.researcher, sv.CreatorID)
		s.Equal(s.now, sv.CreatedAt)
		s.Len(s.auditor.events, 1)

		got, err := s.service.Get(s.ctx, sv.ID)
		s.Require().NoError(err)
		s.Equal(sv.Link, got.Link)
	})

	s.Run("non researcher is forbidden", func() {
		_, err := s.service.Create(s.ctx, s.participant, s.validInput())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("required fields", func() {
		in := s.validInput()
		in.CompletionCode = "   "
		_, err := s.service.Create(s.ctx, s.researcher, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("link must be http or https", func() {
		for _, link := range []string{"forms.gle/abc", "ftp://forms.gle/abc", "javascript:alert(1)"} {
			in := s.validInput()
			in.Link = link
			_, err := s.service.Create(s.ctx, s.researcher, in)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), link)
		}
	})

	s.Run("audience enums are checked", func() {
		in := s.validInput()
		in.TargetGender = "female"
		in.TargetAgeGroup = "18-24"
		sv, err := s.service.Create(s.ctx, s.researcher, in)
		s.Require().NoError(err)
		s.Equal(id.TargetGenderFemale, sv.TargetGender)

		in.TargetAgeGroup = "12-17"
		_, err = s.service.Create(s.ctx, s.researcher, in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestGetAndList() {
	_, err := s.service.Get(s.ctx, id.NewSurveyID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	first, err := s.service.Create(s.ctx, s.researcher, s.validInput())
	s.Require().NoError(err)
	later := s.validInput()
	later.Title = "İkinci anket"
	second, err := s.service.Create(requestcontext.WithTime(s.ctx, s.now.Add(time.Hour)), s.researcher, later)
	s.Require().NoError(err)

	list, err := s.service.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
}

func (s *ServiceSuite) TestStoreFailures() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockStore(ctrl)
	svc := survey.NewService(store, researchers{s.researcher: true})

	store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("create survey: %w", sentinel.ErrPermissionDenied))
	_, err := svc.Create(s.ctx, s.researcher, s.validInput())
	s.True(dErrors.HasCode(err, dErrors.CodePermissionDenied))

	store.EXPECT().ListActive(gomock.Any(), 50).Return(nil, fmt.Errorf("list surveys: %w", sentinel.ErrUnavailable))
	_, err = svc.ListActive(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestAbandonedCreateDoesNotFailItsDuplicate() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockStore(ctrl)
	svc := survey.NewService(store, researchers{s.researcher: true})

	entered := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *survey.Survey) error {
			close(entered)
			<-release
			return ctx.Err()
		}).Times(1)

	firstCtx, cancelFirst := context.WithCancel(s.ctx)
	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Create(firstCtx, s.researcher, s.validInput())
		firstDone <- err
	}()
	<-entered

	type outcome struct {
		sv  *survey.Survey
		err error
	}
	secondDone := make(chan outcome, 1)
	go func() {
		sv, err := svc.Create(s.ctx, s.researcher, s.validInput())
		secondDone <- outcome{sv, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	s.True(dErrors.HasCode(<-firstDone, dErrors.CodeTimeout))

	close(release)
	got := <-secondDone
	s.Require().NoError(got.err)
	s.Equal("POLTEM-42", got.sv.CompletionCode)
}
