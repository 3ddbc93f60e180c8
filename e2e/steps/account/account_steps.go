package account

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// DefaultPassword satisfies the password policy.
const DefaultPassword = "Guclu!Sifre1"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, user string, body any) error
	Status() int
	Body() string
	FieldString(path string) (string, error)
	SetToken(user, token string)
	SetAccountID(user, accountID string)
	GrantResearcher(user string) error
}

// RegisterSteps registers account flow step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &accountSteps{tc: tc}

	ctx.Step(`^a participant "([^"]*)" is registered$`, steps.participantRegistered)
	ctx.Step(`^a researcher "([^"]*)" is registered$`, steps.researcherRegistered)
	ctx.Step(`^"([^"]*)" registers with password "([^"]*)"$`, steps.registerWithPassword)
	ctx.Step(`^"([^"]*)" registers without accepting the agreements$`, steps.registerWithoutAgreements)
	ctx.Step(`^"([^"]*)" logs in with password "([^"]*)"$`, steps.login)
	ctx.Step(`^"([^"]*)" requests their account$`, steps.me)
	ctx.Step(`^"([^"]*)" logs out$`, steps.logout)
	ctx.Step(`^"([^"]*)" loads the home screen$`, steps.home)
}

type accountSteps struct {
	tc TestContext
}

func displayName(user string) string {
	return strings.ToUpper(user[:1]) + user[1:] + " Test"
}

func (s *accountSteps) register(user, password string, accepted bool) error {
	return s.tc.Do(http.MethodPost, "/v1/auth/register", "", map[string]any{
		"full_name":      displayName(user),
		"identifier":     user,
		"password":       password,
		"kvkk_accepted":  accepted,
		"terms_accepted": accepted,
	})
}

// keepSession stores the token and account id of a successful sign-in.
func (s *accountSteps) keepSession(user string) error {
	if s.tc.Status() != http.StatusOK {
		return nil
	}
	token, err := s.tc.FieldString("session.access_token")
	if err != nil {
		return err
	}
	accountID, err := s.tc.FieldString("session.account.id")
	if err != nil {
		return err
	}
	s.tc.SetToken(user, token)
	s.tc.SetAccountID(user, accountID)
	return nil
}

func (s *accountSteps) registerWithPassword(user, password string) error {
	if err := s.register(user, password, true); err != nil {
		return err
	}
	return s.keepSession(user)
}

func (s *accountSteps) participantRegistered(user string) error {
	if err := s.registerWithPassword(user, DefaultPassword); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("register %s: status %d: %s", user, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *accountSteps) researcherRegistered(user string) error {
	if err := s.participantRegistered(user); err != nil {
		return err
	}
	return s.tc.GrantResearcher(user)
}

func (s *accountSteps) registerWithoutAgreements(user string) error {
	return s.register(user, DefaultPassword, false)
}

func (s *accountSteps) login(user, password string) error {
	if err := s.tc.Do(http.MethodPost, "/v1/auth/login", "", map[string]any{
		"identifier": user,
		"password":   password,
	}); err != nil {
		return err
	}
	return s.keepSession(user)
}

func (s *accountSteps) me(user string) error {
	return s.tc.Do(http.MethodGet, "/v1/auth/me", user, nil)
}

func (s *accountSteps) logout(user string) error {
	return s.tc.Do(http.MethodPost, "/v1/auth/logout", user, nil)
}

func (s *accountSteps) home(user string) error {
	return s.tc.Do(http.MethodGet, "/v1/home", user, nil)
}
