package participation

import (
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path, user string, body any) error
	Status() int
	Body() string
	FieldString(path string) (string, error)
	Save(key, value string)
	Saved(key string) string
}

// RegisterSteps registers survey and participation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &participationSteps{tc: tc}

	ctx.Step(`^"([^"]*)" publishes a survey "([^"]*)" with link "([^"]*)" and completion code "([^"]*)"$`, steps.publishSurvey)
	ctx.Step(`^"([^"]*)" tries to publish a survey "([^"]*)"$`, steps.tryPublish)
	ctx.Step(`^"([^"]*)" opens the survey$`, steps.openSurvey)
	ctx.Step(`^"([^"]*)" opens a participation without a survey$`, steps.openWithoutSurvey)
	ctx.Step(`^"([^"]*)" accepts the declaration$`, steps.acceptDeclaration)
	ctx.Step(`^"([^"]*)" declines the declaration$`, steps.declineDeclaration)
	ctx.Step(`^"([^"]*)" starts the survey$`, steps.start)
	ctx.Step(`^"([^"]*)" submits completion code "([^"]*)"$`, steps.verify)
	ctx.Step(`^"([^"]*)" reloads the participation$`, steps.reload)
	ctx.Step(`^"([^"]*)" views the participation of "([^"]*)"$`, steps.viewOther)
	ctx.Step(`^the participation is at step "([^"]*)"$`, steps.atStep)
}

type participationSteps struct {
	tc TestContext
}

func flowKey(user string) string {
	return "participation:" + user
}

func (s *participationSteps) flowPath(user, suffix string) (string, error) {
	flowID := s.tc.Saved(flowKey(user))
	if flowID == "" {
		return "", fmt.Errorf("%s has no open participation", user)
	}
	return "/v1/participations/" + flowID + suffix, nil
}

func (s *participationSteps) publishSurvey(user, title, link, code string) error {
	if err := s.tc.Do(http.MethodPost, "/v1/surveys", user, map[string]any{
		"title":           title,
		"description":     "e2e",
		"survey_link":     link,
		"completion_code": code,
	}); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusCreated {
		return fmt.Errorf("publish survey: status %d: %s", s.tc.Status(), s.tc.Body())
	}
	surveyID, err := s.tc.FieldString("survey.id")
	if err != nil {
		return err
	}
	s.tc.Save("survey_id", surveyID)
	return nil
}

func (s *participationSteps) tryPublish(user, title string) error {
	return s.tc.Do(http.MethodPost, "/v1/surveys", user, map[string]any{
		"title":           title,
		"survey_link":     "https://forms.gle/e2e",
		"completion_code": "E2E",
	})
}

func (s *participationSteps) open(user string, body map[string]any) error {
	if err := s.tc.Do(http.MethodPost, "/v1/participations", user, body); err != nil {
		return err
	}
	if s.tc.Status() == http.StatusCreated {
		flowID, err := s.tc.FieldString("id")
		if err != nil {
			return err
		}
		s.tc.Save(flowKey(user), flowID)
	}
	return nil
}

func (s *participationSteps) openSurvey(user string) error {
	return s.open(user, map[string]any{"survey_id": s.tc.Saved("survey_id")})
}

func (s *participationSteps) openWithoutSurvey(user string) error {
	return s.open(user, map[string]any{})
}

func (s *participationSteps) declare(user string, accepted bool) error {
	path, err := s.flowPath(user, "/declaration")
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodPost, path, user, map[string]any{"accepted": accepted})
}

func (s *participationSteps) acceptDeclaration(user string) error {
	return s.declare(user, true)
}

func (s *participationSteps) declineDeclaration(user string) error {
	return s.declare(user, false)
}

func (s *participationSteps) start(user string) error {
	path, err := s.flowPath(user, "/start")
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodPost, path, user, nil)
}

func (s *participationSteps) verify(user, code string) error {
	path, err := s.flowPath(user, "/verify")
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodPost, path, user, map[string]any{"code": code})
}

func (s *participationSteps) reload(user string) error {
	path, err := s.flowPath(user, "")
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodGet, path, user, nil)
}

func (s *participationSteps) viewOther(user, owner string) error {
	path, err := s.flowPath(owner, "")
	if err != nil {
		return err
	}
	return s.tc.Do(http.MethodGet, path, user, nil)
}

func (s *participationSteps) atStep(name string) error {
	got, err := s.tc.FieldString("step_name")
	if err != nil {
		return err
	}
	if got != name {
		return fmt.Errorf("expected step %q, got %q", name, got)
	}
	return nil
}
