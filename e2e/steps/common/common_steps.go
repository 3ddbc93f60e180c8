package common

import (
	"fmt"
	"regexp"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Status() int
	Body() string
	Field(path string) (any, error)
	FieldString(path string) (string, error)
}

// RegisterSteps registers response assertions shared by every feature
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response error should be "([^"]*)"$`, steps.errorShouldBe)
	ctx.Step(`^the response notice should be "([^"]*)"$`, steps.noticeShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response field "([^"]*)" should match "([^"]*)"$`, steps.fieldShouldMatch)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.shouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.shouldNotContain)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) statusShouldBe(expected int) error {
	if got := s.tc.Status(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) errorShouldBe(code string) error {
	return s.fieldShouldBe("error", code)
}

func (s *commonSteps) noticeShouldBe(text string) error {
	return s.fieldShouldBe("notice", text)
}

func (s *commonSteps) fieldShouldBe(path, expected string) error {
	got, err := s.tc.FieldString(path)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s = %q, got %q", path, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(path, expected string) error {
	return s.fieldShouldBe(path, expected)
}

func (s *commonSteps) fieldShouldMatch(path, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	got, err := s.tc.FieldString(path)
	if err != nil {
		return err
	}
	if !re.MatchString(got) {
		return fmt.Errorf("expected %s to match %q, got %q", path, pattern, got)
	}
	return nil
}

func (s *commonSteps) shouldContain(path string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("field %s is null", path)
	}
	return nil
}

func (s *commonSteps) shouldNotContain(path string) error {
	if v, err := s.tc.Field(path); err == nil && v != nil {
		return fmt.Errorf("expected no %s, got %v", path, v)
	}
	return nil
}
