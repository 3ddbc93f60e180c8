package participation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func foundFlow(code string) *Flow {
	return NewFlow(id.NewAccountID(), Found(SurveySnapshot{
		ID:             id.NewSurveyID(),
		Title:          "Kahve Alışkanlıkları",
		Link:           "https://forms.gle/kahve",
		CompletionCode: code,
	}), "AC-123456", t0)
}

func openedFlow(t *testing.T, code string) *Flow {
	t.Helper()
	f := foundFlow(code)
	f.Declare(t0)
	_, err := f.Start(t0)
	require.NoError(t, err)
	return f
}

func TestFlow_HappyPath(t *testing.T) {
	f := foundFlow("KAHVE2026")
	assert.Equal(t, StepPending, f.Step)

	f.Declare(t0.Add(time.Minute))
	assert.Equal(t, StepDeclared, f.Step)

	link, err := f.Start(t0.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "https://forms.gle/kahve", link)
	assert.Equal(t, StepFormOpened, f.Step)

	require.NoError(t, f.Verify("kahve2026", t0.Add(10*time.Minute)))
	assert.Equal(t, StepVerified, f.Step)
	require.NotNil(t, f.VerifiedAt)
	assert.Equal(t, 1, f.VerifyAttempts)
}

func TestFlow_VerifyComparison(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		input  string
		ok     bool
	}{
		{"lower case input", "KAHVE2026", "kahve2026", true},
		{"surrounding spaces", "KAHVE2026", "  KAHVE2026 \t", true},
		{"stored mixed case", "Kahve2026", "KAHVE2026", true},
		{"wrong year", "KAHVE2026", "KAHVE2025", false},
		{"prefix only", "KAHVE2026", "KAHVE", false},
		{"stored code is not trimmed", " KAHVE2026", "KAHVE2026", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := openedFlow(t, tt.stored)
			err := f.Verify(tt.input, t0)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, StepVerified, f.Step)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeCodeMismatch))
			assert.Equal(t, StepFormOpened, f.Step)
		})
	}
}

func TestFlow_MismatchHasNoLockout(t *testing.T) {
	f := openedFlow(t, "KAHVE2026")
	for range 20 {
		err := f.Verify("nope", t0)
		require.True(t, dErrors.HasCode(err, dErrors.CodeCodeMismatch))
	}
	assert.Equal(t, 20, f.VerifyAttempts)
	require.NoError(t, f.Verify("KAHVE2026", t0))
}

func TestFlow_EmptyCodeRejected(t *testing.T) {
	f := openedFlow(t, "KAHVE2026")
	err := f.Verify("   ", t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, 0, f.VerifyAttempts)
}

func TestFlow_OutOfOrder(t *testing.T) {
	t.Run("start before declaration", func(t *testing.T) {
		f := foundFlow("X")
		_, err := f.Start(t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		assert.Equal(t, StepPending, f.Step)
	})

	t.Run("verify before start", func(t *testing.T) {
		f := foundFlow("X")
		f.Declare(t0)
		err := f.Verify("X", t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		assert.Equal(t, StepDeclared, f.Step)
	})

	t.Run("steps are idempotent and never decrease", func(t *testing.T) {
		f := openedFlow(t, "X")
		f.Declare(t0)
		assert.Equal(t, StepFormOpened, f.Step)
		_, err := f.Start(t0)
		require.NoError(t, err)
		assert.Equal(t, StepFormOpened, f.Step)

		require.NoError(t, f.Verify("x", t0))
		f.Declare(t0)
		_, err = f.Start(t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		err = f.Verify("x", t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
		assert.Equal(t, StepVerified, f.Step)
	})
}

func TestFlow_MissingSurvey(t *testing.T) {
	f := NewFlow(id.NewAccountID(), Missing(), "AC-654321", t0)
	assert.True(t, f.Survey.IsMissing())

	f.Declare(t0)
	_, err := f.Start(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSurveyLinkMissing))
	assert.Equal(t, StepDeclared, f.Step)

	// Even when forced to step 3 a missing survey can never verify.
	f.Step = StepFormOpened
	for _, code := range []string{"", "anything", "AC-654321"} {
		err = f.Verify(code, t0)
		require.Error(t, err)
		assert.Equal(t, StepFormOpened, f.Step)
	}
	assert.True(t, dErrors.HasCode(f.Verify("anything", t0), dErrors.CodeSurveyUnavailable))
}

func TestFlow_FoundSurveyWithoutLink(t *testing.T) {
	f := NewFlow(id.NewAccountID(), Found(SurveySnapshot{ID: id.NewSurveyID(), CompletionCode: "X", Link: "  "}), "AC-111111", t0)
	f.Declare(t0)
	_, err := f.Start(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSurveyLinkMissing))
	assert.Equal(t, StepDeclared, f.Step)
}
