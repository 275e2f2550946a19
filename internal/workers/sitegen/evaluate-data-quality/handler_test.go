// internal/workers/sitegen/evaluate-data-quality/handler_test.go
package evaluatedataquality

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine"
	"sitegen-workers/internal/engine/questions"
	"sitegen-workers/internal/models"
)

func newTestHandler() *Handler {
	cfg := config.DefaultEngine()
	log := logger.NewTestLogger()
	now := func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return NewHandler(DefaultConfig(), engine.NewWithClock(cfg, log, now), questions.New(cfg, log), log)
}

func TestExecuteEvaluatesQuality(t *testing.T) {
	h := newTestHandler()

	output := h.Execute(&Input{
		RequestID: "req-9",
		Industry:  "plumbing",
		Profile: &models.ProfileRecord{
			Name:        "Smith Plumbing",
			Phone:       "555-0100",
			Description: "Emergency repair and drain cleaning, over 25 years in the trade.",
		},
	})

	assert.Equal(t, "req-9", output.RequestID)
	assert.Equal(t, "Smith Plumbing", output.Business.Record.Name)
	assert.Greater(t, output.Insight.OverallScore, 0)
	assert.LessOrEqual(t, output.Insight.OverallScore, 100)

	// Years extracted from the description land as an inferred fact.
	require.NotNil(t, output.Business.Record.YearsInBusiness)
	assert.Equal(t, 25, *output.Business.Record.YearsInBusiness)
	assert.Contains(t, output.Insight.InferredFacts, "years in business")

	// Gaps come back as prioritized questions rather than errors.
	assert.NotEmpty(t, output.Questions)
	for i, q := range output.Questions {
		assert.Equal(t, i+1, q.Priority)
	}
}

func TestExecuteBareInput(t *testing.T) {
	h := newTestHandler()

	output := h.Execute(&Input{Industry: "roofing"})

	assert.LessOrEqual(t, output.Insight.OverallScore, 20)
	assert.NotEmpty(t, output.Insight.Suggestions)
	assert.NotEmpty(t, output.Questions)
}

func TestExecuteOperatorAnswersSilenceQuestions(t *testing.T) {
	h := newTestHandler()

	input := &Input{
		Industry: "hvac",
		OperatorAnswers: &models.OperatorAnswers{
			Services: []string{"ac installation", "furnace repair"},
		},
	}

	output := h.Execute(input)
	for _, q := range output.Questions {
		assert.NotEqual(t, "services", q.Field)
	}

	// Re-running with the same answers is idempotent.
	assert.Equal(t, output, h.Execute(input))
}

func TestFailureConversionKeepsCode(t *testing.T) {
	wrapped := toStandardError(fmt.Errorf("bad payload"))
	assert.Equal(t, errors.ErrorCode("EVALUATE_DATA_QUALITY_ERROR"), wrapped.Code)
	assert.False(t, wrapped.Retryable)

	// The parse-failure path converts through the BPMN layer unchanged.
	parse := errors.NewInputParsingFailedError(fmt.Errorf("unexpected end of JSON input"))
	bpmn := errors.ConvertToBPMNError(parse)
	assert.Equal(t, string(errors.ErrCodeInputParsingFailed), bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Equal(t, "unexpected end of JSON input", bpmn.Details)
}
