// internal/workers/sitegen/select-site-template/handler_test.go
package selectsitetemplate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/catalog"
	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine"
	"sitegen-workers/internal/models"
)

const testCatalogYAML = `
templates:
  - id: trade-classic
    name: Trade Classic
    industries:
      included: [plumbing, hvac, electrical]
    keywords:
      positive: [repair, emergency]
    sections:
      - type: hero
        variants:
          - id: hero-image
            requirements:
              require_hero: true
          - id: hero-text
            requirements:
              text_fields:
                - field: name
      - type: services
        variants:
          - id: services-list
            requirements:
              min_services: 1
  - id: modern-minimal
    name: Modern Minimal
    industries:
      excluded: [landscaping]
`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))

	store := catalog.NewStore(nil, nil, config.CatalogConfig{
		Table:    "site_templates",
		FilePath: path,
	}, logger.NewTestLogger())

	now := func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	eng := engine.NewWithClock(config.DefaultEngine(), logger.NewTestLogger(), now)

	return NewHandler(DefaultConfig(), eng, store, logger.NewTestLogger())
}

func TestExecuteSelectsTemplate(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		RequestID: "req-1",
		Industry:  "plumbing",
		Profile: &models.ProfileRecord{
			Name:         "Smith Plumbing",
			Phone:        "555-0100",
			Description:  "Emergency repair and drain cleaning since 2001.",
			ServiceTypes: []string{"drain cleaning"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "req-1", output.RequestID)
	assert.Equal(t, "trade-classic", output.TemplateID)
	assert.Equal(t, "hero-text", output.SectionVariants["hero"])
	assert.Equal(t, "services-list", output.SectionVariants["services"])
	assert.NotEmpty(t, output.Questions)
	assert.Greater(t, output.Insight.OverallScore, 0)
}

func TestExecuteDeterministicAcrossRuns(t *testing.T) {
	h := newTestHandler(t)

	input := &Input{
		RequestID: "req-2",
		Industry:  "hvac",
		OperatorAnswers: &models.OperatorAnswers{
			Services: []string{"ac installation"},
		},
	}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExecuteNoCompatibleTemplate(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Industry: "landscaping"})
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoCompatibleTemplate, stdErr.Code)
}

func TestNoCompatibleTemplateErrorVariables(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Industry: "landscaping"})
	require.Error(t, err)

	// The failure path converts the structured error for Camunda; the
	// diagnostics must survive as error variables.
	bpmnErr := errors.ConvertToBPMNError(toStandardError(err))
	assert.Equal(t, string(errors.ErrCodeNoCompatibleTemplate), bpmnErr.Code)
	assert.Equal(t, 0, bpmnErr.Retries)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, string(errors.ErrCodeNoCompatibleTemplate), vars["errorCode"])
	assert.Equal(t, "landscaping", vars["industry"])

	nearMisses, ok := vars["nearMisses"].([]errors.NearMiss)
	require.True(t, ok)
	assert.Len(t, nearMisses, 2)
	for _, nm := range nearMisses {
		assert.Equal(t, 0, nm.Score)
	}
}

func TestToStandardErrorWrapsPlainErrors(t *testing.T) {
	wrapped := toStandardError(fmt.Errorf("boom"))
	assert.Equal(t, errors.ErrorCode("SELECT_SITE_TEMPLATE_ERROR"), wrapped.Code)
	assert.Equal(t, "boom", wrapped.Details)
	assert.False(t, wrapped.Retryable)

	std := errors.NewEmptyCatalogError()
	assert.Same(t, std, toStandardError(std))
}

func TestExecuteCatalogLoadFailure(t *testing.T) {
	store := catalog.NewStore(nil, nil, config.CatalogConfig{
		FilePath: "/nonexistent/templates.yaml",
	}, logger.NewTestLogger())
	eng := engine.New(config.DefaultEngine(), logger.NewTestLogger())
	h := NewHandler(DefaultConfig(), eng, store, logger.NewTestLogger())

	_, err := h.Execute(context.Background(), &Input{Industry: "plumbing"})
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCatalogLoadFailed, stdErr.Code)
}

func TestValidateVariables(t *testing.T) {
	assert.NoError(t, validateVariables(`{"industry": "plumbing"}`))
	assert.Error(t, validateVariables(`{}`), "industry is required")
	assert.Error(t, validateVariables(`{"industry": "x"}`), "industry below minimum length")
	assert.Error(t, validateVariables(`{"industry": "plumbing", "unknown": 1}`))
	assert.Error(t, validateVariables(`not-json`))
}
