// internal/engine/engine_test.go
package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/models"
)

func newTestEngine() *Engine {
	now := func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return NewWithClock(config.DefaultEngine(), logger.NewTestLogger(), now)
}

func sampleCatalog() []models.TemplateDefinition {
	return []models.TemplateDefinition{
		{
			ID:         "trade-classic",
			Name:       "Trade Classic",
			Industries: models.IndustryRules{Included: []string{"plumbing", "hvac", "electrical"}},
			Keywords:   models.KeywordRules{Positive: []string{"repair", "emergency"}},
			Sections: []models.SectionDefinition{
				{
					Type: "hero",
					Variants: []models.SectionVariant{
						{ID: "hero-image", Requirements: models.ContentRequirements{RequireHero: true}},
						{ID: "hero-text", Requirements: models.ContentRequirements{
							TextFields: []models.TextFieldRequirement{{Field: "name"}},
						}},
					},
				},
				{
					Type: "services",
					Variants: []models.SectionVariant{
						{ID: "services-list", Requirements: models.ContentRequirements{MinServices: 1}},
					},
				},
				{
					Type: "testimonials",
					Variants: []models.SectionVariant{
						{ID: "testimonial-carousel", Requirements: models.ContentRequirements{MinTestimonials: 3}},
					},
				},
			},
		},
		{
			ID:         "modern-minimal",
			Name:       "Modern Minimal",
			Industries: models.IndustryRules{Excluded: []string{"landscaping"}},
		},
	}
}

func sampleInput() *models.GenerationInput {
	return &models.GenerationInput{
		Industry: "plumbing",
		Profile: &models.ProfileRecord{
			Name:         "Smith Plumbing",
			Phone:        "555-0100",
			Description:  "Emergency repair and drain cleaning, serving the area for over 25 years.",
			ServiceTypes: []string{"drain cleaning"},
		},
		PlaceSearch: &models.PlaceSearchRecord{
			Website: "https://smithplumbing.example",
		},
	}
}

func TestDecideFullPipeline(t *testing.T) {
	e := newTestEngine()

	decision, err := e.Decide(sampleInput(), sampleCatalog())
	require.NoError(t, err)

	assert.Equal(t, "trade-classic", decision.TemplateID)
	assert.True(t, decision.TemplateScore.Reasons.IndustryMatch)

	// No hero image: the text variant renders. No reviews: testimonials
	// section omitted entirely.
	assert.Equal(t, "hero-text", decision.SectionVariants["hero"])
	assert.Equal(t, "services-list", decision.SectionVariants["services"])
	_, ok := decision.SectionVariants["testimonials"]
	assert.False(t, ok)

	// Extracted years land on the record and the insight flags them inferred.
	assert.Contains(t, decision.Insight.InferredFacts, "years in business")
	assert.NotEmpty(t, decision.Questions)

	// Inferred services produce a pre-checked confirmation question.
	var servicesQ *models.Question
	for i := range decision.Questions {
		if decision.Questions[i].Field == "services" {
			servicesQ = &decision.Questions[i]
		}
	}
	require.NotNil(t, servicesQ)
	var prechecked bool
	for _, opt := range servicesQ.Options {
		if opt.Value == "drain cleaning" && opt.PreChecked {
			prechecked = true
		}
	}
	assert.True(t, prechecked)
}

func TestDecideDeterminism(t *testing.T) {
	e := newTestEngine()

	first, err := e.Decide(sampleInput(), sampleCatalog())
	require.NoError(t, err)
	second, err := e.Decide(sampleInput(), sampleCatalog())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecideIdempotentAnswerOverlay(t *testing.T) {
	e := newTestEngine()

	input := sampleInput()
	input.OperatorAnswers = &models.OperatorAnswers{
		Services: []string{"drain cleaning", "water heater install"},
	}

	first, err := e.Decide(input, sampleCatalog())
	require.NoError(t, err)
	second, err := e.Decide(input, sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Confirmed services are no longer asked about.
	for _, q := range first.Questions {
		assert.NotEqual(t, "services", q.Field)
	}
}

func TestDecideNoCompatibleTemplate(t *testing.T) {
	e := newTestEngine()

	catalog := []models.TemplateDefinition{
		{
			ID:         "modern-minimal",
			Industries: models.IndustryRules{Excluded: []string{"landscaping"}},
		},
	}

	_, err := e.Decide(&models.GenerationInput{Industry: "landscaping"}, catalog)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoCompatibleTemplate, stdErr.Code)
}

func TestDecideEmptyCatalog(t *testing.T) {
	e := newTestEngine()

	_, err := e.Decide(sampleInput(), nil)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEmptyCatalog, stdErr.Code)
}

func TestDecideDegradesOnEmptyInput(t *testing.T) {
	e := newTestEngine()

	// Only an industry hint: still a decision, not an error, as long as a
	// template clears the threshold.
	catalog := []models.TemplateDefinition{{ID: "open-template"}}

	decision, err := e.Decide(&models.GenerationInput{Industry: "plumbing"}, catalog)
	require.NoError(t, err)
	assert.Equal(t, "open-template", decision.TemplateID)
	assert.Empty(t, decision.SectionVariants)
	assert.NotEmpty(t, decision.Questions)
	assert.NotEmpty(t, decision.Insight.Suggestions)
}
