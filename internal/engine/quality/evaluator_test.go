// internal/engine/quality/evaluator_test.go
package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/models"
)

func newTestEvaluator() *Evaluator {
	return New(config.DefaultEngine(), logger.NewTestLogger())
}

func normalized(record models.BusinessRecord, fields map[string]models.FieldMeta) *models.NormalizedBusiness {
	if fields == nil {
		fields = map[string]models.FieldMeta{}
	}
	return &models.NormalizedBusiness{Record: record, Fields: fields}
}

func TestEvaluateBareRecordScoresNearFloor(t *testing.T) {
	e := newTestEvaluator()

	// Basic info only: no photos, no description, no reviews.
	insight := e.Evaluate(normalized(models.BusinessRecord{
		Name:     "Smith Plumbing",
		Industry: "plumbing",
		Phone:    "555-0100",
		Address:  "42 Main St, Springfield, IL",
		Hours:    map[string][]models.HourRange{"monday": {{Open: "09:00", Close: "17:00"}}},
	}, map[string]models.FieldMeta{
		normalizer.FieldName:     {Source: models.SourceProfile, Confidence: 0.9},
		normalizer.FieldIndustry: {Source: models.SourceOperator, Confidence: 1.0},
		normalizer.FieldPhone:    {Source: models.SourceProfile, Confidence: 0.9},
		normalizer.FieldAddress:  {Source: models.SourceProfile, Confidence: 0.9},
		normalizer.FieldHours:    {Source: models.SourceProfile, Confidence: 0.9},
	}))

	assert.Equal(t, 20, insight.Category(models.CategoryBasicInfo).Score)
	assert.LessOrEqual(t, insight.OverallScore, 20)

	assert.Contains(t, insight.Suggestions, suggestions[models.CategoryContent])
	assert.Contains(t, insight.Suggestions, suggestions[models.CategoryVisuals])
	assert.Contains(t, insight.Suggestions, suggestions[models.CategoryTrust])
	assert.NotContains(t, insight.Suggestions, suggestions[models.CategoryBasicInfo])
}

func TestEvaluateSuggestionOrderIsStable(t *testing.T) {
	e := newTestEvaluator()

	insight := e.Evaluate(normalized(models.BusinessRecord{}, nil))

	require.Len(t, insight.Suggestions, 5)
	want := []string{
		suggestions[models.CategoryBasicInfo],
		suggestions[models.CategoryContent],
		suggestions[models.CategoryVisuals],
		suggestions[models.CategoryTrust],
		suggestions[models.CategoryDifferentiation],
	}
	assert.Equal(t, want, insight.Suggestions)
}

func TestEvaluateMonotonicity(t *testing.T) {
	e := newTestEvaluator()

	record := models.BusinessRecord{Name: "Acme HVAC", Industry: "hvac"}
	before := e.Evaluate(normalized(record, nil)).OverallScore

	// Filling previously-absent fields one at a time never lowers the score.
	additions := []func(*models.BusinessRecord){
		func(b *models.BusinessRecord) { b.Phone = "555-0100" },
		func(b *models.BusinessRecord) { b.Description = "Full service heating and cooling for homes and offices." },
		func(b *models.BusinessRecord) { b.Services = []string{"furnace repair"} },
		func(b *models.BusinessRecord) { b.Photos = []models.Photo{{URL: "https://img.example/1.jpg"}} },
		func(b *models.BusinessRecord) { b.Reviews = []models.Review{{Author: "Pat", Rating: 5}} },
		func(b *models.BusinessRecord) { b.Differentiators = []string{"24/7 emergency service"} },
	}
	for _, add := range additions {
		add(&record)
		after := e.Evaluate(normalized(record, nil)).OverallScore
		assert.GreaterOrEqual(t, after, before)
		before = after
	}
}

func TestEvaluateScoreNeverExceeds100(t *testing.T) {
	e := newTestEvaluator()
	rating := 4.8
	years := 25

	insight := e.Evaluate(normalized(models.BusinessRecord{
		Name: "Acme", Industry: "hvac", Tagline: "Cool under pressure",
		Phone: "555-0100", Address: "42 Main St",
		Hours:       map[string][]models.HourRange{"monday": {{Open: "08:00", Close: "18:00"}}},
		Description: "Full service heating and cooling for homes and offices since 2001.",
		Services:    []string{"furnace repair", "ac install", "duct cleaning"},
		YearsInBusiness: &years,
		Photos:          []models.Photo{{URL: "https://img.example/1.jpg"}},
		LogoURL:         "https://img.example/logo.png",
		HeroImageURL:    "https://img.example/hero.jpg",
		BrandColors:     map[string]string{"primary": "#003366"},
		Reviews:         []models.Review{{Author: "Pat", Rating: 5}},
		Rating:          &rating,
		Certifications:  []string{"EPA certified"},
		Awards:          []string{"Best of Springfield 2025"},
		Differentiators: []string{"24/7 emergency service"},
		StyleKeywords:   []string{"modern"},
		SocialLinks:     []string{"https://facebook.com/acme"},
		Competitors:     []string{"Rival HVAC"},
	}, nil))

	assert.Equal(t, 100, insight.OverallScore)
	assert.Empty(t, insight.Suggestions)
	assert.Empty(t, insight.MissingFacts)
	for _, c := range insight.Categories {
		assert.LessOrEqual(t, c.Score, c.Max)
	}
}

func TestEvaluateClassifiesFacts(t *testing.T) {
	e := newTestEvaluator()
	years := 12

	insight := e.Evaluate(normalized(models.BusinessRecord{
		Name:            "Acme",
		YearsInBusiness: &years,
		SocialLinks:     []string{"https://facebook.com/acme"},
	}, map[string]models.FieldMeta{
		normalizer.FieldName:            {Source: models.SourceOperator, Confidence: 1.0},
		normalizer.FieldYearsInBusiness: {Source: models.SourceProfile, Confidence: 0.6, Inferred: true},
		normalizer.FieldSocialLinks:     {Source: models.SourceSearchResults, Confidence: 0.5},
	}))

	assert.Contains(t, insight.ConfirmedFacts, "business name")
	assert.Contains(t, insight.InferredFacts, "years in business")
	assert.Contains(t, insight.InferredFacts, "social links")
	assert.Contains(t, insight.MissingFacts, "phone number")
	assert.Equal(t, 1.0, insight.FieldConfidence[normalizer.FieldName])
	assert.Equal(t, 0.6, insight.FieldConfidence[normalizer.FieldYearsInBusiness])
}
