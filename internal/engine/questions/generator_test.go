// internal/engine/questions/generator_test.go
package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/models"
)

func newTestGenerator() *Generator {
	return New(config.DefaultEngine(), logger.NewTestLogger())
}

func insightWith(scores map[string]int) *models.QualityInsight {
	insight := &models.QualityInsight{}
	for _, category := range models.CategoryOrder {
		insight.Categories = append(insight.Categories, models.CategoryScore{
			Name:  category,
			Score: scores[category],
			Max:   20,
		})
	}
	return insight
}

func TestGenerateSkipsConfirmedAndConfidentFields(t *testing.T) {
	g := newTestGenerator()

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{
			Name:     "Smith Plumbing",
			Industry: "plumbing",
			Phone:    "555-0100",
			Tagline:  "Fast and reliable",
		},
		Fields: map[string]models.FieldMeta{
			normalizer.FieldName:    {Source: models.SourceOperator, Confidence: 1.0},
			normalizer.FieldPhone:   {Source: models.SourceProfile, Confidence: 0.9},
			normalizer.FieldTagline: {Source: models.SourcePlaceSearch, Confidence: 0.7},
		},
	}

	questions := g.Generate(business, insightWith(nil), nil)

	fields := make(map[string]bool)
	for _, q := range questions {
		fields[q.Field] = true
	}

	// Operator-confirmed and profile-confirmed fields are never asked.
	assert.False(t, fields[normalizer.FieldName])
	assert.False(t, fields[normalizer.FieldPhone])
	// At-threshold confidence (0.7) is good enough.
	assert.False(t, fields[normalizer.FieldTagline])
	// Absent fields have zero confidence and are asked.
	assert.True(t, fields[normalizer.FieldAddress])
	assert.True(t, fields[normalizer.FieldServices])
}

func TestGenerateAsksAboutLowConfidenceInferredFields(t *testing.T) {
	g := newTestGenerator()
	years := 12

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{
			Industry:        "plumbing",
			YearsInBusiness: &years,
		},
		Fields: map[string]models.FieldMeta{
			normalizer.FieldYearsInBusiness: {Source: models.SourceProfile, Confidence: 0.6, Inferred: true},
		},
	}

	questions := g.Generate(business, insightWith(nil), nil)

	var found bool
	for _, q := range questions {
		if q.Field == normalizer.FieldYearsInBusiness {
			found = true
		}
	}
	assert.True(t, found, "inferred years should be asked for confirmation")
}

func TestGenerateServiceOptionsPreCheckInferred(t *testing.T) {
	g := newTestGenerator()

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{
			Industry: "plumbing",
			Services: []string{"drain cleaning", "backflow testing"},
		},
		Fields: map[string]models.FieldMeta{
			normalizer.FieldServices: {Source: models.SourceProfile, Confidence: 0.6, Inferred: true},
		},
	}

	questions := g.Generate(business, insightWith(nil), nil)

	var services *models.Question
	for i := range questions {
		if questions[i].Field == normalizer.FieldServices {
			services = &questions[i]
		}
	}
	require.NotNil(t, services)
	assert.Equal(t, models.QuestionMultiSelect, services.Type)

	byValue := make(map[string]models.QuestionOption)
	for _, opt := range services.Options {
		byValue[opt.Value] = opt
	}
	// Stock option known from the profile is pre-checked.
	assert.True(t, byValue["drain cleaning"].PreChecked)
	assert.False(t, byValue["water heater install"].PreChecked)
	// Inferred service outside the stock list still shows up, pre-checked.
	assert.True(t, byValue["backflow testing"].PreChecked)
}

func TestGeneratePriorityOrdering(t *testing.T) {
	g := newTestGenerator()

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{Industry: "hvac"},
		Fields: map[string]models.FieldMeta{},
	}

	// Visuals is the weakest category; trust is strong.
	insight := insightWith(map[string]int{
		models.CategoryBasicInfo:       16,
		models.CategoryContent:         10,
		models.CategoryVisuals:         0,
		models.CategoryTrust:           20,
		models.CategoryDifferentiation: 10,
	})

	blocked := map[string]int{
		normalizer.FieldHeroImage: 3,
		normalizer.FieldPhotos:    1,
	}

	questions := g.Generate(business, insight, blocked)
	require.NotEmpty(t, questions)

	// Weakest category leads, and within it the field unblocking the most
	// section variants comes first despite later declaration order.
	assert.Equal(t, models.CategoryVisuals, questions[0].Category)
	assert.Equal(t, normalizer.FieldHeroImage, questions[0].Field)
	assert.Equal(t, normalizer.FieldPhotos, questions[1].Field)

	// Priorities are sequential starting at 1.
	for i, q := range questions {
		assert.Equal(t, i+1, q.Priority)
	}

	// Trust (full score) questions still appear, after weaker categories.
	var trustIndex, contentIndex int
	for i, q := range questions {
		switch q.Category {
		case models.CategoryTrust:
			if trustIndex == 0 {
				trustIndex = i
			}
		case models.CategoryContent:
			if contentIndex == 0 {
				contentIndex = i
			}
		}
	}
	assert.Greater(t, trustIndex, contentIndex)
}

func TestGenerateDeterministicOutput(t *testing.T) {
	g := newTestGenerator()

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{Industry: "roofing"},
		Fields: map[string]models.FieldMeta{},
	}
	insight := insightWith(map[string]int{models.CategoryBasicInfo: 8})

	first := g.Generate(business, insight, nil)
	second := g.Generate(business, insight, nil)
	assert.Equal(t, first, second)
}

func TestGenerateStableIDs(t *testing.T) {
	g := newTestGenerator()

	business := &models.NormalizedBusiness{
		Record: models.BusinessRecord{Industry: "cleaning"},
		Fields: map[string]models.FieldMeta{},
	}

	for _, q := range g.Generate(business, insightWith(nil), nil) {
		assert.Equal(t, "q_"+q.Field, q.ID)
	}
}
