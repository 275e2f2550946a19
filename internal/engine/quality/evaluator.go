// internal/engine/quality/evaluator.go
package quality

import (
	"math"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/models"
)

// check is one present-field probe inside a category. Facts are the
// human-readable labels surfaced in the confirmed/inferred/missing lists.
type check struct {
	fact    string
	field   string
	present func(*models.BusinessRecord) bool
}

// categoryChecks drives scoring: each category earns
// round(passedChecks/totalChecks * weight) points, so filling in any absent
// field can only raise the score.
var categoryChecks = map[string][]check{
	models.CategoryBasicInfo: {
		{"business name", normalizer.FieldName, func(b *models.BusinessRecord) bool { return b.Name != "" }},
		{"phone number", normalizer.FieldPhone, func(b *models.BusinessRecord) bool { return b.Phone != "" }},
		{"address", normalizer.FieldAddress, func(b *models.BusinessRecord) bool { return b.Address != "" }},
		{"opening hours", normalizer.FieldHours, func(b *models.BusinessRecord) bool { return len(b.Hours) > 0 || b.Is24Hour }},
		{"industry", normalizer.FieldIndustry, func(b *models.BusinessRecord) bool { return b.Industry != "" }},
	},
	models.CategoryContent: {
		{"description", normalizer.FieldDescription, func(b *models.BusinessRecord) bool { return len(b.Description) >= 40 }},
		{"service list", normalizer.FieldServices, func(b *models.BusinessRecord) bool { return len(b.Services) > 0 }},
		{"tagline", normalizer.FieldTagline, func(b *models.BusinessRecord) bool { return b.Tagline != "" }},
		{"years in business", normalizer.FieldYearsInBusiness, func(b *models.BusinessRecord) bool { return b.YearsInBusiness != nil }},
	},
	models.CategoryVisuals: {
		{"photos", normalizer.FieldPhotos, func(b *models.BusinessRecord) bool { return len(b.Photos) > 0 }},
		{"logo", normalizer.FieldLogo, func(b *models.BusinessRecord) bool { return b.LogoURL != "" }},
		{"hero image", normalizer.FieldHeroImage, func(b *models.BusinessRecord) bool { return b.HeroImageURL != "" }},
		{"brand colors", normalizer.FieldBrandColors, func(b *models.BusinessRecord) bool { return len(b.BrandColors) > 0 }},
	},
	models.CategoryTrust: {
		{"customer reviews", normalizer.FieldReviews, func(b *models.BusinessRecord) bool { return len(b.Reviews) > 0 }},
		{"star rating", normalizer.FieldRating, func(b *models.BusinessRecord) bool { return b.Rating != nil }},
		{"certifications", normalizer.FieldCertifications, func(b *models.BusinessRecord) bool { return len(b.Certifications) > 0 }},
		{"awards", normalizer.FieldAwards, func(b *models.BusinessRecord) bool { return len(b.Awards) > 0 }},
	},
	models.CategoryDifferentiation: {
		{"differentiators", normalizer.FieldDifferentiators, func(b *models.BusinessRecord) bool { return len(b.Differentiators) > 0 }},
		{"style keywords", normalizer.FieldStyleKeywords, func(b *models.BusinessRecord) bool { return len(b.StyleKeywords) > 0 }},
		{"social links", normalizer.FieldSocialLinks, func(b *models.BusinessRecord) bool { return len(b.SocialLinks) > 0 }},
		{"competitor landscape", normalizer.FieldCompetitors, func(b *models.BusinessRecord) bool { return len(b.Competitors) > 0 }},
	},
}

// suggestions holds exactly one improvement string per category, emitted in
// CategoryOrder when the category scores below the configured threshold.
var suggestions = map[string]string{
	models.CategoryBasicInfo:       "Confirm the core business details: name, phone, address and opening hours.",
	models.CategoryContent:         "Add a business description and a list of the services offered.",
	models.CategoryVisuals:         "Upload photos of the work, a logo and the brand colors.",
	models.CategoryTrust:           "Collect customer reviews, certifications or awards to build trust.",
	models.CategoryDifferentiation: "Describe what sets this business apart from local competitors.",
}

// Evaluator scores a normalized business into a QualityInsight.
type Evaluator struct {
	weights             config.CategoryWeights
	suggestionThreshold int
	log                 logger.Logger
}

func New(cfg config.EngineConfig, log logger.Logger) *Evaluator {
	return &Evaluator{
		weights:             cfg.Weights,
		suggestionThreshold: cfg.SuggestionThreshold,
		log:                 log,
	}
}

// Evaluate produces the quality insight for one normalized business. The
// overall score is the sum of the per-category scores and stays in [0, 100]
// as long as the configured weights sum to 100.
func (e *Evaluator) Evaluate(business *models.NormalizedBusiness) *models.QualityInsight {
	insight := &models.QualityInsight{
		Categories:      make([]models.CategoryScore, 0, len(models.CategoryOrder)),
		FieldConfidence: make(map[string]float64),
	}

	for _, category := range models.CategoryOrder {
		checks := categoryChecks[category]
		weight := e.weights.ByCategory(category)

		passed := 0
		for _, c := range checks {
			if c.present(&business.Record) {
				passed++
				e.classifyFact(insight, business, c)
			} else {
				insight.MissingFacts = append(insight.MissingFacts, c.fact)
			}
		}

		score := int(math.Round(float64(passed) / float64(len(checks)) * float64(weight)))
		insight.Categories = append(insight.Categories, models.CategoryScore{
			Name:  category,
			Score: score,
			Max:   weight,
		})
		insight.OverallScore += score

		if score < e.suggestionThreshold {
			insight.Suggestions = append(insight.Suggestions, suggestions[category])
		}
	}

	e.log.Debug("evaluated data quality", map[string]interface{}{
		"overall_score": insight.OverallScore,
		"missing_facts": len(insight.MissingFacts),
		"suggestions":   len(insight.Suggestions),
	})

	return insight
}

func (e *Evaluator) classifyFact(insight *models.QualityInsight, business *models.NormalizedBusiness, c check) {
	meta := business.Meta(c.field)
	insight.FieldConfidence[c.field] = meta.Confidence

	if business.ConfirmedBy(c.field) {
		insight.ConfirmedFacts = append(insight.ConfirmedFacts, c.fact)
	} else {
		insight.InferredFacts = append(insight.InferredFacts, c.fact)
	}
}
