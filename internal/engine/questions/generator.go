// internal/engine/questions/generator.go
package questions

import (
	"sort"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/models"
)

// questionSpec declares one askable field. Declaration order within a
// category is the final priority tie-break, so the order of these slices is
// part of the contract.
type questionSpec struct {
	field  string
	prompt string
	qType  models.QuestionType
}

// specsByCategory is the full question catalog, keyed by quality category.
var specsByCategory = map[string][]questionSpec{
	models.CategoryBasicInfo: {
		{normalizer.FieldName, "What is the business name?", models.QuestionFreeText},
		{normalizer.FieldPhone, "What phone number should customers call?", models.QuestionFreeText},
		{normalizer.FieldAddress, "What is the business address?", models.QuestionFreeText},
		{normalizer.FieldHours, "Is the business open 24 hours a day?", models.QuestionYesNo},
		{normalizer.FieldServiceRadius, "How far does the business travel for jobs?", models.QuestionSingleSelect},
	},
	models.CategoryContent: {
		{normalizer.FieldServices, "Which services does the business offer?", models.QuestionMultiSelect},
		{normalizer.FieldDescription, "Describe the business in a few sentences.", models.QuestionFreeText},
		{normalizer.FieldTagline, "What short tagline should appear on the site?", models.QuestionFreeText},
		{normalizer.FieldYearsInBusiness, "How many years has the business been operating?", models.QuestionFreeText},
	},
	models.CategoryVisuals: {
		{normalizer.FieldPhotos, "Label each photo so it appears in the right place.", models.QuestionPhotoLabel},
		{normalizer.FieldLogo, "Do you have a logo to display?", models.QuestionYesNo},
		{normalizer.FieldHeroImage, "Which photo should headline the site?", models.QuestionSingleSelect},
		{normalizer.FieldBrandColors, "Which color palette fits the business?", models.QuestionSingleSelect},
	},
	models.CategoryTrust: {
		{normalizer.FieldReviews, "May we display customer reviews on the site?", models.QuestionYesNo},
		{normalizer.FieldCertifications, "Which licenses or certifications does the business hold?", models.QuestionFreeText},
		{normalizer.FieldAwards, "Has the business won any awards worth showing?", models.QuestionFreeText},
	},
	models.CategoryDifferentiation: {
		{normalizer.FieldDifferentiators, "What sets the business apart from competitors?", models.QuestionMultiSelect},
		{normalizer.FieldStyleKeywords, "Which style should the site lean toward?", models.QuestionMultiSelect},
	},
}

var radiusOptions = []string{"5", "10", "15", "25", "50", "100"}

var paletteOptions = []string{"classic-blue", "bold-red", "earth-tones", "slate-modern", "warm-neutral"}

var styleOptions = []string{"modern", "classic", "bold", "friendly", "professional"}

var differentiatorOptions = []string{
	"24/7 emergency service",
	"family owned",
	"licensed and insured",
	"free estimates",
	"satisfaction guarantee",
}

// servicesByIndustry seeds the multi-select service options per industry tag.
var servicesByIndustry = map[string][]string{
	"plumbing":    {"drain cleaning", "water heater install", "leak repair", "pipe replacement", "emergency repair"},
	"hvac":        {"ac installation", "furnace repair", "duct cleaning", "thermostat install", "maintenance plans"},
	"electrical":  {"panel upgrades", "lighting installation", "wiring repair", "ev charger install", "inspections"},
	"roofing":     {"roof replacement", "leak repair", "gutter installation", "storm damage repair", "inspections"},
	"landscaping": {"lawn care", "garden design", "tree trimming", "irrigation", "hardscaping"},
	"cleaning":    {"residential cleaning", "commercial cleaning", "deep cleaning", "move-out cleaning", "carpet cleaning"},
}

// Generator turns unresolved gaps into a prioritized clarification list.
type Generator struct {
	confidenceThreshold float64
	log                 logger.Logger
}

func New(cfg config.EngineConfig, log logger.Logger) *Generator {
	return &Generator{
		confidenceThreshold: cfg.ConfidenceThreshold,
		log:                 log,
	}
}

// Generate emits one question per askable gap: fields whose confidence sits
// below the threshold and that the operator has not already confirmed.
// Ordering: lower-confidence categories first, then fields blocking the most
// section variants, then declaration order. blockedVariants may be nil when
// no template has been selected yet.
func (g *Generator) Generate(business *models.NormalizedBusiness, insight *models.QualityInsight, blockedVariants map[string]int) []models.Question {
	type candidate struct {
		question         models.Question
		categoryFraction float64
		blocked          int
		declIndex        int
	}

	var candidates []candidate
	for catIndex, category := range models.CategoryOrder {
		fraction := categoryFraction(insight, category)
		for declIndex, spec := range specsByCategory[category] {
			if !g.shouldAsk(business, spec.field) {
				continue
			}
			candidates = append(candidates, candidate{
				question: models.Question{
					ID:       "q_" + spec.field,
					Prompt:   spec.prompt,
					Type:     spec.qType,
					Category: category,
					Field:    spec.field,
					Options:  g.options(business, spec),
				},
				categoryFraction: fraction,
				blocked:          blockedVariants[spec.field],
				declIndex:        catIndex*100 + declIndex,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.categoryFraction != b.categoryFraction {
			return a.categoryFraction < b.categoryFraction
		}
		if a.blocked != b.blocked {
			return a.blocked > b.blocked
		}
		return a.declIndex < b.declIndex
	})

	questions := make([]models.Question, len(candidates))
	for i, c := range candidates {
		c.question.Priority = i + 1
		questions[i] = c.question
	}

	g.log.Debug("generated clarification questions", map[string]interface{}{
		"count": len(questions),
	})
	return questions
}

// shouldAsk is the canonical question gate: below-threshold confidence and
// not operator-confirmed.
func (g *Generator) shouldAsk(business *models.NormalizedBusiness, field string) bool {
	if business.ConfirmedBy(field) {
		return false
	}
	return business.Meta(field).Confidence < g.confidenceThreshold
}

func (g *Generator) options(business *models.NormalizedBusiness, spec questionSpec) []models.QuestionOption {
	switch spec.field {
	case normalizer.FieldServices:
		return g.serviceOptions(business)
	case normalizer.FieldServiceRadius:
		return plainOptions(radiusOptions, " miles")
	case normalizer.FieldBrandColors:
		return plainOptions(paletteOptions, "")
	case normalizer.FieldStyleKeywords:
		return plainOptions(styleOptions, "")
	case normalizer.FieldDifferentiators:
		return plainOptions(differentiatorOptions, "")
	case normalizer.FieldHeroImage:
		opts := make([]models.QuestionOption, 0, len(business.Record.Photos))
		for _, p := range business.Record.Photos {
			opts = append(opts, models.QuestionOption{Value: p.URL, Label: p.Caption})
		}
		return opts
	default:
		return nil
	}
}

// serviceOptions merges the industry's stock service list with any services
// inferred from profile data. Inferred services render pre-checked so the
// operator confirms rather than retypes them.
func (g *Generator) serviceOptions(business *models.NormalizedBusiness) []models.QuestionOption {
	inferred := make(map[string]bool, len(business.Record.Services))
	meta := business.Meta(normalizer.FieldServices)
	if meta.Inferred {
		for _, svc := range business.Record.Services {
			inferred[svc] = true
		}
	}

	stock := servicesByIndustry[business.Record.Industry]
	opts := make([]models.QuestionOption, 0, len(stock)+len(inferred))
	seen := make(map[string]bool, len(stock))
	for _, svc := range stock {
		seen[svc] = true
		opts = append(opts, models.QuestionOption{
			Value:      svc,
			Label:      svc,
			PreChecked: inferred[svc],
		})
	}
	for _, svc := range business.Record.Services {
		if inferred[svc] && !seen[svc] {
			opts = append(opts, models.QuestionOption{Value: svc, Label: svc, PreChecked: true})
		}
	}
	return opts
}

func plainOptions(values []string, labelSuffix string) []models.QuestionOption {
	opts := make([]models.QuestionOption, len(values))
	for i, v := range values {
		opts[i] = models.QuestionOption{Value: v, Label: v + labelSuffix}
	}
	return opts
}

func categoryFraction(insight *models.QualityInsight, category string) float64 {
	c := insight.Category(category)
	if c.Max == 0 {
		return 0
	}
	return float64(c.Score) / float64(c.Max)
}
