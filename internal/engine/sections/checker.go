// internal/engine/sections/checker.go
package sections

import (
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/models"
)

// VariantStrategy picks the rendered variant out of a non-empty list of
// variants whose requirements the business satisfies. Kept as a single
// swappable function so a content-density scorer can replace first-match
// without touching the checker.
type VariantStrategy func(section models.SectionDefinition, satisfying []models.SectionVariant) models.SectionVariant

// FirstMatch returns the first satisfying variant in declared order.
func FirstMatch(_ models.SectionDefinition, satisfying []models.SectionVariant) models.SectionVariant {
	return satisfying[0]
}

// Checker resolves a selected template's section catalog against a business.
type Checker struct {
	strategy VariantStrategy
	log      logger.Logger
}

func New(log logger.Logger) *Checker {
	return &Checker{strategy: FirstMatch, log: log}
}

func NewWithStrategy(strategy VariantStrategy, log logger.Logger) *Checker {
	return &Checker{strategy: strategy, log: log}
}

// Resolve maps each section type to its selected variant id. Section types
// with no satisfying variant are omitted from the result; that is normal
// degradation, not an error.
func (c *Checker) Resolve(tpl *models.TemplateDefinition, business *models.BusinessRecord) map[string]string {
	selected := make(map[string]string)

	for _, section := range tpl.Sections {
		satisfying := make([]models.SectionVariant, 0, len(section.Variants))
		for _, variant := range section.Variants {
			if variant.Requirements.Satisfied(business) {
				satisfying = append(satisfying, variant)
			}
		}
		if len(satisfying) == 0 {
			c.log.Debug("section omitted, no variant satisfied", map[string]interface{}{
				"template_id": tpl.ID,
				"section":     section.Type,
			})
			continue
		}
		selected[section.Type] = c.strategy(section, satisfying).ID
	}

	return selected
}

// BlockedVariantCounts counts, per canonical business field, how many
// section variants that field is currently blocking. The question generator
// uses this to surface the questions that unlock the most layout options.
func BlockedVariantCounts(tpl *models.TemplateDefinition, business *models.BusinessRecord) map[string]int {
	counts := make(map[string]int)
	for _, section := range tpl.Sections {
		for _, variant := range section.Variants {
			for _, field := range blockingFields(variant.Requirements, business) {
				counts[field]++
			}
		}
	}
	return counts
}

// blockingFields maps each unmet requirement onto the business field whose
// absence causes it.
func blockingFields(r models.ContentRequirements, b *models.BusinessRecord) []string {
	var fields []string
	add := func(field string) {
		for _, f := range fields {
			if f == field {
				return
			}
		}
		fields = append(fields, field)
	}

	if r.MinColors > 0 && len(b.BrandColors) < r.MinColors {
		add(normalizer.FieldBrandColors)
	}
	for _, slot := range r.ColorSlots {
		if b.BrandColors[slot] == "" {
			add(normalizer.FieldBrandColors)
		}
	}
	for _, f := range r.TextFields {
		switch f.Field {
		case "name":
			if len(b.Name) < max(f.MinLength, 1) {
				add(normalizer.FieldName)
			}
		case "tagline":
			if len(b.Tagline) < max(f.MinLength, 1) {
				add(normalizer.FieldTagline)
			}
		case "description":
			if len(b.Description) < max(f.MinLength, 1) {
				add(normalizer.FieldDescription)
			}
		}
	}
	if r.MinServices > 0 && len(b.Services) < r.MinServices {
		add(normalizer.FieldServices)
	}
	if r.RequireLogo && b.LogoURL == "" {
		add(normalizer.FieldLogo)
	}
	if r.RequireHero && b.HeroImageURL == "" {
		add(normalizer.FieldHeroImage)
	}
	if r.MinGalleryImages > 0 && b.GalleryCount() < r.MinGalleryImages {
		add(normalizer.FieldPhotos)
	}
	if r.MinImages > 0 && b.ImageCount() < r.MinImages {
		add(normalizer.FieldPhotos)
	}
	if r.MinTestimonials > 0 && len(b.Reviews) < r.MinTestimonials {
		add(normalizer.FieldReviews)
	}
	return fields
}
