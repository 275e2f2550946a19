// internal/models/template.go
package models

// TemplateDefinition is one catalog entry: compatibility rules, minimum
// content requirements, and the template's section catalog. Catalog order
// (slice position) is the documented deterministic tie-break for equal scores.
type TemplateDefinition struct {
	ID           string              `json:"id" yaml:"id"`
	Name         string              `json:"name" yaml:"name"`
	Industries   IndustryRules       `json:"industries" yaml:"industries"`
	Keywords     KeywordRules        `json:"keywords" yaml:"keywords"`
	Requirements ContentRequirements `json:"requirements" yaml:"requirements"`
	Sections     []SectionDefinition `json:"sections" yaml:"sections"`
}

// IndustryRules gate template compatibility. An exclusion hit, or a
// non-empty inclusion list without a hit, disqualifies outright.
type IndustryRules struct {
	Included []string `json:"included,omitempty" yaml:"included"`
	Excluded []string `json:"excluded,omitempty" yaml:"excluded"`
}

// KeywordRules drive the 0-40 affinity sub-score. Any negative keyword found
// in the business text blob disqualifies outright.
type KeywordRules struct {
	Positive []string `json:"positive,omitempty" yaml:"positive"`
	Negative []string `json:"negative,omitempty" yaml:"negative"`
}

// ContentRequirements is the shared requirement grammar used both at
// template level and per section variant.
type ContentRequirements struct {
	MinColors        int                    `json:"minColors,omitempty" yaml:"min_colors"`
	ColorSlots       []string               `json:"colorSlots,omitempty" yaml:"color_slots"`
	TextFields       []TextFieldRequirement `json:"textFields,omitempty" yaml:"text_fields"`
	MinServices      int                    `json:"minServices,omitempty" yaml:"min_services"`
	RequireLogo      bool                   `json:"requireLogo,omitempty" yaml:"require_logo"`
	RequireHero      bool                   `json:"requireHero,omitempty" yaml:"require_hero"`
	MinGalleryImages int                    `json:"minGalleryImages,omitempty" yaml:"min_gallery_images"`
	MinImages        int                    `json:"minImages,omitempty" yaml:"min_images"` // hero + gallery combined
	MinTestimonials  int                    `json:"minTestimonials,omitempty" yaml:"min_testimonials"`
}

// TextFieldRequirement requires a named business text field with a minimum length.
type TextFieldRequirement struct {
	Field     string `json:"field" yaml:"field"`
	MinLength int    `json:"minLength,omitempty" yaml:"min_length"`
}

// SectionDefinition is a named section type with its variant list in
// declared order. With the first-match strategy, declaration order decides
// which satisfying variant renders.
type SectionDefinition struct {
	Type     string           `json:"type" yaml:"type"`
	Variants []SectionVariant `json:"variants" yaml:"variants"`
}

// SectionVariant is one concrete rendering option gated by its own requirements.
type SectionVariant struct {
	ID           string              `json:"id" yaml:"id"`
	Requirements ContentRequirements `json:"requirements" yaml:"requirements"`
}

// TemplateScore is the scoring result for one template against one business.
type TemplateScore struct {
	TemplateID string       `json:"templateId"`
	Score      int          `json:"score"`
	Reasons    ScoreReasons `json:"reasons"`
}

// ScoreReasons is the structured explanation behind a score. DisqualifiedBy
// names the hard gate that zeroed the score, when one did.
type ScoreReasons struct {
	IndustryMatch       bool     `json:"industryMatch"`
	KeywordScore        int      `json:"keywordScore"`
	RequirementsMet     bool     `json:"requirementsMet"`
	MissingRequirements []string `json:"missingRequirements,omitempty"`
	DisqualifiedBy      string   `json:"disqualifiedBy,omitempty"`
}
