// internal/models/decision.go
package models

// Decision is the engine's output artifact: the chosen template, the
// section-variant map for it, the outstanding clarification questions in
// priority order, and the quality insight the decision was based on.
// Identical inputs always produce an identical Decision.
type Decision struct {
	TemplateID      string            `json:"templateId"`
	TemplateScore   TemplateScore     `json:"templateScore"`
	SectionVariants map[string]string `json:"sectionVariants"`
	Questions       []Question        `json:"questions"`
	Insight         QualityInsight    `json:"insight"`
}
