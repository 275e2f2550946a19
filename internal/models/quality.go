// internal/models/quality.go
package models

// Quality category names, in the documented evaluation and suggestion order.
const (
	CategoryBasicInfo       = "basic_info"
	CategoryContent         = "content"
	CategoryVisuals         = "visuals"
	CategoryTrust           = "trust"
	CategoryDifferentiation = "differentiation"
)

// CategoryOrder is the stable evaluation order: basic info, content,
// visuals, trust, differentiation.
var CategoryOrder = []string{
	CategoryBasicInfo,
	CategoryContent,
	CategoryVisuals,
	CategoryTrust,
	CategoryDifferentiation,
}

// CategoryScore is one category's earned points against its allotment.
type CategoryScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Max   int    `json:"max"`
}

// QualityInsight is the Data Quality Evaluator output. OverallScore is the
// sum of category scores, always within [0, 100].
type QualityInsight struct {
	OverallScore    int                `json:"overallScore"`
	Categories      []CategoryScore    `json:"categories"`
	ConfirmedFacts  []string           `json:"confirmedFacts"`
	InferredFacts   []string           `json:"inferredFacts"`
	MissingFacts    []string           `json:"missingFacts"`
	Suggestions     []string           `json:"suggestions"`
	FieldConfidence map[string]float64 `json:"fieldConfidence"`
}

// Category returns the score entry for a named category, zeroed when absent.
func (q *QualityInsight) Category(name string) CategoryScore {
	for _, c := range q.Categories {
		if c.Name == name {
			return c
		}
	}
	return CategoryScore{Name: name}
}
