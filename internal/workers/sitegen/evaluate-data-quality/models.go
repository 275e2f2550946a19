// internal/workers/sitegen/evaluate-data-quality/models.go
package evaluatedataquality

import "sitegen-workers/internal/models"

// Input mirrors the select-site-template input: the same raw sources, minus
// any dependence on a template catalog.
type Input struct {
	RequestID       string                      `json:"requestId,omitempty"`
	Industry        string                      `json:"industry"`
	Profile         *models.ProfileRecord       `json:"profile,omitempty"`
	PlaceSearch     *models.PlaceSearchRecord   `json:"placeSearch,omitempty"`
	SearchResults   *models.SearchResultsRecord `json:"searchResults,omitempty"`
	OperatorAnswers *models.OperatorAnswers     `json:"operatorAnswers,omitempty"`
}

func (in *Input) GenerationInput() *models.GenerationInput {
	return &models.GenerationInput{
		Industry:        in.Industry,
		Profile:         in.Profile,
		PlaceSearch:     in.PlaceSearch,
		SearchResults:   in.SearchResults,
		OperatorAnswers: in.OperatorAnswers,
	}
}

// Output carries the merged record with provenance, the quality insight, and
// the clarification questions that would unlock more of the record. Used by
// process steps that gate on data readiness before template selection runs.
type Output struct {
	RequestID string                     `json:"requestId,omitempty"`
	Business  models.NormalizedBusiness  `json:"business"`
	Insight   models.QualityInsight      `json:"insight"`
	Questions []models.Question          `json:"questions"`
}
