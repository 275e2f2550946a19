// internal/workers/sitegen/select-site-template/models.go
package selectsitetemplate

import "sitegen-workers/internal/models"

// Input is the job-variable shape. Everything except the industry hint is
// optional; upstream workers resolve their API failures into absent records
// before this point.
type Input struct {
	RequestID       string                      `json:"requestId,omitempty"`
	Industry        string                      `json:"industry"`
	Profile         *models.ProfileRecord       `json:"profile,omitempty"`
	PlaceSearch     *models.PlaceSearchRecord   `json:"placeSearch,omitempty"`
	SearchResults   *models.SearchResultsRecord `json:"searchResults,omitempty"`
	OperatorAnswers *models.OperatorAnswers     `json:"operatorAnswers,omitempty"`
}

// GenerationInput maps the job variables onto the engine's input boundary.
func (in *Input) GenerationInput() *models.GenerationInput {
	return &models.GenerationInput{
		Industry:        in.Industry,
		Profile:         in.Profile,
		PlaceSearch:     in.PlaceSearch,
		SearchResults:   in.SearchResults,
		OperatorAnswers: in.OperatorAnswers,
	}
}

// Output is the decision artifact written back to the process instance.
type Output struct {
	RequestID       string                `json:"requestId,omitempty"`
	TemplateID      string                `json:"templateId"`
	TemplateScore   models.TemplateScore  `json:"templateScore"`
	SectionVariants map[string]string     `json:"sectionVariants"`
	Questions       []models.Question     `json:"questions"`
	Insight         models.QualityInsight `json:"insight"`
}
