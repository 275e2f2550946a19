// internal/engine/templatescore/scorer.go
package templatescore

import (
	"math"
	"sort"
	"strings"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/models"
)

// Score components. Industry gate and requirements pass contribute fixed
// points; keywords contribute 0-40; a failed requirements check subtracts 50
// with the total floored at 0.
const (
	industryPassPoints    = 30
	keywordBasePoints     = 20
	keywordScaledPoints   = 20
	requirementPassPoints = 30
	requirementFailPoints = 50
)

// DisqualifiedBy values for the two hard gates.
const (
	DisqualifiedIndustryExcluded = "industry-excluded"
	DisqualifiedIndustryMissing  = "industry-not-included"
	DisqualifiedNegativeKeyword  = "negative-keyword"
)

// Scorer rates templates against a business and selects the best one above
// the configured threshold.
type Scorer struct {
	threshold     int
	nearMissCount int
	log           logger.Logger
}

func New(cfg config.EngineConfig, log logger.Logger) *Scorer {
	return &Scorer{
		threshold:     cfg.ScoreThreshold,
		nearMissCount: cfg.NearMissCount,
		log:           log,
	}
}

// Score rates one template against one business. Pure and deterministic.
//
// The industry gate and a negative-keyword hit are hard disqualifiers: the
// score is exactly 0 no matter how strong the other components are. A failed
// requirements check only degrades the score.
func (s *Scorer) Score(tpl *models.TemplateDefinition, business *models.BusinessRecord) models.TemplateScore {
	result := models.TemplateScore{TemplateID: tpl.ID}

	industry := strings.ToLower(business.Industry)
	if containsFold(tpl.Industries.Excluded, industry) {
		result.Reasons.DisqualifiedBy = DisqualifiedIndustryExcluded
		return result
	}
	if len(tpl.Industries.Included) > 0 && !containsFold(tpl.Industries.Included, industry) {
		result.Reasons.DisqualifiedBy = DisqualifiedIndustryMissing
		return result
	}
	result.Reasons.IndustryMatch = true
	score := industryPassPoints

	blob := businessText(business)
	for _, negative := range tpl.Keywords.Negative {
		if negative != "" && strings.Contains(blob, strings.ToLower(negative)) {
			return models.TemplateScore{
				TemplateID: tpl.ID,
				Reasons: models.ScoreReasons{
					IndustryMatch:  true,
					DisqualifiedBy: DisqualifiedNegativeKeyword,
				},
			}
		}
	}
	result.Reasons.KeywordScore = keywordScore(tpl.Keywords.Positive, blob)
	score += result.Reasons.KeywordScore

	missing := tpl.Requirements.Missing(business)
	if len(missing) == 0 {
		result.Reasons.RequirementsMet = true
		score += requirementPassPoints
	} else {
		result.Reasons.MissingRequirements = missing
		score -= requirementFailPoints
		if score < 0 {
			score = 0
		}
	}

	result.Score = score
	return result
}

// ScoreAll rates every catalog entry, preserving catalog order.
func (s *Scorer) ScoreAll(catalog []models.TemplateDefinition, business *models.BusinessRecord) []models.TemplateScore {
	scores := make([]models.TemplateScore, len(catalog))
	for i := range catalog {
		scores[i] = s.Score(&catalog[i], business)
	}
	return scores
}

// SelectBest picks the highest-scoring template at or above the threshold.
// Ties break by catalog order: the first-listed template wins. An empty
// catalog and a catalog with no viable template are the engine's only error
// conditions.
func (s *Scorer) SelectBest(catalog []models.TemplateDefinition, business *models.BusinessRecord) (*models.TemplateDefinition, models.TemplateScore, error) {
	if len(catalog) == 0 {
		return nil, models.TemplateScore{}, errors.NewEmptyCatalogError()
	}

	scores := s.ScoreAll(catalog, business)

	best := -1
	for i, sc := range scores {
		if sc.Score < s.threshold {
			continue
		}
		// Strictly greater keeps the first-listed template on ties.
		if best == -1 || sc.Score > scores[best].Score {
			best = i
		}
	}

	if best == -1 {
		nearMisses := topNearMisses(scores, s.nearMissCount)
		s.log.Warn("no template cleared the score threshold", map[string]interface{}{
			"industry":  business.Industry,
			"threshold": s.threshold,
			"templates": len(catalog),
		})
		return nil, models.TemplateScore{}, errors.NewNoCompatibleTemplateError(business.Industry, s.threshold, nearMisses)
	}

	s.log.Info("template selected", map[string]interface{}{
		"template_id": scores[best].TemplateID,
		"score":       scores[best].Score,
	})
	return &catalog[best], scores[best], nil
}

// keywordScore gives a 20-point base plus up to 20 more scaled by the
// fraction of positive keywords present in the text blob. A template with no
// positive keywords keeps just the base.
func keywordScore(positive []string, blob string) int {
	if len(positive) == 0 {
		return keywordBasePoints
	}
	matched := 0
	for _, kw := range positive {
		if kw != "" && strings.Contains(blob, strings.ToLower(kw)) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(positive))
	return keywordBasePoints + int(math.Round(ratio*keywordScaledPoints))
}

// businessText builds the lowercase blob keyword rules match against.
func businessText(b *models.BusinessRecord) string {
	parts := []string{b.Name, b.Tagline, b.Description, b.Industry}
	parts = append(parts, b.StyleKeywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// topNearMisses keeps the n best rejected scores for the diagnostic payload.
func topNearMisses(scores []models.TemplateScore, n int) []errors.NearMiss {
	misses := make([]errors.NearMiss, 0, len(scores))
	for _, sc := range scores {
		misses = append(misses, errors.NearMiss{TemplateID: sc.TemplateID, Score: sc.Score})
	}
	sort.SliceStable(misses, func(i, j int) bool { return misses[i].Score > misses[j].Score })
	if n > 0 && len(misses) > n {
		misses = misses[:n]
	}
	return misses
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
