// internal/engine/engine.go
package engine

import (
	"time"

	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/engine/normalizer"
	"sitegen-workers/internal/engine/quality"
	"sitegen-workers/internal/engine/questions"
	"sitegen-workers/internal/engine/sections"
	"sitegen-workers/internal/engine/templatescore"
	"sitegen-workers/internal/models"
)

// Engine sequences the five decision stages: normalize, evaluate, score the
// catalog, resolve sections, generate questions. It is a pure function over
// its inputs; re-running with previously collected operator answers folded in
// yields an identical decision.
type Engine struct {
	normalizer *normalizer.Normalizer
	evaluator  *quality.Evaluator
	scorer     *templatescore.Scorer
	checker    *sections.Checker
	generator  *questions.Generator
	log        logger.Logger
}

func New(cfg config.EngineConfig, log logger.Logger) *Engine {
	return NewWithClock(cfg, log, time.Now)
}

// NewWithClock pins the clock used for elapsed-years extraction, keeping
// decisions replayable in tests.
func NewWithClock(cfg config.EngineConfig, log logger.Logger, now func() time.Time) *Engine {
	return &Engine{
		normalizer: normalizer.NewWithClock(log, now),
		evaluator:  quality.New(cfg, log),
		scorer:     templatescore.New(cfg, log),
		checker:    sections.New(log),
		generator:  questions.New(cfg, log),
		log:        log,
	}
}

// WithVariantStrategy swaps the section-variant selection policy.
func (e *Engine) WithVariantStrategy(strategy sections.VariantStrategy) *Engine {
	e.checker = sections.NewWithStrategy(strategy, e.log)
	return e
}

// Decide runs the full pipeline against a template catalog. The only error
// conditions are an empty catalog and a catalog with no template at or above
// the score threshold; every other data gap degrades into questions.
func (e *Engine) Decide(input *models.GenerationInput, catalog []models.TemplateDefinition) (*models.Decision, error) {
	business := e.normalizer.Normalize(input)
	insight := e.evaluator.Evaluate(business)

	template, score, err := e.scorer.SelectBest(catalog, &business.Record)
	if err != nil {
		return nil, err
	}

	variants := e.checker.Resolve(template, &business.Record)
	blocked := sections.BlockedVariantCounts(template, &business.Record)
	asks := e.generator.Generate(business, insight, blocked)

	e.log.Info("site generation decision made", map[string]interface{}{
		"template_id":   template.ID,
		"score":         score.Score,
		"sections":      len(variants),
		"questions":     len(asks),
		"quality_score": insight.OverallScore,
	})

	return &models.Decision{
		TemplateID:      template.ID,
		TemplateScore:   score,
		SectionVariants: variants,
		Questions:       asks,
		Insight:         *insight,
	}, nil
}

// Normalize exposes the first stage on its own for callers that only need
// the merged record, e.g. the data-quality worker.
func (e *Engine) Normalize(input *models.GenerationInput) *models.NormalizedBusiness {
	return e.normalizer.Normalize(input)
}

// Evaluate exposes the quality stage on its own.
func (e *Engine) Evaluate(business *models.NormalizedBusiness) *models.QualityInsight {
	return e.evaluator.Evaluate(business)
}
