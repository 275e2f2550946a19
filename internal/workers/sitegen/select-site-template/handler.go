// internal/workers/sitegen/select-site-template/handler.go
package selectsitetemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sitegen-workers/internal/catalog"
	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/common/metrics"
	"sitegen-workers/internal/common/observability"
	"sitegen-workers/internal/common/validation"
	"sitegen-workers/internal/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "select-site-template"
)

type Handler struct {
	config *Config
	engine *engine.Engine
	store  *catalog.Store
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, store *catalog.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: eng,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// WithObservability attaches the shared otel instruments. Without it the
// handler only reports through the prometheus vectors.
func (h *Handler) WithObservability(obs *observability.Observability) *Handler {
	h.obs = obs
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	status := "completed"
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
		h.obs.RecordJobProcessed(context.Background(), status)
		h.obs.RecordJobDuration(context.Background(), time.Since(start), status)
	}()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		status = "failed"
		h.failJob(client, job, errors.NewInputParsingFailedError(err))
		return
	}
	if input.RequestID == "" {
		input.RequestID = uuid.NewString()
	}

	log := h.logger.WithFields(map[string]interface{}{
		"jobKey":    job.Key,
		"requestId": input.RequestID,
	})
	log.Info("processing job", map[string]interface{}{
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := validateVariables(job.Variables); err != nil {
		status = "failed"
		h.failJob(client, job, errors.NewValidationFailedError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		status = "failed"
		h.failJob(client, job, err)
		return
	}

	metrics.DecisionsTotal.WithLabelValues(output.TemplateID).Inc()
	metrics.QuestionsEmitted.WithLabelValues(TaskType).Observe(float64(len(output.Questions)))
	metrics.QualityScore.WithLabelValues(TaskType).Observe(float64(output.Insight.OverallScore))

	log.Info("template selected", map[string]interface{}{
		"templateId":   output.TemplateID,
		"score":        output.TemplateScore.Score,
		"sections":     len(output.SectionVariants),
		"questions":    len(output.Questions),
		"qualityScore": output.Insight.OverallScore,
	})
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	templates, err := h.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	decision, err := h.engine.Decide(input.GenerationInput(), templates)
	if err != nil {
		return nil, err
	}

	return &Output{
		RequestID:       input.RequestID,
		TemplateID:      decision.TemplateID,
		TemplateScore:   decision.TemplateScore,
		SectionVariants: decision.SectionVariants,
		Questions:       decision.Questions,
		Insight:         decision.Insight,
	}, nil
}

func validateVariables(variables string) error {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return fmt.Errorf("variables are not an object: %w", err)
	}
	result := validation.ValidateInput(raw, GetInputSchema())
	if !result.Valid {
		return fmt.Errorf("input validation failed: %s", strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// failJob reports the failure to Camunda. The structured error's metadata
// (for NO_COMPATIBLE_TEMPLATE: the attempted industry and near-miss scores)
// travels as error variables so the process instance can inspect it.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := toStandardError(err)
	bpmnErr := errors.ConvertToBPMNError(stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    bpmnErr.Code,
		"errorMessage": bpmnErr.Message,
		"retryable":    bpmnErr.Retryable,
		"retries":      bpmnErr.Retries,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()

	failCmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(bpmnErr.Retries)).
		ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message))

	var finalCmd interface {
		Send(context.Context) (*pb.FailJobResponse, error)
	} = failCmd
	if len(bpmnErr.ErrorVariables) > 0 {
		varCmd, varErr := failCmd.VariablesFromMap(bpmnErr.ToErrorVariables())
		if varErr != nil {
			h.logger.Error("failed to attach error variables, sending without them", map[string]interface{}{
				"error": varErr,
			})
		} else {
			finalCmd = varCmd
		}
	}

	if _, failErr := finalCmd.Send(context.Background()); failErr != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"error": failErr,
		})
	}
}

func toStandardError(err error) *errors.StandardError {
	if stdErr, ok := err.(*errors.StandardError); ok {
		return stdErr
	}
	return &errors.StandardError{
		Code:      "SELECT_SITE_TEMPLATE_ERROR",
		Message:   "Site template selection failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Execute runs the worker's core logic without a job envelope, for tests and
// local tooling.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
