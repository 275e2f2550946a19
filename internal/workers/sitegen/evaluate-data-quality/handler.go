// internal/workers/sitegen/evaluate-data-quality/handler.go
package evaluatedataquality

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sitegen-workers/internal/common/errors"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/common/metrics"
	"sitegen-workers/internal/common/observability"
	"sitegen-workers/internal/engine"
	"sitegen-workers/internal/engine/questions"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "evaluate-data-quality"
)

type Handler struct {
	config    *Config
	engine    *engine.Engine
	generator *questions.Generator
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, eng *engine.Engine, gen *questions.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		engine:    eng,
		generator: gen,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// WithObservability attaches the shared otel instruments.
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

	output := h.execute(&input)

	metrics.QualityScore.WithLabelValues(TaskType).Observe(float64(output.Insight.OverallScore))
	metrics.QuestionsEmitted.WithLabelValues(TaskType).Observe(float64(len(output.Questions)))

	log.Info("data quality evaluated", map[string]interface{}{
		"overallScore": output.Insight.OverallScore,
		"missingFacts": len(output.Insight.MissingFacts),
		"questions":    len(output.Questions),
	})
	h.completeJob(client, job, output)
}

func (h *Handler) execute(input *Input) *Output {
	business := h.engine.Normalize(input.GenerationInput())
	insight := h.engine.Evaluate(business)
	asks := h.generator.Generate(business, insight, nil)

	return &Output{
		RequestID: input.RequestID,
		Business:  *business,
		Insight:   *insight,
		Questions: asks,
	}
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

// failJob reports the failure to Camunda with the structured error's
// metadata attached as error variables.
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
		Code:      "EVALUATE_DATA_QUALITY_ERROR",
		Message:   "Data quality evaluation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Execute runs the worker's core logic without a job envelope.
func (h *Handler) Execute(input *Input) *Output {
	return h.execute(input)
}
