package service

import (
	"context"
	"encoding/json"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// JobRunner runs the analysis behind an async job.
type JobRunner interface {
	RunFullAnalysis(ctx context.Context, req *entity.PipelineRequest) (*entity.AnalysisRecord, error)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	jobs      contract.JobRepository
	runner    JobRunner
	publisher events.Publisher
	timeout   time.Duration
	logger    logger.ILogger
	metrics   *metrics.Metrics
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	jobs contract.JobRepository,
	runner JobRunner,
	publisher events.Publisher,
	timeout time.Duration,
	log logger.ILogger,
	m *metrics.Metrics,
) IConsumerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		jobs:      jobs,
		runner:    runner,
		publisher: publisher,
		timeout:   timeout,
		logger:    log,
		metrics:   m,
	}
}

// Consume processes jobs one at a time until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// every outcome is recorded on the job, so messages are never redelivered
	defer msg.Ack()

	var payload dto.PublishAnalysisJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("JOBS", "Failed to unmarshal job message", map[string]interface{}{"error": err.Error()})
		return
	}

	job, err := cs.jobs.FindByID(ctx, payload.JobId)
	if err != nil || job == nil {
		cs.logger.Error("JOBS", "Job not found", map[string]interface{}{"job_id": payload.JobId})
		return
	}

	job.Status = entity.JobRunning
	job.UpdatedAt = time.Now()
	cs.save(ctx, job)

	cs.metrics.JobsInFlight.Inc()
	defer cs.metrics.JobsInFlight.Dec()

	cs.logger.Info("JOBS", "Running analysis job", map[string]interface{}{
		"job_id":      job.Id,
		"content_ref": job.Request.ContentRef,
	})

	runCtx := ctx
	if cs.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cs.timeout)
		defer cancel()
	}

	req := job.Request
	record, err := cs.runner.RunFullAnalysis(runCtx, &req)
	job.UpdatedAt = time.Now()
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == "" {
			kind = apperror.KindCollaboratorOutage
		}
		job.Status = entity.JobFailed
		job.ErrorKind = string(kind)
		job.ErrorStage = apperror.StageOf(err)
		job.ErrorMessage = err.Error()
		cs.save(ctx, job)

		cs.logger.Warn("JOBS", "Analysis job failed", map[string]interface{}{
			"job_id": job.Id,
			"kind":   job.ErrorKind,
			"stage":  job.ErrorStage,
			"error":  job.ErrorMessage,
		})
		ev := events.NewAnalysisFailed(job.Id, job.UserId, job.ErrorStage, job.ErrorKind, job.ErrorMessage)
		if pubErr := cs.publisher.Publish(ctx, ev); pubErr != nil {
			cs.logger.Warn("JOBS", "Failed to publish failure event", map[string]interface{}{"error": pubErr.Error()})
		}
		return
	}

	job.Status = entity.JobSucceeded
	job.AnalysisId = record.Id.String()
	if job.Request.SessionId == "" {
		job.Request.SessionId = record.SessionId
	}
	cs.save(ctx, job)

	cs.logger.Info("JOBS", "Analysis job succeeded", map[string]interface{}{
		"job_id":      job.Id,
		"analysis_id": job.AnalysisId,
	})
}

func (cs *consumerService) save(ctx context.Context, job *entity.Job) {
	if err := cs.jobs.Save(context.WithoutCancel(ctx), job); err != nil {
		cs.logger.Error("JOBS", "Failed to save job status", map[string]interface{}{
			"job_id": job.Id,
			"error":  err.Error(),
		})
	}
}
