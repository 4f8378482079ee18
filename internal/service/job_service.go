package service

import (
	"context"
	"strings"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IJobService interface {
	Submit(ctx context.Context, req *dto.AnalyzeRequest) (*dto.JobResponse, error)
	Get(ctx context.Context, userId, id string) (*dto.JobResponse, error)
}

type jobService struct {
	jobs      contract.JobRepository
	publisher IPublisherService
	logger    logger.ILogger
}

func NewJobService(jobs contract.JobRepository, publisher IPublisherService, log logger.ILogger) IJobService {
	return &jobService{jobs: jobs, publisher: publisher, logger: log}
}

func (s *jobService) Submit(ctx context.Context, req *dto.AnalyzeRequest) (*dto.JobResponse, error) {
	if strings.TrimSpace(req.UserId) == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "user_id is required")
	}
	if strings.TrimSpace(req.ContentRef) == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "content_ref is required")
	}

	now := time.Now()
	job := &entity.Job{
		Id:     uuid.NewString(),
		UserId: req.UserId,
		Status: entity.JobQueued,
		Request: entity.PipelineRequest{
			ContentRef:       req.ContentRef,
			UserId:           req.UserId,
			SessionId:        req.SessionId,
			TechField:        req.TechField,
			ShortDescription: req.ShortDescription,
			CompanyWebsite:   req.CompanyWebsite,
		},
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "job registry unavailable")
	}

	if err := s.publisher.PublishAnalysisJob(ctx, job.Id); err != nil {
		job.Status = entity.JobFailed
		job.ErrorKind = string(apperror.KindCollaboratorOutage)
		job.ErrorMessage = err.Error()
		_ = s.jobs.Save(ctx, job)
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "failed to queue analysis job")
	}

	s.logger.Info("JOBS", "Analysis job queued", map[string]interface{}{
		"job_id":  job.Id,
		"user_id": job.UserId,
	})
	return toJobResponse(job), nil
}

func (s *jobService) Get(ctx context.Context, userId, id string) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "job registry unavailable")
	}
	if job == nil || (userId != "" && job.UserId != userId) {
		return nil, apperror.Wrap(apperror.KindJobNotFound, nil, "job %s not found", id)
	}
	return toJobResponse(job), nil
}

func toJobResponse(job *entity.Job) *dto.JobResponse {
	res := &dto.JobResponse{
		JobId:       job.Id,
		Status:      string(job.Status),
		AnalysisId:  job.AnalysisId,
		SubmittedAt: job.SubmittedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	if job.Status == entity.JobFailed {
		res.Error = &dto.JobError{Kind: job.ErrorKind, Stage: job.ErrorStage, Message: job.ErrorMessage}
	}
	return res
}
