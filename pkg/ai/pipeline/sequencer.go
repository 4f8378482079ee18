package pipeline

import (
	"context"
	"strings"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/unitofwork"
	"venture-ai-be/internal/tracer"
	"venture-ai-be/pkg/ai/session"
	"venture-ai-be/pkg/ai/stage"
	"venture-ai-be/pkg/artifact"
	"venture-ai-be/pkg/content"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const stageCommit = "commit"

// Stages are the three analysis stages, run in this order.
type Stages struct {
	Extractor   *stage.Extractor
	Verifier    *stage.Verifier
	Synthesizer *stage.Synthesizer
}

// Sequencer runs a full analysis: fetch, extraction, verification and
// synthesis, then commits the record and its memo and focuses the session.
type Sequencer struct {
	fetcher    content.Fetcher
	stages     Stages
	artifacts  artifact.Store
	uowFactory unitofwork.RepositoryFactory
	sessions   *session.Manager
	logger     logger.ILogger
	metrics    *metrics.Metrics
}

func NewSequencer(
	fetcher content.Fetcher,
	stages Stages,
	artifacts artifact.Store,
	uowFactory unitofwork.RepositoryFactory,
	sessions *session.Manager,
	log logger.ILogger,
	m *metrics.Metrics,
) *Sequencer {
	return &Sequencer{
		fetcher:    fetcher,
		stages:     stages,
		artifacts:  artifacts,
		uowFactory: uowFactory,
		sessions:   sessions,
		logger:     log,
		metrics:    m,
	}
}

// Run executes the pipeline for req. The first failing stage halts the run
// with an error tagged by that stage; nothing is persisted in that case.
func (s *Sequencer) Run(ctx context.Context, req *entity.PipelineRequest) (*entity.AnalysisRecord, error) {
	if req == nil || strings.TrimSpace(req.UserId) == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "user_id is required")
	}
	if !req.HasContent() {
		return nil, apperror.New(apperror.KindInvalidRequest, "content_ref is required")
	}

	ctx, span := tracer.Tracer("venture-ai-be/pkg/ai/pipeline").Start(ctx, "pipeline.run")
	defer span.End()

	sess, err := s.sessions.LoadOrCreate(ctx, req.UserId, req.SessionId)
	if err != nil {
		return nil, err
	}
	run := *req
	run.SessionId = sess.Id
	span.SetAttributes(attribute.String("session.id", sess.Id))

	s.logger.Info("PIPELINE", "Starting analysis", map[string]interface{}{
		"session_id":  sess.Id,
		"content_ref": run.ContentRef,
	})

	var (
		doc         *content.Document
		claims      *entity.Claims
		annotations []entity.Annotation
		record      *entity.AnalysisRecord
	)

	err = s.runStage(ctx, stage.NameFetch, func(ctx context.Context) (err error) {
		doc, err = s.fetcher.Fetch(ctx, run.ContentRef)
		return err
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	err = s.runStage(ctx, stage.NameExtraction, func(ctx context.Context) (err error) {
		claims, err = s.stages.Extractor.Extract(ctx, doc)
		return err
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	err = s.runStage(ctx, stage.NameVerification, func(ctx context.Context) (err error) {
		annotations, err = s.stages.Verifier.Verify(ctx, claims)
		return err
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	err = s.runStage(ctx, stage.NameSynthesis, func(ctx context.Context) (err error) {
		record, err = s.stages.Synthesizer.Synthesize(ctx, stage.SynthesisInput{
			Request:     &run,
			Claims:      claims,
			Annotations: annotations,
		})
		return err
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	if err := s.runStage(ctx, stageCommit, func(ctx context.Context) error {
		return s.commit(ctx, record)
	}); err != nil {
		return nil, s.fail(span, err)
	}

	s.sessions.TransitionToFocused(sess, record.Id.String(), map[string]interface{}{
		entity.StateKeyArtifactURL:      record.ArtifactURL,
		entity.StateKeyTechField:        run.TechField,
		entity.StateKeyCompanyWebsite:   run.CompanyWebsite,
		entity.StateKeyShortDescription: run.ShortDescription,
		entity.StateKeyContentRef:       run.ContentRef,
	})
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("PIPELINE", "Analysis committed but session focus was not saved", map[string]interface{}{
			"analysis_id": record.Id.String(),
			"session_id":  sess.Id,
			"error":       err.Error(),
		})
		return nil, s.fail(span, apperror.WithStage("session", err))
	}

	span.SetAttributes(attribute.String("analysis.id", record.Id.String()))
	s.logger.Info("PIPELINE", "Analysis complete", map[string]interface{}{
		"analysis_id":  record.Id.String(),
		"session_id":   sess.Id,
		"company":      record.CompanyName,
		"artifact_url": record.ArtifactURL,
	})
	return record, nil
}

func (s *Sequencer) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.WithStage(name, err)
	}

	ctx, span := tracer.Tracer("venture-ai-be/pkg/ai/pipeline").Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveStage(name, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("PIPELINE", "Stage failed", map[string]interface{}{
			"stage":    name,
			"kind":     string(apperror.KindOf(err)),
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return apperror.WithStage(name, err)
	}
	s.logger.Debug("PIPELINE", "Stage done", map[string]interface{}{
		"stage":    name,
		"duration": time.Since(start).String(),
	})
	return nil
}

func (s *Sequencer) fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	return err
}

// commit writes the memo blob, then the record and artifact row in one unit
// of work. A failed unit of work removes the blob again.
func (s *Sequencer) commit(ctx context.Context, record *entity.AnalysisRecord) error {
	memo, err := artifact.RenderMemo(record)
	if err != nil {
		return apperror.Wrap(apperror.KindSchemaValidation, err, "failed to render memo")
	}

	path := artifact.MemoPath(record.Id.String())
	url, err := s.artifacts.Put(ctx, memo, path, artifact.MemoContentType)
	if err != nil {
		return apperror.Wrap(apperror.KindCollaboratorOutage, err, "artifact store unavailable")
	}
	record.ArtifactURL = url

	art := &entity.Artifact{
		Id:          uuid.New(),
		AnalysisId:  record.Id,
		URL:         url,
		Path:        path,
		ContentType: artifact.MemoContentType,
		Size:        int64(len(memo)),
		CreatedAt:   record.CreatedAt,
	}

	if err := s.persist(ctx, record, art); err != nil {
		record.ArtifactURL = ""
		if delErr := s.artifacts.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			s.logger.Warn("PIPELINE", "Failed to remove orphaned memo", map[string]interface{}{
				"path":  path,
				"error": delErr.Error(),
			})
		}
		return apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
	}
	return nil
}

func (s *Sequencer) persist(ctx context.Context, record *entity.AnalysisRecord, art *entity.Artifact) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.AnalysisRepository().Create(ctx, record); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ArtifactRepository().Create(ctx, art); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}
