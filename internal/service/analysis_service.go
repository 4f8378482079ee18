package service

import (
	"context"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/metrics"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/internal/repository/unitofwork"
	"venture-ai-be/pkg/ai/router"
	"venture-ai-be/pkg/ai/session"
	"venture-ai-be/pkg/ai/stage"
	"venture-ai-be/pkg/events"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Analyzer runs the full analysis pipeline.
type Analyzer interface {
	Run(ctx context.Context, req *entity.PipelineRequest) (*entity.AnalysisRecord, error)
}

type IAnalysisService interface {
	router.Handlers

	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalysisResponse, error)
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.QueryAnswerResponse, error)
	Followup(ctx context.Context, req *dto.FollowupRequest) (*dto.FollowupResponse, error)
	Query(ctx context.Context, req *dto.RoutedQueryRequest) (*dto.RoutedQueryResponse, error)
	List(ctx context.Context, req *dto.ListAnalysesRequest) (*dto.ListAnalysesResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AnalysisResponse, error)
}

type analysisService struct {
	analyzer   Analyzer
	answerer   *stage.Answerer
	followups  *stage.FollowupGenerator
	uowFactory unitofwork.RepositoryFactory
	sessions   *session.Manager
	publisher  events.Publisher
	router     *router.Router
	logger     logger.ILogger
	metrics    *metrics.Metrics
}

func NewAnalysisService(
	analyzer Analyzer,
	answerer *stage.Answerer,
	followups *stage.FollowupGenerator,
	uowFactory unitofwork.RepositoryFactory,
	sessions *session.Manager,
	publisher events.Publisher,
	log logger.ILogger,
	m *metrics.Metrics,
) IAnalysisService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &analysisService{
		analyzer:   analyzer,
		answerer:   answerer,
		followups:  followups,
		uowFactory: uowFactory,
		sessions:   sessions,
		publisher:  publisher,
		logger:     log,
		metrics:    m,
	}
	s.router = router.NewRouter(s, router.NewReferenceResolver(uowFactory), log, m)
	return s
}

func (s *analysisService) RunFullAnalysis(ctx context.Context, req *entity.PipelineRequest) (*entity.AnalysisRecord, error) {
	record, err := s.analyzer.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, events.NewAnalysisCompleted(record)); err != nil {
		s.logger.Warn("ANALYSIS", "Failed to publish analysis event", map[string]interface{}{
			"analysis_id": record.Id.String(),
			"error":       err.Error(),
		})
	}
	return record, nil
}

func (s *analysisService) RunInvestorQuery(ctx context.Context, req *entity.PipelineRequest) (*entity.QueryAnswer, error) {
	sess, record, err := s.target(ctx, req)
	if err != nil {
		return nil, err
	}

	var answer string
	err = s.observe(stage.NameQuery, func() (err error) {
		answer, err = s.answerer.Answer(ctx, record, req.Intent)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.focus(ctx, sess, record); err != nil {
		return nil, err
	}
	return &entity.QueryAnswer{AnalysisId: record.Id, Question: req.Intent, Answer: answer}, nil
}

func (s *analysisService) RunFollowup(ctx context.Context, req *entity.PipelineRequest) (*entity.FollowupResult, error) {
	sess, record, err := s.target(ctx, req)
	if err != nil {
		return nil, err
	}

	var questions *entity.FollowupQuestions
	err = s.observe(stage.NameFollowup, func() (err error) {
		questions, err = s.followups.Generate(ctx, record)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.focus(ctx, sess, record); err != nil {
		return nil, err
	}
	return &entity.FollowupResult{AnalysisId: record.Id, FollowupQuestions: *questions}, nil
}

// target resolves the session and the analysis a query or follow-up runs against.
func (s *analysisService) target(ctx context.Context, req *entity.PipelineRequest) (*entity.Session, *entity.AnalysisRecord, error) {
	sess, err := s.sessions.LoadOrCreate(ctx, req.UserId, req.SessionId)
	if err != nil {
		return nil, nil, err
	}
	id, err := session.ResolveTarget(sess, req.AnalysisId)
	if err != nil {
		return nil, nil, err
	}
	record, err := s.findAnalysis(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sess, record, nil
}

func (s *analysisService) focus(ctx context.Context, sess *entity.Session, record *entity.AnalysisRecord) error {
	s.sessions.TransitionToFocused(sess, record.Id.String(), map[string]interface{}{
		entity.StateKeyArtifactURL: record.ArtifactURL,
	})
	return s.sessions.Save(ctx, sess)
}

func (s *analysisService) observe(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveStage(name, start, err)
	return apperror.WithStage(name, err)
}

func (s *analysisService) findAnalysis(ctx context.Context, id uuid.UUID) (*entity.AnalysisRecord, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.AnalysisRepository().FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
	}
	if record == nil {
		return nil, apperror.Wrap(apperror.KindAnalysisNotFound, nil, "analysis %s not found", id)
	}
	return record, nil
}

func (s *analysisService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalysisResponse, error) {
	res, err := s.router.Run(ctx, router.TaskFullAnalysis, &entity.PipelineRequest{
		ContentRef:       req.ContentRef,
		UserId:           req.UserId,
		SessionId:        req.SessionId,
		TechField:        req.TechField,
		ShortDescription: req.ShortDescription,
		CompanyWebsite:   req.CompanyWebsite,
	})
	if err != nil {
		return nil, err
	}
	return toAnalysisResponse(res.Analysis), nil
}

func (s *analysisService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.QueryAnswerResponse, error) {
	res, err := s.router.Run(ctx, router.TaskInvestorQuery, &entity.PipelineRequest{
		UserId:     req.UserId,
		SessionId:  req.SessionId,
		AnalysisId: req.AnalysisId,
		Intent:     req.Question,
	})
	if err != nil {
		return nil, err
	}
	return toQueryAnswerResponse(res.Answer), nil
}

func (s *analysisService) Followup(ctx context.Context, req *dto.FollowupRequest) (*dto.FollowupResponse, error) {
	res, err := s.router.Run(ctx, router.TaskFollowupQuestions, &entity.PipelineRequest{
		UserId:     req.UserId,
		SessionId:  req.SessionId,
		AnalysisId: req.AnalysisId,
	})
	if err != nil {
		return nil, err
	}
	return toFollowupResponse(res.Followup), nil
}

func (s *analysisService) Query(ctx context.Context, req *dto.RoutedQueryRequest) (*dto.RoutedQueryResponse, error) {
	res, err := s.router.Execute(ctx, &entity.PipelineRequest{
		ContentRef:       req.ContentRef,
		UserId:           req.UserId,
		SessionId:        req.SessionId,
		Intent:           req.Intent,
		AnalysisId:       req.AnalysisId,
		TechField:        req.TechField,
		ShortDescription: req.ShortDescription,
		CompanyWebsite:   req.CompanyWebsite,
	})
	if err != nil {
		return nil, err
	}

	out := &dto.RoutedQueryResponse{Task: string(res.Kind)}
	switch res.Kind {
	case router.TaskFullAnalysis:
		out.Analysis = toAnalysisResponse(res.Analysis)
	case router.TaskInvestorQuery:
		out.Answer = toQueryAnswerResponse(res.Answer)
	case router.TaskFollowupQuestions:
		out.Followup = toFollowupResponse(res.Followup)
	}
	return out, nil
}

func (s *analysisService) List(ctx context.Context, req *dto.ListAnalysesRequest) (*dto.ListAnalysesResponse, error) {
	if req == nil {
		req = &dto.ListAnalysesRequest{}
	}
	opts := contract.ListOptions{
		UserId:      req.UserId,
		CompanyName: req.Company,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.AnalysisRepository().FindAll(ctx, opts)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
	}
	total, err := uow.AnalysisRepository().Count(ctx, opts)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
	}

	items := make([]*dto.AnalysisSummaryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, &dto.AnalysisSummaryResponse{
			Id:          r.Id,
			CompanyName: r.CompanyName,
			TechField:   r.TechField,
			Outcome:     r.Recommendation.Outcome,
			Flagged:     len(r.FlaggedAnnotations()),
			ArtifactURL: r.ArtifactURL,
			CreatedAt:   r.CreatedAt,
		})
	}
	return &dto.ListAnalysesResponse{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}

func (s *analysisService) Get(ctx context.Context, id uuid.UUID) (*dto.AnalysisResponse, error) {
	record, err := s.findAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAnalysisResponse(record), nil
}

func toAnalysisResponse(r *entity.AnalysisRecord) *dto.AnalysisResponse {
	return &dto.AnalysisResponse{
		Id:             r.Id,
		UserId:         r.UserId,
		SessionId:      r.SessionId,
		CompanyName:    r.CompanyName,
		TechField:      r.TechField,
		CompanyWebsite: r.CompanyWebsite,
		ContentRef:     r.ContentRef,
		Summary:        r.Summary,
		Claims:         r.Claims,
		Annotations:    r.Annotations,
		Recommendation: r.Recommendation,
		ArtifactURL:    r.ArtifactURL,
		CreatedAt:      r.CreatedAt,
	}
}

func toQueryAnswerResponse(a *entity.QueryAnswer) *dto.QueryAnswerResponse {
	return &dto.QueryAnswerResponse{AnalysisId: a.AnalysisId, Question: a.Question, Answer: a.Answer}
}

func toFollowupResponse(f *entity.FollowupResult) *dto.FollowupResponse {
	concerns := f.PriorityConcerns
	if concerns == nil {
		concerns = []string{}
	}
	return &dto.FollowupResponse{
		AnalysisId:        f.AnalysisId,
		Questions:         f.Questions,
		OverallAssessment: f.OverallAssessment,
		PriorityConcerns:  concerns,
	}
}
