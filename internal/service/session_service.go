package service

import (
	"context"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/entity"
	"venture-ai-be/pkg/ai/session"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Get(ctx context.Context, userId, id string) (*dto.SessionResponse, error)
}

type sessionService struct {
	sessions *session.Manager
}

func NewSessionService(sessions *session.Manager) ISessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	sess, created, err := s.sessions.Create(ctx, req.UserId, req.State)
	if err != nil {
		return nil, err
	}
	res := toSessionResponse(sess)
	res.Created = created
	return res, nil
}

// Get hides sessions owned by another user behind SessionNotFound.
func (s *sessionService) Get(ctx context.Context, userId, id string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if userId != "" && sess.UserId != userId {
		return nil, apperror.Wrap(apperror.KindSessionNotFound, nil, "session %s not found", id)
	}
	return toSessionResponse(sess), nil
}

func toSessionResponse(s *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:              s.Id,
		UserId:          s.UserId,
		Phase:           string(s.Phase),
		FocusAnalysisId: s.FocusAnalysisId,
		State:           s.State,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
