package session

import (
	"context"
	"strings"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/contract"

	"github.com/google/uuid"
)

// Manager owns the session lifecycle and its BROWSING/FOCUSED transitions.
type Manager struct {
	repo   contract.SessionRepository
	logger logger.ILogger
	now    func() time.Time
}

func NewManager(repo contract.SessionRepository, log logger.ILogger) *Manager {
	return &Manager{repo: repo, logger: log, now: time.Now}
}

// Create returns the user's existing session, merging initialState into it,
// or starts a new one. created reports which happened.
func (m *Manager) Create(ctx context.Context, userId string, initialState map[string]interface{}) (*entity.Session, bool, error) {
	if strings.TrimSpace(userId) == "" {
		return nil, false, apperror.New(apperror.KindInvalidRequest, "user_id is required")
	}

	existing, err := m.repo.FindByUser(ctx, userId)
	if err != nil {
		return nil, false, apperror.Wrap(apperror.KindCollaboratorOutage, err, "session store unavailable")
	}
	if existing != nil {
		if len(initialState) > 0 {
			mergeState(existing, initialState)
			if err := m.Save(ctx, existing); err != nil {
				return nil, false, err
			}
		}
		m.logger.Info("SESSION", "Reusing existing session", map[string]interface{}{
			"session_id": existing.Id,
			"user_id":    userId,
		})
		return existing, false, nil
	}

	now := m.now()
	s := &entity.Session{
		Id:        uuid.NewString(),
		UserId:    userId,
		State:     map[string]interface{}{},
		Phase:     entity.PhaseBrowsing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	mergeState(s, initialState)
	if err := m.repo.Save(ctx, s); err != nil {
		return nil, false, apperror.Wrap(apperror.KindCollaboratorOutage, err, "failed to save session")
	}

	m.logger.Info("SESSION", "Created session", map[string]interface{}{
		"session_id": s.Id,
		"user_id":    userId,
	})
	return s, true, nil
}

// Load fails with SessionNotFound on a miss.
func (m *Manager) Load(ctx context.Context, id string) (*entity.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "session_id is required")
	}
	s, err := m.repo.Load(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "session store unavailable")
	}
	if s == nil {
		return nil, apperror.Wrap(apperror.KindSessionNotFound, nil, "session %s not found", id)
	}
	if s.State == nil {
		s.State = map[string]interface{}{}
	}
	return s, nil
}

// LoadOrCreate loads sessionId when given, otherwise resolves the user's session.
func (m *Manager) LoadOrCreate(ctx context.Context, userId, sessionId string) (*entity.Session, error) {
	if sessionId != "" {
		s, err := m.Load(ctx, sessionId)
		if err != nil {
			return nil, err
		}
		if userId != "" && s.UserId != userId {
			return nil, apperror.Wrap(apperror.KindSessionNotFound, nil, "session %s not found", sessionId)
		}
		return s, nil
	}
	s, _, err := m.Create(ctx, userId, nil)
	return s, err
}

// Save stamps UpdatedAt and persists the session.
func (m *Manager) Save(ctx context.Context, s *entity.Session) error {
	s.UpdatedAt = m.now()
	if err := m.repo.Save(ctx, s); err != nil {
		return apperror.Wrap(apperror.KindCollaboratorOutage, err, "failed to save session %s", s.Id)
	}
	return nil
}

// TransitionToFocused puts an analysis in focus and applies a state delta.
func (m *Manager) TransitionToFocused(s *entity.Session, analysisId string, delta map[string]interface{}) {
	mergeState(s, delta)
	s.State[entity.StateKeyAnalysisID] = analysisId
	s.FocusAnalysisId = analysisId
	s.Phase = entity.PhaseFocused
	m.logger.Debug("SESSION", "Transitioned to FOCUSED", map[string]interface{}{
		"session_id":  s.Id,
		"analysis_id": analysisId,
	})
}

// TransitionToBrowsing clears the focus.
func (m *Manager) TransitionToBrowsing(s *entity.Session) {
	delete(s.State, entity.StateKeyAnalysisID)
	s.FocusAnalysisId = ""
	s.Phase = entity.PhaseBrowsing
	m.logger.Debug("SESSION", "Transitioned to BROWSING", map[string]interface{}{
		"session_id": s.Id,
	})
}

// ResolveTarget picks the analysis a query or follow-up should run against:
// the explicit id, else the session focus, else a pending id_to_analyse.
func ResolveTarget(s *entity.Session, explicit string) (uuid.UUID, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" && s != nil {
		candidate = s.FocusAnalysisId
		if candidate == "" {
			if v, ok := s.State[entity.StateKeyIdToAnalyse].(string); ok {
				candidate = v
			}
		}
	}
	if candidate == "" {
		return uuid.Nil, apperror.New(apperror.KindAnalysisNotFound, "no analysis in focus and none given")
	}
	id, err := uuid.Parse(candidate)
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KindAnalysisNotFound, nil, "analysis %q not found", candidate)
	}
	return id, nil
}

func mergeState(s *entity.Session, delta map[string]interface{}) {
	if s.State == nil {
		s.State = map[string]interface{}{}
	}
	for k, v := range delta {
		s.State[k] = v
	}
}
