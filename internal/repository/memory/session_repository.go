package memory

import (
	"context"
	"time"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const userIndexPrefix = "user:"

// SessionRepository keeps sessions in process memory. Sessions expire after
// ttl without a save.
type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.cache.Set(session.Id, cloneSession(session), cache.DefaultExpiration)
	r.cache.Set(userIndexPrefix+session.UserId, session.Id, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*entity.Session, error) {
	if x, found := r.cache.Get(id); found {
		if s, ok := x.(*entity.Session); ok {
			return cloneSession(s), nil
		}
	}
	return nil, nil
}

func (r *SessionRepository) FindByUser(ctx context.Context, userId string) (*entity.Session, error) {
	x, found := r.cache.Get(userIndexPrefix + userId)
	if !found {
		return nil, nil
	}
	return r.Load(ctx, x.(string))
}

// cloneSession copies the state map so callers never share it with the cache.
func cloneSession(s *entity.Session) *entity.Session {
	c := *s
	c.State = make(map[string]interface{}, len(s.State))
	for k, v := range s.State {
		c.State[k] = v
	}
	return &c
}
