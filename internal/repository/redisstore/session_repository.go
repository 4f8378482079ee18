package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "session:user:"
)

// SessionRepository stores sessions as JSON values with a sliding TTL.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.Id, data, r.ttl)
	pipe.Set(ctx, userKeyPrefix+session.UserId, session.Id, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.Id, err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

func (r *SessionRepository) FindByUser(ctx context.Context, userId string) (*entity.Session, error) {
	id, err := r.rdb.Get(ctx, userKeyPrefix+userId).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session for user %s: %w", userId, err)
	}
	return r.Load(ctx, id)
}
