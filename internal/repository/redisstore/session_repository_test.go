package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"venture-ai-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}
	return rdb
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)
	repo := NewSessionRepository(rdb, time.Hour)

	userId := "it-" + uuid.NewString()
	s := &entity.Session{
		Id:              uuid.NewString(),
		UserId:          userId,
		State:           map[string]interface{}{entity.StateKeyTechField: "robotics"},
		Phase:           entity.PhaseFocused,
		FocusAnalysisId: uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	t.Cleanup(func() {
		rdb.Del(context.Background(), sessionKeyPrefix+s.Id, userKeyPrefix+userId)
	})

	missing, err := repo.Load(ctx, s.Id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := repo.FindByUser(ctx, userId)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Save(ctx, s))

	loaded, err := repo.Load(ctx, s.Id)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, userId, loaded.UserId)
	assert.Equal(t, entity.PhaseFocused, loaded.Phase)
	assert.Equal(t, s.FocusAnalysisId, loaded.FocusAnalysisId)
	assert.Equal(t, "robotics", loaded.State[entity.StateKeyTechField])

	byUser, err := repo.FindByUser(ctx, userId)
	require.NoError(t, err)
	require.NotNil(t, byUser)
	assert.Equal(t, s.Id, byUser.Id)

	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+s.Id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
