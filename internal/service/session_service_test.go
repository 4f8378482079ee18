package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/dto"
	"venture-ai-be/internal/pkg/logger"
	"venture-ai-be/internal/repository/memory"
	"venture-ai-be/pkg/ai/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateReusesAndGetChecksOwner(t *testing.T) {
	svc := NewSessionService(session.NewManager(memory.NewSessionRepository(time.Hour), logger.NewNop()))
	ctx := context.Background()

	first, err := svc.Create(ctx, &dto.CreateSessionRequest{UserId: "u1", State: map[string]interface{}{"id_to_analyse": "abc"}})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "BROWSING", first.Phase)

	second, err := svc.Create(ctx, &dto.CreateSessionRequest{UserId: "u1"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, "abc", second.State["id_to_analyse"])

	got, err := svc.Get(ctx, "u1", first.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Id, got.Id)

	_, err = svc.Get(ctx, "u2", first.Id)
	assert.True(t, errors.Is(err, apperror.ErrSessionNotFound))

	_, err = svc.Create(ctx, &dto.CreateSessionRequest{})
	assert.True(t, errors.Is(err, apperror.ErrInvalidRequest))
}
