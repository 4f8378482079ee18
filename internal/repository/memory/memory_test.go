package memory

import (
	"context"
	"testing"
	"time"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(user, company string, at time.Time) *entity.AnalysisRecord {
	return &entity.AnalysisRecord{Id: uuid.New(), UserId: user, CompanyName: company, Summary: "s", CreatedAt: at}
}

func TestUnitOfWorkCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	f := NewRepositoryFactory()

	uow := f.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	r := record("u1", "Acme", time.Now())
	require.NoError(t, uow.AnalysisRepository().Create(ctx, r))
	require.NoError(t, uow.ArtifactRepository().Create(ctx, &entity.Artifact{AnalysisId: r.Id, URL: "http://x"}))

	got, err := uow.AnalysisRepository().FindByID(ctx, r.Id)
	require.NoError(t, err)
	assert.Nil(t, got, "staged writes are invisible before commit")

	require.NoError(t, uow.Rollback())
	n, m := f.Counts()
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, m)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AnalysisRepository().Create(ctx, r))
	require.NoError(t, uow.ArtifactRepository().Create(ctx, &entity.Artifact{AnalysisId: r.Id, URL: "http://x"}))
	require.NoError(t, uow.Commit())

	got, err = f.NewUnitOfWork(ctx).AnalysisRepository().FindByID(ctx, r.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.CompanyName)

	art, err := f.NewUnitOfWork(ctx).ArtifactRepository().FindByAnalysisID(ctx, r.Id)
	require.NoError(t, err)
	require.NotNil(t, art)
	assert.NotEqual(t, uuid.Nil, art.Id)
}

func TestUnitOfWorkStateErrors(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory().NewUnitOfWork(ctx)
	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
}

func TestFindAllOrdersAndFilters(t *testing.T) {
	ctx := context.Background()
	f := NewRepositoryFactory()
	repo := f.NewUnitOfWork(ctx).AnalysisRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	older := record("u1", "Acme", base)
	newer := record("u1", "Beta", base.Add(time.Hour))
	other := record("u2", "acme", base.Add(2*time.Hour))
	for _, r := range []*entity.AnalysisRecord{older, newer, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	all, err := repo.FindAll(ctx, contract.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.Id, all[0].Id)
	assert.Equal(t, older.Id, all[2].Id)

	mine, err := repo.FindAll(ctx, contract.ListOptions{UserId: "u1", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, older.Id, mine[0].Id)

	byName, err := repo.Count(ctx, contract.ListOptions{CompanyName: " ACME "})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byName)

	none, err := repo.FindAll(ctx, contract.ListOptions{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)

	negative, err := repo.FindAll(ctx, contract.ListOptions{Limit: 2, Offset: -1})
	require.NoError(t, err)
	require.Len(t, negative, 2)
	assert.Equal(t, other.Id, negative[0].Id)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	missing, err := repo.Load(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	s := &entity.Session{Id: "s1", UserId: "u1", State: map[string]interface{}{"tech_field": "robotics"}, Phase: entity.PhaseBrowsing}
	require.NoError(t, repo.Save(ctx, s))
	s.State["tech_field"] = "mutated"

	loaded, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "robotics", loaded.State["tech_field"])

	byUser, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, byUser)
	assert.Equal(t, "s1", byUser.Id)
}

func TestJobRepositoryCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository(time.Minute)

	job := &entity.Job{Id: "j1", UserId: "u", Status: entity.JobQueued}
	require.NoError(t, repo.Save(ctx, job))
	job.Status = entity.JobRunning

	got, err := repo.FindByID(ctx, "j1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.JobQueued, got.Status)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
