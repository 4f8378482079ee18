package memory

import (
	"context"
	"time"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// JobRepository is the job status registry. Finished jobs expire after ttl.
type JobRepository struct {
	cache *cache.Cache
}

var _ contract.JobRepository = &JobRepository{}

func NewJobRepository(ttl time.Duration) *JobRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JobRepository{cache: cache.New(ttl, 5*time.Minute)}
}

func (r *JobRepository) Save(ctx context.Context, job *entity.Job) error {
	c := *job
	expiry := cache.NoExpiration
	if c.Done() {
		expiry = cache.DefaultExpiration
	}
	r.cache.Set(c.Id, &c, expiry)
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*entity.Job, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}
	c := *x.(*entity.Job)
	return &c, nil
}
