package contract

import (
	"context"

	"venture-ai-be/internal/entity"
)

// JobRepository holds async job status. FindByID returns (nil, nil) on a miss.
type JobRepository interface {
	Save(ctx context.Context, job *entity.Job) error
	FindByID(ctx context.Context, id string) (*entity.Job, error)
}
