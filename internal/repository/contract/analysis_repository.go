package contract

import (
	"context"

	"venture-ai-be/internal/entity"

	"github.com/google/uuid"
)

// ListOptions filters and pages analysis listings. Results are newest first.
type ListOptions struct {
	UserId      string
	CompanyName string
	Limit       int
	Offset      int
}

// AnalysisRepository stores immutable analysis records. Lookups return
// (nil, nil) on a miss.
type AnalysisRepository interface {
	Create(ctx context.Context, record *entity.AnalysisRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisRecord, error)
	FindAll(ctx context.Context, opts ListOptions) ([]*entity.AnalysisRecord, error)
	Count(ctx context.Context, opts ListOptions) (int64, error)
}

type ArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.Artifact) error
	FindByAnalysisID(ctx context.Context, analysisId uuid.UUID) (*entity.Artifact, error)
}
