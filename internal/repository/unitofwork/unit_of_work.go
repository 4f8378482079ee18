package unitofwork

import (
	"context"

	"venture-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AnalysisRepository() contract.AnalysisRepository
	ArtifactRepository() contract.ArtifactRepository
}
