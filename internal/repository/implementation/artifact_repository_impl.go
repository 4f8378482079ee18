package implementation

import (
	"context"
	"errors"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/mapper"
	"venture-ai-be/internal/model"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtifactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AnalysisMapper
}

func NewArtifactRepository(db *gorm.DB) contract.ArtifactRepository {
	return &ArtifactRepositoryImpl{
		db:     db,
		mapper: mapper.NewAnalysisMapper(),
	}
}

func (r *ArtifactRepositoryImpl) Create(ctx context.Context, artifact *entity.Artifact) error {
	m := r.mapper.ArtifactToModel(artifact)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*artifact = *r.mapper.ArtifactToEntity(m)
	return nil
}

func (r *ArtifactRepositoryImpl) FindByAnalysisID(ctx context.Context, analysisId uuid.UUID) (*entity.Artifact, error) {
	var m model.Artifact
	query := specification.ByAnalysisID{AnalysisId: analysisId}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ArtifactToEntity(&m), nil
}
