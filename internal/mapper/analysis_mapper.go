package mapper

import (
	"encoding/json"
	"fmt"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/model"

	"gorm.io/datatypes"
)

type AnalysisMapper struct{}

func NewAnalysisMapper() *AnalysisMapper {
	return &AnalysisMapper{}
}

func (m *AnalysisMapper) AnalysisToModel(r *entity.AnalysisRecord) (*model.Analysis, error) {
	if r == nil {
		return nil, nil
	}

	claims, err := json.Marshal(r.Claims)
	if err != nil {
		return nil, fmt.Errorf("failed to encode claims: %w", err)
	}
	annotations := r.Annotations
	if annotations == nil {
		annotations = []entity.Annotation{}
	}
	annotationsJSON, err := json.Marshal(annotations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotations: %w", err)
	}

	return &model.Analysis{
		Id:                      r.Id,
		UserId:                  r.UserId,
		SessionId:               r.SessionId,
		CompanyName:             r.CompanyName,
		TechField:               r.TechField,
		CompanyWebsite:          r.CompanyWebsite,
		ContentRef:              r.ContentRef,
		Summary:                 r.Summary,
		Claims:                  datatypes.JSON(claims),
		Annotations:             datatypes.JSON(annotationsJSON),
		RecommendationOutcome:   string(r.Recommendation.Outcome),
		RecommendationRationale: r.Recommendation.Rationale,
		RecommendationRisks:     datatypes.JSONSlice[string](r.Recommendation.Risks),
		ArtifactURL:             r.ArtifactURL,
		CreatedAt:               r.CreatedAt,
	}, nil
}

func (m *AnalysisMapper) AnalysisToEntity(a *model.Analysis) (*entity.AnalysisRecord, error) {
	if a == nil {
		return nil, nil
	}

	r := &entity.AnalysisRecord{
		Id:             a.Id,
		UserId:         a.UserId,
		SessionId:      a.SessionId,
		CompanyName:    a.CompanyName,
		TechField:      a.TechField,
		CompanyWebsite: a.CompanyWebsite,
		ContentRef:     a.ContentRef,
		Summary:        a.Summary,
		Recommendation: entity.Recommendation{
			Outcome:   entity.RecommendationOutcome(a.RecommendationOutcome),
			Rationale: a.RecommendationRationale,
			Risks:     []string(a.RecommendationRisks),
		},
		ArtifactURL: a.ArtifactURL,
		CreatedAt:   a.CreatedAt,
	}
	if len(a.Claims) > 0 {
		if err := json.Unmarshal(a.Claims, &r.Claims); err != nil {
			return nil, fmt.Errorf("failed to decode claims of %s: %w", a.Id, err)
		}
	}
	if len(a.Annotations) > 0 {
		if err := json.Unmarshal(a.Annotations, &r.Annotations); err != nil {
			return nil, fmt.Errorf("failed to decode annotations of %s: %w", a.Id, err)
		}
	}
	return r, nil
}

func (m *AnalysisMapper) AnalysesToEntities(models []*model.Analysis) ([]*entity.AnalysisRecord, error) {
	entities := make([]*entity.AnalysisRecord, 0, len(models))
	for _, a := range models {
		e, err := m.AnalysisToEntity(a)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (m *AnalysisMapper) ArtifactToModel(a *entity.Artifact) *model.Artifact {
	if a == nil {
		return nil
	}
	return &model.Artifact{
		Id:          a.Id,
		AnalysisId:  a.AnalysisId,
		URL:         a.URL,
		Path:        a.Path,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *AnalysisMapper) ArtifactToEntity(a *model.Artifact) *entity.Artifact {
	if a == nil {
		return nil
	}
	return &entity.Artifact{
		Id:          a.Id,
		AnalysisId:  a.AnalysisId,
		URL:         a.URL,
		Path:        a.Path,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}
