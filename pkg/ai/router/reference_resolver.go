package router

import (
	"context"

	"venture-ai-be/internal/apperror"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ReferenceResolver turns a parsed reference into a stored analysis id.
// A reference that matches nothing is AnalysisNotFound; no other record
// is substituted.
type ReferenceResolver struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReferenceResolver(uowFactory unitofwork.RepositoryFactory) *ReferenceResolver {
	return &ReferenceResolver{uowFactory: uowFactory}
}

func (r *ReferenceResolver) Resolve(ctx context.Context, ref ParsedReference) (uuid.UUID, error) {
	repo := r.uowFactory.NewUnitOfWork(ctx).AnalysisRepository()

	switch ref.Type {
	case ReferenceTypeUUID:
		id, err := uuid.Parse(ref.Value)
		if err != nil {
			return uuid.Nil, apperror.Wrap(apperror.KindAnalysisNotFound, nil, "analysis %q not found", ref.Value)
		}
		record, err := repo.FindByID(ctx, id)
		if err != nil {
			return uuid.Nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
		}
		if record == nil {
			return uuid.Nil, apperror.Wrap(apperror.KindAnalysisNotFound, nil, "analysis %s not found", id)
		}
		return record.Id, nil

	default:
		// newest analysis of the named company
		records, err := repo.FindAll(ctx, contract.ListOptions{CompanyName: ref.Value, Limit: 1})
		if err != nil {
			return uuid.Nil, apperror.Wrap(apperror.KindCollaboratorOutage, err, "analysis store unavailable")
		}
		if len(records) == 0 {
			return uuid.Nil, apperror.Wrap(apperror.KindAnalysisNotFound, nil, "no analysis for company %q", ref.Value)
		}
		return records[0].Id, nil
	}
}
