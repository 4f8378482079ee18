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

type AnalysisRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AnalysisMapper
}

func NewAnalysisRepository(db *gorm.DB) contract.AnalysisRepository {
	return &AnalysisRepositoryImpl{
		db:     db,
		mapper: mapper.NewAnalysisMapper(),
	}
}

func (r *AnalysisRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AnalysisRepositoryImpl) Create(ctx context.Context, record *entity.AnalysisRecord) error {
	m, err := r.mapper.AnalysisToModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	record.CreatedAt = m.CreatedAt
	return nil
}

func (r *AnalysisRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisRecord, error) {
	var m model.Analysis
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AnalysisToEntity(&m)
}

func (r *AnalysisRepositoryImpl) FindAll(ctx context.Context, opts contract.ListOptions) ([]*entity.AnalysisRecord, error) {
	filters, paging := listSpecifications(opts)

	var models []*model.Analysis
	query := r.applySpecifications(r.db.WithContext(ctx), append(filters, paging...)...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AnalysesToEntities(models)
}

func (r *AnalysisRepositoryImpl) Count(ctx context.Context, opts contract.ListOptions) (int64, error) {
	filters, _ := listSpecifications(opts)

	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Analysis{}), filters...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// listSpecifications splits listing options into filters and ordering/paging
// so Count can skip the latter.
func listSpecifications(opts contract.ListOptions) (filters []specification.Specification, paging []specification.Specification) {
	if opts.UserId != "" {
		filters = append(filters, specification.Filter("user_id", opts.UserId))
	}
	if opts.CompanyName != "" {
		filters = append(filters, specification.ByCompanyName{Name: opts.CompanyName})
	}

	paging = append(paging, specification.OrderBy{Field: "created_at", Desc: true})
	if opts.Limit > 0 {
		paging = append(paging, specification.Pagination{Limit: opts.Limit, Offset: opts.Offset})
	}
	return filters, paging
}
