package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"venture-ai-be/internal/entity"
	"venture-ai-be/internal/repository/contract"
	"venture-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store is an in-process analysis database shared by every unit of work
// created from the same RepositoryFactory.
type Store struct {
	mu        sync.RWMutex
	analyses  map[uuid.UUID]*entity.AnalysisRecord
	artifacts map[uuid.UUID]*entity.Artifact
}

type RepositoryFactory struct {
	store *Store
}

var _ unitofwork.RepositoryFactory = &RepositoryFactory{}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{store: &Store{
		analyses:  make(map[uuid.UUID]*entity.AnalysisRecord),
		artifacts: make(map[uuid.UUID]*entity.Artifact),
	}}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// Counts reports how many analyses and artifacts are stored.
func (f *RepositoryFactory) Counts() (analyses int, artifacts int) {
	f.store.mu.RLock()
	defer f.store.mu.RUnlock()
	return len(f.store.analyses), len(f.store.artifacts)
}

// UnitOfWork stages writes made inside Begin/Commit and applies them at once.
// Writes outside a transaction go straight to the store.
type UnitOfWork struct {
	store  *Store
	staged *pending
}

type pending struct {
	analyses  []*entity.AnalysisRecord
	artifacts []*entity.Artifact
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.staged != nil {
		return fmt.Errorf("transaction already started")
	}
	u.staged = &pending{}
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.staged == nil {
		return fmt.Errorf("no transaction to commit")
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range u.staged.analyses {
		if _, exists := s.analyses[a.Id]; exists {
			u.staged = nil
			return fmt.Errorf("duplicate analysis id %s", a.Id)
		}
	}
	for _, a := range u.staged.analyses {
		s.analyses[a.Id] = a
	}
	for _, a := range u.staged.artifacts {
		s.artifacts[a.AnalysisId] = a
	}
	u.staged = nil
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.staged == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.staged = nil
	return nil
}

func (u *UnitOfWork) AnalysisRepository() contract.AnalysisRepository {
	return &analysisRepository{uow: u}
}

func (u *UnitOfWork) ArtifactRepository() contract.ArtifactRepository {
	return &artifactRepository{uow: u}
}

type analysisRepository struct {
	uow *UnitOfWork
}

func (r *analysisRepository) Create(ctx context.Context, record *entity.AnalysisRecord) error {
	c := *record
	if r.uow.staged != nil {
		r.uow.staged.analyses = append(r.uow.staged.analyses, &c)
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.analyses[c.Id]; exists {
		return fmt.Errorf("duplicate analysis id %s", c.Id)
	}
	s.analyses[c.Id] = &c
	return nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AnalysisRecord, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.analyses[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r *analysisRepository) filtered(opts contract.ListOptions) []*entity.AnalysisRecord {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.AnalysisRecord, 0, len(s.analyses))
	for _, a := range s.analyses {
		if opts.UserId != "" && a.UserId != opts.UserId {
			continue
		}
		if opts.CompanyName != "" && !strings.EqualFold(a.CompanyName, strings.TrimSpace(opts.CompanyName)) {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *analysisRepository) FindAll(ctx context.Context, opts contract.ListOptions) ([]*entity.AnalysisRecord, error) {
	out := r.filtered(opts)
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		return out, nil
	}
	if opts.Offset >= len(out) {
		return []*entity.AnalysisRecord{}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[opts.Offset:end], nil
}

func (r *analysisRepository) Count(ctx context.Context, opts contract.ListOptions) (int64, error) {
	return int64(len(r.filtered(opts))), nil
}

type artifactRepository struct {
	uow *UnitOfWork
}

func (r *artifactRepository) Create(ctx context.Context, artifact *entity.Artifact) error {
	c := *artifact
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
		artifact.Id = c.Id
	}
	if r.uow.staged != nil {
		r.uow.staged.artifacts = append(r.uow.staged.artifacts, &c)
		return nil
	}
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[c.AnalysisId] = &c
	return nil
}

func (r *artifactRepository) FindByAnalysisID(ctx context.Context, analysisId uuid.UUID) (*entity.Artifact, error) {
	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.artifacts[analysisId]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}
