package opportunities

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Opportunity, error) {
	return s.repo.Get(ctx, id)
}

// GetByCode resolves an opportunity by its human-visible code. Used by
// document derivation to enrich delivery challans with the owner name.
func (s *Service) GetByCode(ctx context.Context, code string) (*Opportunity, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, req CreateOpportunityRequest) (*Opportunity, error) {
	id, err := s.repo.Create(ctx, Opportunity{
		Code:         req.Code,
		Name:         req.Name,
		Owner:        req.Owner,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Opportunity, int, error) {
	return s.repo.List(ctx, limit, offset)
}
