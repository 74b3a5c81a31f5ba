package products

import (
	"context"
	"fmt"
)

// Service coordinates catalog reads and writes with the read-through cache.
type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Get resolves a product, preferring the cache.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if p := s.cache.Get(ctx, id); p != nil {
		return p, nil
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	id, err := s.repo.Create(ctx, Product{
		SKU:        req.SKU,
		Name:       req.Name,
		HSNCode:    req.HSNCode,
		GSTPercent: req.GSTPercent,
		UnitRate:   req.UnitRate,
		UOM:        req.UOM,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.HSNCode != nil {
		updates["hsn_code"] = *req.HSNCode
	}
	if req.GSTPercent != nil {
		updates["gst_percent"] = *req.GSTPercent
	}
	if req.UnitRate != nil {
		updates["unit_rate"] = *req.UnitRate
	}
	if req.UOM != nil {
		updates["uom"] = *req.UOM
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.cache.Invalidate(ctx, id)
	return s.repo.Get(ctx, id)
}
