package service

import (
	"context"
	"fmt"

	"laundromat/internal/domain"
	"laundromat/internal/repo"
)

type ServiceInput struct {
	Name               string
	PricePerKg         float64
	Description        string
	EstimatedTimeHours int
}

type CatalogService interface {
	Create(ctx context.Context, in ServiceInput) (*domain.Service, error)
	Get(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	Update(ctx context.Context, id int64, in ServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	services repo.ServiceRepo
}

func NewCatalogService(services repo.ServiceRepo) CatalogService {
	return &catalogService{services: services}
}

func (s *catalogService) Create(ctx context.Context, in ServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		Name:               in.Name,
		PricePerKg:         in.PricePerKg,
		Description:        in.Description,
		EstimatedTimeHours: in.EstimatedTimeHours,
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return svc, nil
}

func (s *catalogService) List(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx)
}

// Update edits the catalog entry. Placed orders are unaffected: they
// carry their own snapshotted price and pickup promise.
func (s *catalogService) Update(ctx context.Context, id int64, in ServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		ID:                 id,
		Name:               in.Name,
		PricePerKg:         in.PricePerKg,
		Description:        in.Description,
		EstimatedTimeHours: in.EstimatedTimeHours,
	}
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.services.Update(ctx, svc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	ok, err := s.services.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
