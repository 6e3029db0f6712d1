package service

import (
	"context"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

// CatalogService exposes the read-only lookups the estimate UI needs:
// library templates and counterparty master data.
type CatalogService struct {
	catalog *repository.CatalogRepository
}

func NewCatalogService(catalog *repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListLibraryPositions(ctx context.Context) ([]model.LibraryPosition, error) {
	return s.catalog.ListLibraryPositions(ctx)
}

func (s *CatalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.catalog.ListSuppliers(ctx)
}

func (s *CatalogService) ListSubcontractors(ctx context.Context) ([]model.Subcontractor, error) {
	return s.catalog.ListSubcontractors(ctx)
}
