package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// CatalogRepository reads the library catalog, price registries, and
// counterparty master data. All of it is read-only from this service.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

func (r *CatalogRepository) GetLibraryPosition(ctx context.Context, id uuid.UUID) (*model.LibraryPosition, error) {
	var position model.LibraryPosition
	err := r.db.WithContext(ctx).
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Labor", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Where("id = ?", id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *CatalogRepository) ListLibraryPositions(ctx context.Context) ([]model.LibraryPosition, error) {
	var positions []model.LibraryPosition
	err := r.db.WithContext(ctx).Order("name ASC").Find(&positions).Error
	return positions, err
}

// ActiveSupplierPrices returns all active quotes for a product, whatever
// is committed at read time.
func (r *CatalogRepository) ActiveSupplierPrices(ctx context.Context, productID uuid.UUID) ([]model.SupplierPrice, error) {
	var prices []model.SupplierPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Find(&prices).Error
	return prices, err
}

func (r *CatalogRepository) ActiveSubcontractorRates(ctx context.Context, libraryPositionID uuid.UUID) ([]model.SubcontractorRate, error) {
	var rates []model.SubcontractorRate
	err := r.db.WithContext(ctx).
		Where("library_position_id = ? AND is_active = ?", libraryPositionID, true).
		Find(&rates).Error
	return rates, err
}

func (r *CatalogRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *CatalogRepository) ListSubcontractors(ctx context.Context) ([]model.Subcontractor, error) {
	var subcontractors []model.Subcontractor
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subcontractors).Error
	return subcontractors, err
}
