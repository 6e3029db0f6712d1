package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// DocumentRepository persists generated agreements and purchase orders
// together with their lines and source links.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) WithTx(tx *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) CreateAgreement(ctx context.Context, agreement *model.Agreement, links []model.SourceLink) error {
	if err := r.db.WithContext(ctx).Create(agreement).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *DocumentRepository) CreatePurchaseOrder(ctx context.Context, order *model.PurchaseOrder, links []model.SourceLink) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *DocumentRepository) CountAgreementsByRevision(ctx context.Context, revisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Agreement{}).
		Where("revision_id = ?", revisionID).
		Count(&count).Error
	return count, err
}

func (r *DocumentRepository) CountOrdersByRevision(ctx context.Context, revisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PurchaseOrder{}).
		Where("revision_id = ?", revisionID).
		Count(&count).Error
	return count, err
}

func (r *DocumentRepository) GetAgreement(ctx context.Context, id uuid.UUID) (*model.Agreement, error) {
	var agreement model.Agreement
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Lines.Sources").
		Where("id = ?", id).
		First(&agreement).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *DocumentRepository) GetOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Lines.Sources").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *DocumentRepository) ListAgreementsByProject(ctx context.Context, projectID uuid.UUID) ([]model.Agreement, error) {
	var agreements []model.Agreement
	err := r.db.WithContext(ctx).
		Preload("Subcontractor").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&agreements).Error
	return agreements, err
}

func (r *DocumentRepository) ListOrdersByProject(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *DocumentRepository) SetAgreementStatus(ctx context.Context, id uuid.UUID, status model.AgreementStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Agreement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) SetOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepository) GetAgreementLine(ctx context.Context, id uuid.UUID) (*model.AgreementLine, error) {
	var line model.AgreementLine
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}
