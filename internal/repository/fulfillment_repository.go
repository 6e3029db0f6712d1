package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

type FulfillmentRepository struct {
	db *gorm.DB
}

func NewFulfillmentRepository(db *gorm.DB) *FulfillmentRepository {
	return &FulfillmentRepository{db: db}
}

func (r *FulfillmentRepository) WithTx(tx *gorm.DB) *FulfillmentRepository {
	return &FulfillmentRepository{db: tx}
}

// CreateDelivery inserts the delivery record with its lines and increments
// each order line's cumulative delivered quantity. Everything happens in
// one transaction so a failed line leaves no partial delivery behind.
func (r *FulfillmentRepository) CreateDelivery(ctx context.Context, delivery *model.DeliveryRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}
		for i := range delivery.Lines {
			line := &delivery.Lines[i]
			result := tx.Model(&model.OrderLine{}).
				Where("id = ?", line.OrderLineID).
				Update("delivered_quantity", gorm.Expr("delivered_quantity + ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// CreateExecution inserts the execution record and overwrites the
// agreement line's cumulative executed quantity and completion percentage.
func (r *FulfillmentRepository) CreateExecution(ctx context.Context, record *model.ExecutionRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		result := tx.Model(&model.AgreementLine{}).
			Where("id = ?", record.AgreementLineID).
			Updates(map[string]interface{}{
				"executed_quantity":  record.Quantity,
				"completion_percent": record.CompletionPercent,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *FulfillmentRepository) ListDeliveriesByOrder(ctx context.Context, orderID uuid.UUID) ([]model.DeliveryRecord, error) {
	var deliveries []model.DeliveryRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_id = ?", orderID).
		Order("delivered_at ASC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *FulfillmentRepository) ListExecutionsByLine(ctx context.Context, agreementLineID uuid.UUID) ([]model.ExecutionRecord, error) {
	var records []model.ExecutionRecord
	err := r.db.WithContext(ctx).
		Where("agreement_line_id = ?", agreementLineID).
		Order("reported_at ASC").
		Find(&records).Error
	return records, err
}

// DeliveredTotal sums all delivery-line quantities recorded for an order
// line; used to cross-check the cumulative column in reports.
func (r *FulfillmentRepository) DeliveredTotal(ctx context.Context, orderLineID uuid.UUID) (decimal.Decimal, error) {
	var raw struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&model.DeliveryLine{}).
		Where("order_line_id = ?", orderLineID).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	return raw.Total, nil
}
