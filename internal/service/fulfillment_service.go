package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

var percentFactor = decimal.NewFromInt(100)

// FulfillmentService records deliveries against purchase orders and
// execution reports against agreement lines. Records are append-only;
// nothing retracts them.
type FulfillmentService struct {
	db          *gorm.DB
	documents   *repository.DocumentRepository
	fulfillment *repository.FulfillmentRepository
}

func NewFulfillmentService(
	db *gorm.DB,
	documents *repository.DocumentRepository,
	fulfillment *repository.FulfillmentRepository,
) *FulfillmentService {
	return &FulfillmentService{
		db:          db,
		documents:   documents,
		fulfillment: fulfillment,
	}
}

type DeliveryLineInput struct {
	OrderLineID uuid.UUID
	Quantity    decimal.Decimal
}

type RecordDeliveryInput struct {
	OrderID     uuid.UUID
	DeliveredAt time.Time
	Note        string
	Lines       []DeliveryLineInput
}

// RecordDelivery appends a delivery and increments each line's cumulative
// delivered quantity. The order's own status is advanced separately by
// the caller; quantity tracking and status are independent.
func (s *FulfillmentService) RecordDelivery(ctx context.Context, input RecordDeliveryInput) (*model.DeliveryRecord, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: delivery requires at least one line", ErrInvalidInput)
	}
	if input.DeliveredAt.IsZero() {
		input.DeliveredAt = time.Now()
	}

	order, err := s.documents.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	known := make(map[uuid.UUID]struct{}, len(order.Lines))
	for _, line := range order.Lines {
		known[line.ID] = struct{}{}
	}

	delivery := &model.DeliveryRecord{
		ID:          uuid.New(),
		OrderID:     input.OrderID,
		Note:        input.Note,
		DeliveredAt: input.DeliveredAt,
	}
	for _, line := range input.Lines {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: delivered quantity must be positive", ErrInvalidInput)
		}
		if _, ok := known[line.OrderLineID]; !ok {
			return nil, fmt.Errorf("%w: order line does not belong to order", ErrInvalidInput)
		}
		delivery.Lines = append(delivery.Lines, model.DeliveryLine{
			ID:          uuid.New(),
			DeliveryID:  delivery.ID,
			OrderLineID: line.OrderLineID,
			Quantity:    line.Quantity,
		})
	}

	if err := s.fulfillment.CreateDelivery(ctx, delivery); err != nil {
		return nil, mapRepoErr(err)
	}
	return delivery, nil
}

type RecordExecutionInput struct {
	AgreementLineID uuid.UUID
	Quantity        decimal.Decimal
	Note            string
	ReportedAt      time.Time
}

// RecordExecution appends an execution report and overwrites the line's
// cumulative executed quantity. Completion percentage is executed/ordered
// x 100 and is deliberately not capped; over-execution is recorded as-is.
func (s *FulfillmentService) RecordExecution(ctx context.Context, input RecordExecutionInput) (*model.ExecutionRecord, error) {
	if input.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: executed quantity must not be negative", ErrInvalidInput)
	}
	if input.ReportedAt.IsZero() {
		input.ReportedAt = time.Now()
	}

	line, err := s.documents.GetAgreementLine(ctx, input.AgreementLineID)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	percent := decimal.Zero
	if line.Quantity.IsPositive() {
		percent = input.Quantity.Div(line.Quantity).Mul(percentFactor)
	}

	record := &model.ExecutionRecord{
		ID:                uuid.New(),
		AgreementLineID:   input.AgreementLineID,
		Quantity:          input.Quantity,
		CompletionPercent: percent,
		Note:              input.Note,
		ReportedAt:        input.ReportedAt,
	}
	if err := s.fulfillment.CreateExecution(ctx, record); err != nil {
		return nil, mapRepoErr(err)
	}
	return record, nil
}

// AdvanceAgreementStatus applies one forward transition from the allowed
// table.
func (s *FulfillmentService) AdvanceAgreementStatus(ctx context.Context, id uuid.UUID, status model.AgreementStatus) (*model.Agreement, error) {
	agreement, err := s.documents.GetAgreement(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if !model.AgreementTransitions.Allowed(string(agreement.Status), string(status)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, agreement.Status, status)
	}
	if err := s.documents.SetAgreementStatus(ctx, id, status); err != nil {
		return nil, mapRepoErr(err)
	}
	agreement.Status = status
	return agreement, nil
}

func (s *FulfillmentService) AdvanceOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.PurchaseOrder, error) {
	order, err := s.documents.GetOrder(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if !model.OrderTransitions.Allowed(string(order.Status), string(status)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}
	if err := s.documents.SetOrderStatus(ctx, id, status); err != nil {
		return nil, mapRepoErr(err)
	}
	order.Status = status
	return order, nil
}

func (s *FulfillmentService) ListDeliveries(ctx context.Context, orderID uuid.UUID) ([]model.DeliveryRecord, error) {
	return s.fulfillment.ListDeliveriesByOrder(ctx, orderID)
}

func (s *FulfillmentService) ListExecutions(ctx context.Context, agreementLineID uuid.UUID) ([]model.ExecutionRecord, error) {
	return s.fulfillment.ListExecutionsByLine(ctx, agreementLineID)
}
