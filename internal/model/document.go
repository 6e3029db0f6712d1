package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AgreementStatus string

const (
	AgreementStatusDraft    AgreementStatus = "draft"
	AgreementStatusSent     AgreementStatus = "sent"
	AgreementStatusSigned   AgreementStatus = "signed"
	AgreementStatusExecuted AgreementStatus = "executed"
	AgreementStatusSettled  AgreementStatus = "settled"
)

type OrderStatus string

const (
	OrderStatusDraft              OrderStatus = "draft"
	OrderStatusSent               OrderStatus = "sent"
	OrderStatusPartiallyDelivered OrderStatus = "partially_delivered"
	OrderStatusDelivered          OrderStatus = "delivered"
	OrderStatusSettled            OrderStatus = "settled"
)

// Agreement (umowa) is a subcontractor work order generated from the labor
// components of an accepted revision.
type Agreement struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID       uuid.UUID       `json:"project_id" gorm:"type:uuid;not null;index"`
	RevisionID      uuid.UUID       `json:"revision_id" gorm:"type:uuid;not null;index"`
	SubcontractorID uuid.UUID       `json:"subcontractor_id" gorm:"type:uuid;not null;index"`
	Status          AgreementStatus `json:"status" gorm:"size:20;not null;default:draft"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Subcontractor *Subcontractor  `json:"subcontractor,omitempty" gorm:"foreignKey:SubcontractorID"`
	Lines         []AgreementLine `json:"lines,omitempty" gorm:"foreignKey:AgreementID"`
}

func (Agreement) TableName() string {
	return "agreements"
}

// AgreementLine carries the ordered quantity and rate for one labor scope.
// ExecutedQuantity and CompletionPercent are overwritten by each execution
// report; CompletionPercent is not capped at 100.
type AgreementLine struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	AgreementID       uuid.UUID       `json:"agreement_id" gorm:"type:uuid;not null;index"`
	Lp                int             `json:"lp" gorm:"not null;default:0"`
	Name              string          `json:"name" gorm:"size:300;not null"`
	Quantity          decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	Rate              decimal.Decimal `json:"rate" gorm:"type:decimal(18,2);not null"`
	ExecutedQuantity  decimal.Decimal `json:"executed_quantity" gorm:"type:decimal(18,4);not null"`
	CompletionPercent decimal.Decimal `json:"completion_percent" gorm:"type:decimal(8,2);not null"`

	Sources []SourceLink `json:"sources,omitempty" gorm:"foreignKey:AgreementLineID"`
}

func (AgreementLine) TableName() string {
	return "agreement_lines"
}

// PurchaseOrder (zamowienie) is a supplier order generated from the
// material components of an accepted revision.
type PurchaseOrder struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID   `json:"project_id" gorm:"type:uuid;not null;index"`
	RevisionID uuid.UUID   `json:"revision_id" gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID   `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Status     OrderStatus `json:"status" gorm:"size:20;not null;default:draft"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	Supplier *Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Lines    []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// OrderLine accumulates DeliveredQuantity across deliveries; the order
// status is advanced by the caller, not derived from quantities.
type OrderLine struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	Lp                int             `json:"lp" gorm:"not null;default:0"`
	Name              string          `json:"name" gorm:"size:300;not null"`
	Unit              string          `json:"unit" gorm:"size:16;not null"`
	Quantity          decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity" gorm:"type:decimal(18,4);not null"`

	Sources []SourceLink `json:"sources,omitempty" gorm:"foreignKey:OrderLineID"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// SourceLink traces a generated line item back to the originating
// (position, component) pair and the quantity that pair contributed.
// Exactly one of AgreementLineID / OrderLineID is set.
type SourceLink struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	AgreementLineID *uuid.UUID      `json:"agreement_line_id" gorm:"type:uuid;index"`
	OrderLineID     *uuid.UUID      `json:"order_line_id" gorm:"type:uuid;index"`
	PositionID      uuid.UUID       `json:"position_id" gorm:"type:uuid;not null"`
	ComponentID     uuid.UUID       `json:"component_id" gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
}

func (SourceLink) TableName() string {
	return "source_links"
}
