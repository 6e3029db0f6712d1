package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryRecord is one (possibly partial) delivery against a purchase
// order. Once created it is never retracted.
type DeliveryRecord struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	Note        string    `json:"note" gorm:"size:500"`
	DeliveredAt time.Time `json:"delivered_at" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`

	Lines []DeliveryLine `json:"lines,omitempty" gorm:"foreignKey:DeliveryID"`
}

func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

type DeliveryLine struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	DeliveryID  uuid.UUID       `json:"delivery_id" gorm:"type:uuid;not null;index"`
	OrderLineID uuid.UUID       `json:"order_line_id" gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
}

func (DeliveryLine) TableName() string {
	return "delivery_lines"
}

// ExecutionRecord is one progress report against an agreement line. The
// line's cumulative executed quantity is overwritten, not accumulated.
type ExecutionRecord struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	AgreementLineID   uuid.UUID       `json:"agreement_line_id" gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	CompletionPercent decimal.Decimal `json:"completion_percent" gorm:"type:decimal(8,2);not null"`
	Note              string          `json:"note" gorm:"size:500"`
	ReportedAt        time.Time       `json:"reported_at" gorm:"not null"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (ExecutionRecord) TableName() string {
	return "execution_records"
}

type RealizationKind string

const (
	RealizationKindMaterial RealizationKind = "material"
	RealizationKindLabor    RealizationKind = "labor"
	RealizationKindOther    RealizationKind = "other"
)

// RealizationEntry is an actual invoiced cost. It is an independent ledger
// linked by reference to at most one of {purchase order, agreement}, never
// both.
type RealizationEntry struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID       `json:"project_id" gorm:"type:uuid;not null;index"`
	Kind        RealizationKind `json:"kind" gorm:"size:16;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	OrderID     *uuid.UUID      `json:"order_id" gorm:"type:uuid;index"`
	AgreementID *uuid.UUID      `json:"agreement_id" gorm:"type:uuid;index"`
	Paid        bool            `json:"paid" gorm:"not null;default:false"`
	Description string          `json:"description" gorm:"size:500"`
	OccurredAt  time.Time       `json:"occurred_at" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (RealizationEntry) TableName() string {
	return "realization_entries"
}
