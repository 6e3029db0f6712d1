package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier and Subcontractor are master data consumed as lookups; the
// estimate core never mutates them.

type Supplier struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name" gorm:"size:200;not null"`
	NIP     string    `json:"nip" gorm:"size:16"`
	Email   string    `json:"email" gorm:"size:200"`
	Phone   string    `json:"phone" gorm:"size:32"`
	Address string    `json:"address" gorm:"size:300"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

type Subcontractor struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name" gorm:"size:200;not null"`
	NIP     string    `json:"nip" gorm:"size:16"`
	Email   string    `json:"email" gorm:"size:200"`
	Phone   string    `json:"phone" gorm:"size:32"`
	Address string    `json:"address" gorm:"size:300"`
}

func (Subcontractor) TableName() string {
	return "subcontractors"
}

// SupplierPrice is one supplier's quote for a product. Prices are toggled
// active/inactive, never deleted.
type SupplierPrice struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SupplierID uuid.UUID       `json:"supplier_id" gorm:"type:uuid;not null;index:idx_supplier_price_product,priority:2"`
	ProductID  uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index:idx_supplier_price_product,priority:1"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	IsActive   bool            `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (SupplierPrice) TableName() string {
	return "supplier_prices"
}

// SubcontractorRate is one subcontractor's flat labor rate for a library
// position.
type SubcontractorRate struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SubcontractorID   uuid.UUID       `json:"subcontractor_id" gorm:"type:uuid;not null;index:idx_sub_rate_position,priority:2"`
	LibraryPositionID uuid.UUID       `json:"library_position_id" gorm:"type:uuid;not null;index:idx_sub_rate_position,priority:1"`
	Rate              decimal.Decimal `json:"rate" gorm:"type:decimal(18,2);not null"`
	IsActive          bool            `json:"is_active" gorm:"not null;default:true"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (SubcontractorRate) TableName() string {
	return "subcontractor_rates"
}

// LaborType is simple reference data (murarz, elektryk, ...).
type LaborType struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name" gorm:"size:100;not null"`
}

func (LaborType) TableName() string {
	return "labor_types"
}
