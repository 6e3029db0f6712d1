package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSourceKind records where a resolved price came from.
type PriceSourceKind string

const (
	PriceSourceLibrary       PriceSourceKind = "library"
	PriceSourceSubcontractor PriceSourceKind = "subcontractor"
	PriceSourceSupplier      PriceSourceKind = "supplier"
	PriceSourceManual        PriceSourceKind = "manual"
)

// CostPosition is one priced line item (pozycja) of a revision.
//
// LaborPrice is the flat per-unit labor price (cena robocizny). Its
// provenance triple (LaborPriceSource, LaborSourceKind,
// LaborSubcontractorID) records the value resolved at add/reset time; an
// override exists iff LaborPrice != LaborPriceSource.
type CostPosition struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	RevisionID        uuid.UUID       `json:"revision_id" gorm:"type:uuid;not null;index"`
	LibraryPositionID *uuid.UUID      `json:"library_position_id" gorm:"type:uuid"`
	Lp                int             `json:"lp" gorm:"not null;default:0"`
	Name              string          `json:"name" gorm:"size:300;not null"`
	Unit              string          `json:"unit" gorm:"size:16;not null"`
	Quantity          decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	MarkupPercent     decimal.Decimal `json:"markup_percent" gorm:"type:decimal(7,2);not null"`

	LaborPrice           decimal.Decimal `json:"labor_price" gorm:"type:decimal(18,2);not null"`
	LaborPriceSource     decimal.Decimal `json:"labor_price_source" gorm:"type:decimal(18,2);not null"`
	LaborSourceKind      PriceSourceKind `json:"labor_source_kind" gorm:"size:16;not null;default:manual"`
	LaborSubcontractorID *uuid.UUID      `json:"labor_subcontractor_id" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Materials []MaterialComponent `json:"materials,omitempty" gorm:"foreignKey:PositionID"`
	Labor     []LaborComponent    `json:"labor,omitempty" gorm:"foreignKey:PositionID"`
}

func (CostPosition) TableName() string {
	return "cost_positions"
}

// HasLaborOverride reports whether the flat labor price diverges from its
// recorded source value.
func (p *CostPosition) HasLaborOverride() bool {
	return !p.LaborPrice.Equal(p.LaborPriceSource)
}

// MaterialComponent is a material sub-line of a position.
//
// Norma is the consumption rate per unit of position quantity. Manual
// components (IsManual) are not tied to a product/supplier; their Norma is
// a flat quantity and their contribution is not scaled by the position
// quantity.
type MaterialComponent struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	PositionID uuid.UUID       `json:"position_id" gorm:"type:uuid;not null;index"`
	Lp         int             `json:"lp" gorm:"not null;default:0"`
	Name       string          `json:"name" gorm:"size:300;not null"`
	Unit       string          `json:"unit" gorm:"size:16;not null"`
	Norma      decimal.Decimal `json:"norma" gorm:"type:decimal(18,4);not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`

	SourcePrice decimal.Decimal `json:"source_price" gorm:"type:decimal(18,2);not null"`
	SourceKind  PriceSourceKind `json:"source_kind" gorm:"size:16;not null;default:manual"`

	ProductID  *uuid.UUID `json:"product_id" gorm:"type:uuid"`
	SupplierID *uuid.UUID `json:"supplier_id" gorm:"type:uuid"`
	IsManual   bool       `json:"is_manual" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MaterialComponent) TableName() string {
	return "material_components"
}

func (m *MaterialComponent) HasPriceOverride() bool {
	return !m.Price.Equal(m.SourcePrice)
}

// LaborComponent is a labor sub-line of a position.
type LaborComponent struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	PositionID      uuid.UUID       `json:"position_id" gorm:"type:uuid;not null;index"`
	Lp              int             `json:"lp" gorm:"not null;default:0"`
	Description     string          `json:"description" gorm:"size:300;not null"`
	LaborTypeID     *uuid.UUID      `json:"labor_type_id" gorm:"type:uuid"`
	SubcontractorID *uuid.UUID      `json:"subcontractor_id" gorm:"type:uuid"`
	Rate            decimal.Decimal `json:"rate" gorm:"type:decimal(18,2);not null"`
	Norma           decimal.Decimal `json:"norma" gorm:"type:decimal(18,4);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LaborComponent) TableName() string {
	return "labor_components"
}
