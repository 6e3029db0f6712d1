package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LibraryPosition is a versionless reusable template. The estimate copies
// a snapshot of it at position-add time; the library itself is read-only
// from this service's point of view.
type LibraryPosition struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string          `json:"name" gorm:"size:300;not null"`
	Unit              string          `json:"unit" gorm:"size:16;not null"`
	DefaultLaborPrice decimal.Decimal `json:"default_labor_price" gorm:"type:decimal(18,2);not null"`
	CategoryID        *uuid.UUID      `json:"category_id" gorm:"type:uuid"`
	CreatedAt         time.Time       `json:"created_at"`

	Materials []LibraryMaterialComponent `json:"materials,omitempty" gorm:"foreignKey:LibraryPositionID"`
	Labor     []LibraryLaborComponent    `json:"labor,omitempty" gorm:"foreignKey:LibraryPositionID"`
}

func (LibraryPosition) TableName() string {
	return "library_positions"
}

type LibraryMaterialComponent struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	LibraryPositionID uuid.UUID       `json:"library_position_id" gorm:"type:uuid;not null;index"`
	Lp                int             `json:"lp" gorm:"not null;default:0"`
	Name              string          `json:"name" gorm:"size:300;not null"`
	Unit              string          `json:"unit" gorm:"size:16;not null"`
	Norma             decimal.Decimal `json:"norma" gorm:"type:decimal(18,4);not null"`
	DefaultPrice      decimal.Decimal `json:"default_price" gorm:"type:decimal(18,2);not null"`
	ProductID         *uuid.UUID      `json:"product_id" gorm:"type:uuid"`
}

func (LibraryMaterialComponent) TableName() string {
	return "library_material_components"
}

type LibraryLaborComponent struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	LibraryPositionID uuid.UUID       `json:"library_position_id" gorm:"type:uuid;not null;index"`
	Lp                int             `json:"lp" gorm:"not null;default:0"`
	Description       string          `json:"description" gorm:"size:300;not null"`
	LaborTypeID       *uuid.UUID      `json:"labor_type_id" gorm:"type:uuid"`
	DefaultRate       decimal.Decimal `json:"default_rate" gorm:"type:decimal(18,2);not null"`
	Norma             decimal.Decimal `json:"norma" gorm:"type:decimal(18,4);not null"`
}

func (LibraryLaborComponent) TableName() string {
	return "library_labor_components"
}
