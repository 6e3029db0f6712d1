package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// PositionCost is the computed cost view of a position. It is derived on
// read and never stored.
//
// UnitMaterial covers non-manual components only (price x norma per unit
// of position quantity). Manual components contribute ManualMaterial as a
// flat amount that is not scaled by the position quantity:
//
//	ExtendedMaterial = UnitMaterial x Quantity + ManualMaterial
type PositionCost struct {
	PositionID       uuid.UUID       `json:"position_id"`
	UnitMaterial     decimal.Decimal `json:"unit_material_cost"`
	ManualMaterial   decimal.Decimal `json:"manual_material_cost"`
	UnitLabor        decimal.Decimal `json:"unit_labor_cost"`
	ExtendedMaterial decimal.Decimal `json:"extended_material"`
	ExtendedLabor    decimal.Decimal `json:"extended_labor"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	MarkupValue      decimal.Decimal `json:"markup_value"`
	Total            decimal.Decimal `json:"total"`
}

// RevisionSummary aggregates the computed views of all positions of a
// revision.
type RevisionSummary struct {
	RevisionID    uuid.UUID       `json:"revision_id"`
	PositionCount int             `json:"position_count"`
	MaterialTotal decimal.Decimal `json:"material_total"`
	LaborTotal    decimal.Decimal `json:"labor_total"`
	Total         decimal.Decimal `json:"total"`
}

// ComputeCost derives the cost view for a position with its components
// loaded.
//
// The flat labor price is authoritative for unit labor cost. When it is
// zero and labor components exist, the sum of rate x norma over the
// components is used instead; this covers positions whose library carried
// no default labor price.
func ComputeCost(p *CostPosition) PositionCost {
	unitMaterial := decimal.Zero
	manualMaterial := decimal.Zero
	for i := range p.Materials {
		m := &p.Materials[i]
		contribution := m.Price.Mul(m.Norma)
		if m.IsManual {
			manualMaterial = manualMaterial.Add(contribution)
		} else {
			unitMaterial = unitMaterial.Add(contribution)
		}
	}

	unitLabor := p.LaborPrice
	if unitLabor.IsZero() && len(p.Labor) > 0 {
		for i := range p.Labor {
			l := &p.Labor[i]
			unitLabor = unitLabor.Add(l.Rate.Mul(l.Norma))
		}
	}

	extendedMaterial := unitMaterial.Mul(p.Quantity).Add(manualMaterial)
	extendedLabor := unitLabor.Mul(p.Quantity)
	subtotal := extendedMaterial.Add(extendedLabor)
	markupValue := subtotal.Mul(p.MarkupPercent).Div(decimalHundred)
	total := subtotal.Add(markupValue)

	return PositionCost{
		PositionID:       p.ID,
		UnitMaterial:     unitMaterial,
		ManualMaterial:   manualMaterial,
		UnitLabor:        unitLabor,
		ExtendedMaterial: extendedMaterial,
		ExtendedLabor:    extendedLabor,
		Subtotal:         subtotal,
		MarkupValue:      markupValue,
		Total:            total,
	}
}

// SummarizeRevision aggregates positions that already have their
// components loaded.
func SummarizeRevision(revisionID uuid.UUID, positions []CostPosition) RevisionSummary {
	summary := RevisionSummary{
		RevisionID:    revisionID,
		PositionCount: len(positions),
		MaterialTotal: decimal.Zero,
		LaborTotal:    decimal.Zero,
		Total:         decimal.Zero,
	}
	for i := range positions {
		cost := ComputeCost(&positions[i])
		summary.MaterialTotal = summary.MaterialTotal.Add(cost.ExtendedMaterial)
		summary.LaborTotal = summary.LaborTotal.Add(cost.ExtendedLabor)
		summary.Total = summary.Total.Add(cost.Total)
	}
	return summary
}
