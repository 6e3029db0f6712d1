// Package generator turns a revision's components into per-counterparty
// document drafts. The same grouping runs for subcontractor agreements
// (labor components) and supplier purchase orders (material components);
// only the extractors differ.
package generator

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// SourceRef traces a draft line back to the originating position and
// component with the quantity that pair contributed.
type SourceRef struct {
	PositionID  uuid.UUID
	ComponentID uuid.UUID
	Quantity    decimal.Decimal
}

// DraftLine is one line of a draft document. Components are never merged:
// each component of the group becomes its own line with a single source.
type DraftLine struct {
	Name     string
	Unit     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Sources  []SourceRef
}

// Draft is one document to be created for one counterparty.
type Draft struct {
	CounterpartyID uuid.UUID
	Lines          []DraftLine
}

// Item is a component eligible for generation, as seen by the grouper.
type Item struct {
	CounterpartyID uuid.UUID
	PositionID     uuid.UUID
	ComponentID    uuid.UUID
	Name           string
	Unit           string
	Quantity       decimal.Decimal
	Price          decimal.Decimal
}

// Group buckets items per counterparty, preserving the input order of
// lines within a group. Drafts come out ordered by counterparty id so
// repeated runs over the same revision are deterministic.
func Group(items []Item) []Draft {
	byCounterparty := make(map[uuid.UUID]*Draft)
	for _, item := range items {
		draft, ok := byCounterparty[item.CounterpartyID]
		if !ok {
			draft = &Draft{CounterpartyID: item.CounterpartyID}
			byCounterparty[item.CounterpartyID] = draft
		}
		draft.Lines = append(draft.Lines, DraftLine{
			Name:     item.Name,
			Unit:     item.Unit,
			Quantity: item.Quantity,
			Price:    item.Price,
			Sources: []SourceRef{{
				PositionID:  item.PositionID,
				ComponentID: item.ComponentID,
				Quantity:    item.Quantity,
			}},
		})
	}

	drafts := make([]Draft, 0, len(byCounterparty))
	for _, draft := range byCounterparty {
		drafts = append(drafts, *draft)
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CounterpartyID.String() < drafts[j].CounterpartyID.String()
	})
	return drafts
}

// LaborItems flattens a revision's labor components into groupable items.
// Components without a subcontractor have no counterparty to contract with
// and are skipped. Line quantity = component norma x position quantity.
func LaborItems(positions []model.CostPosition) []Item {
	var items []Item
	for i := range positions {
		p := &positions[i]
		for j := range p.Labor {
			l := &p.Labor[j]
			if l.SubcontractorID == nil {
				continue
			}
			name := p.Name
			if l.Description != "" {
				name = l.Description
			}
			items = append(items, Item{
				CounterpartyID: *l.SubcontractorID,
				PositionID:     p.ID,
				ComponentID:    l.ID,
				Name:           name,
				Unit:           p.Unit,
				Quantity:       l.Norma.Mul(p.Quantity),
				Price:          l.Rate,
			})
		}
	}
	return items
}

// MaterialItems flattens a revision's material components. Manual
// components without a supplier represent costs with no fulfillment
// counterparty and are excluded.
func MaterialItems(positions []model.CostPosition) []Item {
	var items []Item
	for i := range positions {
		p := &positions[i]
		for j := range p.Materials {
			m := &p.Materials[j]
			if m.SupplierID == nil {
				continue
			}
			quantity := m.Norma.Mul(p.Quantity)
			if m.IsManual {
				// Manual norma is a flat quantity, not a per-unit rate.
				quantity = m.Norma
			}
			items = append(items, Item{
				CounterpartyID: *m.SupplierID,
				PositionID:     p.ID,
				ComponentID:    m.ID,
				Name:           m.Name,
				Unit:           m.Unit,
				Quantity:       quantity,
				Price:          m.Price,
			})
		}
	}
	return items
}
