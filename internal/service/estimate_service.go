package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/pricing"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

// EstimateService owns the cost position store: positions, components,
// overrides, resets, and the computed cost views.
type EstimateService struct {
	db        *gorm.DB
	projects  *repository.ProjectRepository
	revisions *repository.RevisionRepository
	positions *repository.PositionRepository
	catalog   *repository.CatalogRepository
	log       zerolog.Logger
}

func NewEstimateService(
	db *gorm.DB,
	projects *repository.ProjectRepository,
	revisions *repository.RevisionRepository,
	positions *repository.PositionRepository,
	catalog *repository.CatalogRepository,
	log zerolog.Logger,
) *EstimateService {
	return &EstimateService{
		db:        db,
		projects:  projects,
		revisions: revisions,
		positions: positions,
		catalog:   catalog,
		log:       log,
	}
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrLocked):
		return ErrLocked
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}

type AddPositionInput struct {
	RevisionID        uuid.UUID
	LibraryPositionID uuid.UUID
	Quantity          decimal.Decimal
	MarkupPercent     decimal.Decimal
}

// AddPosition copies a library position into the revision as a starting
// snapshot, resolving the cheapest active counterparty price for every
// priced part at copy time.
func (s *EstimateService) AddPosition(ctx context.Context, input AddPositionInput) (*model.CostPosition, error) {
	if input.Quantity.IsNegative() || input.MarkupPercent.IsNegative() {
		return nil, fmt.Errorf("%w: quantity and markup must not be negative", ErrInvalidInput)
	}

	var created *model.CostPosition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revisions := s.revisions.WithTx(tx)
		positions := s.positions.WithTx(tx)
		catalog := s.catalog.WithTx(tx)

		if err := revisions.GuardUnlocked(ctx, input.RevisionID); err != nil {
			return err
		}

		library, err := catalog.GetLibraryPosition(ctx, input.LibraryPositionID)
		if err != nil {
			return err
		}

		labor, err := s.resolveLabor(ctx, catalog, library)
		if err != nil {
			return err
		}

		lp, err := positions.NextLp(ctx, input.RevisionID)
		if err != nil {
			return err
		}

		libraryID := library.ID
		position := &model.CostPosition{
			ID:                   uuid.New(),
			RevisionID:           input.RevisionID,
			LibraryPositionID:    &libraryID,
			Lp:                   lp,
			Name:                 library.Name,
			Unit:                 library.Unit,
			Quantity:             input.Quantity,
			MarkupPercent:        input.MarkupPercent,
			LaborPrice:           labor.Price,
			LaborPriceSource:     labor.Price,
			LaborSourceKind:      labor.Kind,
			LaborSubcontractorID: labor.CounterpartyID,
		}
		if err := positions.Create(ctx, position); err != nil {
			return err
		}

		for _, tpl := range library.Materials {
			resolution, err := s.resolveMaterial(ctx, catalog, tpl.ProductID, tpl.DefaultPrice)
			if err != nil {
				return err
			}
			component := &model.MaterialComponent{
				ID:          uuid.New(),
				PositionID:  position.ID,
				Lp:          tpl.Lp,
				Name:        tpl.Name,
				Unit:        tpl.Unit,
				Norma:       tpl.Norma,
				Price:       resolution.Price,
				SourcePrice: resolution.Price,
				SourceKind:  resolution.Kind,
				ProductID:   tpl.ProductID,
				SupplierID:  resolution.CounterpartyID,
			}
			if err := positions.CreateMaterial(ctx, component); err != nil {
				return err
			}
			position.Materials = append(position.Materials, *component)
		}

		for _, tpl := range library.Labor {
			component := &model.LaborComponent{
				ID:          uuid.New(),
				PositionID:  position.ID,
				Lp:          tpl.Lp,
				Description: tpl.Description,
				LaborTypeID: tpl.LaborTypeID,
				Rate:        tpl.DefaultRate,
				Norma:       tpl.Norma,
			}
			if err := positions.CreateLabor(ctx, component); err != nil {
				return err
			}
			position.Labor = append(position.Labor, *component)
		}

		created = position
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return created, nil
}

func (s *EstimateService) resolveLabor(ctx context.Context, catalog *repository.CatalogRepository, library *model.LibraryPosition) (pricing.Resolution, error) {
	rates, err := catalog.ActiveSubcontractorRates(ctx, library.ID)
	if err != nil {
		return pricing.Resolution{}, err
	}
	quotes := make([]pricing.Quote, 0, len(rates))
	for _, rate := range rates {
		quotes = append(quotes, pricing.Quote{CounterpartyID: rate.SubcontractorID, Price: rate.Rate})
	}
	return pricing.ResolveLabor(quotes, library.DefaultLaborPrice, library.DefaultLaborPrice.IsPositive()), nil
}

func (s *EstimateService) resolveMaterial(ctx context.Context, catalog *repository.CatalogRepository, productID *uuid.UUID, libraryDefault decimal.Decimal) (pricing.Resolution, error) {
	if productID == nil {
		return pricing.Resolution{Price: libraryDefault, Kind: model.PriceSourceLibrary}, nil
	}
	prices, err := catalog.ActiveSupplierPrices(ctx, *productID)
	if err != nil {
		return pricing.Resolution{}, err
	}
	quotes := make([]pricing.Quote, 0, len(prices))
	for _, price := range prices {
		quotes = append(quotes, pricing.Quote{CounterpartyID: price.SupplierID, Price: price.Price})
	}
	return pricing.ResolveMaterial(quotes, libraryDefault), nil
}

type UpdatePositionInput struct {
	Name          *string
	Unit          *string
	Quantity      *decimal.Decimal
	MarkupPercent *decimal.Decimal
}

func (s *EstimateService) UpdatePosition(ctx context.Context, id uuid.UUID, input UpdatePositionInput) (*model.CostPosition, error) {
	var updated *model.CostPosition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		position, err := positions.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}

		if input.Name != nil {
			position.Name = *input.Name
		}
		if input.Unit != nil {
			position.Unit = *input.Unit
		}
		if input.Quantity != nil {
			if input.Quantity.IsNegative() {
				return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
			}
			position.Quantity = *input.Quantity
		}
		if input.MarkupPercent != nil {
			if input.MarkupPercent.IsNegative() {
				return fmt.Errorf("%w: markup must not be negative", ErrInvalidInput)
			}
			position.MarkupPercent = *input.MarkupPercent
		}

		if err := positions.Save(ctx, position); err != nil {
			return err
		}
		updated = position
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

func (s *EstimateService) RemovePosition(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		position, err := positions.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}
		return positions.Delete(ctx, id)
	})
	return mapRepoErr(err)
}

type AddMaterialInput struct {
	Name       string
	Unit       string
	Norma      decimal.Decimal
	Price      decimal.Decimal
	ProductID  *uuid.UUID
	SupplierID *uuid.UUID
	IsManual   bool
}

// AddMaterial attaches a material component. Components tied to a product
// get their price resolved from the active supplier quotes; explicit
// prices on product-less or manual components are recorded as manual.
func (s *EstimateService) AddMaterial(ctx context.Context, positionID uuid.UUID, input AddMaterialInput) (*model.MaterialComponent, error) {
	if input.Norma.IsNegative() || input.Price.IsNegative() {
		return nil, fmt.Errorf("%w: norma and price must not be negative", ErrInvalidInput)
	}

	var created *model.MaterialComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		position, err := positions.Get(ctx, positionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}

		component := &model.MaterialComponent{
			ID:          uuid.New(),
			PositionID:  positionID,
			Lp:          len(position.Materials) + 1,
			Name:        input.Name,
			Unit:        input.Unit,
			Norma:       input.Norma,
			Price:       input.Price,
			SourcePrice: input.Price,
			SourceKind:  model.PriceSourceManual,
			ProductID:   input.ProductID,
			SupplierID:  input.SupplierID,
			IsManual:    input.IsManual,
		}
		if !input.IsManual && input.ProductID != nil {
			resolution, err := s.resolveMaterial(ctx, s.catalog.WithTx(tx), input.ProductID, input.Price)
			if err != nil {
				return err
			}
			component.Price = resolution.Price
			component.SourcePrice = resolution.Price
			component.SourceKind = resolution.Kind
			if resolution.CounterpartyID != nil {
				component.SupplierID = resolution.CounterpartyID
			}
		}

		if err := positions.CreateMaterial(ctx, component); err != nil {
			return err
		}
		created = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return created, nil
}

type UpdateMaterialInput struct {
	Name  *string
	Unit  *string
	Norma *decimal.Decimal
}

func (s *EstimateService) UpdateMaterial(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*model.MaterialComponent, error) {
	var updated *model.MaterialComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetMaterial(ctx, id)
		if err != nil {
			return err
		}
		position, err := positions.Get(ctx, component.PositionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}

		if input.Name != nil {
			component.Name = *input.Name
		}
		if input.Unit != nil {
			component.Unit = *input.Unit
		}
		if input.Norma != nil {
			if input.Norma.IsNegative() {
				return fmt.Errorf("%w: norma must not be negative", ErrInvalidInput)
			}
			component.Norma = *input.Norma
		}

		if err := positions.SaveMaterial(ctx, component); err != nil {
			return err
		}
		updated = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

func (s *EstimateService) RemoveMaterial(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetMaterial(ctx, id)
		if err != nil {
			return err
		}
		position, err := positions.Get(ctx, component.PositionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}
		return positions.DeleteMaterial(ctx, id)
	})
	return mapRepoErr(err)
}

type AddLaborInput struct {
	Description     string
	LaborTypeID     *uuid.UUID
	SubcontractorID *uuid.UUID
	Rate            decimal.Decimal
	Norma           decimal.Decimal
}

func (s *EstimateService) AddLabor(ctx context.Context, positionID uuid.UUID, input AddLaborInput) (*model.LaborComponent, error) {
	if input.Rate.IsNegative() || input.Norma.IsNegative() {
		return nil, fmt.Errorf("%w: rate and norma must not be negative", ErrInvalidInput)
	}

	var created *model.LaborComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		position, err := positions.Get(ctx, positionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}

		component := &model.LaborComponent{
			ID:              uuid.New(),
			PositionID:      positionID,
			Lp:              len(position.Labor) + 1,
			Description:     input.Description,
			LaborTypeID:     input.LaborTypeID,
			SubcontractorID: input.SubcontractorID,
			Rate:            input.Rate,
			Norma:           input.Norma,
		}
		if err := positions.CreateLabor(ctx, component); err != nil {
			return err
		}
		created = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return created, nil
}

type UpdateLaborInput struct {
	Description     *string
	SubcontractorID *uuid.UUID
	Rate            *decimal.Decimal
	Norma           *decimal.Decimal
}

func (s *EstimateService) UpdateLabor(ctx context.Context, id uuid.UUID, input UpdateLaborInput) (*model.LaborComponent, error) {
	var updated *model.LaborComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetLabor(ctx, id)
		if err != nil {
			return err
		}
		position, err := positions.Get(ctx, component.PositionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}

		if input.Description != nil {
			component.Description = *input.Description
		}
		if input.SubcontractorID != nil {
			component.SubcontractorID = input.SubcontractorID
		}
		if input.Rate != nil {
			if input.Rate.IsNegative() {
				return fmt.Errorf("%w: rate must not be negative", ErrInvalidInput)
			}
			component.Rate = *input.Rate
		}
		if input.Norma != nil {
			if input.Norma.IsNegative() {
				return fmt.Errorf("%w: norma must not be negative", ErrInvalidInput)
			}
			component.Norma = *input.Norma
		}

		if err := positions.SaveLabor(ctx, component); err != nil {
			return err
		}
		updated = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

func (s *EstimateService) RemoveLabor(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetLabor(ctx, id)
		if err != nil {
			return err
		}
		position, err := positions.Get(ctx, component.PositionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}
		return positions.DeleteLabor(ctx, id)
	})
	return mapRepoErr(err)
}

// SetLaborPriceOverride replaces the position's flat labor price, leaving
// the recorded source value untouched so the override stays detectable.
func (s *EstimateService) SetLaborPriceOverride(ctx context.Context, positionID uuid.UUID, price decimal.Decimal) (*model.CostPosition, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	var updated *model.CostPosition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		position, err := positions.Get(ctx, positionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}
		position.LaborPrice = price
		if err := positions.Save(ctx, position); err != nil {
			return err
		}
		updated = position
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

func (s *EstimateService) SetMaterialPriceOverride(ctx context.Context, componentID uuid.UUID, price decimal.Decimal) (*model.MaterialComponent, error) {
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	var updated *model.MaterialComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetMaterial(ctx, componentID)
		if err != nil {
			return err
		}
		position, err := positions.Get(ctx, component.PositionID)
		if err != nil {
			return err
		}
		if err := s.revisions.WithTx(tx).GuardUnlocked(ctx, position.RevisionID); err != nil {
			return err
		}
		component.Price = price
		if err := positions.SaveMaterial(ctx, component); err != nil {
			return err
		}
		updated = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

// ResetPosition restores the flat labor price and every library-sourced
// material price by re-running cheapest-price resolution. It works on
// locked revisions; reset is the one mutation the lock allows.
func (s *EstimateService) ResetPosition(ctx context.Context, positionID uuid.UUID) (*model.CostPosition, error) {
	var updated *model.CostPosition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		catalog := s.catalog.WithTx(tx)
		position, err := positions.Get(ctx, positionID)
		if err != nil {
			return err
		}

		if position.LibraryPositionID != nil {
			library, err := catalog.GetLibraryPosition(ctx, *position.LibraryPositionID)
			if err != nil {
				return err
			}
			labor, err := s.resolveLabor(ctx, catalog, library)
			if err != nil {
				return err
			}
			position.LaborPrice = labor.Price
			position.LaborPriceSource = labor.Price
			position.LaborSourceKind = labor.Kind
			position.LaborSubcontractorID = labor.CounterpartyID
		} else {
			position.LaborPrice = position.LaborPriceSource
		}
		if err := positions.Save(ctx, position); err != nil {
			return err
		}

		for i := range position.Materials {
			component := &position.Materials[i]
			if component.IsManual {
				continue
			}
			if err := s.resetMaterialComponent(ctx, catalog, component); err != nil {
				return err
			}
			if err := positions.SaveMaterial(ctx, component); err != nil {
				return err
			}
		}

		updated = position
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

// ResetMaterial restores a single component; also allowed on locked
// revisions.
func (s *EstimateService) ResetMaterial(ctx context.Context, componentID uuid.UUID) (*model.MaterialComponent, error) {
	var updated *model.MaterialComponent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		positions := s.positions.WithTx(tx)
		component, err := positions.GetMaterial(ctx, componentID)
		if err != nil {
			return err
		}
		if component.IsManual {
			return fmt.Errorf("%w: manual components have no library source", ErrInvalidInput)
		}
		if err := s.resetMaterialComponent(ctx, s.catalog.WithTx(tx), component); err != nil {
			return err
		}
		if err := positions.SaveMaterial(ctx, component); err != nil {
			return err
		}
		updated = component
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

func (s *EstimateService) resetMaterialComponent(ctx context.Context, catalog *repository.CatalogRepository, component *model.MaterialComponent) error {
	if component.ProductID == nil {
		component.Price = component.SourcePrice
		return nil
	}
	resolution, err := s.resolveMaterial(ctx, catalog, component.ProductID, component.SourcePrice)
	if err != nil {
		return err
	}
	component.Price = resolution.Price
	component.SourcePrice = resolution.Price
	component.SourceKind = resolution.Kind
	if resolution.CounterpartyID != nil {
		component.SupplierID = resolution.CounterpartyID
	}
	return nil
}

// PositionView returns the position with its derived cost breakdown.
func (s *EstimateService) PositionView(ctx context.Context, id uuid.UUID) (*model.CostPosition, *model.PositionCost, error) {
	position, err := s.positions.Get(ctx, id)
	if err != nil {
		return nil, nil, mapRepoErr(err)
	}
	cost := model.ComputeCost(position)
	return position, &cost, nil
}

// RevisionSummary aggregates the computed views across the revision.
func (s *EstimateService) RevisionSummary(ctx context.Context, revisionID uuid.UUID) (*model.RevisionSummary, error) {
	revision, err := s.revisions.GetWithPositions(ctx, revisionID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	summary := model.SummarizeRevision(revision.ID, revision.Positions)
	return &summary, nil
}
