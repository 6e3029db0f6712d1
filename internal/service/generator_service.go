package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/config"
	"github.com/PanArtek/plany-app-sub000/internal/generator"
	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

// GeneratorService derives subcontractor agreements and supplier purchase
// orders from a locked revision. Each whole invocation runs in a single
// transaction, so a failing counterparty group rolls back the entire set.
type GeneratorService struct {
	db              *gorm.DB
	revisions       *repository.RevisionRepository
	documents       *repository.DocumentRepository
	requireAccepted bool
	log             zerolog.Logger
}

func NewGeneratorService(
	db *gorm.DB,
	revisions *repository.RevisionRepository,
	documents *repository.DocumentRepository,
	cfg *config.Config,
	log zerolog.Logger,
) *GeneratorService {
	return &GeneratorService{
		db:              db,
		revisions:       revisions,
		documents:       documents,
		requireAccepted: cfg.Generation.RequireAccepted,
		log:             log,
	}
}

func (s *GeneratorService) checkRevision(revision *model.Revision) error {
	if !revision.IsLocked {
		return ErrNotLocked
	}
	if s.requireAccepted && !revision.IsAccepted {
		return fmt.Errorf("%w: revision is not accepted", ErrConstraint)
	}
	return nil
}

// GenerateAgreements creates one draft agreement per subcontractor found
// among the revision's labor components. Re-running against a revision
// that already has agreements is rejected. Returns the number of
// agreements created.
func (s *GeneratorService) GenerateAgreements(ctx context.Context, revisionID uuid.UUID) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revisions := s.revisions.WithTx(tx)
		documents := s.documents.WithTx(tx)

		revision, err := revisions.GetWithPositions(ctx, revisionID)
		if err != nil {
			return err
		}
		if err := s.checkRevision(revision); err != nil {
			return err
		}
		existing, err := documents.CountAgreementsByRevision(ctx, revisionID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: agreements already generated for revision", ErrConstraint)
		}

		drafts := generator.Group(generator.LaborItems(revision.Positions))
		for _, draft := range drafts {
			agreement := &model.Agreement{
				ID:              uuid.New(),
				ProjectID:       revision.ProjectID,
				RevisionID:      revision.ID,
				SubcontractorID: draft.CounterpartyID,
				Status:          model.AgreementStatusDraft,
			}
			var links []model.SourceLink
			for i, line := range draft.Lines {
				lineID := uuid.New()
				agreement.Lines = append(agreement.Lines, model.AgreementLine{
					ID:          lineID,
					AgreementID: agreement.ID,
					Lp:          i + 1,
					Name:        line.Name,
					Quantity:    line.Quantity,
					Rate:        line.Price,
				})
				for _, source := range line.Sources {
					id := lineID
					links = append(links, model.SourceLink{
						ID:              uuid.New(),
						AgreementLineID: &id,
						PositionID:      source.PositionID,
						ComponentID:     source.ComponentID,
						Quantity:        source.Quantity,
					})
				}
			}
			if err := documents.CreateAgreement(ctx, agreement, links); err != nil {
				return err
			}
		}
		count = len(drafts)
		return nil
	})
	if err != nil {
		return 0, mapRepoErr(err)
	}
	s.log.Info().Str("revision_id", revisionID.String()).Int("agreements", count).Msg("agreements generated")
	return count, nil
}

// GeneratePurchaseOrders does the same grouping over material components
// by supplier. Manual components without a supplier have no fulfillment
// counterparty and are skipped.
func (s *GeneratorService) GeneratePurchaseOrders(ctx context.Context, revisionID uuid.UUID) (int, error) {
	var count int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revisions := s.revisions.WithTx(tx)
		documents := s.documents.WithTx(tx)

		revision, err := revisions.GetWithPositions(ctx, revisionID)
		if err != nil {
			return err
		}
		if err := s.checkRevision(revision); err != nil {
			return err
		}
		existing, err := documents.CountOrdersByRevision(ctx, revisionID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("%w: purchase orders already generated for revision", ErrConstraint)
		}

		drafts := generator.Group(generator.MaterialItems(revision.Positions))
		for _, draft := range drafts {
			order := &model.PurchaseOrder{
				ID:         uuid.New(),
				ProjectID:  revision.ProjectID,
				RevisionID: revision.ID,
				SupplierID: draft.CounterpartyID,
				Status:     model.OrderStatusDraft,
			}
			var links []model.SourceLink
			for i, line := range draft.Lines {
				lineID := uuid.New()
				order.Lines = append(order.Lines, model.OrderLine{
					ID:       lineID,
					OrderID:  order.ID,
					Lp:       i + 1,
					Name:     line.Name,
					Unit:     line.Unit,
					Quantity: line.Quantity,
					Price:    line.Price,
				})
				for _, source := range line.Sources {
					id := lineID
					links = append(links, model.SourceLink{
						ID:          uuid.New(),
						OrderLineID: &id,
						PositionID:  source.PositionID,
						ComponentID: source.ComponentID,
						Quantity:    source.Quantity,
					})
				}
			}
			if err := documents.CreatePurchaseOrder(ctx, order, links); err != nil {
				return err
			}
		}
		count = len(drafts)
		return nil
	})
	if err != nil {
		return 0, mapRepoErr(err)
	}
	s.log.Info().Str("revision_id", revisionID.String()).Int("orders", count).Msg("purchase orders generated")
	return count, nil
}

func (s *GeneratorService) ListAgreements(ctx context.Context, projectID uuid.UUID) ([]model.Agreement, error) {
	return s.documents.ListAgreementsByProject(ctx, projectID)
}

func (s *GeneratorService) ListOrders(ctx context.Context, projectID uuid.UUID) ([]model.PurchaseOrder, error) {
	return s.documents.ListOrdersByProject(ctx, projectID)
}

func (s *GeneratorService) GetAgreement(ctx context.Context, id uuid.UUID) (*model.Agreement, error) {
	agreement, err := s.documents.GetAgreement(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return agreement, nil
}

func (s *GeneratorService) GetOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.documents.GetOrder(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return order, nil
}
