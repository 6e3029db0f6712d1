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

// RealizationService keeps the actual-cost ledger. Entries are
// independent of the estimate and linked by reference only.
type RealizationService struct {
	db           *gorm.DB
	projects     *repository.ProjectRepository
	documents    *repository.DocumentRepository
	realizations *repository.RealizationRepository
}

func NewRealizationService(
	db *gorm.DB,
	projects *repository.ProjectRepository,
	documents *repository.DocumentRepository,
	realizations *repository.RealizationRepository,
) *RealizationService {
	return &RealizationService{
		db:           db,
		projects:     projects,
		documents:    documents,
		realizations: realizations,
	}
}

type AddRealizationInput struct {
	ProjectID   uuid.UUID
	Kind        model.RealizationKind
	Amount      decimal.Decimal
	OrderID     *uuid.UUID
	AgreementID *uuid.UUID
	Description string
	OccurredAt  time.Time
}

// AddEntry records an invoiced cost. An entry may reference a purchase
// order or an agreement, never both; the referenced document must belong
// to the same project.
func (s *RealizationService) AddEntry(ctx context.Context, input AddRealizationInput) (*model.RealizationEntry, error) {
	if input.OrderID != nil && input.AgreementID != nil {
		return nil, fmt.Errorf("%w: entry may reference an order or an agreement, not both", ErrInvalidInput)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
		return nil, mapRepoErr(err)
	}
	if input.OrderID != nil {
		order, err := s.documents.GetOrder(ctx, *input.OrderID)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		if order.ProjectID != input.ProjectID {
			return nil, fmt.Errorf("%w: order does not belong to project", ErrInvalidInput)
		}
	}
	if input.AgreementID != nil {
		agreement, err := s.documents.GetAgreement(ctx, *input.AgreementID)
		if err != nil {
			return nil, mapRepoErr(err)
		}
		if agreement.ProjectID != input.ProjectID {
			return nil, fmt.Errorf("%w: agreement does not belong to project", ErrInvalidInput)
		}
	}

	entry := &model.RealizationEntry{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		Kind:        input.Kind,
		Amount:      input.Amount,
		OrderID:     input.OrderID,
		AgreementID: input.AgreementID,
		Description: input.Description,
		OccurredAt:  input.OccurredAt,
	}
	if err := s.realizations.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *RealizationService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return mapRepoErr(s.realizations.MarkPaid(ctx, id))
}

func (s *RealizationService) List(ctx context.Context, projectID uuid.UUID, filter repository.ListFilter) ([]model.RealizationEntry, error) {
	return s.realizations.ListByProject(ctx, projectID, filter)
}
