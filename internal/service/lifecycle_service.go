package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
)

// LifecycleService owns project status transitions, revision locking,
// acceptance, and copy-on-write branching.
type LifecycleService struct {
	db        *gorm.DB
	projects  *repository.ProjectRepository
	revisions *repository.RevisionRepository
	positions *repository.PositionRepository
	log       zerolog.Logger
}

func NewLifecycleService(
	db *gorm.DB,
	projects *repository.ProjectRepository,
	revisions *repository.RevisionRepository,
	positions *repository.PositionRepository,
	log zerolog.Logger,
) *LifecycleService {
	return &LifecycleService{
		db:        db,
		projects:  projects,
		revisions: revisions,
		positions: positions,
		log:       log,
	}
}

func (s *LifecycleService) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	project := &model.Project{
		ID:     uuid.New(),
		Name:   name,
		Status: model.ProjectStatusDraft,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *LifecycleService) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return project, nil
}

func (s *LifecycleService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

// CreateRevision opens a new, empty revision with the next sequence
// number.
func (s *LifecycleService) CreateRevision(ctx context.Context, projectID uuid.UUID, name string) (*model.Revision, error) {
	var created *model.Revision
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)
		revisions := s.revisions.WithTx(tx)

		if _, err := projects.Get(ctx, projectID); err != nil {
			return err
		}
		number, err := revisions.NextNumber(ctx, projectID)
		if err != nil {
			return err
		}
		revision := &model.Revision{
			ID:        uuid.New(),
			ProjectID: projectID,
			Number:    number,
			Name:      name,
		}
		if err := revisions.Create(ctx, revision); err != nil {
			return err
		}
		created = revision
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return created, nil
}

func (s *LifecycleService) ListRevisions(ctx context.Context, projectID uuid.UUID) ([]model.Revision, error) {
	return s.revisions.ListByProject(ctx, projectID)
}

// LockRevision makes the revision read-only. There is no unlock; editing
// a locked revision's content goes through CopyRevision.
func (s *LifecycleService) LockRevision(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	if err := s.revisions.Lock(ctx, id); err != nil {
		if err == repository.ErrLocked {
			return nil, fmt.Errorf("%w: revision is already locked", ErrInvalidTransition)
		}
		return nil, mapRepoErr(err)
	}
	return s.revisions.Get(ctx, id)
}

// CopyRevision deep-copies the source revision into a new open revision
// with fresh ids. Values, overrides, and provenance are carried over
// as-is; the source and its lock state are untouched.
func (s *LifecycleService) CopyRevision(ctx context.Context, sourceID uuid.UUID, name string) (*model.Revision, error) {
	var created *model.Revision
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		revisions := s.revisions.WithTx(tx)
		positions := s.positions.WithTx(tx)

		source, err := revisions.GetWithPositions(ctx, sourceID)
		if err != nil {
			return err
		}
		number, err := revisions.NextNumber(ctx, source.ProjectID)
		if err != nil {
			return err
		}
		if name == "" {
			name = source.Name
		}

		revision := &model.Revision{
			ID:        uuid.New(),
			ProjectID: source.ProjectID,
			Number:    number,
			Name:      name,
		}
		if err := revisions.Create(ctx, revision); err != nil {
			return err
		}

		for i := range source.Positions {
			src := &source.Positions[i]
			position := &model.CostPosition{
				ID:                   uuid.New(),
				RevisionID:           revision.ID,
				LibraryPositionID:    src.LibraryPositionID,
				Lp:                   src.Lp,
				Name:                 src.Name,
				Unit:                 src.Unit,
				Quantity:             src.Quantity,
				MarkupPercent:        src.MarkupPercent,
				LaborPrice:           src.LaborPrice,
				LaborPriceSource:     src.LaborPriceSource,
				LaborSourceKind:      src.LaborSourceKind,
				LaborSubcontractorID: src.LaborSubcontractorID,
			}
			if err := positions.Create(ctx, position); err != nil {
				return err
			}
			for j := range src.Materials {
				m := &src.Materials[j]
				component := &model.MaterialComponent{
					ID:          uuid.New(),
					PositionID:  position.ID,
					Lp:          m.Lp,
					Name:        m.Name,
					Unit:        m.Unit,
					Norma:       m.Norma,
					Price:       m.Price,
					SourcePrice: m.SourcePrice,
					SourceKind:  m.SourceKind,
					ProductID:   m.ProductID,
					SupplierID:  m.SupplierID,
					IsManual:    m.IsManual,
				}
				if err := positions.CreateMaterial(ctx, component); err != nil {
					return err
				}
			}
			for j := range src.Labor {
				l := &src.Labor[j]
				component := &model.LaborComponent{
					ID:              uuid.New(),
					PositionID:      position.ID,
					Lp:              l.Lp,
					Description:     l.Description,
					LaborTypeID:     l.LaborTypeID,
					SubcontractorID: l.SubcontractorID,
					Rate:            l.Rate,
					Norma:           l.Norma,
				}
				if err := positions.CreateLabor(ctx, component); err != nil {
					return err
				}
			}
		}

		created = revision
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return created, nil
}

// ChangeProjectStatus applies one lifecycle transition. Entering
// in_execution requires the id of a locked revision of the project; that
// revision becomes the accepted one. A previously accepted revision is
// superseded silently and stays locked.
func (s *LifecycleService) ChangeProjectStatus(ctx context.Context, projectID uuid.UUID, status model.ProjectStatus, revisionID *uuid.UUID) (*model.Project, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)
		revisions := s.revisions.WithTx(tx)

		project, err := projects.Get(ctx, projectID)
		if err != nil {
			return err
		}
		if !model.ProjectTransitions.Allowed(string(project.Status), string(status)) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, project.Status, status)
		}

		var acceptedID *uuid.UUID
		if status == model.ProjectStatusInExecution {
			if revisionID == nil {
				return fmt.Errorf("%w: revision_id is required when entering in_execution", ErrInvalidInput)
			}
			revision, err := revisions.Get(ctx, *revisionID)
			if err != nil {
				return err
			}
			if revision.ProjectID != projectID {
				return fmt.Errorf("%w: revision does not belong to project", ErrInvalidInput)
			}
			if !revision.IsLocked {
				return ErrNotLocked
			}
			if project.AcceptedRevisionID != nil && *project.AcceptedRevisionID != revision.ID {
				s.log.Warn().
					Str("project_id", projectID.String()).
					Str("superseded_revision_id", project.AcceptedRevisionID.String()).
					Str("accepted_revision_id", revision.ID.String()).
					Msg("superseding previously accepted revision")
			}
			if err := revisions.ClearAccepted(ctx, projectID); err != nil {
				return err
			}
			if err := revisions.SetAccepted(ctx, revision.ID); err != nil {
				return err
			}
			acceptedID = &revision.ID
		}

		return projects.SetStatus(ctx, projectID, status, acceptedID)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return s.GetProject(ctx, projectID)
}
