package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

// ErrLocked is returned when a guarded mutation hits a locked revision.
var ErrLocked = errors.New("revision is locked")

type RevisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) WithTx(tx *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: tx}
}

func (r *RevisionRepository) Create(ctx context.Context, revision *model.Revision) error {
	return r.db.WithContext(ctx).Create(revision).Error
}

func (r *RevisionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	var revision model.Revision
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&revision).Error; err != nil {
		return nil, err
	}
	return &revision, nil
}

// GetWithPositions loads the revision with positions and their components,
// ordered by lp.
func (r *RevisionRepository) GetWithPositions(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	var revision model.Revision
	err := r.db.WithContext(ctx).
		Preload("Positions", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Positions.Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Positions.Labor", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Where("id = ?", id).
		First(&revision).Error
	if err != nil {
		return nil, err
	}
	return &revision, nil
}

func (r *RevisionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Revision, error) {
	var revisions []model.Revision
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("number ASC").
		Find(&revisions).Error
	return revisions, err
}

// NextNumber returns the next sequential revision number for a project.
func (r *RevisionRepository) NextNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// GuardUnlocked is the atomic lock check: a conditional update that only
// touches an unlocked revision row. A concurrent lock between check and
// mutation cannot slip through because the guard and the mutation share
// the transaction.
func (r *RevisionRepository) GuardUnlocked(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("id = ? AND is_locked = ?", id, false).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Revision{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrLocked
	}
	return nil
}

// Lock flips is_locked with the same conditional-update shape; locking an
// already locked revision is a no-op failure reported as ErrLocked.
func (r *RevisionRepository) Lock(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("id = ? AND is_locked = ?", id, false).
		Updates(map[string]interface{}{
			"is_locked":  true,
			"locked_at":  now,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Revision{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrLocked
	}
	return nil
}

// SetAccepted marks the revision accepted. The caller clears any
// previously accepted revision of the project first.
func (r *RevisionRepository) SetAccepted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_accepted": true,
			"accepted_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearAccepted drops the accepted flag from every revision of the
// project; superseded revisions stay locked.
func (r *RevisionRepository) ClearAccepted(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Revision{}).
		Where("project_id = ? AND is_accepted = ?", projectID, true).
		Updates(map[string]interface{}{
			"is_accepted": false,
			"accepted_at": nil,
			"updated_at":  time.Now(),
		}).Error
}
