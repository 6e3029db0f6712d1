package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

type RealizationRepository struct {
	db *gorm.DB
}

func NewRealizationRepository(db *gorm.DB) *RealizationRepository {
	return &RealizationRepository{db: db}
}

func (r *RealizationRepository) WithTx(tx *gorm.DB) *RealizationRepository {
	return &RealizationRepository{db: tx}
}

func (r *RealizationRepository) Create(ctx context.Context, entry *model.RealizationEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *RealizationRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.RealizationEntry{}).
		Where("id = ?", id).
		Update("paid", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFilter narrows ListByProject; zero values mean no filter.
type ListFilter struct {
	Kind *model.RealizationKind
	Paid *bool
}

func (r *RealizationRepository) ListByProject(ctx context.Context, projectID uuid.UUID, filter ListFilter) ([]model.RealizationEntry, error) {
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}

	var entries []model.RealizationEntry
	err := query.Order("occurred_at ASC").Find(&entries).Error
	return entries, err
}
