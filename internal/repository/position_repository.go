package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PanArtek/plany-app-sub000/internal/model"
)

type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) WithTx(tx *gorm.DB) *PositionRepository {
	return &PositionRepository{db: tx}
}

func (r *PositionRepository) Create(ctx context.Context, position *model.CostPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// Get loads a position with its components ordered by lp.
func (r *PositionRepository) Get(ctx context.Context, id uuid.UUID) (*model.CostPosition, error) {
	var position model.CostPosition
	err := r.db.WithContext(ctx).
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Preload("Labor", func(db *gorm.DB) *gorm.DB {
			return db.Order("lp ASC")
		}).
		Where("id = ?", id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *PositionRepository) Save(ctx context.Context, position *model.CostPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *PositionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", id).Delete(&model.MaterialComponent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("position_id = ?", id).Delete(&model.LaborComponent{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.CostPosition{}).Error
	})
}

// NextLp returns the next sequence number within a revision.
func (r *PositionRepository) NextLp(ctx context.Context, revisionID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.CostPosition{}).
		Where("revision_id = ?", revisionID).
		Select("COALESCE(MAX(lp), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *PositionRepository) CreateMaterial(ctx context.Context, component *model.MaterialComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *PositionRepository) GetMaterial(ctx context.Context, id uuid.UUID) (*model.MaterialComponent, error) {
	var component model.MaterialComponent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&component).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *PositionRepository) SaveMaterial(ctx context.Context, component *model.MaterialComponent) error {
	return r.db.WithContext(ctx).Save(component).Error
}

func (r *PositionRepository) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MaterialComponent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PositionRepository) CreateLabor(ctx context.Context, component *model.LaborComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *PositionRepository) GetLabor(ctx context.Context, id uuid.UUID) (*model.LaborComponent, error) {
	var component model.LaborComponent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&component).Error; err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *PositionRepository) SaveLabor(ctx context.Context, component *model.LaborComponent) error {
	return r.db.WithContext(ctx).Save(component).Error
}

func (r *PositionRepository) DeleteLabor(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LaborComponent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
