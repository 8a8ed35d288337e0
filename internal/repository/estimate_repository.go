package repository

import (
	"context"

	"github.com/GRAF231/brigada/internal/entity"

	"gorm.io/gorm"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

// Create создаёт смету
func (r *EstimateRepository) Create(ctx context.Context, estimate *entity.Estimate) error {
	return r.db.WithContext(ctx).Create(estimate).Error
}

// FindByProject ищет смету проекта
func (r *EstimateRepository) FindByProject(ctx context.Context, projectID string) (*entity.Estimate, error) {
	var estimate entity.Estimate
	err := r.db.WithContext(ctx).First(&estimate, "project_id = ?", projectID).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// FindByID ищет смету по ID
func (r *EstimateRepository) FindByID(ctx context.Context, id string) (*entity.Estimate, error) {
	var estimate entity.Estimate
	err := r.db.WithContext(ctx).First(&estimate, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// ListItems возвращает позиции сметы в порядке добавления
func (r *EstimateRepository) ListItems(ctx context.Context, estimateID string) ([]entity.EstimateItem, error) {
	var items []entity.EstimateItem
	err := r.db.WithContext(ctx).
		Where("estimate_id = ?", estimateID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// CreateItem создаёт позицию сметы
func (r *EstimateRepository) CreateItem(ctx context.Context, item *entity.EstimateItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID ищет позицию сметы по ID
func (r *EstimateRepository) FindItemByID(ctx context.Context, id string) (*entity.EstimateItem, error) {
	var item entity.EstimateItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemFields обновляет поля позиции при совпадении ревизии.
// Возвращает число затронутых строк: 0 означает, что позиция изменена параллельно.
func (r *EstimateRepository) UpdateItemFields(ctx context.Context, id string, expectedRevision int64, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.EstimateItem{}).
		Where("id = ? AND revision = ?", id, expectedRevision).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// DeleteItems удаляет позиции по списку ID одной транзакцией
func (r *EstimateRepository) DeleteItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&entity.EstimateItem{}, "id IN ?", ids).Error
	})
}
