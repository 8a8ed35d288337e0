package repository

import (
	"context"

	"github.com/GRAF231/brigada/internal/entity"

	"gorm.io/gorm"
)

type PriceListRepository struct {
	db *gorm.DB
}

func NewPriceListRepository(db *gorm.DB) *PriceListRepository {
	return &PriceListRepository{db: db}
}

// Create создаёт прайс-лист
func (r *PriceListRepository) Create(ctx context.Context, list *entity.PriceList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID ищет прайс-лист по ID
func (r *PriceListRepository) FindByID(ctx context.Context, id string) (*entity.PriceList, error) {
	var list entity.PriceList
	err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// List возвращает прайс-листы с фильтром по типу
func (r *PriceListRepository) List(ctx context.Context, listType string) ([]entity.PriceList, error) {
	var lists []entity.PriceList
	query := r.db.WithContext(ctx)
	if listType != "" {
		query = query.Where("type = ?", listType)
	}
	err := query.Order("created_at DESC").Find(&lists).Error
	return lists, err
}

// Update обновляет прайс-лист
func (r *PriceListRepository) Update(ctx context.Context, list *entity.PriceList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// Delete удаляет прайс-лист вместе с позициями
func (r *PriceListRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PriceItem{}, "price_list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.PriceList{}, "id = ?", id).Error
	})
}

// ListItems возвращает позиции прайс-листа
func (r *PriceListRepository) ListItems(ctx context.Context, listID string) ([]entity.PriceItem, error) {
	var items []entity.PriceItem
	err := r.db.WithContext(ctx).
		Where("price_list_id = ?", listID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// SearchItems ищет позиции по названию во всех прайс-листах типа
func (r *PriceListRepository) SearchItems(ctx context.Context, listType, keyword string, limit int) ([]entity.PriceItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var items []entity.PriceItem
	query := r.db.WithContext(ctx).Model(&entity.PriceItem{})
	if listType != "" {
		query = query.Joins("JOIN price_lists ON price_lists.id = price_items.price_list_id").
			Where("price_lists.type = ?", listType)
	}
	if keyword != "" {
		query = query.Where("price_items.name ILIKE ?", "%"+keyword+"%")
	}
	err := query.Order("price_items.name ASC").Limit(limit).Find(&items).Error
	return items, err
}

// CreateItem создаёт позицию прайс-листа
func (r *PriceListRepository) CreateItem(ctx context.Context, item *entity.PriceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID ищет позицию прайс-листа по ID
func (r *PriceListRepository) FindItemByID(ctx context.Context, id string) (*entity.PriceItem, error) {
	var item entity.PriceItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem обновляет позицию прайс-листа
func (r *PriceListRepository) UpdateItem(ctx context.Context, item *entity.PriceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem удаляет позицию прайс-листа
func (r *PriceListRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.PriceItem{}, "id = ?", id).Error
}
