package repository

import (
	"context"

	"github.com/GRAF231/brigada/internal/entity"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create создаёт график работ
func (r *ScheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// FindByProject ищет график проекта
func (r *ScheduleRepository) FindByProject(ctx context.Context, projectID string) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := r.db.WithContext(ctx).First(&schedule, "project_id = ?", projectID).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindByID ищет график по ID
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := r.db.WithContext(ctx).First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListItems возвращает этапы графика по дате начала
func (r *ScheduleRepository) ListItems(ctx context.Context, scheduleID string) ([]entity.ScheduleItem, error) {
	var items []entity.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("start_date ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// CreateItem создаёт этап графика
func (r *ScheduleRepository) CreateItem(ctx context.Context, item *entity.ScheduleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID ищет этап по ID
func (r *ScheduleRepository) FindItemByID(ctx context.Context, id string) (*entity.ScheduleItem, error) {
	var item entity.ScheduleItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem обновляет этап графика
func (r *ScheduleRepository) UpdateItem(ctx context.Context, item *entity.ScheduleItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem удаляет этап графика
func (r *ScheduleRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.ScheduleItem{}, "id = ?", id).Error
}

// ListOverdueItems возвращает незавершённые этапы с истёкшим сроком
func (r *ScheduleRepository) ListOverdueItems(ctx context.Context) ([]entity.ScheduleItem, error) {
	var items []entity.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("end_date < NOW() AND status IN ?", []string{
			entity.ScheduleStatusNotStarted,
			entity.ScheduleStatusInProgress,
		}).
		Find(&items).Error
	return items, err
}

// MarkDelayed помечает этапы как просроченные
func (r *ScheduleRepository) MarkDelayed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.ScheduleItem{}).
		Where("id IN ?", ids).
		Update("status", entity.ScheduleStatusDelayed).Error
}
