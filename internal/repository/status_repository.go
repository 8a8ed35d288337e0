package repository

import (
	"context"

	"github.com/GRAF231/brigada/internal/entity"

	"gorm.io/gorm"
)

type StatusMessageRepository struct {
	db *gorm.DB
}

func NewStatusMessageRepository(db *gorm.DB) *StatusMessageRepository {
	return &StatusMessageRepository{db: db}
}

// Create создаёт сообщение в ленте проекта
func (r *StatusMessageRepository) Create(ctx context.Context, msg *entity.StatusMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID ищет сообщение по ID
func (r *StatusMessageRepository) FindByID(ctx context.Context, id string) (*entity.StatusMessage, error) {
	var msg entity.StatusMessage
	err := r.db.WithContext(ctx).Preload("User").First(&msg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByProject возвращает ленту проекта, новые сверху
func (r *StatusMessageRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]entity.StatusMessage, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.StatusMessage{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []entity.StatusMessage
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, total, err
}

// Delete удаляет сообщение
func (r *StatusMessageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.StatusMessage{}, "id = ?", id).Error
}
