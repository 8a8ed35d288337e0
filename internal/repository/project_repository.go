package repository

import (
	"context"

	"github.com/GRAF231/brigada/internal/entity"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create создаёт проект
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID ищет проект по ID
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListAll возвращает все проекты
func (r *ProjectRepository) ListAll(ctx context.Context) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListByClient возвращает проекты заказчика
func (r *ProjectRepository) ListByClient(ctx context.Context, clientID string) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// ListByMember возвращает проекты, где пользователь — участник команды
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Manager").
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Update обновляет проект
func (r *ProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete удаляет проект вместе со связанными данными
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var estimate entity.Estimate
		if err := tx.First(&estimate, "project_id = ?", id).Error; err == nil {
			if err := tx.Delete(&entity.EstimateItem{}, "estimate_id = ?", estimate.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&estimate).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var schedule entity.Schedule
		if err := tx.First(&schedule, "project_id = ?", id).Error; err == nil {
			if err := tx.Delete(&entity.ScheduleItem{}, "schedule_id = ?", schedule.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&schedule).Error; err != nil {
				return err
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := tx.Delete(&entity.StatusMessage{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.ProjectUser{}, "project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Project{}, "id = ?", id).Error
	})
}

// AddMember добавляет участника в команду проекта
func (r *ProjectRepository) AddMember(ctx context.Context, member *entity.ProjectUser) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember убирает участника из команды проекта
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).Delete(&entity.ProjectUser{}, "project_id = ? AND user_id = ?", projectID, userID).Error
}

// ListMembers возвращает участников проекта
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Joins("JOIN project_users ON project_users.user_id = users.id").
		Where("project_users.project_id = ?", projectID).
		Order("users.name ASC").
		Find(&users).Error
	return users, err
}

// IsMember проверяет участие пользователя в проекте
func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ProjectUser{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}
