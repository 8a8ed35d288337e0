package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GRAF231/brigada/internal/access"
	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"gorm.io/gorm"
)

// ScheduleService сервис графиков работ
type ScheduleService struct {
	scheduleRepo *repository.ScheduleRepository
	projectRepo  *repository.ProjectRepository
}

// NewScheduleService создаёт сервис графиков
func NewScheduleService(scheduleRepo *repository.ScheduleRepository, projectRepo *repository.ProjectRepository) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		projectRepo:  projectRepo,
	}
}

// ScheduleView график с этапами
type ScheduleView struct {
	*entity.Schedule
	Items []entity.ScheduleItem `json:"items"`
}

// AddScheduleItemRequest запрос добавления этапа
type AddScheduleItemRequest struct {
	Name      string     `json:"name" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// UpdateScheduleItemRequest запрос обновления этапа
type UpdateScheduleItemRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// GetOrCreate возвращает график проекта, создавая пустой при первом обращении
func (s *ScheduleService) GetOrCreate(ctx context.Context, p access.Principal, projectID string) (*ScheduleView, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: проект не найден", ErrNotFound)
		}
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(ctx, projectID, p.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewProject(p, project, isMember) {
		return nil, fmt.Errorf("%w: нет доступа к проекту", ErrForbidden)
	}

	schedule, err := s.scheduleRepo.FindByProject(ctx, projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// График при первом обращении заводит только редактор
		if !access.CanEditSchedule(p) {
			return nil, fmt.Errorf("%w: график не найден", ErrNotFound)
		}
		schedule = &entity.Schedule{
			ID:        generateID(),
			ProjectID: projectID,
		}
		if createErr := s.scheduleRepo.Create(ctx, schedule); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				schedule, err = s.scheduleRepo.FindByProject(ctx, projectID)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, fmt.Errorf("создание графика: %w", createErr)
			}
		}
	} else if err != nil {
		return nil, err
	}

	items, err := s.scheduleRepo.ListItems(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}
	return &ScheduleView{Schedule: schedule, Items: items}, nil
}

// AddItem добавляет этап в график
func (s *ScheduleService) AddItem(ctx context.Context, p access.Principal, scheduleID string, req *AddScheduleItemRequest) (*entity.ScheduleItem, error) {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditSchedule(p) {
		return nil, fmt.Errorf("%w: недостаточно прав для изменения графика", ErrForbidden)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: дата окончания раньше даты начала", ErrValidation)
	}

	item := &entity.ScheduleItem{
		ID:         generateID(),
		ScheduleID: schedule.ID,
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     entity.ScheduleStatusNotStarted,
	}
	if err := s.scheduleRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("создание этапа: %w", err)
	}
	return item, nil
}

// UpdateItem обновляет этап графика
func (s *ScheduleService) UpdateItem(ctx context.Context, p access.Principal, itemID string, req *UpdateScheduleItemRequest) (*entity.ScheduleItem, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !access.CanEditSchedule(p) {
		return nil, fmt.Errorf("%w: недостаточно прав для изменения графика", ErrForbidden)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: название не может быть пустым", ErrValidation)
		}
		item.Name = *req.Name
	}
	if req.StartDate != nil {
		item.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		item.EndDate = req.EndDate
	}
	if item.StartDate != nil && item.EndDate != nil && item.EndDate.Before(*item.StartDate) {
		return nil, fmt.Errorf("%w: дата окончания раньше даты начала", ErrValidation)
	}

	if err := s.scheduleRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("обновление этапа: %w", err)
	}
	return item, nil
}

// ChangeStatus меняет статус этапа графика
func (s *ScheduleService) ChangeStatus(ctx context.Context, p access.Principal, itemID, status string) (*entity.ScheduleItem, error) {
	if !entity.ValidScheduleStatus(status) {
		return nil, fmt.Errorf("%w: неизвестный статус %q", ErrValidation, status)
	}

	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !access.CanChangeScheduleStatus(p) {
		return nil, fmt.Errorf("%w: роль не позволяет менять статус этапа", ErrForbidden)
	}

	item.Status = status
	if err := s.scheduleRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("смена статуса: %w", err)
	}
	return item, nil
}

// DeleteItem удаляет этап графика
func (s *ScheduleService) DeleteItem(ctx context.Context, p access.Principal, itemID string) error {
	if _, err := s.findItem(ctx, itemID); err != nil {
		return err
	}
	if !access.CanEditSchedule(p) {
		return fmt.Errorf("%w: недостаточно прав для изменения графика", ErrForbidden)
	}
	return s.scheduleRepo.DeleteItem(ctx, itemID)
}

func (s *ScheduleService) findSchedule(ctx context.Context, id string) (*entity.Schedule, error) {
	schedule, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: график не найден", ErrNotFound)
		}
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) findItem(ctx context.Context, id string) (*entity.ScheduleItem, error) {
	item, err := s.scheduleRepo.FindItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: этап графика не найден", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}
