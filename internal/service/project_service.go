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

// ProjectService сервис проектов
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
}

// NewProjectService создаёт сервис проектов
func NewProjectService(projectRepo *repository.ProjectRepository, userRepo *repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectRequest запрос создания проекта
type CreateProjectRequest struct {
	Name      string     `json:"name" binding:"required"`
	Address   string     `json:"address"`
	ClientID  string     `json:"client_id" binding:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// UpdateProjectRequest запрос обновления проекта
type UpdateProjectRequest struct {
	Name      *string    `json:"name"`
	Address   *string    `json:"address"`
	Status    *string    `json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Create создаёт проект. Создатель становится его менеджером.
func (s *ProjectService) Create(ctx context.Context, p access.Principal, req *CreateProjectRequest) (*entity.Project, error) {
	if !access.CanManageProject(p) {
		return nil, fmt.Errorf("%w: создавать проекты может только менеджер", ErrForbidden)
	}

	client, err := s.userRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: заказчик не найден", ErrValidation)
		}
		return nil, err
	}
	if client.Role != entity.RoleClient {
		return nil, fmt.Errorf("%w: пользователь %s не является заказчиком", ErrValidation, client.ID)
	}

	project := &entity.Project{
		ID:        generateID(),
		Name:      req.Name,
		Address:   req.Address,
		ClientID:  req.ClientID,
		ManagerID: p.ID,
		Status:    entity.ProjectStatusPlanning,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("создание проекта: %w", err)
	}
	return s.projectRepo.FindByID(ctx, project.ID)
}

// Get возвращает проект с проверкой доступа
func (s *ProjectService) Get(ctx context.Context, p access.Principal, id string) (*entity.Project, error) {
	project, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(ctx, id, p.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewProject(p, project, isMember) {
		return nil, fmt.Errorf("%w: нет доступа к проекту", ErrForbidden)
	}
	return project, nil
}

// List возвращает проекты, видимые пользователю:
// менеджер видит все, заказчик — свои, остальные — где состоят в команде
func (s *ProjectService) List(ctx context.Context, p access.Principal) ([]entity.Project, error) {
	switch {
	case p.IsManager():
		return s.projectRepo.ListAll(ctx)
	case p.IsClient():
		return s.projectRepo.ListByClient(ctx, p.ID)
	default:
		return s.projectRepo.ListByMember(ctx, p.ID)
	}
}

// Update обновляет проект
func (s *ProjectService) Update(ctx context.Context, p access.Principal, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.findProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanManageProject(p) {
		return nil, fmt.Errorf("%w: изменять проект может только менеджер", ErrForbidden)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: название не может быть пустым", ErrValidation)
		}
		project.Name = *req.Name
	}
	if req.Address != nil {
		project.Address = *req.Address
	}
	if req.Status != nil {
		if !entity.ValidProjectStatus(*req.Status) {
			return nil, fmt.Errorf("%w: неизвестный статус %q", ErrValidation, *req.Status)
		}
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("обновление проекта: %w", err)
	}
	return s.projectRepo.FindByID(ctx, id)
}

// Delete удаляет проект со сметой, графиком и лентой статусов
func (s *ProjectService) Delete(ctx context.Context, p access.Principal, id string) error {
	if _, err := s.findProject(ctx, id); err != nil {
		return err
	}
	if !access.CanManageProject(p) {
		return fmt.Errorf("%w: удалять проект может только менеджер", ErrForbidden)
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("удаление проекта: %w", err)
	}
	return nil
}

// AddMember добавляет исполнителя в команду проекта
func (s *ProjectService) AddMember(ctx context.Context, p access.Principal, projectID, userID string) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}
	if !access.CanManageProject(p) {
		return fmt.Errorf("%w: управлять командой может только менеджер", ErrForbidden)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: пользователь не найден", ErrValidation)
		}
		return err
	}

	member := &entity.ProjectUser{
		ID:        generateID(),
		ProjectID: projectID,
		UserID:    userID,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: пользователь уже в команде", ErrConflict)
		}
		return fmt.Errorf("добавление участника: %w", err)
	}
	return nil
}

// RemoveMember убирает исполнителя из команды
func (s *ProjectService) RemoveMember(ctx context.Context, p access.Principal, projectID, userID string) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}
	if !access.CanManageProject(p) {
		return fmt.Errorf("%w: управлять командой может только менеджер", ErrForbidden)
	}
	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

// ListMembers возвращает команду проекта
func (s *ProjectService) ListMembers(ctx context.Context, p access.Principal, projectID string) ([]entity.User, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projectRepo.IsMember(ctx, projectID, p.ID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewProject(p, project, isMember) {
		return nil, fmt.Errorf("%w: нет доступа к проекту", ErrForbidden)
	}
	return s.projectRepo.ListMembers(ctx, projectID)
}

func (s *ProjectService) findProject(ctx context.Context, id string) (*entity.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: проект не найден", ErrNotFound)
		}
		return nil, err
	}
	return project, nil
}
