package service

import (
	"context"
	"fmt"

	"github.com/GRAF231/brigada/internal/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService следит за просроченными этапами графиков.
// Раз в сутки помечает их статусом «просрочен» и публикует
// служебное сообщение в ленте проекта.
type ReminderService struct {
	scheduleRepo *repository.ScheduleRepository
	statusSvc    *StatusMessageService
	logger       *zap.Logger
	cron         *cron.Cron
}

// NewReminderService создаёт сервис напоминаний
func NewReminderService(scheduleRepo *repository.ScheduleRepository, statusSvc *StatusMessageService, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		scheduleRepo: scheduleRepo,
		statusSvc:    statusSvc,
		logger:       logger,
		cron:         cron.New(),
	}
}

// Start запускает ежедневную проверку в 08:00
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc("0 8 * * *", func() {
		if err := s.CheckOverdue(context.Background()); err != nil {
			s.logger.Error("overdue check failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule overdue check: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и дожидается текущего запуска
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// CheckOverdue помечает просроченные этапы и уведомляет проекты
func (s *ReminderService) CheckOverdue(ctx context.Context) error {
	items, err := s.scheduleRepo.ListOverdueItems(ctx)
	if err != nil {
		return fmt.Errorf("list overdue items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	// Группируем этапы по проектам через их графики
	byProject := make(map[string][]string)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		schedule, err := s.scheduleRepo.FindByID(ctx, item.ScheduleID)
		if err != nil {
			s.logger.Warn("schedule lookup failed", zap.String("schedule_id", item.ScheduleID), zap.Error(err))
			continue
		}
		byProject[schedule.ProjectID] = append(byProject[schedule.ProjectID], item.Name)
		ids = append(ids, item.ID)
	}

	if err := s.scheduleRepo.MarkDelayed(ctx, ids); err != nil {
		return fmt.Errorf("mark delayed: %w", err)
	}

	for projectID, names := range byProject {
		msg := fmt.Sprintf("Просрочено этапов графика: %d (%s)", len(names), joinNames(names, 5))
		if err := s.statusSvc.CreateSystem(ctx, projectID, msg); err != nil {
			s.logger.Warn("system message failed", zap.String("project_id", projectID), zap.Error(err))
		}
	}

	s.logger.Info("overdue check done", zap.Int("items", len(ids)), zap.Int("projects", len(byProject)))
	return nil
}

func joinNames(names []string, max int) string {
	out := ""
	for i, name := range names {
		if i >= max {
			out += ", …"
			break
		}
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
