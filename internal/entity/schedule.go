package entity

import (
	"time"
)

// Schedule график работ проекта, не более одного на проект
type Schedule struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string    `json:"project_id" gorm:"size:32;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []ScheduleItem `json:"items,omitempty" gorm:"foreignKey:ScheduleID"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// ScheduleItem работа в графике
type ScheduleItem struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	ScheduleID string     `json:"schedule_id" gorm:"size:32;not null;index"`
	Name       string     `json:"name" gorm:"size:256;not null"`
	StartDate  *time.Time `json:"start_date" gorm:"type:date"`
	EndDate    *time.Time `json:"end_date" gorm:"type:date"`
	Status     string     `json:"status" gorm:"size:16;not null;default:not_started"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ScheduleItem) TableName() string {
	return "schedule_items"
}

// Статусы работы в графике
const (
	ScheduleStatusNotStarted = "not_started"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusDelayed    = "delayed"
	ScheduleStatusCompleted  = "completed"
	ScheduleStatusCancelled  = "cancelled"
)

// ValidScheduleStatus проверяет код статуса работы
func ValidScheduleStatus(status string) bool {
	switch status {
	case ScheduleStatusNotStarted, ScheduleStatusInProgress, ScheduleStatusDelayed,
		ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}
