package repository

import (
	"gorm.io/gorm"
)

// Repositories набор репозиториев
type Repositories struct {
	User          *UserRepository
	Project       *ProjectRepository
	Estimate      *EstimateRepository
	Schedule      *ScheduleRepository
	StatusMessage *StatusMessageRepository
	PriceList     *PriceListRepository
}

// NewRepositories создаёт набор репозиториев
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Project:       NewProjectRepository(db),
		Estimate:      NewEstimateRepository(db),
		Schedule:      NewScheduleRepository(db),
		StatusMessage: NewStatusMessageRepository(db),
		PriceList:     NewPriceListRepository(db),
	}
}
