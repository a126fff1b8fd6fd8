package repository

import "gorm.io/gorm"

// Repository точка доступа ко всем репозиториям
type Repository struct {
	GroupSchedule GroupScheduleRepository
}

// NewRepository создаёт агрегат репозиториев
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		GroupSchedule: NewGroupScheduleRepo(db),
	}
}
