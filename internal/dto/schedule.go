package dto

import (
	"time"

	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/timetable"
)

// ── Расписание групп ──

// UpsertGroupRequest создание или замена записи одной группы
type UpsertGroupRequest struct {
	GroupName string               `json:"group_name" binding:"required,max=100"`
	Schedule  model.WeeklySchedule `json:"schedule"`
	ShiftInfo *model.ShiftInfo     `json:"shift_info"`
}

// GroupScheduleResponse расписание группы; с фильтром по дню заполнено только Day
type GroupScheduleResponse struct {
	GroupName string                 `json:"group_name"`
	ShiftInfo model.ShiftInfo        `json:"shift_info"`
	Schedule  *model.WeeklySchedule  `json:"schedule,omitempty"`
	Day       *timetable.DaySchedule `json:"day,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// GroupSummary строка списка групп
type GroupSummary struct {
	GroupName   string          `json:"group_name"`
	ShiftInfo   model.ShiftInfo `json:"shift_info"`
	LessonCount int             `json:"lesson_count"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ── Загрузка документа ──

// IngestResult итог загрузки расписания
type IngestResult struct {
	TotalGroups int      `json:"total_groups"`
	FirstShift  int      `json:"first_shift"`
	SecondShift int      `json:"second_shift"`
	Groups      []string `json:"groups"`
	// BellsApplied записей, получивших время звонков при загрузке
	BellsApplied int `json:"bells_applied,omitempty"`
}
