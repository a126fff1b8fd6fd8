package timetable

import (
	"fmt"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ErrNoLessonsForGroupDay у группы нет занятий в запрошенный день
var ErrNoLessonsForGroupDay = fmt.Errorf("%w: у группы нет занятий в этот день", pkgerrors.ErrEmptyResult)

// DaySchedule занятия группы за один день
type DaySchedule struct {
	Day        model.Day            `json:"day"`
	ZeroLesson *model.Lesson        `json:"zero_lesson"`
	Lessons    map[int]model.Lesson `json:"lessons"`
}

// FilterDay выбирает из недельного расписания один день.
// Нераспознанный день и день без занятий дают ErrNoLessonsForGroupDay.
func FilterDay(s model.WeeklySchedule, day string) (DaySchedule, error) {
	d, ok := ParseDay(day)
	if !ok {
		return DaySchedule{}, ErrNoLessonsForGroupDay
	}
	out := DaySchedule{Day: d, ZeroLesson: s.ZeroLesson[d], Lessons: s.Days[d]}
	if out.ZeroLesson == nil && len(out.Lessons) == 0 {
		return DaySchedule{}, ErrNoLessonsForGroupDay
	}
	if out.Lessons == nil {
		out.Lessons = map[int]model.Lesson{}
	}
	return out, nil
}
