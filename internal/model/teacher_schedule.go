package model

// TeacherLesson занятие преподавателя с указанием группы
type TeacherLesson struct {
	Subject   string `json:"subject"`
	Group     string `json:"group"`
	Classroom string `json:"classroom"`
	Time      string `json:"time,omitempty"`
}

// ShiftLessons день → слот ("0" для нулевого урока) → занятие
type ShiftLessons map[Day]map[string]TeacherLesson

// TeacherScheduleView расписание преподавателя, собирается заново на каждый запрос
type TeacherScheduleView struct {
	TeacherName   string       `json:"teacher_fio"`
	FilteredByDay *string      `json:"filtered_by_day,omitempty"`
	FirstShift    ShiftLessons `json:"first_shift"`
	SecondShift   ShiftLessons `json:"second_shift"`
}

// Empty true, если ни в одной смене нет занятий
func (v *TeacherScheduleView) Empty() bool {
	return len(v.FirstShift) == 0 && len(v.SecondShift) == 0
}
