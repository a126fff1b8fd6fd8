package timetable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

var (
	ErrEmptyTeacherQuery = fmt.Errorf("%w: не указано ФИО преподавателя", pkgerrors.ErrMalformedInput)
	ErrTeacherNotFound   = fmt.Errorf("%w: преподаватель не найден", pkgerrors.ErrNotFound)
	ErrNoLessonsOnDay    = fmt.Errorf("%w: у преподавателя нет занятий в этот день", pkgerrors.ErrEmptyResult)
)

// CanonicalQuery очищает запрос по ФИО без проверки строгого формата
func CanonicalQuery(query string) string {
	return strings.ToLower(cleanText(query))
}

// ResolveTeacher собирает расписание преподавателя по всем группам.
// day пустой: без фильтра по дню. Группы со сменой 0 скрыты,
// неизвестные номера смен пропускаются.
func ResolveTeacher(records []model.GroupSchedule, query, day string, m Matcher) (*model.TeacherScheduleView, error) {
	q := CanonicalQuery(query)
	if q == "" {
		return nil, ErrEmptyTeacherQuery
	}

	view := &model.TeacherScheduleView{
		TeacherName: q,
		FirstShift:  make(model.ShiftLessons),
		SecondShift: make(model.ShiftLessons),
	}

	var (
		filter    model.Day
		hasFilter bool
		badFilter bool
	)
	if strings.TrimSpace(day) != "" {
		d, ok := ParseDay(day)
		if ok {
			filter, hasFilter = d, true
		} else {
			badFilter = true
		}
		label := NormalizeDay(day)
		if ok {
			label = string(d)
		}
		view.FilteredByDay = &label
	}

	sorted := make([]model.GroupSchedule, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].GroupName < sorted[j].GroupName })

	found := false
	for _, rec := range sorted {
		var bucket model.ShiftLessons
		switch rec.ShiftInfo.Value() {
		case 1:
			bucket = view.FirstShift
		case 2:
			bucket = view.SecondShift
		default:
			continue
		}

		add := func(d model.Day, slot string, l model.Lesson) {
			// матчеры сами очищают ввод и различают регистр инициалов
			if !m.Match(query, l.Teacher) {
				return
			}
			found = true
			if badFilter || (hasFilter && d != filter) {
				return
			}
			if bucket[d] == nil {
				bucket[d] = make(map[string]model.TeacherLesson)
			}
			bucket[d][slot] = model.TeacherLesson{
				Subject:   l.Subject,
				Group:     rec.GroupName,
				Classroom: l.Classroom,
				Time:      l.Time,
			}
		}

		for d, l := range rec.Schedule.ZeroLesson {
			if l != nil {
				add(d, "0", *l)
			}
		}
		for d, slots := range rec.Schedule.Days {
			for n, l := range slots {
				add(d, strconv.Itoa(n), l)
			}
		}
	}

	if !found {
		return nil, ErrTeacherNotFound
	}
	if view.Empty() {
		return nil, ErrNoLessonsOnDay
	}
	return view, nil
}
