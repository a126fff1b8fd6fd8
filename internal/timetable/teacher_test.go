package timetable

import (
	"errors"
	"testing"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

func groupRecord(name string, shift *int, fill func(s *model.WeeklySchedule)) model.GroupSchedule {
	s := model.NewWeeklySchedule()
	fill(&s)
	return model.GroupSchedule{GroupName: name, Schedule: s, ShiftInfo: model.ShiftInfo{Shift: shift}}
}

func intPtr(n int) *int { return &n }

func teacherFixture() []model.GroupSchedule {
	return []model.GroupSchedule{
		groupRecord("102", intPtr(2), func(s *model.WeeklySchedule) {
			s.Days[model.Tuesday][2] = model.Lesson{Subject: "Физика", Teacher: "Иванов И.И.", Classroom: "305", Time: "13:55-14:40"}
		}),
		groupRecord("101", nil, func(s *model.WeeklySchedule) {
			s.ZeroLesson[model.Wednesday] = &model.Lesson{Subject: "Разговоры о важном", Teacher: "Иванов И.И."}
			s.Days[model.Monday][1] = model.Lesson{Subject: "Математика", Teacher: "Иванов И.И.", Classroom: "204"}
			s.Days[model.Monday][2] = model.Lesson{Subject: "Литература", Teacher: "Орлова О.О."}
		}),
		groupRecord("103", intPtr(0), func(s *model.WeeklySchedule) {
			s.Days[model.Monday][3] = model.Lesson{Subject: "Черчение", Teacher: "Иванов И.И."}
		}),
		groupRecord("104", intPtr(3), func(s *model.WeeklySchedule) {
			s.Days[model.Friday][1] = model.Lesson{Subject: "Черчение", Teacher: "Иванов И.И."}
		}),
	}
}

func TestResolveTeacher(t *testing.T) {
	view, err := ResolveTeacher(teacherFixture(), "иванов ии", "", ContainmentMatcher{})
	if err != nil {
		t.Fatalf("ResolveTeacher: %v", err)
	}
	if view.FilteredByDay != nil {
		t.Error("без фильтра FilteredByDay должен быть nil")
	}

	if l := view.FirstShift[model.Monday]["1"]; l.Group != "101" || l.Subject != "Математика" || l.Classroom != "204" {
		t.Errorf("первая смена, понедельник 1: %+v", l)
	}
	if l := view.FirstShift[model.Wednesday]["0"]; l.Group != "101" {
		t.Errorf("нулевой урок должен попадать под ключ \"0\": %+v", l)
	}
	if l := view.SecondShift[model.Tuesday]["2"]; l.Group != "102" || l.Time != "13:55-14:40" {
		t.Errorf("вторая смена, вторник 2: %+v", l)
	}
	if _, ok := view.FirstShift[model.Monday]["3"]; ok {
		t.Error("группа со сменой 0 должна быть скрыта")
	}
	if _, ok := view.FirstShift[model.Friday]; ok {
		t.Error("группа с неизвестной сменой должна пропускаться")
	}
	if _, ok := view.FirstShift[model.Monday]["2"]; ok {
		t.Error("занятие другого преподавателя попало в результат")
	}
}

func TestResolveTeacher_ExactName(t *testing.T) {
	view, err := ResolveTeacher(teacherFixture(), "Иванов И.И.", "", ContainmentMatcher{})
	if err != nil {
		t.Fatalf("ResolveTeacher: %v", err)
	}
	if view.Empty() {
		t.Error("ожидались занятия")
	}
}

func TestResolveTeacher_DayFilter(t *testing.T) {
	view, err := ResolveTeacher(teacherFixture(), "Иванов И.И.", "пн", ContainmentMatcher{})
	if err != nil {
		t.Fatalf("ResolveTeacher: %v", err)
	}
	if view.FilteredByDay == nil || *view.FilteredByDay != string(model.Monday) {
		t.Errorf("FilteredByDay = %v", view.FilteredByDay)
	}
	if len(view.FirstShift) != 1 || len(view.SecondShift) != 0 {
		t.Errorf("ожидался только понедельник первой смены: %+v", view)
	}
}

func TestResolveTeacher_NoLessonsOnDay(t *testing.T) {
	_, err := ResolveTeacher(teacherFixture(), "Иванов И.И.", "суббота", ContainmentMatcher{})
	if !errors.Is(err, ErrNoLessonsOnDay) {
		t.Fatalf("ожидалось ErrNoLessonsOnDay, получено %v", err)
	}
	if !errors.Is(err, pkgerrors.ErrEmptyResult) || errors.Is(err, pkgerrors.ErrNotFound) {
		t.Error("пустой день должен быть EmptyResult, а не NotFound")
	}

	if _, err := ResolveTeacher(teacherFixture(), "Иванов И.И.", "воскресенье", ContainmentMatcher{}); !errors.Is(err, ErrNoLessonsOnDay) {
		t.Errorf("нераспознанный день: %v", err)
	}
}

func TestResolveTeacher_NotFound(t *testing.T) {
	if _, err := ResolveTeacher(teacherFixture(), "Петров П.П.", "", ContainmentMatcher{}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("ожидалось NotFound, получено %v", err)
	}
	if _, err := ResolveTeacher(nil, "Иванов", "", ContainmentMatcher{}); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("пустой набор записей должен давать NotFound, получено %v", err)
	}
}

func TestResolveTeacher_EmptyQuery(t *testing.T) {
	if _, err := ResolveTeacher(teacherFixture(), " \u200b ", "", ContainmentMatcher{}); !errors.Is(err, pkgerrors.ErrMalformedInput) {
		t.Errorf("ожидалась MalformedInput, получено %v", err)
	}
}

func TestResolveTeacher_InitialsMatcher(t *testing.T) {
	records := []model.GroupSchedule{
		groupRecord("201", nil, func(s *model.WeeklySchedule) {
			s.Days[model.Monday][1] = model.Lesson{Subject: "Алгебра", Teacher: "Иванов И.И."}
			s.Days[model.Monday][2] = model.Lesson{Subject: "Геометрия", Teacher: "Иванов А.П."}
		}),
	}
	view, err := ResolveTeacher(records, "Иванов И.", "", InitialsMatcher{})
	if err != nil {
		t.Fatalf("ResolveTeacher: %v", err)
	}
	if _, ok := view.FirstShift[model.Monday]["2"]; ok {
		t.Error("однофамилец с другими инициалами не должен совпадать")
	}
	if _, ok := view.FirstShift[model.Monday]["1"]; !ok {
		t.Error("ожидалось занятие Иванова И.И.")
	}
}

func TestResolveTeacher_InitialsMatcherCompactQuery(t *testing.T) {
	records := []model.GroupSchedule{
		groupRecord("201", nil, func(s *model.WeeklySchedule) {
			s.Days[model.Monday][1] = model.Lesson{Subject: "Алгебра", Teacher: "Иванов И.И."}
		}),
		groupRecord("202", nil, func(s *model.WeeklySchedule) {
			s.Days[model.Tuesday][1] = model.Lesson{Subject: "Физика", Teacher: "Иванов И.П."}
		}),
	}

	if _, err := ResolveTeacher(records[:1], "Иванов ИП", "", InitialsMatcher{}); !errors.Is(err, ErrTeacherNotFound) {
		t.Fatalf("запрос И.П. не должен совпадать с И.И., получено %v", err)
	}

	view, err := ResolveTeacher(records, "Иванов ИП", "", InitialsMatcher{})
	if err != nil {
		t.Fatalf("ResolveTeacher: %v", err)
	}
	if _, ok := view.FirstShift[model.Monday]; ok {
		t.Error("занятие Иванова И.И. попало в результат")
	}
	if l := view.FirstShift[model.Tuesday]["1"]; l.Group != "202" {
		t.Errorf("ожидалось занятие Иванова И.П.: %+v", l)
	}
	if view.TeacherName != "иванов ип" {
		t.Errorf("TeacherName = %q", view.TeacherName)
	}
}
