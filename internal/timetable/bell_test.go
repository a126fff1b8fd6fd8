package timetable

import (
	"errors"
	"testing"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

const bellJSON = `{
	"Понедельник": {
		"1_shift": {"0": "08:00-08:30", "1": "08:40-09:25"},
		"2_shift": {"1": "13:00-13:45"}
	},
	"вторник-четверг": {
		"1_shift": {"1": "08:30-09:15", "2": "09:25-10:10"}
	}
}`

func mustBellTable(t *testing.T, data string) BellTable {
	t.Helper()
	table, err := ParseBellTable([]byte(data))
	if err != nil {
		t.Fatalf("ParseBellTable: %v", err)
	}
	return table
}

func TestBellKey(t *testing.T) {
	cases := map[string]string{
		"вторник":     MidweekKey,
		"среда":       MidweekKey,
		"четверг":     MidweekKey,
		"понедельник": "понедельник",
		"суббота":     "суббота",
	}
	for day, want := range cases {
		if got := BellKey(day); got != want {
			t.Errorf("BellKey(%q) = %q, ожидалось %q", day, got, want)
		}
	}
}

func TestBellTable_Lookup(t *testing.T) {
	table := mustBellTable(t, bellJSON)

	if v, ok := table.Lookup("Среда", 1, "1"); !ok || v != "08:30-09:15" {
		t.Errorf("среда, 1 смена, 1 урок: (%q, %v)", v, ok)
	}
	if v, ok := table.Lookup("Понедельник", 2, "1"); !ok || v != "13:00-13:45" {
		t.Errorf("понедельник, 2 смена: (%q, %v)", v, ok)
	}
	if _, ok := table.Lookup("Среда", 2, "1"); ok {
		t.Error("для второй смены в середине недели времени нет")
	}
	if _, ok := table.Lookup("Пятница", 1, "1"); ok {
		t.Error("пятницы в таблице нет")
	}
}

func TestBellTable_LookupUnderscoreFallback(t *testing.T) {
	table := mustBellTable(t, `{"вторник_четверг": {"1_shift": {"3": "10:20-11:05"}}}`)
	if v, ok := table.Lookup("среда", 1, "3"); !ok || v != "10:20-11:05" {
		t.Errorf("ключ с подчёркиванием: (%q, %v)", v, ok)
	}
}

func TestBellTable_LookupMidweekKeyFirst(t *testing.T) {
	table := mustBellTable(t, `{
		"среда": {"1_shift": {"1": "09:00-09:40"}},
		"вторник-четверг": {"1_shift": {"1": "08:30-09:15"}}
	}`)

	if v, _ := table.Lookup("Среда", 1, "1"); v != "08:30-09:15" {
		t.Errorf("среда = %q, в основной таблице общий ключ главнее", v)
	}
	if v, _ := table.LookupOverride("Среда", 1, "1"); v != "09:00-09:40" {
		t.Errorf("среда = %q, в таблице замен ключ дня главнее", v)
	}
	if v, _ := table.LookupOverride("Четверг", 1, "1"); v != "08:30-09:15" {
		t.Errorf("четверг = %q, ожидалось время общего ключа", v)
	}
}

func TestBellTable_LookupSingleDayFallback(t *testing.T) {
	table := mustBellTable(t, `{"среда": {"1_shift": {"1": "09:00-09:40"}}}`)
	if v, ok := table.Lookup("среда", 1, "1"); !ok || v != "09:00-09:40" {
		t.Errorf("без общего ключа используется ключ дня: (%q, %v)", v, ok)
	}
	if _, ok := table.Lookup("вторник", 1, "1"); ok {
		t.Error("ключ среды не должен действовать на вторник")
	}
}

func TestApplyBellTimes_OverrideSingleMidweekDay(t *testing.T) {
	table := mustBellTable(t, `{
		"среда": {"1_shift": {"1": "09:00-09:40"}},
		"вторник-четверг": {"1_shift": {"1": "08:30-09:15"}}
	}`)
	rec := groupRecord("101", nil, func(s *model.WeeklySchedule) {
		s.Days[model.Wednesday][1] = model.Lesson{Subject: "Физика"}
	})

	full := rec
	full.Schedule = model.NewWeeklySchedule()
	full.Schedule.Days[model.Wednesday][1] = model.Lesson{Subject: "Физика"}
	ApplyBellTimes(&full, table, nil)
	if got := full.Schedule.Days[model.Wednesday][1].Time; got != "08:30-09:15" {
		t.Errorf("основная таблица: %q", got)
	}

	ApplyBellTimes(&rec, table, table.Days())
	if got := rec.Schedule.Days[model.Wednesday][1].Time; got != "09:00-09:40" {
		t.Errorf("таблица замен: %q", got)
	}
}

func TestBellTable_Days(t *testing.T) {
	table := mustBellTable(t, bellJSON)
	days := table.Days()
	want := []string{"понедельник", "вторник", "среда", "четверг"}
	if len(days) != len(want) {
		t.Fatalf("Days() = %v, ожидалось %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("Days() = %v, ожидалось %v", days, want)
		}
	}
}

func TestParseBellTable_Malformed(t *testing.T) {
	for _, data := range []string{"", "   ", "{", `{"понедельник": 5}`} {
		if _, err := ParseBellTable([]byte(data)); !errors.Is(err, pkgerrors.ErrMalformedInput) {
			t.Errorf("ParseBellTable(%q): ожидалась MalformedInput, получено %v", data, err)
		}
	}
}

func bellRecord(shift *int) *model.GroupSchedule {
	return &model.GroupSchedule{
		GroupName: "101",
		Schedule:  sampleSchedule(),
		ShiftInfo: model.ShiftInfo{Shift: shift},
	}
}

func TestApplyBellTimes(t *testing.T) {
	table := mustBellTable(t, bellJSON)
	rec := bellRecord(nil)

	if !ApplyBellTimes(rec, table, nil) {
		t.Fatal("первое применение должно изменить запись")
	}
	s := rec.Schedule
	if got := s.ZeroLesson[model.Monday].Time; got != "08:00-08:30" {
		t.Errorf("нулевой урок: %q", got)
	}
	if got := s.Days[model.Monday][1].Time; got != "08:40-09:25" {
		t.Errorf("понедельник 1: %q", got)
	}
	if got := s.Days[model.Wednesday][2].Time; got != "09:25-10:10" {
		t.Errorf("среда 2: %q", got)
	}

	if ApplyBellTimes(rec, table, nil) {
		t.Error("повторное применение той же таблицы не должно изменять запись")
	}
}

func TestApplyBellTimes_SecondShift(t *testing.T) {
	table := mustBellTable(t, bellJSON)
	two := 2
	rec := bellRecord(&two)

	ApplyBellTimes(rec, table, nil)
	if got := rec.Schedule.Days[model.Monday][1].Time; got != "13:00-13:45" {
		t.Errorf("понедельник 1, вторая смена: %q", got)
	}
	if got := rec.Schedule.Days[model.Wednesday][1].Time; got != "" {
		t.Errorf("время без записи в таблице должно остаться пустым, получено %q", got)
	}
}

func TestApplyBellTimes_OnlyDays(t *testing.T) {
	table := mustBellTable(t, bellJSON)
	rec := bellRecord(nil)

	if !ApplyBellTimes(rec, table, []string{"Среда"}) {
		t.Fatal("ожидалось изменение записи")
	}
	if got := rec.Schedule.Days[model.Monday][1].Time; got != "" {
		t.Errorf("понедельник вне ограничения, но время = %q", got)
	}
	if got := rec.Schedule.Days[model.Wednesday][1].Time; got != "08:30-09:15" {
		t.Errorf("среда 1: %q", got)
	}
}
