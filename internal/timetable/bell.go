package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ── Расписание звонков ──────────────────────────────────────
//
// Структура: ключ дня → "1_shift"|"2_shift" → номер урока → "08:30-09:15".
// Вторник, среда и четверг делят один ключ "вторник-четверг". В основной
// таблице общий ключ главнее ключа отдельного дня, в таблице замен
// наоборот: замена на среду не должна задевать вторник и четверг.
// ─────────────────────────────────────────────────────────────

// MidweekKey общий ключ звонков для вторника, среды и четверга
const MidweekKey = "вторник-четверг"

var midweekDays = []string{"вторник", "среда", "четверг"}

// BellTable расписание звонков
type BellTable map[string]map[string]map[string]string

// ParseBellTable разбирает JSON-файл звонков
func ParseBellTable(data []byte) (BellTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: пустой файл звонков", pkgerrors.ErrMalformedInput)
	}
	var raw BellTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: файл звонков: %v", pkgerrors.ErrMalformedInput, err)
	}

	table := make(BellTable, len(raw))
	for key, shifts := range raw {
		norm := strings.ToLower(strings.TrimSpace(key))
		bySlot := make(map[string]map[string]string, len(shifts))
		for shift, slots := range shifts {
			times := make(map[string]string, len(slots))
			for slot, t := range slots {
				times[strings.TrimSpace(slot)] = strings.TrimSpace(t)
			}
			bySlot[strings.TrimSpace(shift)] = times
		}
		table[norm] = bySlot
	}
	return table, nil
}

// BellKey ключ таблицы звонков для нормализованного дня
func BellKey(normalizedDay string) string {
	for _, d := range midweekDays {
		if normalizedDay == d {
			return MidweekKey
		}
	}
	return normalizedDay
}

// Lookup время урока по основной таблице. Порядок поиска ключа: общий ключ
// "вторник-четверг", его вариант с подчёркиванием, затем точный день.
func (t BellTable) Lookup(day string, shift int, slot string) (string, bool) {
	return t.lookup(day, shift, slot, false)
}

// LookupOverride время урока по таблице замен: точный день проверяется первым.
func (t BellTable) LookupOverride(day string, shift int, slot string) (string, bool) {
	return t.lookup(day, shift, slot, true)
}

func (t BellTable) lookup(day string, shift int, slot string, exactFirst bool) (string, bool) {
	shifts, ok := t.row(NormalizeDay(day), exactFirst)
	if !ok {
		return "", false
	}
	v := shifts[fmt.Sprintf("%d_shift", shift)][slot]
	return v, v != ""
}

func (t BellTable) row(day string, exactFirst bool) (map[string]map[string]string, bool) {
	key := BellKey(day)
	keys := []string{key, strings.ReplaceAll(key, "-", "_"), day}
	if exactFirst {
		keys = []string{day, key, strings.ReplaceAll(key, "-", "_")}
	}
	for _, k := range keys {
		if shifts, ok := t[k]; ok {
			return shifts, true
		}
	}
	return nil, false
}

// Days нормализованные дни, которые затрагивает таблица, в порядке недели.
// Составной ключ раскрывается в три дня.
func (t BellTable) Days() []string {
	seen := make(map[string]bool)
	for key := range t {
		if strings.ReplaceAll(key, "_", "-") == MidweekKey {
			for _, d := range midweekDays {
				seen[d] = true
			}
			continue
		}
		seen[NormalizeDay(key)] = true
	}

	days := make([]string, 0, len(seen))
	for _, d := range model.Weekdays {
		n := NormalizeDay(string(d))
		if seen[n] {
			days = append(days, n)
			delete(seen, n)
		}
	}
	rest := make([]string, 0, len(seen))
	for d := range seen {
		rest = append(rest, d)
	}
	sort.Strings(rest)
	return append(days, rest...)
}

// ApplyBellTimes проставляет время занятиям записи.
// onlyDays (нормализованные дни) ограничивает обрабатываемые дни, nil: все дни.
// Непустой onlyDays означает таблицу замен и поиск через LookupOverride.
// Возвращает true, если хотя бы у одного занятия изменилось время.
func ApplyBellTimes(rec *model.GroupSchedule, table BellTable, onlyDays []string) bool {
	var allowed map[string]bool
	if len(onlyDays) > 0 {
		allowed = make(map[string]bool, len(onlyDays))
		for _, d := range onlyDays {
			allowed[NormalizeDay(d)] = true
		}
	}
	skip := func(day model.Day) bool {
		return allowed != nil && !allowed[NormalizeDay(string(day))]
	}

	lookup := table.Lookup
	if allowed != nil {
		lookup = table.LookupOverride
	}

	shift := rec.ShiftInfo.Value()
	modified := false

	for day, l := range rec.Schedule.ZeroLesson {
		if l == nil || skip(day) {
			continue
		}
		if t, ok := lookup(string(day), shift, "0"); ok && l.Time != t {
			l.Time = t
			modified = true
		}
	}

	for day, slots := range rec.Schedule.Days {
		if skip(day) {
			continue
		}
		for n, l := range slots {
			t, ok := lookup(string(day), shift, strconv.Itoa(n))
			if !ok || l.Time == t {
				continue
			}
			l.Time = t
			slots[n] = l
			modified = true
		}
	}
	return modified
}
