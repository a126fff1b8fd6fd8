package timetable

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ── Разбор документа с расписанием ──────────────────────────
//
// Группы и таблицы в документе никак не связаны, соответствие позиционное:
//   - абзац "Расписание уроков для <X> группы" открывает группу <X>
//   - таблицы без подписей дней недели пропускаются
//   - N-я подходящая таблица относится к N-й группе
// ─────────────────────────────────────────────────────────────

var groupHeadingRe = regexp.MustCompile(`(?i)Расписание\s+уроков\s+для\s+(.+?)\s+группы`)

var (
	ErrNoGroups           = fmt.Errorf("%w: в документе нет заголовков групп", pkgerrors.ErrMalformedInput)
	ErrNoScheduleTables   = fmt.Errorf("%w: в документе нет таблиц с днями недели", pkgerrors.ErrMalformedInput)
	ErrTableCountMismatch = fmt.Errorf("%w: число таблиц не совпадает с числом групп", pkgerrors.ErrMalformedInput)
)

// ParseOptions параметры разбора
type ParseOptions struct {
	// AllowTruncation лишние таблицы отбрасываются, лишние группы остаются пустыми
	AllowTruncation bool
}

// GroupTimetable расписание одной группы, как оно извлечено из документа
type GroupTimetable struct {
	Name     string
	Schedule model.WeeklySchedule
}

// Parse извлекает расписания групп из документа в порядке заголовков
func Parse(doc Document, opts ParseOptions) ([]GroupTimetable, error) {
	groups := segmentGroups(doc.Paragraphs)
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}

	tables := make([]Table, 0, len(doc.Tables))
	for _, t := range doc.Tables {
		if t.containsWeekday() {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return nil, ErrNoScheduleTables
	}
	if len(tables) != len(groups) && !opts.AllowTruncation {
		return nil, fmt.Errorf("%w (групп %d, таблиц %d)", ErrTableCountMismatch, len(groups), len(tables))
	}

	for i := range groups {
		if i >= len(tables) {
			break
		}
		assembleTable(tables[i], &groups[i].Schedule)
	}
	return groups, nil
}

// IsMismatch true, если ошибка разбора вызвана несовпадением числа таблиц и групп
func IsMismatch(err error) bool {
	return errors.Is(err, ErrTableCountMismatch)
}

// segmentGroups находит заголовки групп. Повторный заголовок сбрасывает
// расписание группы, но сохраняет её исходную позицию.
func segmentGroups(paragraphs []string) []GroupTimetable {
	var groups []GroupTimetable
	index := make(map[string]int)

	for _, p := range paragraphs {
		text := cleanText(p)
		if text == "" {
			continue
		}
		m := groupHeadingRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			groups[i].Schedule = model.NewWeeklySchedule()
			continue
		}
		index[name] = len(groups)
		groups = append(groups, GroupTimetable{Name: name, Schedule: model.NewWeeklySchedule()})
	}
	return groups
}

// assembleTable раскладывает ячейки таблицы по дням и номерам уроков
func assembleTable(t Table, schedule *model.WeeklySchedule) {
	if len(t.Rows) == 0 {
		return
	}
	header := t.Rows[0]
	if len(header) < 2 {
		return
	}

	dayColumns := make(map[int]model.Day)
	for idx := 1; idx < len(header); idx++ {
		if d, ok := dayInText(header[idx]); ok {
			dayColumns[idx] = d
		}
	}
	if len(dayColumns) == 0 {
		return
	}

	for _, row := range t.Rows[1:] {
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(row[0])
		if !integerRe.MatchString(first) {
			continue
		}
		slot, err := strconv.Atoi(first)
		if err != nil {
			continue
		}

		for idx := 1; idx < len(row); idx++ {
			day, ok := dayColumns[idx]
			if !ok {
				continue
			}
			lesson, ok := ParseLessonCell(row[idx])
			if !ok {
				continue
			}
			if slot == 0 {
				l := lesson
				schedule.ZeroLesson[day] = &l
				continue
			}
			schedule.Days[day][slot] = lesson
		}
	}
}
