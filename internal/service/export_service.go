package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/timetable"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ── Ошибки модуля экспорта ──

var (
	ErrCalendarEmpty      = fmt.Errorf("%w: у группы нет занятий с известным временем", pkgerrors.ErrEmptyResult)
	ErrExportGenerateFail = errors.New("не удалось сформировать файл")
)

// ExportService выгрузка расписаний в файлы.
// Результат возвращается целиком, заголовки ответа выставляет обработчик.
type ExportService interface {
	// GroupCalendar недельное расписание группы в формате iCalendar
	GroupCalendar(ctx context.Context, group string) ([]byte, string, error)
	// TeacherWorkbook расписание преподавателя в XLSX
	TeacherWorkbook(ctx context.Context, fio, day string) (*bytes.Buffer, string, error)
}

type exportService struct {
	schedules ScheduleService
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewExportService создаёт ExportService поверх ScheduleService
func NewExportService(cfg *config.Config, schedules ScheduleService, logger *zap.Logger) ExportService {
	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		logger.Warn("неизвестный часовой пояс экспорта, используется UTC",
			zap.String("timezone", cfg.Export.Timezone), zap.Error(err))
		loc = time.UTC
	}
	return &exportService{schedules: schedules, loc: loc, now: time.Now, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GroupCalendar
// ═══════════════════════════════════════════════════════════
//
// Каждое занятие: еженедельное событие, начиная с текущей недели.
// Занятия без времени "ЧЧ:ММ-ЧЧ:ММ" пропускаются.

var timeRangeRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})\s*[-–—]\s*(\d{1,2})[:.](\d{2})$`)

func (s *exportService) GroupCalendar(ctx context.Context, group string) ([]byte, string, error) {
	resp, err := s.schedules.GetByGroup(ctx, group, "")
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//college-schedule//backend//RU")
	cal.SetXWRCalName("Расписание " + resp.GroupName)
	cal.SetXWRTimezone(s.loc.String())

	monday := weekStart(s.now().In(s.loc))
	stamp := s.now().UTC()
	events := 0

	add := func(dayIdx int, slot int, l model.Lesson) {
		start, end, ok := parseTimeRange(l.Time)
		if !ok {
			return
		}
		date := monday.AddDate(0, 0, dayIdx)
		ev := cal.AddEvent(fmt.Sprintf("%s-%d-%d@college-schedule", resp.GroupName, dayIdx+1, slot))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(date.Add(start))
		ev.SetEndAt(date.Add(end))
		ev.SetSummary(l.Subject)
		if l.Teacher != "" {
			ev.SetDescription(l.Teacher)
		}
		if l.Classroom != "" {
			ev.SetLocation(l.Classroom)
		}
		ev.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
		events++
	}

	for i, day := range model.Weekdays {
		if zl := resp.Schedule.ZeroLesson[day]; zl != nil {
			add(i, 0, *zl)
		}
		slots := resp.Schedule.Days[day]
		for _, n := range sortedSlots(slots) {
			add(i, n, slots[n])
		}
	}
	if events == 0 {
		return nil, "", ErrCalendarEmpty
	}

	filename := fmt.Sprintf("schedule_%s.ics", resp.GroupName)
	return []byte(cal.Serialize()), filename, nil
}

// weekStart полночь понедельника недели t
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// parseTimeRange смещения начала и конца от полуночи
func parseTimeRange(s string) (time.Duration, time.Duration, bool) {
	m := timeRangeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	n := make([]int, 4)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	if n[0] > 23 || n[2] > 23 || n[1] > 59 || n[3] > 59 {
		return 0, 0, false
	}
	start := time.Duration(n[0])*time.Hour + time.Duration(n[1])*time.Minute
	end := time.Duration(n[2])*time.Hour + time.Duration(n[3])*time.Minute
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func sortedSlots[T any](slots map[int]T) []int {
	keys := make([]int, 0, len(slots))
	for n := range slots {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	return keys
}

// ═══════════════════════════════════════════════════════════
// TeacherWorkbook
// ═══════════════════════════════════════════════════════════
//
// Один лист, строки по сменам, затем по дням недели и номеру урока:
// | Смена | День | Урок | Время | Предмет | Группа | Кабинет |

func (s *exportService) TeacherWorkbook(ctx context.Context, fio, day string) (*bytes.Buffer, string, error) {
	view, err := s.schedules.TeacherSchedule(ctx, fio, day)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Расписание"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 6)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 36)
	f.SetColWidth(sheetName, "F", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", "Преподаватель: "+fio)
	f.MergeCell(sheetName, "A1", "G1")

	headers := []string{"Смена", "День", "Урок", "Время", "Предмет", "Группа", "Кабинет"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "G2", headerStyle)

	row := 3
	for _, part := range []struct {
		shift   int
		lessons model.ShiftLessons
	}{{1, view.FirstShift}, {2, view.SecondShift}} {
		for _, d := range model.Weekdays {
			slots := part.lessons[d]
			for _, key := range sortedSlotKeys(slots) {
				l := slots[key]
				values := []interface{}{part.shift, string(d), key, l.Time, l.Subject, l.Group, l.Classroom}
				for i, v := range values {
					f.SetCellValue(sheetName, cell(colName(i), row), v)
				}
				row++
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("запись XLSX", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("teacher_%s.xlsx", timetable.CleanName(fio))
	return buf, filename, nil
}

// sortedSlotKeys ключи "0", "1", ... в числовом порядке
func sortedSlotKeys(slots map[string]model.TeacherLesson) []string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// ── Вспомогательные функции ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
