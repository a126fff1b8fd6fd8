package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Day каноническое название дня недели, как оно пишется в заголовке таблицы
type Day string

const (
	Monday    Day = "Понедельник"
	Tuesday   Day = "Вторник"
	Wednesday Day = "Среда"
	Thursday  Day = "Четверг"
	Friday    Day = "Пятница"
	Saturday  Day = "Суббота"
)

// Weekdays шесть учебных дней в порядке недели
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Lesson одно занятие. Classroom и Time заполняются после разбора документа.
type Lesson struct {
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher"`
	Classroom string `json:"classroom"`
	Time      string `json:"time,omitempty"`
}

// WeeklySchedule недельное расписание группы.
// Нулевой урок хранится отдельно, в Days номера слотов начинаются с 1.
type WeeklySchedule struct {
	ZeroLesson map[Day]*Lesson       `json:"zero_lesson"`
	Days       map[Day]map[int]Lesson `json:"days"`
}

// NewWeeklySchedule создаёт расписание со всеми шестью днями
func NewWeeklySchedule() WeeklySchedule {
	s := WeeklySchedule{
		ZeroLesson: make(map[Day]*Lesson, len(Weekdays)),
		Days:       make(map[Day]map[int]Lesson, len(Weekdays)),
	}
	for _, d := range Weekdays {
		s.ZeroLesson[d] = nil
		s.Days[d] = make(map[int]Lesson)
	}
	return s
}

// LessonCount число занятий, включая нулевые уроки
func (s WeeklySchedule) LessonCount() int {
	n := 0
	for _, l := range s.ZeroLesson {
		if l != nil {
			n++
		}
	}
	for _, slots := range s.Days {
		n += len(slots)
	}
	return n
}

// ShiftInfo смена и кабинет группы.
// Shift == nil означает «смена не указана» и трактуется как первая.
type ShiftInfo struct {
	Shift *int   `json:"shift"`
	Room  string `json:"room,omitempty"`
}

// NewShiftInfo ShiftInfo с явно заданной сменой
func NewShiftInfo(shift int, room string) ShiftInfo {
	return ShiftInfo{Shift: &shift, Room: room}
}

// Value номер смены с учётом значения по умолчанию
func (s ShiftInfo) Value() int {
	if s.Shift == nil {
		return 1
	}
	return *s.Shift
}

// UnmarshalJSON принимает смену числом, строкой с числом или null.
// Нечисловая строка трактуется как отсутствие смены.
func (s *ShiftInfo) UnmarshalJSON(data []byte) error {
	var raw struct {
		Shift json.RawMessage `json:"shift"`
		Room  *string         `json:"room"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Shift = nil
	s.Room = ""
	if raw.Room != nil {
		s.Room = *raw.Room
	}
	shift, err := decodeShift(raw.Shift)
	if err != nil {
		return err
	}
	s.Shift = shift
	return nil
}

func decodeShift(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, fmt.Errorf("смена должна быть числом: %s", raw)
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return nil, nil
	}
	return &n, nil
}

// GroupSchedule запись расписания группы: таблица group_schedules.
// При каждой загрузке набор записей полностью заменяется.
type GroupSchedule struct {
	ID        string         `gorm:"type:varchar(36);primaryKey"                json:"id"`
	GroupName string         `gorm:"type:varchar(100);not null;uniqueIndex"     json:"group_name"`
	Schedule  WeeklySchedule `gorm:"type:jsonb;serializer:json;not null"        json:"schedule"`
	ShiftInfo ShiftInfo      `gorm:"column:shift_info;type:jsonb;serializer:json" json:"shift_info"`
	UpdatedAt time.Time      `gorm:"not null"                                   json:"updated_at"`
}

func (GroupSchedule) TableName() string { return "group_schedules" }

// BeforeCreate назначает идентификатор новой записи
func (g *GroupSchedule) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
