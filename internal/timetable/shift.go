package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"

	"college-schedule/backend/internal/model"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ShiftTable группа → смена и кабинет, загружается из group_shifts.json
type ShiftTable map[string]model.ShiftInfo

// ParseShiftTable разбирает файл смен. Значение группы: число (только смена)
// или объект {"shift": 1, "room": "204"}. Пустой файл даёт пустую таблицу.
func ParseShiftTable(data []byte) (ShiftTable, error) {
	table := make(ShiftTable)
	if len(bytes.TrimSpace(data)) == 0 {
		return table, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: файл смен: %v", pkgerrors.ErrMalformedInput, err)
	}

	for group, value := range raw {
		info, err := decodeShiftEntry(value)
		if err != nil {
			return nil, fmt.Errorf("%w: файл смен, группа %q: %v", pkgerrors.ErrMalformedInput, group, err)
		}
		table[group] = info
	}
	return table, nil
}

func decodeShiftEntry(value json.RawMessage) (model.ShiftInfo, error) {
	value = bytes.TrimSpace(value)
	var info model.ShiftInfo

	if len(value) > 0 && value[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(value, &fields); err != nil {
			return info, err
		}
		if err := json.Unmarshal(value, &info); err != nil {
			return info, err
		}
		if _, ok := fields["shift"]; !ok {
			one := 1
			info.Shift = &one
		}
		return info, nil
	}

	// голое значение: только номер смены
	wrapped := append(append([]byte(`{"shift":`), value...), '}')
	if err := json.Unmarshal(wrapped, &info); err != nil {
		return info, err
	}
	return info, nil
}

// Lookup смена группы; для отсутствующей группы: первая смена без кабинета
func (t ShiftTable) Lookup(group string) model.ShiftInfo {
	if info, ok := t[group]; ok {
		return info
	}
	return model.NewShiftInfo(1, "")
}

// ApplyRoom проставляет кабинет группы всем занятиям расписания.
// Пустой кабинет оставляет расписание без изменений.
func ApplyRoom(schedule model.WeeklySchedule, room string) model.WeeklySchedule {
	if room == "" {
		return schedule
	}
	for _, l := range schedule.ZeroLesson {
		if l != nil {
			l.Classroom = room
		}
	}
	for _, slots := range schedule.Days {
		for n, l := range slots {
			l.Classroom = room
			slots[n] = l
		}
	}
	return schedule
}
